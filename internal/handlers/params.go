package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"outreach_admin/internal/service"
)

// listParams pulls the common q/sort/page query parameters.
func listParams(c *gin.Context) service.ListParams {
	page, _ := strconv.Atoi(c.Query("page"))
	return service.ListParams{
		Q:    c.Query("q"),
		Sort: c.Query("sort"),
		Page: page,
	}
}

// pageOf normalizes a 1-based page number for display.
func pageOf(p service.ListParams) int {
	if p.Page < 1 {
		return 1
	}
	return p.Page
}

// totalPages computes the page count for the default page size.
func totalPages(total int) int {
	pages := (total + service.DefaultPerPage - 1) / service.DefaultPerPage
	if pages < 1 {
		return 1
	}
	return pages
}

// pathID parses the :id route parameter; ok is false when it is not a
// positive integer.
func pathID(c *gin.Context, name string) (int, bool) {
	id, err := strconv.Atoi(c.Param(name))
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
