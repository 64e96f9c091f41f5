package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"outreach_admin/internal/models"
	"outreach_admin/internal/repository"
)

const (
	errLoadEvents = "failed to load events"
	errEventGone  = "event not found"
)

func (h *Handler) listEvents(c *gin.Context) {
	params := listParams(c)
	items, total, err := h.services.Events.List(c.Request.Context(), params)
	if err != nil {
		h.logAndError(c, http.StatusInternalServerError, errLoadEvents, "events_list_failed", err)
		return
	}
	h.render(c, http.StatusOK, "events_list", gin.H{
		"Events":     items,
		"Total":      total,
		"Page":       pageOf(params),
		"TotalPages": totalPages(total),
		"Q":          params.Q,
		"Sort":       params.Sort,
	})
}

func (h *Handler) newEventForm(c *gin.Context) {
	h.render(c, http.StatusOK, "event_form", gin.H{"Event": models.Event{}})
}

func (h *Handler) createEvent(c *gin.Context) {
	e, err := eventFromForm(c)
	if err != nil {
		h.render(c, http.StatusBadRequest, "event_form", gin.H{"Event": e, "Error": err.Error()})
		return
	}
	if _, err := h.services.Events.Create(c.Request.Context(), e); err != nil {
		h.render(c, http.StatusBadRequest, "event_form", gin.H{"Event": e, "Error": err.Error()})
		return
	}
	seeOther(c, "/events")
}

func (h *Handler) editEventForm(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		h.renderError(c, http.StatusNotFound, errEventGone)
		return
	}
	e, err := h.services.Events.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			h.renderError(c, http.StatusNotFound, errEventGone)
			return
		}
		h.logAndError(c, http.StatusInternalServerError, errLoadEvents, "event_get_failed", err, "id", id)
		return
	}
	h.render(c, http.StatusOK, "event_form", gin.H{"Event": e})
}

func (h *Handler) updateEvent(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		h.renderError(c, http.StatusNotFound, errEventGone)
		return
	}
	e, err := eventFromForm(c)
	if err != nil {
		h.render(c, http.StatusBadRequest, "event_form", gin.H{"Event": e, "Error": err.Error()})
		return
	}
	e.ID = id
	if err := h.services.Events.Update(c.Request.Context(), e); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			h.renderError(c, http.StatusNotFound, errEventGone)
			return
		}
		h.render(c, http.StatusBadRequest, "event_form", gin.H{"Event": e, "Error": err.Error()})
		return
	}
	seeOther(c, "/events")
}

func (h *Handler) deleteEvent(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		h.renderError(c, http.StatusNotFound, errEventGone)
		return
	}
	if err := h.services.Events.Delete(c.Request.Context(), id); err != nil {
		h.logAndError(c, http.StatusInternalServerError, errGenericFailure, "event_delete_failed", err, "id", id)
		return
	}
	seeOther(c, "/events")
}

func eventFromForm(c *gin.Context) (models.Event, error) {
	e := models.Event{
		Title:       c.PostForm("title"),
		Location:    c.PostForm("location"),
		Description: c.PostForm("description"),
	}
	if v := c.PostForm("capacity"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return e, errors.New("capacity must be a number")
		}
		e.Capacity = n
	}
	if v := c.PostForm("starts_at"); v != "" {
		t, err := parseFormTime(v)
		if err != nil {
			return e, err
		}
		e.StartsAt = t
	}
	return e, nil
}
