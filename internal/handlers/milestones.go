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
	errLoadMilestones = "failed to load milestones"
	errMilestoneGone  = "milestone not found"
)

func (h *Handler) listMilestones(c *gin.Context) {
	params := listParams(c)
	items, total, err := h.services.Milestones.List(c.Request.Context(), params)
	if err != nil {
		h.logAndError(c, http.StatusInternalServerError, errLoadMilestones, "milestones_list_failed", err)
		return
	}
	h.render(c, http.StatusOK, "milestones_list", gin.H{
		"Milestones": items,
		"Total":      total,
		"Page":       pageOf(params),
		"TotalPages": totalPages(total),
		"Q":          params.Q,
	})
}

func (h *Handler) newMilestoneForm(c *gin.Context) {
	m := models.Milestone{}
	if v := c.Query("participant_id"); v != "" {
		if id, err := strconv.Atoi(v); err == nil {
			m.ParticipantID = id
		}
	}
	h.render(c, http.StatusOK, "milestone_form", gin.H{"Milestone": m})
}

func (h *Handler) createMilestone(c *gin.Context) {
	m, err := milestoneFromForm(c)
	if err != nil {
		h.render(c, http.StatusBadRequest, "milestone_form", gin.H{"Milestone": m, "Error": err.Error()})
		return
	}
	if _, err := h.services.Milestones.Create(c.Request.Context(), m); err != nil {
		h.render(c, http.StatusBadRequest, "milestone_form", gin.H{"Milestone": m, "Error": err.Error()})
		return
	}
	seeOther(c, "/participants/"+strconv.Itoa(m.ParticipantID))
}

func (h *Handler) editMilestoneForm(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		h.renderError(c, http.StatusNotFound, errMilestoneGone)
		return
	}
	m, err := h.services.Milestones.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			h.renderError(c, http.StatusNotFound, errMilestoneGone)
			return
		}
		h.logAndError(c, http.StatusInternalServerError, errLoadMilestones, "milestone_get_failed", err, "id", id)
		return
	}
	h.render(c, http.StatusOK, "milestone_form", gin.H{"Milestone": m})
}

func (h *Handler) updateMilestone(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		h.renderError(c, http.StatusNotFound, errMilestoneGone)
		return
	}
	m, err := milestoneFromForm(c)
	if err != nil {
		h.render(c, http.StatusBadRequest, "milestone_form", gin.H{"Milestone": m, "Error": err.Error()})
		return
	}
	m.ID = id
	if err := h.services.Milestones.Update(c.Request.Context(), m); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			h.renderError(c, http.StatusNotFound, errMilestoneGone)
			return
		}
		h.render(c, http.StatusBadRequest, "milestone_form", gin.H{"Milestone": m, "Error": err.Error()})
		return
	}
	seeOther(c, "/participants/"+strconv.Itoa(m.ParticipantID))
}

func (h *Handler) deleteMilestone(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		h.renderError(c, http.StatusNotFound, errMilestoneGone)
		return
	}
	if err := h.services.Milestones.Delete(c.Request.Context(), id); err != nil {
		h.logAndError(c, http.StatusInternalServerError, errGenericFailure, "milestone_delete_failed", err, "id", id)
		return
	}
	seeOther(c, "/milestones")
}

func milestoneFromForm(c *gin.Context) (models.Milestone, error) {
	m := models.Milestone{
		Title: c.PostForm("title"),
		Notes: c.PostForm("notes"),
	}
	if v := c.PostForm("participant_id"); v != "" {
		id, err := strconv.Atoi(v)
		if err != nil {
			return m, errors.New("participant must be a numeric id")
		}
		m.ParticipantID = id
	}
	if v := c.PostForm("achieved_at"); v != "" {
		t, err := parseFormTime(v)
		if err != nil {
			return m, err
		}
		m.AchievedAt = t
	}
	return m, nil
}
