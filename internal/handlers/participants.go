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
	errLoadParticipants = "failed to load participants"
	errParticipantGone  = "participant not found"
)

func (h *Handler) listParticipants(c *gin.Context) {
	params := listParams(c)
	items, total, err := h.services.Participants.List(c.Request.Context(), params)
	if err != nil {
		h.logAndError(c, http.StatusInternalServerError, errLoadParticipants, "participants_list_failed", err)
		return
	}
	h.render(c, http.StatusOK, "participants_list", gin.H{
		"Participants": items,
		"Total":        total,
		"Page":         pageOf(params),
		"TotalPages":   totalPages(total),
		"Q":            params.Q,
		"Sort":         params.Sort,
	})
}

func (h *Handler) newParticipantForm(c *gin.Context) {
	h.render(c, http.StatusOK, "participant_form", gin.H{"Participant": models.Participant{}})
}

func (h *Handler) createParticipant(c *gin.Context) {
	p, err := participantFromForm(c)
	if err != nil {
		h.render(c, http.StatusBadRequest, "participant_form", gin.H{"Participant": p, "Error": err.Error()})
		return
	}
	id, err := h.services.Participants.Create(c.Request.Context(), p)
	if err != nil {
		h.render(c, http.StatusBadRequest, "participant_form", gin.H{"Participant": p, "Error": err.Error()})
		return
	}
	seeOther(c, "/participants/"+strconv.Itoa(id))
}

// showParticipant renders the detail page with milestones and survey scores.
func (h *Handler) showParticipant(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		h.renderError(c, http.StatusNotFound, errParticipantGone)
		return
	}
	ctx := c.Request.Context()

	p, err := h.services.Participants.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			h.renderError(c, http.StatusNotFound, errParticipantGone)
			return
		}
		h.logAndError(c, http.StatusInternalServerError, errLoadParticipants, "participant_get_failed", err, "id", id)
		return
	}

	milestones, err := h.services.Milestones.ListByParticipant(ctx, id)
	if err != nil {
		h.logAndError(c, http.StatusInternalServerError, errLoadParticipants, "participant_milestones_failed", err, "id", id)
		return
	}
	scores, err := h.services.Surveys.ParticipantScores(ctx, id)
	if err != nil {
		h.logAndError(c, http.StatusInternalServerError, errLoadParticipants, "participant_scores_failed", err, "id", id)
		return
	}

	h.render(c, http.StatusOK, "participant_show", gin.H{
		"Participant": p,
		"Milestones":  milestones,
		"Scores":      scores,
	})
}

func (h *Handler) editParticipantForm(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		h.renderError(c, http.StatusNotFound, errParticipantGone)
		return
	}
	p, err := h.services.Participants.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			h.renderError(c, http.StatusNotFound, errParticipantGone)
			return
		}
		h.logAndError(c, http.StatusInternalServerError, errLoadParticipants, "participant_get_failed", err, "id", id)
		return
	}
	h.render(c, http.StatusOK, "participant_form", gin.H{"Participant": p})
}

func (h *Handler) updateParticipant(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		h.renderError(c, http.StatusNotFound, errParticipantGone)
		return
	}
	p, err := participantFromForm(c)
	if err != nil {
		h.render(c, http.StatusBadRequest, "participant_form", gin.H{"Participant": p, "Error": err.Error()})
		return
	}
	p.ID = id
	if err := h.services.Participants.Update(c.Request.Context(), p); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			h.renderError(c, http.StatusNotFound, errParticipantGone)
			return
		}
		h.render(c, http.StatusBadRequest, "participant_form", gin.H{"Participant": p, "Error": err.Error()})
		return
	}
	seeOther(c, "/participants/"+strconv.Itoa(id))
}

func (h *Handler) deleteParticipant(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		h.renderError(c, http.StatusNotFound, errParticipantGone)
		return
	}
	if err := h.services.Participants.Delete(c.Request.Context(), id); err != nil {
		h.logAndError(c, http.StatusInternalServerError, errGenericFailure, "participant_delete_failed", err, "id", id)
		return
	}
	seeOther(c, "/participants")
}

func participantFromForm(c *gin.Context) (models.Participant, error) {
	p := models.Participant{
		Name:  c.PostForm("name"),
		Email: c.PostForm("email"),
		Phone: c.PostForm("phone"),
		Notes: c.PostForm("notes"),
	}
	if v := c.PostForm("joined_at"); v != "" {
		t, err := parseFormTime(v)
		if err != nil {
			return p, err
		}
		p.JoinedAt = t
	}
	return p, nil
}
