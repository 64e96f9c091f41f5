package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"outreach_admin/internal/models"
	"outreach_admin/internal/repository"
)

const (
	errLoadSurveys = "failed to load surveys"
	errSurveyGone  = "survey not found"
)

func (h *Handler) listSurveys(c *gin.Context) {
	params := listParams(c)
	items, total, err := h.services.Surveys.List(c.Request.Context(), params)
	if err != nil {
		h.logAndError(c, http.StatusInternalServerError, errLoadSurveys, "surveys_list_failed", err)
		return
	}
	h.render(c, http.StatusOK, "surveys_list", gin.H{
		"Surveys":    items,
		"Total":      total,
		"Page":       pageOf(params),
		"TotalPages": totalPages(total),
		"Q":          params.Q,
	})
}

func (h *Handler) newSurveyForm(c *gin.Context) {
	h.render(c, http.StatusOK, "survey_form", gin.H{"Survey": models.Survey{}})
}

func (h *Handler) createSurvey(c *gin.Context) {
	s := models.Survey{
		Title:       c.PostForm("title"),
		Description: c.PostForm("description"),
	}
	id, err := h.services.Surveys.Create(c.Request.Context(), s)
	if err != nil {
		h.render(c, http.StatusBadRequest, "survey_form", gin.H{"Survey": s, "Error": err.Error()})
		return
	}
	seeOther(c, "/surveys/"+strconv.Itoa(id))
}

// showSurvey renders the detail page: questions, responses, and their
// weighted scores.
func (h *Handler) showSurvey(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		h.renderError(c, http.StatusNotFound, errSurveyGone)
		return
	}
	ctx := c.Request.Context()

	s, err := h.services.Surveys.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			h.renderError(c, http.StatusNotFound, errSurveyGone)
			return
		}
		h.logAndError(c, http.StatusInternalServerError, errLoadSurveys, "survey_get_failed", err, "id", id)
		return
	}
	questions, err := h.services.Surveys.Questions(ctx, id)
	if err != nil {
		h.logAndError(c, http.StatusInternalServerError, errLoadSurveys, "survey_questions_failed", err, "id", id)
		return
	}
	scores, err := h.services.Surveys.ResponseScores(ctx, id)
	if err != nil {
		h.logAndError(c, http.StatusInternalServerError, errLoadSurveys, "survey_scores_failed", err, "id", id)
		return
	}

	var average float64
	if len(scores) > 0 {
		for _, rs := range scores {
			average += rs.Score
		}
		average /= float64(len(scores))
	}

	h.render(c, http.StatusOK, "survey_show", gin.H{
		"Survey":    s,
		"Questions": questions,
		"Scores":    scores,
		"Average":   average,
	})
}

func (h *Handler) updateSurvey(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		h.renderError(c, http.StatusNotFound, errSurveyGone)
		return
	}
	s := models.Survey{
		ID:          id,
		Title:       c.PostForm("title"),
		Description: c.PostForm("description"),
	}
	if err := h.services.Surveys.Update(c.Request.Context(), s); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			h.renderError(c, http.StatusNotFound, errSurveyGone)
			return
		}
		h.render(c, http.StatusBadRequest, "survey_form", gin.H{"Survey": s, "Error": err.Error()})
		return
	}
	seeOther(c, "/surveys/"+strconv.Itoa(id))
}

func (h *Handler) deleteSurvey(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		h.renderError(c, http.StatusNotFound, errSurveyGone)
		return
	}
	if err := h.services.Surveys.Delete(c.Request.Context(), id); err != nil {
		h.logAndError(c, http.StatusInternalServerError, errGenericFailure, "survey_delete_failed", err, "id", id)
		return
	}
	seeOther(c, "/surveys")
}

func (h *Handler) addSurveyQuestion(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		h.renderError(c, http.StatusNotFound, errSurveyGone)
		return
	}
	q := models.SurveyQuestion{
		SurveyID: id,
		Prompt:   c.PostForm("prompt"),
		Weight:   1,
	}
	if v := c.PostForm("weight"); v != "" {
		w, err := strconv.ParseFloat(v, 64)
		if err != nil {
			h.renderError(c, http.StatusBadRequest, "weight must be a number")
			return
		}
		q.Weight = w
	}
	if _, err := h.services.Surveys.AddQuestion(c.Request.Context(), q); err != nil {
		h.renderError(c, http.StatusBadRequest, err.Error())
		return
	}
	seeOther(c, "/surveys/"+strconv.Itoa(id))
}

func (h *Handler) deleteSurveyQuestion(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		h.renderError(c, http.StatusNotFound, errSurveyGone)
		return
	}
	qid, ok := pathID(c, "qid")
	if !ok {
		h.renderError(c, http.StatusNotFound, "question not found")
		return
	}
	if err := h.services.Surveys.DeleteQuestion(c.Request.Context(), qid); err != nil {
		h.logAndError(c, http.StatusInternalServerError, errGenericFailure, "question_delete_failed", err, "id", qid)
		return
	}
	seeOther(c, "/surveys/"+strconv.Itoa(id))
}

// submitSurveyResponse reads form fields named score_<questionID>.
func (h *Handler) submitSurveyResponse(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		h.renderError(c, http.StatusNotFound, errSurveyGone)
		return
	}
	participantID, err := strconv.Atoi(c.PostForm("participant_id"))
	if err != nil || participantID <= 0 {
		h.renderError(c, http.StatusBadRequest, "participant is required")
		return
	}

	scores := make(map[int]float64)
	if err := c.Request.ParseForm(); err != nil {
		h.renderError(c, http.StatusBadRequest, "malformed form")
		return
	}
	for key, values := range c.Request.PostForm {
		qidStr, found := strings.CutPrefix(key, "score_")
		if !found || len(values) == 0 {
			continue
		}
		qid, err := strconv.Atoi(qidStr)
		if err != nil {
			continue
		}
		score, err := strconv.ParseFloat(values[0], 64)
		if err != nil {
			h.renderError(c, http.StatusBadRequest, "scores must be numbers")
			return
		}
		scores[qid] = score
	}

	if _, err := h.services.Surveys.SubmitResponse(c.Request.Context(), id, participantID, scores); err != nil {
		h.renderError(c, http.StatusBadRequest, err.Error())
		return
	}
	seeOther(c, "/surveys/"+strconv.Itoa(id))
}
