package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"outreach_admin/internal/models"
	"outreach_admin/internal/repository"
	"outreach_admin/internal/service"
)

const (
	errLoadDonations = "failed to load donations"
	errDonationGone  = "donation not found"
	errBadDateFilter = "invalid date filter; use YYYY-MM-DD"
	errBadAmount     = "amount must be a positive number like 25 or 25.50"
)

func (h *Handler) listDonations(c *gin.Context) {
	params := service.DonationParams{ListParams: listParams(c)}

	if qs := c.Query("from"); qs != "" {
		t, err := parseFormTime(qs)
		if err != nil {
			h.renderError(c, http.StatusBadRequest, errBadDateFilter)
			return
		}
		params.From = t
	}
	if qs := c.Query("to"); qs != "" {
		t, err := parseFormTime(qs)
		if err != nil {
			h.renderError(c, http.StatusBadRequest, errBadDateFilter)
			return
		}
		// Date-only "to" means end of that day, inclusive.
		if !strings.ContainsAny(qs, "T ") {
			t = t.Add(24*time.Hour - time.Nanosecond)
		}
		params.To = t
	}

	items, total, sum, err := h.services.Donations.List(c.Request.Context(), params)
	if err != nil {
		h.logAndError(c, http.StatusInternalServerError, errLoadDonations, "donations_list_failed", err)
		return
	}
	h.render(c, http.StatusOK, "donations_list", gin.H{
		"Donations":  items,
		"Total":      total,
		"SumCents":   sum,
		"Page":       pageOf(params.ListParams),
		"TotalPages": totalPages(total),
		"Q":          params.Q,
		"Sort":       params.Sort,
		"From":       c.Query("from"),
		"To":         c.Query("to"),
	})
}

func (h *Handler) newDonationForm(c *gin.Context) {
	h.render(c, http.StatusOK, "donation_form", gin.H{"Donation": models.Donation{}})
}

func (h *Handler) createDonation(c *gin.Context) {
	d, err := donationFromForm(c)
	if err != nil {
		h.render(c, http.StatusBadRequest, "donation_form", gin.H{"Donation": d, "Error": err.Error()})
		return
	}
	if _, err := h.services.Donations.Create(c.Request.Context(), d); err != nil {
		h.render(c, http.StatusBadRequest, "donation_form", gin.H{"Donation": d, "Error": err.Error()})
		return
	}
	seeOther(c, "/donations")
}

func (h *Handler) editDonationForm(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		h.renderError(c, http.StatusNotFound, errDonationGone)
		return
	}
	d, err := h.services.Donations.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			h.renderError(c, http.StatusNotFound, errDonationGone)
			return
		}
		h.logAndError(c, http.StatusInternalServerError, errLoadDonations, "donation_get_failed", err, "id", id)
		return
	}
	h.render(c, http.StatusOK, "donation_form", gin.H{"Donation": d})
}

func (h *Handler) updateDonation(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		h.renderError(c, http.StatusNotFound, errDonationGone)
		return
	}
	d, err := donationFromForm(c)
	if err != nil {
		h.render(c, http.StatusBadRequest, "donation_form", gin.H{"Donation": d, "Error": err.Error()})
		return
	}
	d.ID = id
	if err := h.services.Donations.Update(c.Request.Context(), d); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			h.renderError(c, http.StatusNotFound, errDonationGone)
			return
		}
		h.render(c, http.StatusBadRequest, "donation_form", gin.H{"Donation": d, "Error": err.Error()})
		return
	}
	seeOther(c, "/donations")
}

func (h *Handler) deleteDonation(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		h.renderError(c, http.StatusNotFound, errDonationGone)
		return
	}
	if err := h.services.Donations.Delete(c.Request.Context(), id); err != nil {
		h.logAndError(c, http.StatusInternalServerError, errGenericFailure, "donation_delete_failed", err, "id", id)
		return
	}
	seeOther(c, "/donations")
}

func donationFromForm(c *gin.Context) (models.Donation, error) {
	d := models.Donation{
		DonorName: c.PostForm("donor_name"),
		Note:      c.PostForm("note"),
	}

	cents, err := parseAmountCents(c.PostForm("amount"))
	if err != nil {
		return d, err
	}
	d.AmountCents = cents

	if v := c.PostForm("participant_id"); v != "" {
		id, err := strconv.Atoi(v)
		if err != nil {
			return d, errors.New("participant must be a numeric id")
		}
		d.ParticipantID = id
	}
	if v := c.PostForm("event_id"); v != "" {
		id, err := strconv.Atoi(v)
		if err != nil {
			return d, errors.New("event must be a numeric id")
		}
		d.EventID = id
	}
	if v := c.PostForm("donated_at"); v != "" {
		t, err := parseFormTime(v)
		if err != nil {
			return d, err
		}
		d.DonatedAt = t
	}
	return d, nil
}

// parseAmountCents converts a decimal dollar amount like "25.50" to cents
// without going through floating point.
func parseAmountCents(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, errors.New(errBadAmount)
	}
	whole, frac, _ := strings.Cut(s, ".")
	if whole == "" {
		whole = "0"
	}
	dollars, err := strconv.ParseInt(whole, 10, 64)
	if err != nil || dollars < 0 {
		return 0, errors.New(errBadAmount)
	}
	cents := dollars * 100
	if frac != "" {
		if len(frac) > 2 {
			frac = frac[:2]
		}
		for len(frac) < 2 {
			frac += "0"
		}
		f, err := strconv.ParseInt(frac, 10, 64)
		if err != nil || f < 0 {
			return 0, errors.New(errBadAmount)
		}
		cents += f
	}
	if cents == 0 {
		return 0, errors.New(errBadAmount)
	}
	return cents, nil
}
