package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"outreach_admin/internal/models"
	"outreach_admin/internal/repository"
	"outreach_admin/internal/service"
)

const errLoadUsers = "failed to load users"

func (h *Handler) listUsers(c *gin.Context) {
	users, err := h.services.UserAdmin.List(c.Request.Context())
	if err != nil {
		h.logAndError(c, http.StatusInternalServerError, errLoadUsers, "users_list_failed", err)
		return
	}
	h.render(c, http.StatusOK, "users_list", gin.H{
		"Users":     users,
		"InviteURL": c.Query("invite_url"),
	})
}

// addUser creates an account directly (administrative add, no invite).
func (h *Handler) addUser(c *gin.Context) {
	role, err := models.ParseRole(c.PostForm("role"))
	if err != nil {
		h.renderUsersError(c, http.StatusBadRequest, "unknown role")
		return
	}
	username := c.PostForm("username")
	_, err = h.services.Register(c.Request.Context(), username, c.PostForm("password"), role)
	switch {
	case errors.Is(err, service.ErrDuplicateUsername):
		h.renderUsersError(c, http.StatusConflict, "that username is already taken")
		return
	case errors.Is(err, service.ErrInvalidUsername), errors.Is(err, service.ErrEmptyPassword):
		h.renderUsersError(c, http.StatusBadRequest, err.Error())
		return
	case err != nil:
		h.logAndError(c, http.StatusInternalServerError, errGenericFailure, "user_add_failed", err)
		return
	}
	seeOther(c, "/admin/users")
}

func (h *Handler) changeUserRole(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		h.renderError(c, http.StatusNotFound, "user not found")
		return
	}
	role, err := models.ParseRole(c.PostForm("role"))
	if err != nil {
		h.renderUsersError(c, http.StatusBadRequest, "unknown role")
		return
	}
	switch err := h.services.UserAdmin.ChangeRole(c.Request.Context(), id, role); {
	case errors.Is(err, repository.ErrNotFound):
		h.renderError(c, http.StatusNotFound, "user not found")
		return
	case err != nil:
		h.logAndError(c, http.StatusInternalServerError, errGenericFailure, "user_role_change_failed", err, "id", id)
		return
	}
	seeOther(c, "/admin/users")
}

func (h *Handler) deleteUser(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		h.renderError(c, http.StatusNotFound, "user not found")
		return
	}
	// Deleting an account does not revoke its live sessions; those expire
	// on idle or logout.
	switch err := h.services.UserAdmin.Delete(c.Request.Context(), id); {
	case errors.Is(err, repository.ErrNotFound):
		h.renderError(c, http.StatusNotFound, "user not found")
		return
	case err != nil:
		h.logAndError(c, http.StatusInternalServerError, errGenericFailure, "user_delete_failed", err, "id", id)
		return
	}
	seeOther(c, "/admin/users")
}

// createInvite issues a registration invite link for the chosen role and
// shows it on the users screen.
func (h *Handler) createInvite(c *gin.Context) {
	role, err := models.ParseRole(c.PostForm("role"))
	if err != nil {
		h.renderUsersError(c, http.StatusBadRequest, "unknown role")
		return
	}
	token, err := h.services.Invites.Issue(role)
	if err != nil {
		h.logAndError(c, http.StatusInternalServerError, errGenericFailure, "invite_issue_failed", err)
		return
	}
	seeOther(c, "/admin/users?invite_url=/register%3Finvite%3D"+token)
}

// renderUsersError redraws the users screen with an inline error, keeping
// the manager on the page they were working in.
func (h *Handler) renderUsersError(c *gin.Context, code int, msg string) {
	users, err := h.services.UserAdmin.List(c.Request.Context())
	if err != nil {
		h.logAndError(c, http.StatusInternalServerError, errLoadUsers, "users_list_failed", err)
		return
	}
	h.render(c, code, "users_list", gin.H{"Users": users, "Error": msg})
}
