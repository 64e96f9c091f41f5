package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"outreach_admin/internal/service"
)

// User-visible auth messages. NotFound and Mismatch are deliberately
// indistinguishable so a response never reveals which part was wrong.
const (
	errInvalidCredentials = "invalid username or password"
	errTooManyAttempts    = "too many login attempts, try again shortly"
	errInvalidInviteMsg   = "this invite link is invalid or has expired"
)

func (h *Handler) loginForm(c *gin.Context) {
	if _, ok := h.sessionUser(c); ok {
		seeOther(c, "/")
		return
	}
	h.render(c, http.StatusOK, "login", gin.H{})
}

func (h *Handler) login(c *gin.Context) {
	if !h.loginLimiter.allow(c.ClientIP()) {
		loginThrottled.Inc()
		h.render(c, http.StatusTooManyRequests, "login", gin.H{"Error": errTooManyAttempts})
		return
	}

	username := c.PostForm("username")
	password := c.PostForm("password")
	if username == "" || password == "" {
		h.render(c, http.StatusBadRequest, "login", gin.H{"Error": errInvalidCredentials})
		return
	}

	user, err := h.services.Verify(c.Request.Context(), username, password)
	switch {
	case errors.Is(err, service.ErrUserNotFound), errors.Is(err, service.ErrInvalidPassword):
		if h.log != nil {
			h.log.Infow("login_failed", "username", username)
		}
		h.render(c, http.StatusUnauthorized, "login", gin.H{"Error": errInvalidCredentials})
		return
	case err != nil:
		if h.log != nil {
			h.log.Errorw("login_storage_error", "err", err)
		}
		h.render(c, http.StatusInternalServerError, "login", gin.H{"Error": errGenericFailure})
		return
	}

	token := h.sessions.Create(user)
	h.setSessionCookie(c, token)
	seeOther(c, "/")
}

func (h *Handler) logout(c *gin.Context) {
	if token, err := c.Cookie(sessionCookieName); err == nil {
		h.sessions.Destroy(token)
	}
	h.clearSessionCookie(c)
	seeOther(c, loginPath)
}

func (h *Handler) registerForm(c *gin.Context) {
	invite := c.Query("invite")
	if _, err := h.services.Invites.Parse(invite); err != nil {
		h.renderError(c, http.StatusBadRequest, errInvalidInviteMsg)
		return
	}
	h.render(c, http.StatusOK, "register", gin.H{"Invite": invite})
}

func (h *Handler) register(c *gin.Context) {
	invite := c.PostForm("invite")
	role, err := h.services.Invites.Parse(invite)
	if err != nil {
		h.renderError(c, http.StatusBadRequest, errInvalidInviteMsg)
		return
	}

	username := c.PostForm("username")
	password := c.PostForm("password")
	_, err = h.services.Register(c.Request.Context(), username, password, role)
	switch {
	case errors.Is(err, service.ErrDuplicateUsername):
		h.render(c, http.StatusConflict, "register", gin.H{
			"Invite":   invite,
			"Error":    "that username is already taken",
			"Username": username,
		})
		return
	case errors.Is(err, service.ErrInvalidUsername), errors.Is(err, service.ErrEmptyPassword):
		h.render(c, http.StatusBadRequest, "register", gin.H{
			"Invite":   invite,
			"Error":    err.Error(),
			"Username": username,
		})
		return
	case err != nil:
		h.logAndError(c, http.StatusInternalServerError, errGenericFailure, "register_failed", err)
		return
	}
	seeOther(c, loginPath)
}

// setSessionCookie attaches the opaque session token: HttpOnly, SameSite
// Lax, Secure in production. Expiry is enforced server-side by the store.
func (h *Handler) setSessionCookie(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(sessionCookieName, token, 0, "/", "", h.secureCookies, true)
}

func (h *Handler) clearSessionCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(sessionCookieName, "", -1, "/", "", h.secureCookies, true)
}
