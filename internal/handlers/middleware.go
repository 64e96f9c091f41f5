package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"outreach_admin/internal/models"
)

const (
	// sessionCookieName carries the opaque session token.
	sessionCookieName = "oa_session"
	// userContextKey holds the session user snapshot in the request context.
	userContextKey = "sessionUser"

	loginPath = "/login"
)

// sessionUser resolves the logged-in user from the request's session cookie.
// A missing cookie or an unknown/expired token is a normal state, not an
// error; the second return reports presence.
func (h *Handler) sessionUser(c *gin.Context) (models.SessionUser, bool) {
	token, err := c.Cookie(sessionCookieName)
	if err != nil || token == "" {
		return models.SessionUser{}, false
	}
	return h.sessions.Get(token)
}

// requireAuth redirects to the login page when no session user is present;
// otherwise it threads the snapshot into the request context.
func (h *Handler) requireAuth(c *gin.Context) {
	user, ok := h.sessionUser(c)
	if !ok {
		c.Redirect(http.StatusSeeOther, loginPath)
		c.Abort()
		return
	}
	c.Set(userContextKey, user)
	c.Next()
}

// requireRole builds a middleware that admits only the allowed roles. The
// authentication check always runs first: an unauthenticated request gets a
// login redirect, never the forbidden page. An authenticated user outside
// the allowed set gets a distinct 403 page, never a redirect.
func (h *Handler) requireRole(allowed ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := h.sessionUser(c)
		if !ok {
			c.Redirect(http.StatusSeeOther, loginPath)
			c.Abort()
			return
		}
		if !roleAllowed(user.Role, allowed) {
			c.Set(userContextKey, user) // forbidden page still shows who is logged in
			h.render(c, http.StatusForbidden, "forbidden", gin.H{})
			c.Abort()
			return
		}
		c.Set(userContextKey, user)
		c.Next()
	}
}

// roleAllowed reports whether role belongs to the allowed set. The switch is
// exhaustive over the closed role set so a new role fails closed here until
// a policy is written for it.
func roleAllowed(role models.Role, allowed []models.Role) bool {
	switch role {
	case models.RoleManager, models.RoleMember:
		for _, a := range allowed {
			if role == a {
				return true
			}
		}
		return false
	default:
		return false
	}
}

// currentUser fetches the snapshot placed by the gate middleware.
func currentUser(c *gin.Context) (models.SessionUser, bool) {
	v, ok := c.Get(userContextKey)
	if !ok {
		return models.SessionUser{}, false
	}
	user, ok := v.(models.SessionUser)
	return user, ok
}
