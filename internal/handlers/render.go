package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const (
	errGenericFailure = "something went wrong, please try again"
)

// render draws a page template, attaching the session user (when present)
// so the navigation can show who is logged in.
func (h *Handler) render(c *gin.Context, code int, name string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	if user, ok := currentUser(c); ok {
		data["User"] = user
	}
	c.HTML(code, name, data)
}

// renderError draws the generic error page with a user-safe message.
func (h *Handler) renderError(c *gin.Context, code int, userMsg string) {
	h.render(c, code, "error", gin.H{"Message": userMsg})
}

// logAndError logs the real error and shows the user a safe message,
// leaking no internal detail.
func (h *Handler) logAndError(c *gin.Context, code int, userMsg, logKey string, err error, kv ...interface{}) {
	if h.log != nil && err != nil {
		fields := append([]interface{}{"err", err}, kv...)
		h.log.Errorw(logKey, fields...)
	}
	h.renderError(c, code, userMsg)
}

// seeOther is the post-redirect-get hop after a successful form post.
func seeOther(c *gin.Context, location string) {
	c.Redirect(http.StatusSeeOther, location)
}
