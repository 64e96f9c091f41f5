package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"outreach_admin/internal/logger"
	"outreach_admin/internal/models"
	"outreach_admin/internal/service"
	"outreach_admin/internal/session"
)

// newGateRouter wires only the gate middlewares plus marker endpoints.
func newGateRouter(h *Handler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.SetHTMLTemplate(loadTemplates())
	r.GET("/secure", h.requireAuth, func(c *gin.Context) {
		u, _ := currentUser(c)
		c.String(http.StatusOK, "hello "+u.Username)
	})
	r.GET("/managers-only", h.requireRole(models.RoleManager), func(c *gin.Context) {
		c.String(http.StatusOK, "manager area")
	})
	return r
}

func newTestHandler(t *testing.T) (*Handler, *session.Store) {
	t.Helper()
	sessions := session.NewStore(time.Hour)
	h := NewHandler(&service.Service{}, sessions, logger.Get(logger.ErrorLevel), Options{})
	return h, sessions
}

func loginAs(sessions *session.Store, role models.Role) *http.Cookie {
	token := sessions.Create(models.SessionUser{ID: 1, Username: "alice", Role: role})
	return &http.Cookie{Name: sessionCookieName, Value: token}
}

func TestRequireAuth_NoSessionRedirectsToLogin(t *testing.T) {
	h, _ := newTestHandler(t)
	r := newGateRouter(h)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/secure", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusSeeOther {
		t.Fatalf("expected 303 redirect, got %d", w.Code)
	}
	if loc := w.Header().Get("Location"); loc != loginPath {
		t.Fatalf("expected redirect to %s, got %s", loginPath, loc)
	}
}

func TestRequireAuth_UnknownTokenRedirects(t *testing.T) {
	h, _ := newTestHandler(t)
	r := newGateRouter(h)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/secure", nil)
	req.AddCookie(&http.Cookie{Name: sessionCookieName, Value: "stale-token"})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusSeeOther {
		t.Fatalf("expected 303 redirect for unknown token, got %d", w.Code)
	}
}

func TestRequireAuth_ValidSessionPassesThrough(t *testing.T) {
	h, sessions := newTestHandler(t)
	r := newGateRouter(h)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/secure", nil)
	req.AddCookie(loginAs(sessions, models.RoleMember))
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "hello alice") {
		t.Fatalf("handler did not see the session user: %q", w.Body.String())
	}
}

func TestRequireRole_UnauthenticatedGetsRedirectNotForbidden(t *testing.T) {
	h, _ := newTestHandler(t)
	r := newGateRouter(h)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/managers-only", nil)
	r.ServeHTTP(w, req)

	// the auth check runs first: no session means login redirect, never 403
	if w.Code != http.StatusSeeOther {
		t.Fatalf("expected 303 redirect, got %d", w.Code)
	}
	if loc := w.Header().Get("Location"); loc != loginPath {
		t.Fatalf("expected redirect to %s, got %s", loginPath, loc)
	}
}

func TestRequireRole_MemberGetsForbiddenPage(t *testing.T) {
	h, sessions := newTestHandler(t)
	r := newGateRouter(h)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/managers-only", nil)
	req.AddCookie(loginAs(sessions, models.RoleMember))
	r.ServeHTTP(w, req)

	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", w.Code)
	}
	if loc := w.Header().Get("Location"); loc != "" {
		t.Fatalf("forbidden must not redirect, got Location %s", loc)
	}
	if !strings.Contains(w.Body.String(), "Forbidden") {
		t.Fatalf("expected forbidden page, got %q", w.Body.String())
	}
}

func TestRequireRole_ManagerPassesThrough(t *testing.T) {
	h, sessions := newTestHandler(t)
	r := newGateRouter(h)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/managers-only", nil)
	req.AddCookie(loginAs(sessions, models.RoleManager))
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
}

func TestRoleAllowed_FailsClosedOnUnknownRole(t *testing.T) {
	if roleAllowed(models.Role("superadmin"), []models.Role{models.RoleManager, models.RoleMember}) {
		t.Fatal("unknown role must never be allowed")
	}
}
