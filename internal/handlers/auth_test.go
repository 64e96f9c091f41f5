package handlers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"outreach_admin/internal/logger"
	"outreach_admin/internal/models"
	"outreach_admin/internal/service"
	"outreach_admin/internal/session"
)

func newAuthRouter(t *testing.T, svc *service.Service) (*gin.Engine, *Handler) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	sessions := session.NewStore(time.Hour)
	h := NewHandler(svc, sessions, logger.Get(logger.ErrorLevel), Options{})
	r := gin.New()
	r.SetHTMLTemplate(loadTemplates())
	h.registerAuthRoutes(r)
	return r, h
}

func postForm(r *gin.Engine, path string, form url.Values, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	r.ServeHTTP(w, req)
	return w
}

func sessionCookieFrom(t *testing.T, w *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range w.Result().Cookies() {
		if c.Name == sessionCookieName {
			return c
		}
	}
	return nil
}

func TestLogin_SuccessSetsCookieAndRedirects(t *testing.T) {
	auth := &mockAuthorization{
		verifyUser: models.SessionUser{ID: 7, Username: "alice", Role: models.RoleMember},
	}
	r, h := newAuthRouter(t, &service.Service{Authorization: auth})

	w := postForm(r, "/login", url.Values{"username": {"alice"}, "password": {"s3cr3t"}})

	if w.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", w.Code)
	}
	if loc := w.Header().Get("Location"); loc != "/" {
		t.Fatalf("expected redirect to /, got %s", loc)
	}

	cookie := sessionCookieFrom(t, w)
	if cookie == nil {
		t.Fatal("expected session cookie to be set")
	}
	if !cookie.HttpOnly {
		t.Error("session cookie must be HttpOnly")
	}
	if user, ok := h.sessions.Get(cookie.Value); !ok || user.Username != "alice" {
		t.Fatalf("cookie token does not resolve to the logged-in user: %+v ok=%v", user, ok)
	}
	if auth.lastVerifyUsername != "alice" || auth.lastVerifyPassword != "s3cr3t" {
		t.Fatalf("Verify called with %q/%q", auth.lastVerifyUsername, auth.lastVerifyPassword)
	}
}

func TestLogin_FailureMessageIsIdenticalForBothCauses(t *testing.T) {
	bodies := make([]string, 0, 2)
	for _, verifyErr := range []error{service.ErrUserNotFound, service.ErrInvalidPassword} {
		auth := &mockAuthorization{verifyErr: verifyErr}
		r, _ := newAuthRouter(t, &service.Service{Authorization: auth})

		w := postForm(r, "/login", url.Values{"username": {"alice"}, "password": {"bad"}})

		if w.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401 for %v, got %d", verifyErr, w.Code)
		}
		if !strings.Contains(w.Body.String(), errInvalidCredentials) {
			t.Fatalf("expected the generic credentials message for %v", verifyErr)
		}
		if sessionCookieFrom(t, w) != nil {
			t.Fatalf("failed login must not set a session cookie")
		}
		bodies = append(bodies, w.Body.String())
	}
	// unknown username and wrong password must be indistinguishable
	if bodies[0] != bodies[1] {
		t.Fatal("response bodies differ between unknown-user and wrong-password")
	}
}

func TestLogin_StorageErrorShowsGenericFailure(t *testing.T) {
	auth := &mockAuthorization{verifyErr: errors.New("disk exploded")}
	r, _ := newAuthRouter(t, &service.Service{Authorization: auth})

	w := postForm(r, "/login", url.Values{"username": {"alice"}, "password": {"pw"}})

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}
	if strings.Contains(w.Body.String(), "disk exploded") {
		t.Fatal("internal error detail leaked to the page")
	}
	if !strings.Contains(w.Body.String(), errGenericFailure) {
		t.Fatal("expected the generic failure message")
	}
}

func TestLogin_MissingFieldsRejectedWithoutVerify(t *testing.T) {
	auth := &mockAuthorization{}
	r, _ := newAuthRouter(t, &service.Service{Authorization: auth})

	w := postForm(r, "/login", url.Values{"username": {"alice"}})

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	if auth.verifyCalls != 0 {
		t.Fatal("Verify must not run on an incomplete form")
	}
}

func TestLogout_DestroysSessionAndClearsCookie(t *testing.T) {
	r, h := newAuthRouter(t, &service.Service{})
	token := h.sessions.Create(models.SessionUser{ID: 7, Username: "alice", Role: models.RoleMember})

	w := postForm(r, "/logout", url.Values{}, &http.Cookie{Name: sessionCookieName, Value: token})

	if w.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", w.Code)
	}
	if loc := w.Header().Get("Location"); loc != loginPath {
		t.Fatalf("expected redirect to %s, got %s", loginPath, loc)
	}
	if _, ok := h.sessions.Get(token); ok {
		t.Fatal("logout did not destroy the session")
	}
	cookie := sessionCookieFrom(t, w)
	if cookie == nil || cookie.MaxAge >= 0 {
		t.Fatalf("expected an expiring cookie, got %+v", cookie)
	}
}

func TestRegister_InviteGrantsRole(t *testing.T) {
	auth := &mockAuthorization{registerID: 5}
	invites := &mockInvites{parseRole: models.RoleManager}
	r, _ := newAuthRouter(t, &service.Service{Authorization: auth, Invites: invites})

	w := postForm(r, "/register", url.Values{
		"invite":   {"signed-token"},
		"username": {"carol"},
		"password": {"pw123"},
	})

	if w.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d: %s", w.Code, w.Body.String())
	}
	if invites.lastParseToken != "signed-token" {
		t.Fatalf("invite token not parsed, got %q", invites.lastParseToken)
	}
	if auth.lastRegisterRole != models.RoleManager {
		t.Fatalf("expected role from invite, got %q", auth.lastRegisterRole)
	}
}

func TestRegister_BadInviteRejected(t *testing.T) {
	auth := &mockAuthorization{}
	invites := &mockInvites{parseErr: service.ErrInvalidInvite}
	r, _ := newAuthRouter(t, &service.Service{Authorization: auth, Invites: invites})

	w := postForm(r, "/register", url.Values{
		"invite":   {"tampered"},
		"username": {"carol"},
		"password": {"pw123"},
	})

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	if auth.registerCalls != 0 {
		t.Fatal("Register must not run with an invalid invite")
	}
}

func TestRegister_DuplicateUsernameKeepsForm(t *testing.T) {
	auth := &mockAuthorization{registerErr: service.ErrDuplicateUsername}
	invites := &mockInvites{parseRole: models.RoleMember}
	r, _ := newAuthRouter(t, &service.Service{Authorization: auth, Invites: invites})

	w := postForm(r, "/register", url.Values{
		"invite":   {"signed-token"},
		"username": {"carol"},
		"password": {"pw123"},
	})

	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "already taken") {
		t.Fatalf("expected duplicate message, got %q", w.Body.String())
	}
	// the form keeps what the user typed
	if !strings.Contains(w.Body.String(), "carol") {
		t.Fatal("expected the username to be re-rendered in the form")
	}
}
