package login_test

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	uierrors "github.com/dalemusser/contacthub/internal/app/features/errors"
	"github.com/dalemusser/contacthub/internal/app/features/login"
	"github.com/dalemusser/contacthub/internal/app/system/auditlog"
	"github.com/dalemusser/contacthub/internal/app/system/auth"
	"github.com/dalemusser/contacthub/internal/app/system/ratelimit"
	"github.com/dalemusser/contacthub/internal/domain/models"
	"github.com/dalemusser/contacthub/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const sessionName = "test-session"

func newTestHandler(t *testing.T, limiter *ratelimit.LoginLimiter) *login.Handler {
	t.Helper()
	logger := zap.NewNop()

	sessionMgr, err := auth.NewSessionManager("test-session-key-for-testing-only", sessionName, "", time.Hour, false, logger)
	require.NoError(t, err)

	users := testutil.NewMemUsers(
		models.User{Username: "Admin", Role: models.RoleAdmin, Enabled: true, PasswordHash: testutil.HashPassword(t, "s3cret-pass")},
		models.User{Username: "sleepy", Role: models.RoleUser, Enabled: false, PasswordHash: testutil.HashPassword(t, "s3cret-pass")},
	)
	audit := auditlog.New(nil, logger, auditlog.Config{})
	return login.NewHandler(users, sessionMgr, limiter, audit, uierrors.NewErrorLogger(logger), logger)
}

func postLogin(h *login.Handler, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.RemoteAddr = "192.0.2.10:5555"
	rec := httptest.NewRecorder()
	func() {
		defer func() { _ = recover() }()
		h.HandleLoginPost(rec, req)
	}()
	return rec
}

func hasSessionCookie(rec *httptest.ResponseRecorder) bool {
	for _, c := range rec.Result().Cookies() {
		if c.Name == sessionName {
			return true
		}
	}
	return false
}

func TestHandleLoginPost_Success(t *testing.T) {
	h := newTestHandler(t, nil)

	rec := postLogin(h, url.Values{"username": {"admin"}, "password": {"s3cret-pass"}})

	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/contacts", rec.Header().Get("Location"))
	assert.True(t, hasSessionCookie(rec), "expected session cookie to be set")
}

func TestHandleLoginPost_WithReturnURL(t *testing.T) {
	h := newTestHandler(t, nil)

	rec := postLogin(h, url.Values{
		"username": {"ADMIN"},
		"password": {"s3cret-pass"},
		"return":   {"/contacts/42"},
	})

	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/contacts/42", rec.Header().Get("Location"))
}

func TestHandleLoginPost_Failures(t *testing.T) {
	tests := []struct {
		name string
		form url.Values
		want int
	}{
		{"empty form", url.Values{}, http.StatusUnprocessableEntity},
		{"missing password", url.Values{"username": {"admin"}}, http.StatusUnprocessableEntity},
		{"unknown user", url.Values{"username": {"nobody"}, "password": {"s3cret-pass"}}, http.StatusUnauthorized},
		{"wrong password", url.Values{"username": {"admin"}, "password": {"nope-nope"}}, http.StatusUnauthorized},
		{"disabled user", url.Values{"username": {"sleepy"}, "password": {"s3cret-pass"}}, http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestHandler(t, nil)
			rec := postLogin(h, tt.form)
			assert.Equal(t, tt.want, rec.Code)
			assert.False(t, hasSessionCookie(rec))
		})
	}
}

func TestHandleLoginPost_DisabledUserNeedsCorrectPassword(t *testing.T) {
	h := newTestHandler(t, nil)

	rec := postLogin(h, url.Values{"username": {"sleepy"}, "password": {"guess-guess"}})
	assert.Equal(t, http.StatusUnauthorized, rec.Code, "disabled state is not revealed to a wrong password")
}

func TestHandleLoginPost_RateLimited(t *testing.T) {
	ip := ratelimit.New(100, time.Minute)
	user := ratelimit.New(2, time.Minute)
	t.Cleanup(ip.Close)
	t.Cleanup(user.Close)
	h := newTestHandler(t, ratelimit.NewLoginLimiterWith(ip, user, nil))

	bad := url.Values{"username": {"admin"}, "password": {"wrong-wrong"}}
	assert.Equal(t, http.StatusUnauthorized, postLogin(h, bad).Code)
	assert.Equal(t, http.StatusUnauthorized, postLogin(h, bad).Code)

	rec := postLogin(h, url.Values{"username": {"admin"}, "password": {"s3cret-pass"}})
	assert.Equal(t, http.StatusTooManyRequests, rec.Code, "even a correct password is refused once limited")
	assert.False(t, hasSessionCookie(rec))
}

func TestHandleLoginPost_SuccessResetsUsernameCounter(t *testing.T) {
	ip := ratelimit.New(100, time.Minute)
	user := ratelimit.New(2, time.Minute)
	t.Cleanup(ip.Close)
	t.Cleanup(user.Close)
	h := newTestHandler(t, ratelimit.NewLoginLimiterWith(ip, user, nil))

	good := url.Values{"username": {"admin"}, "password": {"s3cret-pass"}}
	bad := url.Values{"username": {"admin"}, "password": {"wrong-wrong"}}

	assert.Equal(t, http.StatusUnauthorized, postLogin(h, bad).Code)
	assert.Equal(t, http.StatusSeeOther, postLogin(h, good).Code)
	assert.Equal(t, http.StatusUnauthorized, postLogin(h, bad).Code)
	assert.Equal(t, http.StatusSeeOther, postLogin(h, good).Code)
}

func TestServeLogin_SignedInRedirects(t *testing.T) {
	h := newTestHandler(t, nil)

	req := testutil.NewAuthenticatedRequest(http.MethodGet, "/login?return=/users", testutil.AdminUser())
	rec := httptest.NewRecorder()
	h.ServeLogin(rec, req)

	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/users", rec.Header().Get("Location"))
}
