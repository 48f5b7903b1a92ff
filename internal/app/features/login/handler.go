// internal/app/features/login/handler.go
package login

import (
	"context"
	"errors"
	"net/http"
	"strings"

	uierrors "github.com/dalemusser/contacthub/internal/app/features/errors"
	userstore "github.com/dalemusser/contacthub/internal/app/store/users"
	"github.com/dalemusser/contacthub/internal/app/system/auditlog"
	"github.com/dalemusser/contacthub/internal/app/system/auth"
	"github.com/dalemusser/contacthub/internal/app/system/authutil"
	"github.com/dalemusser/contacthub/internal/app/system/limits"
	"github.com/dalemusser/contacthub/internal/app/system/metrics"
	"github.com/dalemusser/contacthub/internal/app/system/ratelimit"
	"github.com/dalemusser/contacthub/internal/app/system/timeouts"
	"github.com/dalemusser/contacthub/internal/app/system/viewdata"
	"github.com/dalemusser/contacthub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/dalemusser/waffle/pantry/urlutil"
	"github.com/gorilla/securecookie"
	"go.uber.org/zap"
)

// msgBadCredentials is shown for unknown usernames and wrong passwords alike.
const msgBadCredentials = "Invalid username or password."

// UserLookup finds the account a login form names.
type UserLookup interface {
	GetByUsername(ctx context.Context, username string) (models.User, error)
}

type Handler struct {
	Users      UserLookup
	SessionMgr *auth.SessionManager
	Limiter    *ratelimit.LoginLimiter
	Audit      *auditlog.Logger
	ErrLog     *uierrors.ErrorLogger
	Log        *zap.Logger
}

/*─────────────────────────────────────────────────────────────────────────────*
| Template-data                                                               |
*─────────────────────────────────────────────────────────────────────────────*/

type loginFormData struct {
	viewdata.BaseVM
	Error     string
	Username  string // what the user typed
	ReturnURL string
}

// NewHandler wires the login handler. A nil limiter disables rate limiting.
func NewHandler(
	users UserLookup,
	sessionMgr *auth.SessionManager,
	limiter *ratelimit.LoginLimiter,
	audit *auditlog.Logger,
	errLog *uierrors.ErrorLogger,
	logger *zap.Logger,
) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if errLog == nil {
		errLog = uierrors.NewErrorLogger(logger)
	}
	return &Handler{
		Users:      users,
		SessionMgr: sessionMgr,
		Limiter:    limiter,
		Audit:      audit,
		ErrLog:     errLog,
		Log:        logger,
	}
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /login                                                                  |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeLogin(w http.ResponseWriter, r *http.Request) {
	if _, ok := auth.CurrentUser(r); ok {
		http.Redirect(w, r, urlutil.SafeReturn(query.Get(r, "return"), "", "/contacts"), http.StatusSeeOther)
		return
	}
	templates.Render(w, r, "login", loginFormData{
		BaseVM:    viewdata.NewBaseVM(r, "Login", "/"),
		ReturnURL: query.Get(r, "return"),
	})
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /login                                                                 |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandleLoginPost(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, limits.MaxSmallFormSize)
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form data.", "/login")
		return
	}

	username := strings.TrimSpace(r.PostFormValue("username"))
	password := r.PostFormValue("password")
	ret := strings.TrimSpace(r.PostFormValue("return"))

	if username == "" || password == "" {
		h.renderFormWithError(w, r, http.StatusUnprocessableEntity, "Please enter your username and password.", username, ret)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	/*── rate limit before touching the user record ───────────────────────*/

	if h.Limiter != nil {
		if ok, reason := h.Limiter.Check(ctx, r, username); !ok {
			h.Audit.LoginFailedRateLimit(ctx, r, username)
			metrics.ObserveLogin(metrics.LoginRateLimited)
			h.renderFormWithError(w, r, http.StatusTooManyRequests, reason, username, ret)
			return
		}
	}

	/*── look-up user by folded username ───────────────────────────────────*/

	u, err := h.Users.GetByUsername(ctx, username)
	switch {
	case errors.Is(err, userstore.ErrNotFound):
		h.Audit.LoginFailedUserNotFound(ctx, r, username)
		metrics.ObserveLogin(metrics.LoginFailed)
		h.renderFormWithError(w, r, http.StatusUnauthorized, msgBadCredentials, username, ret)
		return
	case err != nil:
		h.ErrLog.LogServerError(w, r, "DB find user", err, "A server error occurred.", "/login")
		return
	}

	if !authutil.CheckPassword(password, u.PasswordHash) {
		h.Audit.LoginFailedWrongPassword(ctx, r, u.Username)
		metrics.ObserveLogin(metrics.LoginFailed)
		h.renderFormWithError(w, r, http.StatusUnauthorized, msgBadCredentials, username, ret)
		return
	}

	/*── disabled users cannot log in ──────────────────────────────────────*/

	if !u.Enabled {
		h.Audit.LoginFailedUserDisabled(ctx, r, u.Username)
		metrics.ObserveLogin(metrics.LoginDisabled)
		h.renderFormWithError(w, r, http.StatusForbidden,
			"Your account is currently disabled. Please contact an administrator.", username, ret)
		return
	}

	h.createSessionAndRedirect(w, r, u, ret)
}

// createSessionAndRedirect marks the session authenticated and sends the
// user to a safe return URL (default /contacts).
func (h *Handler) createSessionAndRedirect(w http.ResponseWriter, r *http.Request, u models.User, returnURL string) {
	sess, err := h.SessionMgr.GetSession(r)
	if err != nil {
		var scErr securecookie.Error
		if errors.As(err, &scErr) && scErr.IsDecode() {
			h.Log.Warn("session cookie invalid, using fresh session",
				zap.Error(err),
				zap.String("user_id", u.ID.Hex()))
		} else {
			h.Log.Error("session store error during login, using fresh session",
				zap.Error(err),
				zap.String("user_id", u.ID.Hex()))
		}
	}

	if err := h.SessionMgr.SignIn(w, r, sess, u.ID.Hex()); err != nil {
		h.Log.Error("save session failed", zap.Error(err), zap.String("username", u.Username))
		h.renderFormWithError(w, r, http.StatusInternalServerError, "Unable to create session. Please try again.", u.Username, returnURL)
		return
	}

	if h.Limiter != nil {
		h.Limiter.ResetUsername(r.Context(), u.Username)
	}
	h.Audit.LoginSuccess(r.Context(), r, u.Username)
	metrics.ObserveLogin(metrics.LoginSuccess)
	h.Log.Info("user signed in", zap.String("username", u.Username), zap.String("role", u.Role))

	dest := urlutil.SafeReturn(returnURL, "", "/contacts")
	http.Redirect(w, r, dest, http.StatusSeeOther)
}

func (h *Handler) renderFormWithError(w http.ResponseWriter, r *http.Request, status int, msg, username, returnURL string) {
	w.WriteHeader(status)
	templates.Render(w, r, "login", loginFormData{
		BaseVM:    viewdata.NewBaseVM(r, "Login", "/"),
		Error:     msg,
		Username:  username,
		ReturnURL: returnURL,
	})
}
