// internal/app/features/logout/handler.go
package logout

import (
	"net/http"

	"github.com/dalemusser/contacthub/internal/app/system/auditlog"
	"github.com/dalemusser/contacthub/internal/app/system/auth"
	"go.uber.org/zap"
)

type Handler struct {
	Log        *zap.Logger
	SessionMgr *auth.SessionManager
	Audit      *auditlog.Logger
}

// NewHandler wires the logout handler. audit may be nil.
func NewHandler(sessionMgr *auth.SessionManager, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		Log:        logger,
		SessionMgr: sessionMgr,
		Audit:      audit,
	}
}

// HandleLogout handles POST /logout: the session cookie is expired and the
// browser is sent to the login page.
func (h *Handler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	username := ""
	if u, ok := auth.CurrentUser(r); ok {
		username = u.LoginID
	}

	if err := h.SessionMgr.SignOut(w, r); err != nil {
		h.Log.Error("logout: save session", zap.Error(err))
	}
	if username != "" {
		h.Audit.Logout(r.Context(), r, username)
		h.Log.Info("user signed out", zap.String("username", username))
	}

	// HTMX: force a full client-side navigation.
	if r.Header.Get("HX-Request") != "" {
		w.Header().Set("HX-Redirect", "/login")
		w.WriteHeader(http.StatusOK)
		return
	}
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}
