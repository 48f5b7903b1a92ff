// internal/app/features/users/actions.go
package users

import (
	"context"
	"net/http"

	"github.com/dalemusser/contacthub/internal/app/policy/userpolicy"
	"github.com/dalemusser/contacthub/internal/app/system/authz"
	"github.com/dalemusser/contacthub/internal/app/system/limits"
	"github.com/dalemusser/contacthub/internal/app/system/normalize"
	"github.com/dalemusser/contacthub/internal/app/system/timeouts"
	"github.com/dalemusser/contacthub/internal/domain/models"
	"go.uber.org/zap"
)

/*─── POST /users/{id}/role ───*/

// HandleRole changes a user's role from the list page.
func (h *Handler) HandleRole(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, limits.MaxSmallFormSize)
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form submission.", "/users")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	u, ok := h.loadTarget(ctx, w, r)
	if !ok {
		return
	}
	role := normalize.Role(r.PostFormValue("role"))
	if !models.IsValidRole(role) {
		h.Flash.Error(w, r, "Role must be one of: admin, user.")
		http.Redirect(w, r, "/users", http.StatusSeeOther)
		return
	}
	if !h.changeRole(ctx, w, r, u, role) {
		return
	}

	h.Flash.Success(w, r, "Role of "+u.Username+" is now "+role+".")
	http.Redirect(w, r, "/users", http.StatusSeeOther)
}

/*─── POST /users/{id}/toggle ───*/

// HandleToggle flips a user's enabled flag. Disabling oneself is refused.
func (h *Handler) HandleToggle(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	u, ok := h.loadTarget(ctx, w, r)
	if !ok {
		return
	}

	actor := authz.Actor(r)
	enable := !u.Enabled
	if err := userpolicy.CheckToggle(actor, u, enable); err != nil {
		h.deny(w, r, err)
		return
	}
	if err := h.Users.SetEnabled(ctx, u.ID, enable); err != nil {
		h.ErrLog.LogServerError(w, r, "set enabled failed", err, "A database error occurred.", "/users")
		return
	}

	h.Audit.UserEnabledChanged(ctx, r, actor, u.Username, enable)
	h.Log.Info("user enabled changed",
		zap.String("username", u.Username),
		zap.Bool("enabled", enable),
		zap.String("actor", actor))

	state := "disabled"
	if enable {
		state = "enabled"
	}
	h.Flash.Success(w, r, "User "+u.Username+" "+state+".")
	http.Redirect(w, r, "/users", http.StatusSeeOther)
}

/*─── POST /users/{id}/delete ───*/

// HandleDelete removes a user. Deleting oneself or the last administrator
// is refused with no state change.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	u, ok := h.loadTarget(ctx, w, r)
	if !ok {
		return
	}

	actor := authz.Actor(r)
	if err := userpolicy.CheckDelete(ctx, h.Users, actor, u); err != nil {
		h.deny(w, r, err)
		return
	}
	if err := h.Users.Delete(ctx, u.ID); err != nil {
		h.ErrLog.LogServerError(w, r, "delete user failed", err, "A database error occurred.", "/users")
		return
	}

	h.Audit.UserDeleted(ctx, r, actor, u.Username)
	h.Log.Info("user deleted", zap.String("username", u.Username), zap.String("actor", actor))

	h.Flash.Success(w, r, "User "+u.Username+" deleted.")
	http.Redirect(w, r, "/users", http.StatusSeeOther)
}
