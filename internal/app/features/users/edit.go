// internal/app/features/users/edit.go
package users

import (
	"context"
	"errors"
	"net/http"

	"github.com/dalemusser/contacthub/internal/app/policy/userpolicy"
	"github.com/dalemusser/contacthub/internal/app/system/authutil"
	"github.com/dalemusser/contacthub/internal/app/system/authz"
	"github.com/dalemusser/contacthub/internal/app/system/inputval"
	"github.com/dalemusser/contacthub/internal/app/system/limits"
	"github.com/dalemusser/contacthub/internal/app/system/normalize"
	"github.com/dalemusser/contacthub/internal/app/system/timeouts"
	"github.com/dalemusser/contacthub/internal/domain/models"
	"go.uber.org/zap"
)

type updateUserInput struct {
	Role string `validate:"required,role" label:"Role"`
}

/*─── GET /users/{id}/edit ───*/

// ServeEdit renders the edit form (role and optional new password).
func (h *Handler) ServeEdit(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	u, ok := h.loadTarget(ctx, w, r)
	if !ok {
		return
	}
	h.renderForm(w, r, formData{
		ID:       u.ID.Hex(),
		Username: u.Username,
		Role:     u.Role,
		Enabled:  u.Enabled,
	}, "")
}

/*─── POST /users/{id}/edit ───*/

// HandleUpdate applies a role change and, when given, a new password.
// Demoting the last administrator is refused.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
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
	password := r.PostFormValue("password")
	form := formData{ID: u.ID.Hex(), Username: u.Username, Role: role, Enabled: u.Enabled}
	fail := func(msg string) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		h.renderForm(w, r, form, msg)
	}

	if res := inputval.Validate(updateUserInput{Role: role}); res.HasErrors() {
		fail(res.First())
		return
	}
	var hash string
	if password != "" {
		if err := authutil.ValidatePassword(password); err != nil {
			fail(passwordMessage(err))
			return
		}
		var err error
		if hash, err = authutil.HashPassword(password); err != nil {
			h.ErrLog.LogServerError(w, r, "hash password failed", err, "Could not update the user.", "/users")
			return
		}
	}

	if !h.changeRole(ctx, w, r, u, role) {
		return
	}
	if hash != "" {
		if err := h.Users.SetPassword(ctx, u.ID, hash); err != nil {
			h.ErrLog.LogServerError(w, r, "set password failed", err, "A database error occurred.", "/users")
			return
		}
		h.Log.Info("user password changed", zap.String("username", u.Username), zap.String("actor", authz.Actor(r)))
	}

	h.Flash.Success(w, r, "User "+u.Username+" updated.")
	http.Redirect(w, r, "/users", http.StatusSeeOther)
}

// changeRole applies the last-admin guard and the role change. It returns
// false when it has already written a response.
func (h *Handler) changeRole(ctx context.Context, w http.ResponseWriter, r *http.Request, u models.User, role string) bool {
	if role == u.Role {
		return true
	}
	if err := userpolicy.CheckRoleChange(ctx, h.Users, u, role); err != nil {
		h.deny(w, r, err)
		return false
	}
	if err := h.Users.SetRole(ctx, u.ID, role); err != nil {
		h.ErrLog.LogServerError(w, r, "set role failed", err, "A database error occurred.", "/users")
		return false
	}
	actor := authz.Actor(r)
	h.Audit.UserRoleChanged(ctx, r, actor, u.Username, u.Role, role)
	h.Log.Info("user role changed",
		zap.String("username", u.Username),
		zap.String("from", u.Role),
		zap.String("to", role),
		zap.String("actor", actor))
	return true
}

// deny reports a guard refusal as a flash message and returns to the list.
// Errors that are not refusals are server errors.
func (h *Handler) deny(w http.ResponseWriter, r *http.Request, err error) {
	var de *userpolicy.DeniedError
	if !errors.As(err, &de) {
		h.ErrLog.LogServerError(w, r, "user guard failed", err, "A database error occurred.", "/users")
		return
	}
	h.Log.Info("user action refused", zap.String("actor", authz.Actor(r)), zap.String("reason", de.Message))
	h.Flash.Error(w, r, de.Message)
	http.Redirect(w, r, "/users", http.StatusSeeOther)
}
