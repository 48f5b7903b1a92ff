// internal/app/features/users/new.go
package users

import (
	"context"
	"errors"
	"net/http"
	"strings"

	userstore "github.com/dalemusser/contacthub/internal/app/store/users"
	"github.com/dalemusser/contacthub/internal/app/system/authutil"
	"github.com/dalemusser/contacthub/internal/app/system/authz"
	"github.com/dalemusser/contacthub/internal/app/system/inputval"
	"github.com/dalemusser/contacthub/internal/app/system/limits"
	"github.com/dalemusser/contacthub/internal/app/system/navigation"
	"github.com/dalemusser/contacthub/internal/app/system/normalize"
	"github.com/dalemusser/contacthub/internal/app/system/timeouts"
	"github.com/dalemusser/contacthub/internal/app/system/viewdata"
	"github.com/dalemusser/contacthub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.uber.org/zap"
)

// createUserInput defines validation rules for creating a user.
type createUserInput struct {
	Username string `validate:"required,max=64" label:"Username"`
	Role     string `validate:"required,role" label:"Role"`
}

/*─── GET /users/new ───*/

// ServeNew renders the "New user" form.
func (h *Handler) ServeNew(w http.ResponseWriter, r *http.Request) {
	h.renderForm(w, r, formData{IsNew: true, Role: models.RoleUser, Enabled: true}, "")
}

/*─── POST /users – create ───*/

// HandleCreate processes the "New user" form.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, limits.MaxSmallFormSize)
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form submission.", "/users")
		return
	}

	username := strings.TrimSpace(r.PostFormValue("username"))
	role := normalize.Role(r.PostFormValue("role"))
	password := r.PostFormValue("password")

	form := formData{IsNew: true, Username: username, Role: role, Enabled: true}
	fail := func(msg string) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		h.renderForm(w, r, form, msg)
	}

	if res := inputval.Validate(createUserInput{Username: username, Role: role}); res.HasErrors() {
		fail(res.First())
		return
	}
	if err := authutil.ValidatePassword(password); err != nil {
		fail(passwordMessage(err))
		return
	}
	hash, err := authutil.HashPassword(password)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "hash password failed", err, "Could not create the user.", "/users")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	created, err := h.Users.Create(ctx, models.User{
		Username:     username,
		PasswordHash: hash,
		Role:         role,
		Enabled:      true,
	})
	if errors.Is(err, userstore.ErrDuplicateUsername) {
		fail("A user with that username already exists.")
		return
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "create user failed", err, "A database error occurred.", "/users")
		return
	}

	actor := authz.Actor(r)
	h.Audit.UserCreated(ctx, r, actor, created.Username, created.Role)
	h.Log.Info("user created",
		zap.String("username", created.Username),
		zap.String("role", created.Role),
		zap.String("actor", actor))

	h.Flash.Success(w, r, "User "+created.Username+" created.")
	http.Redirect(w, r, navigation.SafeBackURL(r, navigation.UsersBackURL), http.StatusSeeOther)
}

func (h *Handler) renderForm(w http.ResponseWriter, r *http.Request, data formData, errMsg string) {
	title := "Edit user"
	if data.IsNew {
		title = "New user"
	}
	data.BaseVM = viewdata.NewBaseVM(r, title, "/users")
	data.Roles = models.AllRoles
	data.PasswordRules = authutil.PasswordRules()
	data.Error = errMsg
	templates.Render(w, r, "user_form", data)
}

// passwordMessage turns a ValidatePassword error into form text.
func passwordMessage(err error) string {
	switch {
	case errors.Is(err, authutil.ErrPasswordTooShort),
		errors.Is(err, authutil.ErrPasswordTooLong),
		errors.Is(err, authutil.ErrPasswordCommon):
		msg := err.Error()
		return strings.ToUpper(msg[:1]) + msg[1:] + "."
	}
	return "Invalid password."
}
