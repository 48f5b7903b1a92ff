// internal/app/features/users/list.go
package users

import (
	"context"
	"errors"
	"net/http"

	uierrors "github.com/dalemusser/contacthub/internal/app/features/errors"
	userstore "github.com/dalemusser/contacthub/internal/app/store/users"
	"github.com/dalemusser/contacthub/internal/app/system/authz"
	"github.com/dalemusser/contacthub/internal/app/system/timeouts"
	"github.com/dalemusser/contacthub/internal/app/system/viewdata"
	"github.com/dalemusser/contacthub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

/*─── GET /users ───*/

// ServeList renders all users sorted by username.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	list, err := h.Users.List(ctx)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list users failed", err, "A database error occurred.", "/")
		return
	}

	data := listData{
		BaseVM: viewdata.NewBaseVM(r, "Users", "/"),
		Users:  list,
		Roles:  models.AllRoles,
		Self:   authz.Actor(r),
	}
	templates.Render(w, r, "users_list", data)
}

// loadTarget resolves the {id} URL parameter to a user, rendering 404 when
// the id is malformed or unknown. ok is false when a response was written.
func (h *Handler) loadTarget(ctx context.Context, w http.ResponseWriter, r *http.Request) (models.User, bool) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		uierrors.RenderNotFound(w, r, "User not found.", "/users")
		return models.User{}, false
	}
	u, err := h.Users.GetByID(ctx, id)
	if errors.Is(err, userstore.ErrNotFound) {
		uierrors.RenderNotFound(w, r, "User not found.", "/users")
		return models.User{}, false
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "load user failed", err, "A database error occurred.", "/users")
		return models.User{}, false
	}
	return u, true
}
