// internal/app/features/users/routes.go
package users

import (
	"github.com/dalemusser/contacthub/internal/app/system/auth"
	"github.com/dalemusser/contacthub/internal/domain/models"
	"github.com/go-chi/chi/v5"
)

// Routes mounts user management under the base path
// (typically "/users" from bootstrap). Every route is admin-only.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Use(sm.RequireSignedIn)
	r.Use(sm.RequireRole(models.RoleAdmin))

	r.Get("/", h.ServeList)

	r.Get("/new", h.ServeNew)
	r.Post("/", h.HandleCreate)

	r.Get("/{id}/edit", h.ServeEdit)
	r.Post("/{id}/edit", h.HandleUpdate)

	r.Post("/{id}/role", h.HandleRole)
	r.Post("/{id}/toggle", h.HandleToggle)
	r.Post("/{id}/delete", h.HandleDelete)

	return r
}
