// internal/app/features/contacts/routes.go
package contacts

import (
	"github.com/dalemusser/contacthub/internal/app/system/auth"
	"github.com/dalemusser/contacthub/internal/domain/models"
	"github.com/go-chi/chi/v5"
)

// Routes mounts the contact routes under the base path
// (typically "/contacts" from bootstrap).
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	// Read access for every signed-in role.
	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		pr.Use(sm.RequireRole(models.RoleAdmin, models.RoleUser))

		pr.Get("/", h.ServeList)
		pr.Get("/search", h.ServeSearch)
		pr.Get("/export", h.ServeExport)
		pr.Get("/{id}", h.ServeView)
	})

	// Writes are admin-only.
	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		pr.Use(sm.RequireRole(models.RoleAdmin))

		pr.Get("/new", h.ServeNew)
		pr.Get("/{id}/edit", h.ServeEdit)
		pr.Post("/save", h.HandleSave)
		pr.Post("/{id}/delete", h.HandleDelete)

		pr.Get("/import", h.ServeImport)
		pr.Post("/import", h.HandleImport)
	})

	return r
}
