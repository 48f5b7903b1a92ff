// internal/app/features/errors/errors.go
package errors

import (
	"net/http"

	"github.com/dalemusser/contacthub/internal/app/system/viewdata"
)

// pageData is the view model for every error page.
type pageData struct {
	viewdata.BaseVM
	Status  int
	Message string
}

// Handler serves the standalone error pages.
// No DB needed; it just renders templates.
type Handler struct{}

// NewHandler constructs an errors Handler.
func NewHandler() *Handler {
	return &Handler{}
}

// Forbidden renders a friendly "access denied" page.
// GET /forbidden
func (h *Handler) Forbidden(w http.ResponseWriter, r *http.Request) {
	RenderForbidden(w, r, "You don't have permission to view this page.", "/")
}

// NotFound is the router's fallback for unknown paths.
func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	RenderNotFound(w, r, "The page you were looking for does not exist.", "/")
}
