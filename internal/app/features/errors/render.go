// internal/app/features/errors/render.go
package errors

import (
	"net/http"

	"github.com/dalemusser/contacthub/internal/app/system/viewdata"
	"github.com/dalemusser/waffle/pantry/httpnav"
	"github.com/dalemusser/waffle/pantry/templates"
)

// render writes status and the shared error page.
// If backURL is empty, it resolves a safe back URL with fallback.
func render(w http.ResponseWriter, r *http.Request, status int, title, msg, backURL, fallback string) {
	if backURL == "" {
		backURL = httpnav.ResolveBackURL(r, fallback)
	}
	data := pageData{
		BaseVM:  viewdata.NewBaseVM(r, title, backURL),
		Status:  status,
		Message: msg,
	}
	data.BackURL = backURL

	w.WriteHeader(status)
	templates.Render(w, r, "error_page", data)
}

// RenderUnauthorized shows a "sign in required" page.
// If backURL is empty, it defaults to /login.
func RenderUnauthorized(w http.ResponseWriter, r *http.Request, msg, backURL string) {
	if msg == "" {
		msg = "Please sign in to continue."
	}
	if backURL == "" {
		backURL = "/login"
	}
	render(w, r, http.StatusUnauthorized, "Sign in required", msg, backURL, "/login")
}

// RenderForbidden shows an access error page with a message.
func RenderForbidden(w http.ResponseWriter, r *http.Request, msg, backURL string) {
	render(w, r, http.StatusForbidden, "Access denied", msg, backURL, "/")
}

// RenderNotFound shows a 404 page.
func RenderNotFound(w http.ResponseWriter, r *http.Request, msg, backURL string) {
	render(w, r, http.StatusNotFound, "Not found", msg, backURL, "/")
}

// RenderBadRequest shows a 400 page for input the handler could not use.
func RenderBadRequest(w http.ResponseWriter, r *http.Request, msg, backURL string) {
	render(w, r, http.StatusBadRequest, "Invalid request", msg, backURL, "/")
}

// RenderServerError shows a generic 500 page. msg must not carry internal
// error detail.
func RenderServerError(w http.ResponseWriter, r *http.Request, msg, backURL string) {
	if msg == "" {
		msg = "Something went wrong. Please try again."
	}
	render(w, r, http.StatusInternalServerError, "Something went wrong", msg, backURL, "/")
}
