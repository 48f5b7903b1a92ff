// internal/app/features/contacts/view.go
package contacts

import (
	"context"
	"errors"
	"net/http"

	uierrors "github.com/dalemusser/contacthub/internal/app/features/errors"
	contactstore "github.com/dalemusser/contacthub/internal/app/store/contacts"
	"github.com/dalemusser/contacthub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/contacthub/internal/app/system/timeouts"
	"github.com/dalemusser/contacthub/internal/app/system/viewdata"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
)

/*─── GET /contacts/{id} – detail ───*/

// ServeView renders one contact. Free-text fields are sanitized HTML.
func (h *Handler) ServeView(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(chi.URLParam(r, "id"))
	if !ok {
		uierrors.RenderNotFound(w, r, "Contact not found.", "/contacts")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	c, err := h.Contacts.GetByID(ctx, id)
	if errors.Is(err, contactstore.ErrNotFound) {
		uierrors.RenderNotFound(w, r, "Contact not found.", "/contacts")
		return
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "load contact failed", err, "A database error occurred.", "/contacts")
		return
	}

	data := viewData{
		BaseVM:    viewdata.NewBaseVM(r, c.FullName(), "/contacts"),
		Contact:   c,
		Interest:  htmlsanitize.PrepareForDisplay(c.Interest),
		FundUse:   htmlsanitize.PrepareForDisplay(c.FundUse),
		PastEvent: htmlsanitize.PrepareForDisplay(c.PastEvent),
		Comments:  htmlsanitize.PrepareForDisplay(c.Comments),
	}
	templates.Render(w, r, "contact_view", data)
}
