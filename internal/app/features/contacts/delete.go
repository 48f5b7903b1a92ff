// internal/app/features/contacts/delete.go
package contacts

import (
	"context"
	"errors"
	"net/http"

	uierrors "github.com/dalemusser/contacthub/internal/app/features/errors"
	contactstore "github.com/dalemusser/contacthub/internal/app/store/contacts"
	"github.com/dalemusser/contacthub/internal/app/system/authz"
	"github.com/dalemusser/contacthub/internal/app/system/metrics"
	"github.com/dalemusser/contacthub/internal/app/system/timeouts"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

/*─── POST /contacts/{id}/delete ───*/

// HandleDelete removes a contact. Contacts have no delete guard.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(chi.URLParam(r, "id"))
	if !ok {
		uierrors.RenderNotFound(w, r, "Contact not found.", "/contacts")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	// Loaded first so the audit record carries the email.
	c, err := h.Contacts.GetByID(ctx, id)
	if err == nil {
		err = h.Contacts.Delete(ctx, id)
	}
	if errors.Is(err, contactstore.ErrNotFound) {
		uierrors.RenderNotFound(w, r, "Contact not found.", "/contacts")
		return
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "delete contact failed", err, "A database error occurred.", "/contacts")
		return
	}

	actor := authz.Actor(r)
	metrics.ObserveContactWrite("delete")
	h.Audit.ContactDeleted(ctx, r, actor, id, c.Email)
	h.Log.Info("contact deleted", zap.Int64("contact_id", id), zap.String("actor", actor))

	h.Flash.Success(w, r, "Contact deleted.")
	http.Redirect(w, r, "/contacts", http.StatusSeeOther)
}
