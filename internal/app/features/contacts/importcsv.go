// internal/app/features/contacts/importcsv.go
package contacts

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/dalemusser/contacthub/internal/app/system/authz"
	"github.com/dalemusser/contacthub/internal/app/system/contactcsv"
	"github.com/dalemusser/contacthub/internal/app/system/metrics"
	"github.com/dalemusser/contacthub/internal/app/system/timeouts"
	"github.com/dalemusser/contacthub/internal/app/system/viewdata"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.uber.org/zap"
)

// multipartOverhead leaves room for the form boundary and other fields on
// top of the file size cap.
const multipartOverhead = 64 << 10

/*─── GET /contacts/import ───*/

// ServeImport renders the CSV upload form.
func (h *Handler) ServeImport(w http.ResponseWriter, r *http.Request) {
	data := importData{
		BaseVM:  viewdata.NewBaseVM(r, "Import contacts", "/contacts"),
		MaxMB:   h.maxBytes() >> 20,
		Columns: contactcsv.ExportHeader,
	}
	templates.Render(w, r, "contacts_import", data)
}

/*─── POST /contacts/import ───*/

// HandleImport upserts contacts from the uploaded CSV file. Whole-file
// rejections and the summary are reported as flash messages.
func (h *Handler) HandleImport(w http.ResponseWriter, r *http.Request) {
	limit := h.maxBytes()
	r.Body = http.MaxBytesReader(w, r.Body, limit+multipartOverhead)
	if err := r.ParseMultipartForm(limit); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			h.importFailed(w, r, (&contactcsv.ImportError{Kind: contactcsv.Unreadable, Err: err}).Message())
			return
		}
		h.importFailed(w, r, "Please choose a CSV file to upload.")
		return
	}
	file, _, err := r.FormFile("file")
	if err != nil {
		h.importFailed(w, r, "Please choose a CSV file to upload.")
		return
	}
	defer file.Close()

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Batch())
	defer cancel()

	actor := authz.Actor(r)
	res, err := h.Importer.Import(ctx, file, actor)
	var ie *contactcsv.ImportError
	if errors.As(err, &ie) {
		metrics.ObserveImport(false, 0, 0, 0, 0)
		h.Log.Warn("contact import rejected",
			zap.String("import_batch", res.BatchID),
			zap.String("actor", actor),
			zap.Error(err))
		h.importFailed(w, r, ie.Message())
		return
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "contact import failed", err, "The import could not be completed.", "/contacts/import")
		return
	}

	metrics.ObserveImport(true, res.Created, res.Updated, res.Skipped, res.Failed)
	h.Audit.ContactsImported(ctx, r, actor, res.BatchID, res.Imported, res.Skipped, res.Failed)

	msg := fmt.Sprintf("Imported %d contacts (%d new, %d updated).", res.Imported, res.Created, res.Updated)
	if res.Skipped > 0 || res.Failed > 0 {
		msg += fmt.Sprintf(" Skipped %d rows without an email; %d rows failed.", res.Skipped, res.Failed)
	}
	h.Flash.Success(w, r, msg)
	http.Redirect(w, r, "/contacts", http.StatusSeeOther)
}

func (h *Handler) importFailed(w http.ResponseWriter, r *http.Request, msg string) {
	h.Flash.Error(w, r, msg)
	http.Redirect(w, r, "/contacts/import", http.StatusSeeOther)
}

func (h *Handler) maxBytes() int64 {
	if h.Importer != nil && h.Importer.MaxBytes > 0 {
		return h.Importer.MaxBytes
	}
	return contactcsv.MaxUploadSize
}
