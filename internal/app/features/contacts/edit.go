// internal/app/features/contacts/edit.go
package contacts

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	uierrors "github.com/dalemusser/contacthub/internal/app/features/errors"
	contactstore "github.com/dalemusser/contacthub/internal/app/store/contacts"
	"github.com/dalemusser/contacthub/internal/app/system/authz"
	"github.com/dalemusser/contacthub/internal/app/system/contactcsv"
	"github.com/dalemusser/contacthub/internal/app/system/inputval"
	"github.com/dalemusser/contacthub/internal/app/system/limits"
	"github.com/dalemusser/contacthub/internal/app/system/metrics"
	"github.com/dalemusser/contacthub/internal/app/system/navigation"
	"github.com/dalemusser/contacthub/internal/app/system/normalize"
	"github.com/dalemusser/contacthub/internal/app/system/timeouts"
	"github.com/dalemusser/contacthub/internal/app/system/viewdata"
	"github.com/dalemusser/contacthub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// contactInput defines validation rules for the contact form.
type contactInput struct {
	FirstName     string `validate:"required,max=100" label:"First name"`
	LastName      string `validate:"required,max=100" label:"Last name"`
	Institution   string `validate:"required,max=200" label:"Institution"`
	Gender        string `validate:"required,gender" label:"Gender"`
	Email         string `validate:"required,email,max=254" label:"Email"`
	Title         string `validate:"max=50" label:"Title"`
	Phone1        string `validate:"max=50" label:"Phone"`
	Phone2        string `validate:"max=50" label:"Mobile"`
	Country       string `validate:"max=100" label:"Country"`
	PostAddress   string `validate:"max=500" label:"Postal address"`
	ContactPerson string `validate:"max=200" label:"Contact person"`
}

// formFields maps validated struct fields to their form input names.
var formFields = map[string]string{
	"FirstName":     "firstName",
	"LastName":      "lastName",
	"Institution":   "institution",
	"Gender":        "gender",
	"Email":         "email",
	"Title":         "title",
	"Phone1":        "phone1",
	"Phone2":        "phone2",
	"Country":       "country",
	"PostAddress":   "postAddress",
	"ContactPerson": "contactPerson",
}

/*─── GET /contacts/new ───*/

// ServeNew renders an empty contact form.
// Authorization: RequireRole("admin") middleware in routes.go.
func (h *Handler) ServeNew(w http.ResponseWriter, r *http.Request) {
	h.renderForm(w, r, models.Contact{}, nil)
}

/*─── GET /contacts/{id}/edit ───*/

// ServeEdit renders the form for an existing contact.
func (h *Handler) ServeEdit(w http.ResponseWriter, r *http.Request) {
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
	h.renderForm(w, r, c, nil)
}

/*─── POST /contacts/save – create or update ───*/

// HandleSave creates a contact when the form has no id and otherwise
// replaces every mutable field of the existing one. Invalid input
// re-renders the form with the submitted values and per-field messages.
func (h *Handler) HandleSave(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, limits.MaxContactFormSize)
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form submission.", "/contacts")
		return
	}

	var id int64
	if raw := strings.TrimSpace(r.PostFormValue("id")); raw != "" {
		var ok bool
		if id, ok = parseID(raw); !ok {
			uierrors.RenderBadRequest(w, r, "Invalid contact id.", "/contacts")
			return
		}
	}

	c := contactFromForm(r)
	c.ID = id

	input := contactInput{
		FirstName:     c.FirstName,
		LastName:      c.LastName,
		Institution:   c.Institution,
		Gender:        c.Gender,
		Email:         c.Email,
		Title:         c.Title,
		Phone1:        c.Phone1,
		Phone2:        c.Phone2,
		Country:       c.Country,
		PostAddress:   c.PostAddress,
		ContactPerson: c.ContactPerson,
	}
	if res := inputval.Validate(input); res.HasErrors() {
		errs := make(map[string]string, len(res.Errors))
		for _, fe := range res.Errors {
			name := formFields[fe.Field]
			if _, seen := errs[name]; !seen {
				errs[name] = fe.Message
			}
		}
		w.WriteHeader(http.StatusUnprocessableEntity)
		h.renderForm(w, r, c, errs)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	actor := authz.Actor(r)
	var (
		saved models.Contact
		err   error
	)
	if c.IsNew() {
		saved, err = h.Contacts.Create(ctx, c, actor)
	} else {
		saved, err = h.Contacts.Update(ctx, c.ID, c, actor)
	}

	var verr *contactstore.ValidationError
	switch {
	case errors.Is(err, contactstore.ErrDuplicateEmail):
		w.WriteHeader(http.StatusUnprocessableEntity)
		h.renderForm(w, r, c, map[string]string{"email": "A contact with this email already exists."})
		return
	case errors.As(err, &verr):
		w.WriteHeader(http.StatusUnprocessableEntity)
		h.renderForm(w, r, c, map[string]string{verr.Field: verr.Message()})
		return
	case errors.Is(err, contactstore.ErrNotFound):
		uierrors.RenderNotFound(w, r, "Contact not found.", "/contacts")
		return
	case err != nil:
		h.ErrLog.LogServerError(w, r, "save contact failed", err, "A database error occurred.", "/contacts")
		return
	}

	if c.IsNew() {
		metrics.ObserveContactWrite("create")
		h.Audit.ContactCreated(ctx, r, actor, saved.ID, saved.Email)
		h.Flash.Success(w, r, "Contact created.")
	} else {
		metrics.ObserveContactWrite("update")
		h.Audit.ContactUpdated(ctx, r, actor, saved.ID, saved.Email)
		h.Flash.Success(w, r, "Contact updated.")
	}
	h.Log.Info("contact saved",
		zap.Int64("contact_id", saved.ID),
		zap.Bool("created", c.IsNew()),
		zap.String("actor", actor))

	dest := navigation.SafeBackURL(r, navigation.ContactsBackURL)
	if dest == navigation.ContactsBackURL.Fallback {
		dest = "/contacts/" + strconv.FormatInt(saved.ID, 10)
	}
	http.Redirect(w, r, dest, http.StatusSeeOther)
}

func (h *Handler) renderForm(w http.ResponseWriter, r *http.Request, c models.Contact, errs map[string]string) {
	title := "Edit contact"
	if c.IsNew() {
		title = "New contact"
	}
	data := formData{
		BaseVM:  viewdata.NewBaseVM(r, title, "/contacts"),
		Contact: c,
		IsNew:   c.IsNew(),
		Genders: models.AllGenders,
		Errors:  errs,
	}
	templates.Render(w, r, "contact_form", data)
}

// contactFromForm reads every editable field. Checkboxes are true when
// present with any recognised true value.
func contactFromForm(r *http.Request) models.Contact {
	v := func(name string) string { return strings.TrimSpace(r.PostFormValue(name)) }
	return models.Contact{
		Title:         v("title"),
		FirstName:     v("firstName"),
		LastName:      v("lastName"),
		Gender:        models.NormalizeGender(v("gender")),
		Email:         normalize.Email(v("email")),
		Phone1:        v("phone1"),
		Phone2:        v("phone2"),
		Institution:   v("institution"),
		Faculty:       v("faculty"),
		StudyDomain:   v("studyDomain"),
		PersGroup:     v("persGroup"),
		Function:      v("function"),
		PostAddress:   v("postAddress"),
		Country:       v("country"),
		Interest:      r.PostFormValue("interest"),
		CoilExp:       checkbox(v("coilExp")),
		MobilityFin:   checkbox(v("mobilityFin")),
		FundUse:       r.PostFormValue("fundUse"),
		PastEvent:     r.PostFormValue("pastEvent"),
		ContactPerson: v("contactPerson"),
		Comments:      r.PostFormValue("comments"),
	}
}

func checkbox(v string) bool {
	return strings.EqualFold(v, "on") || contactcsv.ParseBool(v)
}
