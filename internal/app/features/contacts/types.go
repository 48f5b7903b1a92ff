// internal/app/features/contacts/types.go
package contacts

import (
	"html/template"
	"strings"
	"time"

	"github.com/dalemusser/contacthub/internal/app/system/contactsearch"
	"github.com/dalemusser/contacthub/internal/app/system/paging"
	"github.com/dalemusser/contacthub/internal/app/system/viewdata"
	"github.com/dalemusser/contacthub/internal/domain/models"
)

// searchField is one text input on the search form.
type searchField struct {
	Name  string
	Label string
	Value string
}

// listData is the view model for both the list and the search page.
type listData struct {
	viewdata.BaseVM

	IsSearch bool
	Fields   []searchField
	CoilExp  string // "", "true" or "false"
	MobFin   string
	Created  [2]boundInput // after, before
	Updated  [2]boundInput
	Sort     []string

	Page       contactsearch.Page
	Range      paging.Range
	PageNumber int // 1-based, for display
	PrevURL    string
	NextURL    string
	ExportURL  string
}

// viewData is the view model for the contact detail page.
type viewData struct {
	viewdata.BaseVM

	Contact models.Contact

	Interest  template.HTML
	FundUse   template.HTML
	PastEvent template.HTML
	Comments  template.HTML
}

// formData is the view model for the new/edit form.
type formData struct {
	viewdata.BaseVM

	Contact models.Contact
	IsNew   bool
	Genders []string

	// Errors maps a form field name to its message.
	Errors map[string]string
}

// importData is the view model for the CSV upload page.
type importData struct {
	viewdata.BaseVM

	MaxMB   int64
	Columns []string
}

// boundInput is one date filter in the search form. Bounds that are not on
// a day boundary keep their time of day so resubmitting the form does not
// widen the range.
type boundInput struct {
	Type  string // "date" or "datetime-local"
	Value string
}

func newBoundInput(t *time.Time, upper bool) boundInput {
	v := contactsearch.BoundValue(t, upper)
	if strings.Contains(v, "T") {
		return boundInput{Type: "datetime-local", Value: v}
	}
	return boundInput{Type: "date", Value: v}
}
