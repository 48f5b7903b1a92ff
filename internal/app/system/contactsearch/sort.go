package contactsearch

import (
	"strings"
	"time"

	"github.com/dalemusser/contacthub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
)

// SortKey orders by one column. Name is the public sort parameter name.
type SortKey struct {
	Name   string
	Column string
	Desc   bool
}

// Sort is an ordered list of keys; earlier keys take precedence.
type Sort []SortKey

// sortable whitelists the sort parameter names and the column behind each.
// Name-like columns sort on their folded shadow copy.
var sortable = map[string]string{
	"id":          "_id",
	"lastName":    "last_name_ci",
	"firstName":   "first_name_ci",
	"email":       "email",
	"institution": "institution_ci",
	"country":     "country",
	"gender":      "gender",
	"createdAt":   "created_at",
	"updatedAt":   "updated_at",
}

// DefaultSort is last name, then first name (both case-insensitive), then id.
func DefaultSort() Sort {
	return Sort{
		{Name: "lastName", Column: "last_name_ci"},
		{Name: "firstName", Column: "first_name_ci"},
		{Name: "id", Column: "_id"},
	}
}

// ParseSort reads "field" or "field,dir" values (dir is asc or desc).
// Unknown fields are dropped; duplicates keep their first position.
func ParseSort(params []string) Sort {
	var out Sort
	seen := map[string]bool{}
	for _, p := range params {
		name, dir, _ := strings.Cut(strings.TrimSpace(p), ",")
		name = strings.TrimSpace(name)
		col, ok := sortable[name]
		if !ok || seen[name] {
			continue
		}
		seen[name] = true
		out = append(out, SortKey{
			Name:   name,
			Column: col,
			Desc:   strings.EqualFold(strings.TrimSpace(dir), "desc"),
		})
	}
	return out
}

// OrDefault returns s, or DefaultSort when s is empty.
func (s Sort) OrDefault() Sort {
	if len(s) == 0 {
		return DefaultSort()
	}
	return s
}

// Stable returns s with the id appended as the final tie-break when absent.
func (s Sort) Stable() Sort {
	for _, k := range s {
		if k.Column == "_id" {
			return s
		}
	}
	out := make(Sort, 0, len(s)+1)
	out = append(out, s...)
	return append(out, SortKey{Name: "id", Column: "_id"})
}

// BSON renders the sort (defaulted and made stable) for Find options.
func (s Sort) BSON() bson.D {
	keys := s.OrDefault().Stable()
	d := make(bson.D, 0, len(keys))
	for _, k := range keys {
		dir := 1
		if k.Desc {
			dir = -1
		}
		d = append(d, bson.E{Key: k.Column, Value: dir})
	}
	return d
}

// Params renders the sort back into "field,dir" parameters.
func (s Sort) Params() []string {
	out := make([]string, 0, len(s))
	for _, k := range s {
		dir := "asc"
		if k.Desc {
			dir = "desc"
		}
		out = append(out, k.Name+","+dir)
	}
	return out
}

// Less orders a before b using the same semantics as BSON.
func (s Sort) Less(a, b models.Contact) bool {
	for _, k := range s.OrDefault().Stable() {
		c := compareColumn(k.Column, a, b)
		if c == 0 {
			continue
		}
		if k.Desc {
			return c > 0
		}
		return c < 0
	}
	return false
}

func compareColumn(column string, a, b models.Contact) int {
	switch column {
	case "_id":
		return compareInt(a.ID, b.ID)
	case "last_name_ci":
		return strings.Compare(text.Fold(a.LastName), text.Fold(b.LastName))
	case "first_name_ci":
		return strings.Compare(text.Fold(a.FirstName), text.Fold(b.FirstName))
	case "institution_ci":
		return strings.Compare(text.Fold(a.Institution), text.Fold(b.Institution))
	case "email":
		return strings.Compare(a.Email, b.Email)
	case "country":
		return strings.Compare(a.Country, b.Country)
	case "gender":
		return strings.Compare(a.Gender, b.Gender)
	case "created_at":
		return compareTime(a.CreatedAt, b.CreatedAt)
	case "updated_at":
		return compareTime(a.UpdatedAt, b.UpdatedAt)
	}
	return 0
}

func compareInt(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func compareTime(a, b time.Time) int {
	return a.Compare(b)
}
