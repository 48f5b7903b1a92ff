// Package contactsearch holds the contact search criteria and the predicate
// builder that turns them into a Mongo filter or an in-process matcher.
package contactsearch

import (
	"strings"
	"time"

	"github.com/dalemusser/contacthub/internal/domain/models"
)

// Field names a free-text filter. The string value doubles as the query
// parameter name used by the search form.
type Field string

const (
	Title         Field = "title"
	FirstName     Field = "firstName"
	LastName      Field = "lastName"
	Gender        Field = "gender"
	Email         Field = "email"
	Phone1        Field = "phone1"
	Phone2        Field = "phone2"
	Institution   Field = "institution"
	Faculty       Field = "faculty"
	StudyDomain   Field = "studyDomain"
	PersGroup     Field = "persGroup"
	Function      Field = "function"
	PostAddress   Field = "postAddress"
	Country       Field = "country"
	Interest      Field = "interest"
	FundUse       Field = "fundUse"
	PastEvent     Field = "pastEvent"
	ContactPerson Field = "contactPerson"
	Comments      Field = "comments"
)

// textField binds a Field to its stored column and an accessor on Contact.
type textField struct {
	field  Field
	column string
	value  func(models.Contact) string
}

// textFields is the fixed predicate order for substring filters.
var textFields = []textField{
	{Title, "title", func(c models.Contact) string { return c.Title }},
	{FirstName, "first_name", func(c models.Contact) string { return c.FirstName }},
	{LastName, "last_name", func(c models.Contact) string { return c.LastName }},
	{Gender, "gender", func(c models.Contact) string { return c.Gender }},
	{Email, "email", func(c models.Contact) string { return c.Email }},
	{Phone1, "phone1", func(c models.Contact) string { return c.Phone1 }},
	{Phone2, "phone2", func(c models.Contact) string { return c.Phone2 }},
	{Institution, "institution", func(c models.Contact) string { return c.Institution }},
	{Faculty, "faculty", func(c models.Contact) string { return c.Faculty }},
	{StudyDomain, "study_domain", func(c models.Contact) string { return c.StudyDomain }},
	{PersGroup, "pers_group", func(c models.Contact) string { return c.PersGroup }},
	{Function, "function", func(c models.Contact) string { return c.Function }},
	{PostAddress, "post_address", func(c models.Contact) string { return c.PostAddress }},
	{Country, "country", func(c models.Contact) string { return c.Country }},
	{Interest, "interest", func(c models.Contact) string { return c.Interest }},
	{FundUse, "fund_use", func(c models.Contact) string { return c.FundUse }},
	{PastEvent, "past_event", func(c models.Contact) string { return c.PastEvent }},
	{ContactPerson, "contact_person", func(c models.Contact) string { return c.ContactPerson }},
	{Comments, "comments", func(c models.Contact) string { return c.Comments }},
}

// Fields returns every free-text filter field in predicate order.
func Fields() []Field {
	out := make([]Field, len(textFields))
	for i, tf := range textFields {
		out[i] = tf.field
	}
	return out
}

func isField(f Field) bool {
	for _, tf := range textFields {
		if tf.field == f {
			return true
		}
	}
	return false
}

// Criteria is a bag of optional filters. The zero value is an empty
// criteria that matches every contact.
//
// Text filters are trimmed on Set; a blank value clears the filter, so an
// absent filter and an empty one are never distinguishable.
type Criteria struct {
	text map[Field]string

	coilExp     *bool
	mobilityFin *bool

	createdAfter  *time.Time
	createdBefore *time.Time
	updatedAfter  *time.Time
	updatedBefore *time.Time
}

// Set assigns a free-text filter. Blank or whitespace-only values clear it.
// Unknown fields are ignored.
func (c *Criteria) Set(f Field, v string) {
	if !isField(f) {
		return
	}
	v = strings.TrimSpace(v)
	if v == "" {
		delete(c.text, f)
		return
	}
	if c.text == nil {
		c.text = make(map[Field]string)
	}
	c.text[f] = v
}

// Get returns the filter value for f and whether it is present.
func (c Criteria) Get(f Field) (string, bool) {
	v, ok := c.text[f]
	return v, ok
}

// Value returns the filter value for f or "" when absent.
// Convenient for templates.
func (c Criteria) Value(f Field) string {
	return c.text[f]
}

func (c *Criteria) SetCoilExp(v *bool)     { c.coilExp = copyBool(v) }
func (c *Criteria) SetMobilityFin(v *bool) { c.mobilityFin = copyBool(v) }
func (c Criteria) CoilExp() *bool          { return c.coilExp }
func (c Criteria) MobilityFin() *bool      { return c.mobilityFin }

func (c *Criteria) SetCreatedAfter(t *time.Time)  { c.createdAfter = copyTime(t) }
func (c *Criteria) SetCreatedBefore(t *time.Time) { c.createdBefore = copyTime(t) }
func (c *Criteria) SetUpdatedAfter(t *time.Time)  { c.updatedAfter = copyTime(t) }
func (c *Criteria) SetUpdatedBefore(t *time.Time) { c.updatedBefore = copyTime(t) }
func (c Criteria) CreatedAfter() *time.Time       { return c.createdAfter }
func (c Criteria) CreatedBefore() *time.Time      { return c.createdBefore }
func (c Criteria) UpdatedAfter() *time.Time       { return c.updatedAfter }
func (c Criteria) UpdatedBefore() *time.Time      { return c.updatedBefore }

// IsEmpty reports whether no filter of any kind is present.
func (c Criteria) IsEmpty() bool {
	return len(c.text) == 0 &&
		c.coilExp == nil && c.mobilityFin == nil &&
		c.createdAfter == nil && c.createdBefore == nil &&
		c.updatedAfter == nil && c.updatedBefore == nil
}

func copyBool(v *bool) *bool {
	if v == nil {
		return nil
	}
	b := *v
	return &b
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	tt := *t
	return &tt
}
