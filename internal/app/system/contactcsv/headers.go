// internal/app/system/contactcsv/headers.go
package contactcsv

import (
	"strings"

	"github.com/dalemusser/contacthub/internal/domain/models"
)

// column describes one importable contact field: the header spellings that
// select it and how a cell value is applied.
type column struct {
	aliases []string
	apply   func(c *models.Contact, v string)
}

var emailAliases = []string{"email", "e-mail"}

// columns is the header alias table. Audit fields and id are deliberately
// absent so a re-imported export never rewrites them.
var columns = []column{
	{[]string{"title"}, func(c *models.Contact, v string) { c.Title = v }},
	{[]string{"firstname", "first_name", "first name"}, func(c *models.Contact, v string) { c.FirstName = v }},
	{[]string{"lastname", "last_name", "last name"}, func(c *models.Contact, v string) { c.LastName = v }},
	{[]string{"gender"}, func(c *models.Contact, v string) { c.Gender = models.NormalizeGender(v) }},
	{[]string{"phone1", "phone_1", "phone"}, func(c *models.Contact, v string) { c.Phone1 = v }},
	{[]string{"phone2", "phone_2", "mobile", "mobile_phone"}, func(c *models.Contact, v string) { c.Phone2 = v }},
	{[]string{"institution"}, func(c *models.Contact, v string) { c.Institution = v }},
	{[]string{"faculty"}, func(c *models.Contact, v string) { c.Faculty = v }},
	{[]string{"studydomain", "study_domain", "study domain"}, func(c *models.Contact, v string) { c.StudyDomain = v }},
	{[]string{"persgroup", "pers_group", "personal_group", "personal group"}, func(c *models.Contact, v string) { c.PersGroup = v }},
	{[]string{"function", "jobfunction", "job_function", "job function"}, func(c *models.Contact, v string) { c.Function = v }},
	{[]string{"postaddress", "post_address", "postal address", "address"}, func(c *models.Contact, v string) { c.PostAddress = v }},
	{[]string{"country"}, func(c *models.Contact, v string) { c.Country = v }},
	{[]string{"interest"}, func(c *models.Contact, v string) { c.Interest = v }},
	{[]string{"coilexp", "coil_exp", "coil experience"}, func(c *models.Contact, v string) { c.CoilExp = ParseBool(v) }},
	{[]string{"mobilityfin", "mobility_fin", "mobility financing"}, func(c *models.Contact, v string) { c.MobilityFin = ParseBool(v) }},
	{[]string{"funduse", "fund_use", "fund use"}, func(c *models.Contact, v string) { c.FundUse = v }},
	{[]string{"pastevent", "past_event", "past event"}, func(c *models.Contact, v string) { c.PastEvent = v }},
	{[]string{"contactperson", "contact_person", "contact person"}, func(c *models.Contact, v string) { c.ContactPerson = v }},
	{[]string{"comments", "comment", "notes"}, func(c *models.Contact, v string) { c.Comments = v }},
}

// header maps a lowercased, trimmed header name to its column index.
// A repeated name resolves to its last column.
type header map[string]int

func newHeader(names []string) header {
	h := make(header, len(names))
	for i, n := range names {
		h[strings.ToLower(strings.TrimSpace(n))] = i
	}
	return h
}

// index returns the column index of the first alias present in h.
func (h header) index(aliases []string) (int, bool) {
	for _, a := range aliases {
		if i, ok := h[a]; ok {
			return i, true
		}
	}
	return -1, false
}

// boundColumn is a column resolved against a concrete header.
type boundColumn struct {
	index int
	apply func(c *models.Contact, v string)
}

// bind resolves the alias table against h, keeping only columns present
// in the file.
func (h header) bind() []boundColumn {
	var out []boundColumn
	for _, col := range columns {
		if i, ok := h.index(col.aliases); ok {
			out = append(out, boundColumn{index: i, apply: col.apply})
		}
	}
	return out
}

// ParseBool accepts true, yes, 1 and y (any case); everything else is false.
func ParseBool(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "true", "yes", "1", "y":
		return true
	}
	return false
}

func cell(rec []string, i int) string {
	if i < 0 || i >= len(rec) {
		return ""
	}
	return rec[i]
}
