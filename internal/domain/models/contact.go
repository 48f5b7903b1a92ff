// internal/domain/models/contact.go
package models

import (
	"strings"
	"time"
)

// Gender values accepted for a contact. Stored lowercase.
const (
	GenderMale    = "male"
	GenderFemale  = "female"
	GenderDiverse = "diverse"
)

// AllGenders lists the accepted gender values in display order.
var AllGenders = []string{GenderMale, GenderFemale, GenderDiverse}

// SystemActor is recorded in audit fields when no principal is signed in.
const SystemActor = "system"

// Contact is a person of interest to the organization.
//
// ID is assigned by the store from the "counters" collection; zero means the
// contact has not been persisted yet. The *_ci fields are folded copies used
// for case-insensitive sorting and are maintained by the store.
type Contact struct {
	ID int64 `bson:"_id" json:"id"`

	Title         string `bson:"title,omitempty" json:"title,omitempty"`
	FirstName     string `bson:"first_name" json:"first_name"`
	FirstNameCI   string `bson:"first_name_ci" json:"-"`
	LastName      string `bson:"last_name" json:"last_name"`
	LastNameCI    string `bson:"last_name_ci" json:"-"`
	Gender        string `bson:"gender" json:"gender"`
	Email         string `bson:"email" json:"email"` // lowercase, unique
	Phone1        string `bson:"phone1,omitempty" json:"phone1,omitempty"`
	Phone2        string `bson:"phone2,omitempty" json:"phone2,omitempty"`
	Institution   string `bson:"institution" json:"institution"`
	InstitutionCI string `bson:"institution_ci" json:"-"`
	Faculty       string `bson:"faculty,omitempty" json:"faculty,omitempty"`
	StudyDomain   string `bson:"study_domain,omitempty" json:"study_domain,omitempty"`
	PersGroup     string `bson:"pers_group,omitempty" json:"pers_group,omitempty"`
	Function      string `bson:"function,omitempty" json:"function,omitempty"`
	PostAddress   string `bson:"post_address,omitempty" json:"post_address,omitempty"`
	Country       string `bson:"country,omitempty" json:"country,omitempty"`
	Interest      string `bson:"interest,omitempty" json:"interest,omitempty"`

	CoilExp     bool `bson:"coil_exp" json:"coil_exp"`
	MobilityFin bool `bson:"mobility_fin" json:"mobility_fin"`

	FundUse       string `bson:"fund_use,omitempty" json:"fund_use,omitempty"`
	PastEvent     string `bson:"past_event,omitempty" json:"past_event,omitempty"`
	ContactPerson string `bson:"contact_person,omitempty" json:"contact_person,omitempty"`
	Comments      string `bson:"comments,omitempty" json:"comments,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
	CreatedBy string    `bson:"created_by" json:"created_by"`
	UpdatedBy string    `bson:"updated_by" json:"updated_by"`
}

// IsNew reports whether the contact has not been persisted yet.
func (c Contact) IsNew() bool { return c.ID == 0 }

// FullName returns "First Last", skipping empty parts.
func (c Contact) FullName() string {
	return strings.TrimSpace(c.FirstName + " " + c.LastName)
}

// NormalizeGender lowercases and trims a gender value.
func NormalizeGender(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// IsValidGender reports whether s (after normalization) is an accepted gender.
func IsValidGender(s string) bool {
	switch NormalizeGender(s) {
	case GenderMale, GenderFemale, GenderDiverse:
		return true
	}
	return false
}

// ApplyMutable copies every user-editable field from src onto c, leaving the
// identifier and audit fields of c untouched.
func (c *Contact) ApplyMutable(src Contact) {
	c.Title = src.Title
	c.FirstName = src.FirstName
	c.LastName = src.LastName
	c.Gender = src.Gender
	c.Email = src.Email
	c.Phone1 = src.Phone1
	c.Phone2 = src.Phone2
	c.Institution = src.Institution
	c.Faculty = src.Faculty
	c.StudyDomain = src.StudyDomain
	c.PersGroup = src.PersGroup
	c.Function = src.Function
	c.PostAddress = src.PostAddress
	c.Country = src.Country
	c.Interest = src.Interest
	c.CoilExp = src.CoilExp
	c.MobilityFin = src.MobilityFin
	c.FundUse = src.FundUse
	c.PastEvent = src.PastEvent
	c.ContactPerson = src.ContactPerson
	c.Comments = src.Comments
}
