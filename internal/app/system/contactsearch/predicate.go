package contactsearch

import (
	"regexp"
	"strings"
	"time"

	"github.com/dalemusser/contacthub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Kind is the comparison a Predicate applies.
type Kind int

const (
	// Substring is a case-insensitive, unanchored contains match.
	Substring Kind = iota
	// Equal is exact equality.
	Equal
	// AtLeast is an inclusive lower bound.
	AtLeast
	// AtMost is an inclusive upper bound.
	AtMost
)

func (k Kind) String() string {
	switch k {
	case Substring:
		return "substring"
	case Equal:
		return "equal"
	case AtLeast:
		return "at_least"
	case AtMost:
		return "at_most"
	}
	return "unknown"
}

// Predicate is one (column, value, kind) triple. All predicates of a
// criteria are ANDed.
type Predicate struct {
	Column string
	Kind   Kind
	Value  any
}

// Predicates folds the present filters of c into an ordered predicate list:
// free-text fields first (in Fields order), then the booleans, then the
// created and updated bounds.
func (c Criteria) Predicates() []Predicate {
	var out []Predicate
	for _, tf := range textFields {
		if v, ok := c.text[tf.field]; ok {
			out = append(out, Predicate{Column: tf.column, Kind: Substring, Value: v})
		}
	}
	if c.coilExp != nil {
		out = append(out, Predicate{Column: "coil_exp", Kind: Equal, Value: *c.coilExp})
	}
	if c.mobilityFin != nil {
		out = append(out, Predicate{Column: "mobility_fin", Kind: Equal, Value: *c.mobilityFin})
	}
	if c.createdAfter != nil {
		out = append(out, Predicate{Column: "created_at", Kind: AtLeast, Value: *c.createdAfter})
	}
	if c.createdBefore != nil {
		out = append(out, Predicate{Column: "created_at", Kind: AtMost, Value: *c.createdBefore})
	}
	if c.updatedAfter != nil {
		out = append(out, Predicate{Column: "updated_at", Kind: AtLeast, Value: *c.updatedAfter})
	}
	if c.updatedBefore != nil {
		out = append(out, Predicate{Column: "updated_at", Kind: AtMost, Value: *c.updatedBefore})
	}
	return out
}

// Filter renders the criteria as a Mongo filter document.
// An empty criteria yields an empty filter.
func (c Criteria) Filter() bson.M {
	return BSON(c.Predicates())
}

// BSON renders predicates as a Mongo filter. Substring values are
// regex-quoted so user input is always matched literally.
func BSON(preds []Predicate) bson.M {
	f := bson.M{}
	for _, p := range preds {
		switch p.Kind {
		case Substring:
			s, _ := p.Value.(string)
			f[p.Column] = primitive.Regex{Pattern: regexp.QuoteMeta(s), Options: "i"}
		case Equal:
			f[p.Column] = p.Value
		case AtLeast:
			rangeOp(f, p.Column)["$gte"] = p.Value
		case AtMost:
			rangeOp(f, p.Column)["$lte"] = p.Value
		}
	}
	return f
}

func rangeOp(f bson.M, column string) bson.M {
	if m, ok := f[column].(bson.M); ok {
		return m
	}
	m := bson.M{}
	f[column] = m
	return m
}

// Matches reports whether contact satisfies every predicate. It evaluates
// the same semantics as BSON without a database.
func Matches(preds []Predicate, contact models.Contact) bool {
	for _, p := range preds {
		if !matchOne(p, contact) {
			return false
		}
	}
	return true
}

// Matches reports whether contact satisfies c.
func (c Criteria) Matches(contact models.Contact) bool {
	return Matches(c.Predicates(), contact)
}

func matchOne(p Predicate, c models.Contact) bool {
	switch p.Kind {
	case Substring:
		got, ok := textColumn(p.Column, c)
		want, _ := p.Value.(string)
		return ok && strings.Contains(strings.ToLower(got), strings.ToLower(want))
	case Equal:
		got, ok := boolColumn(p.Column, c)
		want, _ := p.Value.(bool)
		return ok && got == want
	case AtLeast, AtMost:
		got, ok := timeColumn(p.Column, c)
		bound, _ := p.Value.(time.Time)
		if !ok {
			return false
		}
		if p.Kind == AtLeast {
			return !got.Before(bound)
		}
		return !got.After(bound)
	}
	return false
}

func textColumn(column string, c models.Contact) (string, bool) {
	for _, tf := range textFields {
		if tf.column == column {
			return tf.value(c), true
		}
	}
	return "", false
}

func boolColumn(column string, c models.Contact) (bool, bool) {
	switch column {
	case "coil_exp":
		return c.CoilExp, true
	case "mobility_fin":
		return c.MobilityFin, true
	}
	return false, false
}

func timeColumn(column string, c models.Contact) (time.Time, bool) {
	switch column {
	case "created_at":
		return c.CreatedAt, true
	case "updated_at":
		return c.UpdatedAt, true
	}
	return time.Time{}, false
}
