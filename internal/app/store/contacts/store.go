// internal/app/store/contacts/store.go
package contactstore

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dalemusser/contacthub/internal/app/system/inputval"
	"github.com/dalemusser/contacthub/internal/app/system/normalize"
	"github.com/dalemusser/contacthub/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CounterKey is the counters document that allocates contact ids.
const CounterKey = "contacts"

var (
	// ErrNotFound is returned when no contact matches the id or email.
	ErrNotFound = errors.New("contact not found")
	// ErrDuplicateEmail is returned when another contact already uses the email.
	ErrDuplicateEmail = errors.New("a contact with this email already exists")
	// ErrInvalidGender is returned for a gender outside models.AllGenders.
	ErrInvalidGender = errors.New(`gender must be "male"|"female"|"diverse"`)
	// ErrEmailRequired is returned when a contact has no email.
	ErrEmailRequired = errors.New("email is required")
	// ErrInvalidEmail is returned when the email is not a bare address.
	ErrInvalidEmail = errors.New("email is not a valid address")
	// ErrFieldRequired is returned when a required name field is blank.
	ErrFieldRequired = errors.New("field is required")
)

// ValidationError names the contact field that failed a store rule.
// Field uses the form/CSV column name; Err is one of the sentinels above.
type ValidationError struct {
	Field string
	Err   error
}

func (e *ValidationError) Error() string { return e.Field + ": " + e.Err.Error() }
func (e *ValidationError) Unwrap() error { return e.Err }

// Message is the user-facing text for a form.
func (e *ValidationError) Message() string {
	switch {
	case errors.Is(e.Err, ErrEmailRequired), errors.Is(e.Err, ErrInvalidEmail):
		return "A valid email address is required."
	case errors.Is(e.Err, ErrInvalidGender):
		return "Gender must be one of: " + strings.Join(models.AllGenders, ", ") + "."
	default:
		return "This field is required."
	}
}

type Store struct {
	c        *mongo.Collection
	counters *mongo.Collection
	now      func() time.Time
}

func New(db *mongo.Database) *Store {
	return &Store{
		c:        db.Collection("contacts"),
		counters: db.Collection("counters"),
		now:      time.Now,
	}
}

// WithClock replaces the clock used for audit timestamps. Tests use it to
// pin created_at/updated_at.
func (s *Store) WithClock(now func() time.Time) *Store {
	s.now = now
	return s
}

// GetByID loads a contact by its numeric id.
func (s *Store) GetByID(ctx context.Context, id int64) (models.Contact, error) {
	return s.findOne(ctx, bson.M{"_id": id})
}

// GetByEmail looks up a contact by case-insensitive email.
func (s *Store) GetByEmail(ctx context.Context, email string) (models.Contact, error) {
	email = normalize.Email(email)
	if email == "" {
		return models.Contact{}, ErrNotFound
	}
	return s.findOne(ctx, bson.M{"email": email})
}

func (s *Store) findOne(ctx context.Context, filter bson.M) (models.Contact, error) {
	var c models.Contact
	if err := s.c.FindOne(ctx, filter).Decode(&c); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Contact{}, ErrNotFound
		}
		return models.Contact{}, err
	}
	return c, nil
}

// Exists reports whether a contact with id is stored.
func (s *Store) Exists(ctx context.Context, id int64) (bool, error) {
	n, err := s.c.CountDocuments(ctx, bson.M{"_id": id}, options.Count().SetLimit(1))
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Count returns the number of stored contacts.
func (s *Store) Count(ctx context.Context) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{})
}

// Create assigns the next id, stamps both audit pairs with actor and the
// current time, and inserts c. Any id already on c is replaced.
func (s *Store) Create(ctx context.Context, c models.Contact, actor string) (models.Contact, error) {
	if err := Prepare(&c); err != nil {
		return models.Contact{}, err
	}

	id, err := s.nextID(ctx)
	if err != nil {
		return models.Contact{}, fmt.Errorf("allocate contact id: %w", err)
	}
	c.ID = id

	now := s.now().UTC()
	actor = actorOrSystem(actor)
	c.CreatedAt, c.UpdatedAt = now, now
	c.CreatedBy, c.UpdatedBy = actor, actor

	if _, err := s.c.InsertOne(ctx, c); err != nil {
		if wafflemongo.IsDup(err) {
			return models.Contact{}, ErrDuplicateEmail
		}
		return models.Contact{}, err
	}
	return c, nil
}

// Update overwrites every mutable field of the contact with id using the
// values in c. The id and creation audit fields are kept; updated_at and
// updated_by are stamped.
func (s *Store) Update(ctx context.Context, id int64, c models.Contact, actor string) (models.Contact, error) {
	existing, err := s.GetByID(ctx, id)
	if err != nil {
		return models.Contact{}, err
	}

	existing.ApplyMutable(c)
	if err := Prepare(&existing); err != nil {
		return models.Contact{}, err
	}

	now := s.now().UTC()
	if now.Before(existing.CreatedAt) {
		now = existing.CreatedAt
	}
	existing.UpdatedAt = now
	existing.UpdatedBy = actorOrSystem(actor)

	res, err := s.c.ReplaceOne(ctx, bson.M{"_id": id}, existing)
	if err != nil {
		if wafflemongo.IsDup(err) {
			return models.Contact{}, ErrDuplicateEmail
		}
		return models.Contact{}, err
	}
	if res.MatchedCount == 0 {
		return models.Contact{}, ErrNotFound
	}
	return existing, nil
}

// Delete removes the contact with id.
func (s *Store) Delete(ctx context.Context, id int64) error {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// nextID increments the contacts counter and returns the new value.
func (s *Store) nextID(ctx context.Context) (int64, error) {
	var doc struct {
		Seq int64 `bson:"seq"`
	}
	err := s.counters.FindOneAndUpdate(ctx,
		bson.M{"_id": CounterKey},
		bson.M{"$inc": bson.M{"seq": int64(1)}},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&doc)
	if err != nil {
		return 0, err
	}
	return doc.Seq, nil
}

// Prepare normalizes c in place, maintains the folded shadow fields and
// enforces the contact invariants: a valid unique-able email, the required
// names and institution, and a gender from models.AllGenders.
func Prepare(c *models.Contact) error {
	c.Email = normalize.Email(c.Email)
	switch {
	case c.Email == "":
		return &ValidationError{Field: "email", Err: ErrEmailRequired}
	case !inputval.IsValidEmail(c.Email):
		return &ValidationError{Field: "email", Err: ErrInvalidEmail}
	}

	c.Title = strings.TrimSpace(c.Title)
	c.FirstName = normalize.Name(c.FirstName)
	c.LastName = normalize.Name(c.LastName)
	c.Institution = normalize.Name(c.Institution)
	for _, req := range []struct{ field, value string }{
		{"firstName", c.FirstName},
		{"lastName", c.LastName},
		{"institution", c.Institution},
	} {
		if req.value == "" {
			return &ValidationError{Field: req.field, Err: ErrFieldRequired}
		}
	}

	c.Gender = models.NormalizeGender(c.Gender)
	if !models.IsValidGender(c.Gender) {
		return &ValidationError{Field: "gender", Err: ErrInvalidGender}
	}

	c.FirstNameCI = text.Fold(c.FirstName)
	c.LastNameCI = text.Fold(c.LastName)
	c.InstitutionCI = text.Fold(c.Institution)
	return nil
}

func actorOrSystem(actor string) string {
	if a := strings.TrimSpace(actor); a != "" {
		return a
	}
	return models.SystemActor
}
