package contactstore_test

import (
	"errors"
	"testing"
	"time"

	contactstore "github.com/dalemusser/contacthub/internal/app/store/contacts"
	"github.com/dalemusser/contacthub/internal/app/system/contactsearch"
	"github.com/dalemusser/contacthub/internal/domain/models"
	"github.com/dalemusser/contacthub/internal/testutil"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func newContact(first, last, email string) models.Contact {
	return models.Contact{
		FirstName:   first,
		LastName:    last,
		Email:       email,
		Gender:      "female",
		Institution: "Uni",
	}
}

func TestStore_Create_AssignsIDAndAudit(t *testing.T) {
	db := testutil.SetupTestDB(t)
	now := time.Date(2024, 4, 1, 10, 0, 0, 0, time.UTC)
	store := contactstore.New(db).WithClock(fixedClock(now))
	ctx, cancel := testutil.TestContext()
	defer cancel()

	c := newContact("Ann", "Lee", "  Ann.Lee@Example.ORG ")
	c.Gender = "FEMALE"

	created, err := store.Create(ctx, c, "alice")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if created.ID != 1 {
		t.Errorf("expected first id 1, got %d", created.ID)
	}
	if created.Email != "ann.lee@example.org" {
		t.Errorf("expected lowercased email, got %q", created.Email)
	}
	if created.Gender != "female" {
		t.Errorf("expected lowercased gender, got %q", created.Gender)
	}
	if created.LastNameCI == "" || created.FirstNameCI == "" || created.InstitutionCI == "" {
		t.Error("expected folded shadow fields to be set")
	}
	if !created.CreatedAt.Equal(now) || !created.UpdatedAt.Equal(now) {
		t.Errorf("expected timestamps %v, got %v / %v", now, created.CreatedAt, created.UpdatedAt)
	}
	if created.CreatedBy != "alice" || created.UpdatedBy != "alice" {
		t.Errorf("expected actor alice, got %q / %q", created.CreatedBy, created.UpdatedBy)
	}

	second, err := store.Create(ctx, newContact("Bo", "Chen", "bo@example.org"), "")
	if err != nil {
		t.Fatalf("second Create failed: %v", err)
	}
	if second.ID != 2 {
		t.Errorf("expected second id 2, got %d", second.ID)
	}
	if second.CreatedBy != models.SystemActor {
		t.Errorf("expected system actor, got %q", second.CreatedBy)
	}
}

func TestStore_Create_DuplicateEmail(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := contactstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if _, err := store.Create(ctx, newContact("A", "B", "dup@example.org"), ""); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	_, err := store.Create(ctx, newContact("C", "D", "DUP@example.org"), "")
	if !errors.Is(err, contactstore.ErrDuplicateEmail) {
		t.Errorf("expected ErrDuplicateEmail, got %v", err)
	}
}

func TestStore_Create_Validation(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := contactstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	tests := []struct {
		name   string
		mutate func(*models.Contact)
		want   error
	}{
		{"unknown gender", func(c *models.Contact) { c.Gender = "robot" }, contactstore.ErrInvalidGender},
		{"empty gender", func(c *models.Contact) { c.Gender = "" }, contactstore.ErrInvalidGender},
		{"blank email", func(c *models.Contact) { c.Email = "  " }, contactstore.ErrEmailRequired},
		{"malformed email", func(c *models.Contact) { c.Email = "not-an-email" }, contactstore.ErrInvalidEmail},
		{"empty first name", func(c *models.Contact) { c.FirstName = "" }, contactstore.ErrFieldRequired},
		{"blank last name", func(c *models.Contact) { c.LastName = "   " }, contactstore.ErrFieldRequired},
		{"empty institution", func(c *models.Contact) { c.Institution = "" }, contactstore.ErrFieldRequired},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newContact("A", "B", "x@example.org")
			tt.mutate(&c)
			if _, err := store.Create(ctx, c, ""); !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}

	n, err := store.Count(ctx)
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if n != 0 {
		t.Errorf("expected no stored contacts, got %d", n)
	}
}

func TestStore_Update_KeepsCreationAudit(t *testing.T) {
	db := testutil.SetupTestDB(t)
	t0 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	store := contactstore.New(db).WithClock(fixedClock(t0))
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, err := store.Create(ctx, newContact("Ann", "Lee", "ann@example.org"), "alice")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	t1 := t0.Add(48 * time.Hour)
	store.WithClock(fixedClock(t1))

	edit := newContact("Anna", "Lee", "ann@example.org")
	edit.Country = "DE"
	edit.CreatedBy = "mallory"
	edit.ID = 999

	updated, err := store.Update(ctx, created.ID, edit, "bob")
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if updated.ID != created.ID {
		t.Errorf("id changed: %d -> %d", created.ID, updated.ID)
	}
	if updated.FirstName != "Anna" || updated.Country != "DE" {
		t.Errorf("mutable fields not applied: %+v", updated)
	}
	if !updated.CreatedAt.Equal(t0) || updated.CreatedBy != "alice" {
		t.Errorf("creation audit changed: %v %q", updated.CreatedAt, updated.CreatedBy)
	}
	if !updated.UpdatedAt.Equal(t1) || updated.UpdatedBy != "bob" {
		t.Errorf("update audit wrong: %v %q", updated.UpdatedAt, updated.UpdatedBy)
	}

	got, err := store.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.FirstName != "Anna" {
		t.Errorf("update not persisted, got %q", got.FirstName)
	}
}

func TestStore_Update_ClockSkewKeepsUpdatedAfterCreated(t *testing.T) {
	db := testutil.SetupTestDB(t)
	t0 := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	store := contactstore.New(db).WithClock(fixedClock(t0))
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, err := store.Create(ctx, newContact("A", "B", "skew@example.org"), "")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	store.WithClock(fixedClock(t0.Add(-time.Hour)))

	updated, err := store.Update(ctx, created.ID, newContact("A", "C", "skew@example.org"), "")
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if updated.UpdatedAt.Before(updated.CreatedAt) {
		t.Errorf("updated_at %v before created_at %v", updated.UpdatedAt, updated.CreatedAt)
	}
}

func TestStore_Update_NotFoundAndDuplicate(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := contactstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if _, err := store.Update(ctx, 42, newContact("A", "B", "a@example.org"), ""); !errors.Is(err, contactstore.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}

	a, _ := store.Create(ctx, newContact("A", "B", "a@example.org"), "")
	if _, err := store.Create(ctx, newContact("C", "D", "c@example.org"), ""); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := store.Update(ctx, a.ID, newContact("A", "B", "c@example.org"), ""); !errors.Is(err, contactstore.ErrDuplicateEmail) {
		t.Errorf("expected ErrDuplicateEmail, got %v", err)
	}
}

func TestStore_DeleteAndExists(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := contactstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	c, err := store.Create(ctx, newContact("A", "B", "del@example.org"), "")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	ok, err := store.Exists(ctx, c.ID)
	if err != nil || !ok {
		t.Fatalf("Exists = %v, %v; want true", ok, err)
	}
	if err := store.Delete(ctx, c.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if ok, _ := store.Exists(ctx, c.ID); ok {
		t.Error("expected contact to be gone")
	}
	if err := store.Delete(ctx, c.ID); !errors.Is(err, contactstore.ErrNotFound) {
		t.Errorf("expected ErrNotFound on second delete, got %v", err)
	}
	if _, err := store.GetByID(ctx, c.ID); !errors.Is(err, contactstore.ErrNotFound) {
		t.Errorf("expected ErrNotFound from GetByID, got %v", err)
	}
}

func TestStore_GetByEmail_CaseInsensitive(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := contactstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if _, err := store.Create(ctx, newContact("A", "B", "Mixed@Example.org"), ""); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	got, err := store.GetByEmail(ctx, "MIXED@example.ORG")
	if err != nil {
		t.Fatalf("GetByEmail failed: %v", err)
	}
	if got.Email != "mixed@example.org" {
		t.Errorf("got email %q", got.Email)
	}
	if _, err := store.GetByEmail(ctx, "nobody@example.org"); !errors.Is(err, contactstore.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestStore_Search_ConjunctionAndDefaultOrder(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := contactstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	seed := []models.Contact{
		{FirstName: "John", LastName: "Smith", Email: "js@example.org", Country: "DE", Institution: "U", Gender: "male"},
		{FirstName: "Jane", LastName: "Smith", Email: "jane@example.org", Country: "FR", Institution: "U", Gender: "male"},
		{FirstName: "Ann", LastName: "smithers", Email: "as@example.org", Country: "de", Institution: "U", Gender: "male"},
		{FirstName: "Bob", LastName: "Jones", Email: "bj@example.org", Country: "DE", Institution: "U", Gender: "male"},
	}
	for _, c := range seed {
		if _, err := store.Create(ctx, c, ""); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
	}

	var crit contactsearch.Criteria
	crit.Set(contactsearch.LastName, "smith")
	crit.Set(contactsearch.Country, "de")

	got, err := store.Search(ctx, crit, nil)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(got))
	}
	if got[0].LastName != "Smith" || got[1].LastName != "smithers" {
		t.Errorf("unexpected order: %q, %q", got[0].LastName, got[1].LastName)
	}

	all, err := store.FindAll(ctx, nil)
	if err != nil {
		t.Fatalf("FindAll failed: %v", err)
	}
	empty, err := store.Search(ctx, contactsearch.Criteria{}, nil)
	if err != nil {
		t.Fatalf("Search(empty) failed: %v", err)
	}
	if len(all) != 4 || len(empty) != 4 {
		t.Fatalf("expected 4 contacts, got %d / %d", len(all), len(empty))
	}
	for i := range all {
		if all[i].ID != empty[i].ID {
			t.Errorf("empty search differs from FindAll at %d", i)
		}
	}
}

func TestStore_Search_RegexInputIsLiteral(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := contactstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if _, err := store.Create(ctx, newContact("A", "B", "plain@example.org"), ""); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	var crit contactsearch.Criteria
	crit.Set(contactsearch.Email, ".*")
	got, err := store.Search(ctx, crit, nil)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected no matches for literal .*, got %d", len(got))
	}
}

func TestStore_SearchPage(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := contactstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	for _, email := range []string{"a@x.org", "b@x.org", "c@x.org", "d@x.org", "e@x.org"} {
		if _, err := store.Create(ctx, newContact("Same", "Name", email), ""); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
	}

	page, err := store.SearchPage(ctx, contactsearch.Criteria{}, contactsearch.PageRequest{Page: 1, Size: 2})
	if err != nil {
		t.Fatalf("SearchPage failed: %v", err)
	}
	if page.Total != 5 || page.TotalPages != 3 {
		t.Errorf("totals: got %d/%d, want 5/3", page.Total, page.TotalPages)
	}
	if len(page.Items) != 2 || page.Items[0].ID != 3 || page.Items[1].ID != 4 {
		t.Errorf("expected ids 3,4 on page 1, got %+v", page.Items)
	}

	desc := contactsearch.PageRequest{Size: 2, Sort: contactsearch.ParseSort([]string{"email,desc"})}
	page, err = store.SearchPage(ctx, contactsearch.Criteria{}, desc)
	if err != nil {
		t.Fatalf("SearchPage failed: %v", err)
	}
	if page.Items[0].Email != "e@x.org" {
		t.Errorf("expected e@x.org first, got %q", page.Items[0].Email)
	}

	n, err := store.Count(ctx)
	if err != nil || n != 5 {
		t.Errorf("Count = %d, %v; want 5", n, err)
	}
}
