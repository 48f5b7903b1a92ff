package userstore_test

import (
	"errors"
	"testing"

	userstore "github.com/dalemusser/contacthub/internal/app/store/users"
	"github.com/dalemusser/contacthub/internal/domain/models"
	"github.com/dalemusser/contacthub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestStore_Create_Admin(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, err := store.Create(ctx, models.User{
		Username:     "  Alice ",
		PasswordHash: "$2a$10$hash",
		Enabled:      true,
		Role:         "ADMIN",
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	// Verify ID was assigned
	if created.ID == primitive.NilObjectID {
		t.Error("expected ID to be assigned")
	}
	if created.Username != "Alice" {
		t.Errorf("Username: got %q, want %q", created.Username, "Alice")
	}
	if created.UsernameCI != "alice" {
		t.Errorf("UsernameCI: got %q, want %q", created.UsernameCI, "alice")
	}
	if created.Role != models.RoleAdmin {
		t.Errorf("Role: got %q, want %q", created.Role, models.RoleAdmin)
	}

	// Verify timestamps
	if created.CreatedAt.IsZero() || created.UpdatedAt.IsZero() {
		t.Error("expected timestamps to be set")
	}
}

func TestStore_Create_InvalidRole(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	_, err := store.Create(ctx, models.User{Username: "bob", Role: "superuser"})
	if err == nil {
		t.Fatal("expected error for invalid role")
	}
}

func TestStore_Create_EmptyUsername(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	_, err := store.Create(ctx, models.User{Username: "   ", Role: models.RoleUser})
	if err == nil {
		t.Fatal("expected error for empty username")
	}
}

func TestStore_Create_DuplicateUsername(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if _, err := store.Create(ctx, models.User{Username: "carol", Role: models.RoleUser}); err != nil {
		t.Fatalf("first Create failed: %v", err)
	}
	_, err := store.Create(ctx, models.User{Username: "CAROL", Role: models.RoleUser})
	if !errors.Is(err, userstore.ErrDuplicateUsername) {
		t.Fatalf("expected ErrDuplicateUsername, got %v", err)
	}
}

func TestStore_GetByID(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, err := store.Create(ctx, models.User{Username: "dave", Role: models.RoleUser, Enabled: true})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	got, err := store.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.Username != "dave" {
		t.Errorf("Username: got %q, want %q", got.Username, "dave")
	}
}

func TestStore_GetByID_NotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	_, err := store.GetByID(ctx, primitive.NewObjectID())
	if !errors.Is(err, userstore.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestStore_GetByUsername_CaseInsensitive(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if _, err := store.Create(ctx, models.User{Username: "Erin", Role: models.RoleUser}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	got, err := store.GetByUsername(ctx, " ERIN ")
	if err != nil {
		t.Fatalf("GetByUsername failed: %v", err)
	}
	if got.Username != "Erin" {
		t.Errorf("Username: got %q, want %q", got.Username, "Erin")
	}

	if _, err := store.GetByUsername(ctx, "nobody"); !errors.Is(err, userstore.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestStore_List_SortedByUsername(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	for _, name := range []string{"zed", "Amy", "mike"} {
		if _, err := store.Create(ctx, models.User{Username: name, Role: models.RoleUser}); err != nil {
			t.Fatalf("Create %s failed: %v", name, err)
		}
	}

	users, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	want := []string{"Amy", "mike", "zed"}
	if len(users) != len(want) {
		t.Fatalf("expected %d users, got %d", len(want), len(users))
	}
	for i, u := range users {
		if u.Username != want[i] {
			t.Errorf("users[%d]: got %q, want %q", i, u.Username, want[i])
		}
	}
}

func TestStore_CountByRole(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	for _, u := range []models.User{
		{Username: "a1", Role: models.RoleAdmin},
		{Username: "a2", Role: models.RoleAdmin},
		{Username: "u1", Role: models.RoleUser},
	} {
		if _, err := store.Create(ctx, u); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
	}

	admins, err := store.CountByRole(ctx, models.RoleAdmin)
	if err != nil {
		t.Fatalf("CountByRole failed: %v", err)
	}
	if admins != 2 {
		t.Errorf("admins: got %d, want 2", admins)
	}
	total, err := store.Count(ctx)
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if total != 3 {
		t.Errorf("total: got %d, want 3", total)
	}
}

func TestStore_SetRole(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, err := store.Create(ctx, models.User{Username: "frank", Role: models.RoleUser})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if err := store.SetRole(ctx, created.ID, "Admin"); err != nil {
		t.Fatalf("SetRole failed: %v", err)
	}
	got, _ := store.GetByID(ctx, created.ID)
	if got.Role != models.RoleAdmin {
		t.Errorf("Role: got %q, want %q", got.Role, models.RoleAdmin)
	}

	if err := store.SetRole(ctx, created.ID, "owner"); err == nil {
		t.Error("expected error for invalid role")
	}
	if err := store.SetRole(ctx, primitive.NewObjectID(), models.RoleUser); !errors.Is(err, userstore.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestStore_SetEnabledAndPassword(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, err := store.Create(ctx, models.User{Username: "gina", Role: models.RoleUser, Enabled: true})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if err := store.SetEnabled(ctx, created.ID, false); err != nil {
		t.Fatalf("SetEnabled failed: %v", err)
	}
	if err := store.SetPassword(ctx, created.ID, "$2a$10$new"); err != nil {
		t.Fatalf("SetPassword failed: %v", err)
	}

	got, _ := store.GetByID(ctx, created.ID)
	if got.Enabled {
		t.Error("expected user to be disabled")
	}
	if got.PasswordHash != "$2a$10$new" {
		t.Errorf("PasswordHash: got %q", got.PasswordHash)
	}
	if got.UpdatedAt.Before(created.UpdatedAt) {
		t.Error("expected UpdatedAt to advance")
	}
}

func TestStore_Delete(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, err := store.Create(ctx, models.User{Username: "hank", Role: models.RoleUser})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if err := store.Delete(ctx, created.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := store.GetByID(ctx, created.ID); !errors.Is(err, userstore.ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
	if err := store.Delete(ctx, created.ID); !errors.Is(err, userstore.ErrNotFound) {
		t.Errorf("expected ErrNotFound on second delete, got %v", err)
	}
}

func TestFetcher_FetchUser(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	fetcher := userstore.NewFetcher(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	enabled, err := store.Create(ctx, models.User{Username: "Ivy", Role: models.RoleAdmin, Enabled: true})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	disabled, err := store.Create(ctx, models.User{Username: "jay", Role: models.RoleUser, Enabled: false})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	su := fetcher.FetchUser(ctx, enabled.ID.Hex())
	if su == nil {
		t.Fatal("expected session user for enabled account")
	}
	if su.ID != enabled.ID.Hex() || su.LoginID != "Ivy" || su.Role != models.RoleAdmin {
		t.Errorf("unexpected session user: %+v", su)
	}

	if fetcher.FetchUser(ctx, disabled.ID.Hex()) != nil {
		t.Error("expected nil for disabled account")
	}
	if fetcher.FetchUser(ctx, primitive.NewObjectID().Hex()) != nil {
		t.Error("expected nil for missing account")
	}
	if fetcher.FetchUser(ctx, "not-an-id") != nil {
		t.Error("expected nil for malformed id")
	}
}
