package testutil

import (
	"context"
	"net/http"
	"testing"

	contactstore "github.com/dalemusser/contacthub/internal/app/store/contacts"
	userstore "github.com/dalemusser/contacthub/internal/app/store/users"
	"github.com/dalemusser/contacthub/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"
)

// WithChiURLParam adds a chi URL parameter to the request context.
// Use this in handler tests that need to access chi.URLParam values.
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.RouteContext(r.Context())
	if rctx == nil {
		rctx = chi.NewRouteContext()
	}
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// HashPassword returns a low-cost bcrypt hash so fixtures stay fast.
func HashPassword(t testing.TB, password string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	return string(h)
}

// CreateUser creates an enabled user with the given password and role.
func (f *Fixtures) CreateUser(ctx context.Context, username, password, role string) models.User {
	f.t.Helper()
	u, err := userstore.New(f.db).Create(ctx, models.User{
		Username:     username,
		PasswordHash: HashPassword(f.t, password),
		Role:         role,
		Enabled:      true,
	})
	if err != nil {
		f.t.Fatalf("CreateUser(%s): %v", username, err)
	}
	return u
}

// CreateAdmin creates an enabled admin user.
func (f *Fixtures) CreateAdmin(ctx context.Context, username, password string) models.User {
	f.t.Helper()
	return f.CreateUser(ctx, username, password, models.RoleAdmin)
}

// CreateDisabledUser creates a regular user that can not sign in.
func (f *Fixtures) CreateDisabledUser(ctx context.Context, username, password string) models.User {
	f.t.Helper()
	u := f.CreateUser(ctx, username, password, models.RoleUser)
	if err := userstore.New(f.db).SetEnabled(ctx, u.ID, false); err != nil {
		f.t.Fatalf("disable %s: %v", username, err)
	}
	u.Enabled = false
	return u
}

// CreateContact persists c through the contact store as actor.
func (f *Fixtures) CreateContact(ctx context.Context, c models.Contact, actor string) models.Contact {
	f.t.Helper()
	out, err := contactstore.New(f.db).Create(ctx, c, actor)
	if err != nil {
		f.t.Fatalf("CreateContact(%s): %v", c.Email, err)
	}
	return out
}
