package testutil

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	userstore "github.com/dalemusser/contacthub/internal/app/store/users"
	"github.com/dalemusser/contacthub/internal/app/system/normalize"
	"github.com/dalemusser/contacthub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MemUsers is an in-memory user store for handler tests. It mirrors the
// normalization and uniqueness rules of userstore.Store.
type MemUsers struct {
	mu   sync.Mutex
	byID map[primitive.ObjectID]models.User
}

// NewMemUsers returns a store holding seed. Seed users keep their fields;
// missing ids and folded usernames are filled in.
func NewMemUsers(seed ...models.User) *MemUsers {
	m := &MemUsers{byID: map[primitive.ObjectID]models.User{}}
	for _, u := range seed {
		if _, err := m.Create(context.Background(), u); err != nil {
			panic("testutil: seed user: " + err.Error())
		}
	}
	return m
}

func (m *MemUsers) GetByID(_ context.Context, id primitive.ObjectID) (models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.byID[id]
	if !ok {
		return models.User{}, userstore.ErrNotFound
	}
	return u, nil
}

func (m *MemUsers) GetByUsername(_ context.Context, username string) (models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ci := text.Fold(normalize.Username(username))
	for _, u := range m.byID {
		if u.UsernameCI == ci {
			return u, nil
		}
	}
	return models.User{}, userstore.ErrNotFound
}

func (m *MemUsers) List(_ context.Context) ([]models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.User, 0, len(m.byID))
	for _, u := range m.byID {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].UsernameCI != out[j].UsernameCI {
			return out[i].UsernameCI < out[j].UsernameCI
		}
		return out[i].ID.Hex() < out[j].ID.Hex()
	})
	return out, nil
}

func (m *MemUsers) Count(_ context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.byID)), nil
}

func (m *MemUsers) CountByRole(_ context.Context, role string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, u := range m.byID {
		if u.Role == role {
			n++
		}
	}
	return n, nil
}

func (m *MemUsers) Create(_ context.Context, u models.User) (models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if u.ID.IsZero() {
		u.ID = primitive.NewObjectID()
	}
	u.Username = normalize.Name(u.Username)
	u.UsernameCI = text.Fold(normalize.Username(u.Username))
	u.Role = normalize.Role(u.Role)
	if u.Username == "" {
		return models.User{}, errors.New("username is required")
	}
	if !models.IsValidRole(u.Role) {
		return models.User{}, errors.New("invalid role")
	}
	for _, other := range m.byID {
		if other.UsernameCI == u.UsernameCI {
			return models.User{}, userstore.ErrDuplicateUsername
		}
	}
	now := time.Now().UTC()
	u.CreatedAt, u.UpdatedAt = now, now
	m.byID[u.ID] = u
	return u, nil
}

func (m *MemUsers) SetRole(_ context.Context, id primitive.ObjectID, role string) error {
	role = strings.ToLower(strings.TrimSpace(role))
	if !models.IsValidRole(role) {
		return errors.New("invalid role")
	}
	return m.update(id, func(u *models.User) { u.Role = role })
}

func (m *MemUsers) SetEnabled(_ context.Context, id primitive.ObjectID, enabled bool) error {
	return m.update(id, func(u *models.User) { u.Enabled = enabled })
}

func (m *MemUsers) SetPassword(_ context.Context, id primitive.ObjectID, hash string) error {
	return m.update(id, func(u *models.User) { u.PasswordHash = hash })
}

func (m *MemUsers) Delete(_ context.Context, id primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byID[id]; !ok {
		return userstore.ErrNotFound
	}
	delete(m.byID, id)
	return nil
}

func (m *MemUsers) update(id primitive.ObjectID, fn func(*models.User)) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.byID[id]
	if !ok {
		return userstore.ErrNotFound
	}
	fn(&u)
	u.UpdatedAt = time.Now().UTC()
	m.byID[id] = u
	return nil
}
