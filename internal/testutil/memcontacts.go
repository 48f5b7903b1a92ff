package testutil

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	contactstore "github.com/dalemusser/contacthub/internal/app/store/contacts"
	"github.com/dalemusser/contacthub/internal/app/system/contactsearch"
	"github.com/dalemusser/contacthub/internal/app/system/normalize"
	"github.com/dalemusser/contacthub/internal/domain/models"
)

// MemContacts is an in-memory contact store for handler and importer
// tests. It applies the same predicates and ordering as the Mongo store.
type MemContacts struct {
	mu     sync.Mutex
	byID   map[int64]models.Contact
	nextID int64

	// Now is the audit clock. Defaults to time.Now.
	Now func() time.Time
	// SaveErr, when set, is consulted before every Create/Update and its
	// error returned unchanged.
	SaveErr func(models.Contact) error
}

// NewMemContacts returns an empty store. Seed contacts are created with the
// "system" actor in order.
func NewMemContacts(seed ...models.Contact) *MemContacts {
	m := &MemContacts{byID: map[int64]models.Contact{}, Now: time.Now}
	for _, c := range seed {
		if _, err := m.Create(context.Background(), c, ""); err != nil {
			panic("testutil: seed contact: " + err.Error())
		}
	}
	return m
}

func (m *MemContacts) GetByID(_ context.Context, id int64) (models.Contact, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.byID[id]
	if !ok {
		return models.Contact{}, contactstore.ErrNotFound
	}
	return c, nil
}

func (m *MemContacts) GetByEmail(_ context.Context, email string) (models.Contact, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if c, ok := m.byEmail(normalize.Email(email)); ok {
		return c, nil
	}
	return models.Contact{}, contactstore.ErrNotFound
}

func (m *MemContacts) Exists(_ context.Context, id int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.byID[id]
	return ok, nil
}

func (m *MemContacts) Count(_ context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.byID)), nil
}

func (m *MemContacts) Create(_ context.Context, c models.Contact, actor string) (models.Contact, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.check(&c, 0); err != nil {
		return models.Contact{}, err
	}
	m.nextID++
	c.ID = m.nextID
	now := m.Now().UTC()
	c.CreatedAt, c.UpdatedAt = now, now
	c.CreatedBy, c.UpdatedBy = actorName(actor), actorName(actor)
	m.byID[c.ID] = c
	return c, nil
}

func (m *MemContacts) Update(_ context.Context, id int64, c models.Contact, actor string) (models.Contact, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.byID[id]
	if !ok {
		return models.Contact{}, contactstore.ErrNotFound
	}
	existing.ApplyMutable(c)
	if err := m.check(&existing, id); err != nil {
		return models.Contact{}, err
	}
	now := m.Now().UTC()
	if now.Before(existing.CreatedAt) {
		now = existing.CreatedAt
	}
	existing.UpdatedAt = now
	existing.UpdatedBy = actorName(actor)
	m.byID[id] = existing
	return existing, nil
}

func (m *MemContacts) Delete(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byID[id]; !ok {
		return contactstore.ErrNotFound
	}
	delete(m.byID, id)
	return nil
}

func (m *MemContacts) FindAll(ctx context.Context, s contactsearch.Sort) ([]models.Contact, error) {
	return m.Search(ctx, contactsearch.Criteria{}, s)
}

func (m *MemContacts) Search(_ context.Context, c contactsearch.Criteria, s contactsearch.Sort) ([]models.Contact, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.match(c, s), nil
}

func (m *MemContacts) SearchPage(_ context.Context, c contactsearch.Criteria, req contactsearch.PageRequest) (contactsearch.Page, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	req = req.Normalized()
	all := m.match(c, req.Sort)
	start := min(int(req.Skip()), len(all))
	end := min(start+req.Size, len(all))
	return contactsearch.NewPage(all[start:end], req, int64(len(all))), nil
}

// All returns every stored contact ordered by id.
func (m *MemContacts) All() []models.Contact {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.match(contactsearch.Criteria{}, contactsearch.ParseSort([]string{"id"}))
}

func (m *MemContacts) match(c contactsearch.Criteria, s contactsearch.Sort) []models.Contact {
	preds := c.Predicates()
	out := []models.Contact{}
	for _, ct := range m.byID {
		if contactsearch.Matches(preds, ct) {
			out = append(out, ct)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return s.Less(out[i], out[j]) })
	return out
}

func (m *MemContacts) byEmail(email string) (models.Contact, bool) {
	for _, c := range m.byID {
		if c.Email == email {
			return c, true
		}
	}
	return models.Contact{}, false
}

// check applies the Mongo store's normalization and rules, then enforces
// email uniqueness against every contact except self.
func (m *MemContacts) check(c *models.Contact, self int64) error {
	if m.SaveErr != nil {
		if err := m.SaveErr(*c); err != nil {
			return err
		}
	}
	if err := contactstore.Prepare(c); err != nil {
		return err
	}
	if other, ok := m.byEmail(c.Email); ok && other.ID != self {
		return contactstore.ErrDuplicateEmail
	}
	return nil
}

func actorName(actor string) string {
	if a := strings.TrimSpace(actor); a != "" {
		return a
	}
	return models.SystemActor
}
