package users_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	uierrors "github.com/dalemusser/contacthub/internal/app/features/errors"
	"github.com/dalemusser/contacthub/internal/app/features/users"
	"github.com/dalemusser/contacthub/internal/app/system/auditlog"
	"github.com/dalemusser/contacthub/internal/app/system/authutil"
	"github.com/dalemusser/contacthub/internal/app/system/flash"
	"github.com/dalemusser/contacthub/internal/domain/models"
	"github.com/dalemusser/contacthub/internal/testutil"
	"github.com/gorilla/sessions"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestHandler(t *testing.T, seed ...models.User) (*users.Handler, *testutil.MemUsers) {
	t.Helper()
	store := testutil.NewMemUsers(seed...)
	logger := zap.NewNop()
	flashes := flash.New(sessions.NewCookieStore([]byte("0123456789abcdef0123456789abcdef")), logger)
	audit := auditlog.New(nil, logger, auditlog.Config{})
	return users.NewHandler(store, flashes, audit, uierrors.NewErrorLogger(logger), logger), store
}

// serve runs fn and swallows a template panic; rendering needs a booted
// engine, which these tests do not set up.
func serve(fn http.HandlerFunc, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	func() {
		defer func() { _ = recover() }()
		fn(rec, req)
	}()
	return rec
}

func flashes(t *testing.T, h *users.Handler, rec *httptest.ResponseRecorder) []flash.Message {
	t.Helper()
	next := httptest.NewRequest(http.MethodGet, "/", nil)
	testutil.CarryCookies(rec, next)
	return h.Flash.Pop(httptest.NewRecorder(), next)
}

func lookup(t *testing.T, store *testutil.MemUsers, username string) models.User {
	t.Helper()
	u, err := store.GetByUsername(context.Background(), username)
	require.NoError(t, err)
	return u
}

// post issues an admin form POST against /users/{id}/<action>.
func post(t *testing.T, h *users.Handler, fn http.HandlerFunc, id, action string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	req := testutil.NewFormRequest("/users/"+id+"/"+action, form.Encode(), testutil.AdminUser())
	req = testutil.WithChiURLParam(req, "id", id)
	return serve(fn, req)
}

func seedUsers() []models.User {
	return []models.User{
		{Username: "admin", Role: models.RoleAdmin, Enabled: true},
		{Username: "bob", Role: models.RoleUser, Enabled: true},
	}
}

func TestHandleDelete_RefusesSelf(t *testing.T) {
	h, store := newTestHandler(t, append(seedUsers(), models.User{Username: "carol", Role: models.RoleAdmin, Enabled: true})...)
	self := lookup(t, store, "admin")

	rec := post(t, h, h.HandleDelete, self.ID.Hex(), "delete", nil)

	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/users", rec.Header().Get("Location"))
	_, err := store.GetByID(context.Background(), self.ID)
	assert.NoError(t, err, "account must survive")

	msgs := flashes(t, h, rec)
	require.Len(t, msgs, 1)
	assert.True(t, msgs[0].IsError())
	assert.Equal(t, "You can not delete your own account.", msgs[0].Text)
}

func TestHandleDelete_RefusesLastAdmin(t *testing.T) {
	// The actor "admin" is not in the store, so only the last-admin rule applies.
	h, store := newTestHandler(t,
		models.User{Username: "root", Role: models.RoleAdmin, Enabled: true},
		models.User{Username: "bob", Role: models.RoleUser, Enabled: true},
	)
	root := lookup(t, store, "root")

	rec := post(t, h, h.HandleDelete, root.ID.Hex(), "delete", nil)

	require.Equal(t, http.StatusSeeOther, rec.Code)
	n, err := store.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	msgs := flashes(t, h, rec)
	require.Len(t, msgs, 1)
	assert.True(t, msgs[0].IsError())
}

func TestHandleDelete_RemovesUser(t *testing.T) {
	h, store := newTestHandler(t, seedUsers()...)
	bob := lookup(t, store, "bob")

	rec := post(t, h, h.HandleDelete, bob.ID.Hex(), "delete", nil)

	require.Equal(t, http.StatusSeeOther, rec.Code)
	_, err := store.GetByUsername(context.Background(), "bob")
	assert.Error(t, err)

	msgs := flashes(t, h, rec)
	require.Len(t, msgs, 1)
	assert.Equal(t, "User bob deleted.", msgs[0].Text)
}

func TestHandleDelete_UnknownIDIsNotFound(t *testing.T) {
	h, _ := newTestHandler(t, seedUsers()...)

	rec := post(t, h, h.HandleDelete, "not-an-id", "delete", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = post(t, h, h.HandleDelete, "64b000000000000000000000", "delete", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandleRole_RefusesDemotingLastAdmin(t *testing.T) {
	h, store := newTestHandler(t, seedUsers()...)
	admin := lookup(t, store, "admin")

	rec := post(t, h, h.HandleRole, admin.ID.Hex(), "role", url.Values{"role": {"user"}})

	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, models.RoleAdmin, lookup(t, store, "admin").Role)
	msgs := flashes(t, h, rec)
	require.Len(t, msgs, 1)
	assert.True(t, msgs[0].IsError())
}

func TestHandleRole_PromotesUser(t *testing.T) {
	h, store := newTestHandler(t, seedUsers()...)
	bob := lookup(t, store, "bob")

	rec := post(t, h, h.HandleRole, bob.ID.Hex(), "role", url.Values{"role": {"ADMIN"}})

	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, models.RoleAdmin, lookup(t, store, "bob").Role)
	msgs := flashes(t, h, rec)
	require.Len(t, msgs, 1)
	assert.Equal(t, "Role of bob is now admin.", msgs[0].Text)
}

func TestHandleRole_RejectsUnknownRole(t *testing.T) {
	h, store := newTestHandler(t, seedUsers()...)
	bob := lookup(t, store, "bob")

	rec := post(t, h, h.HandleRole, bob.ID.Hex(), "role", url.Values{"role": {"owner"}})

	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, models.RoleUser, lookup(t, store, "bob").Role)
	msgs := flashes(t, h, rec)
	require.Len(t, msgs, 1)
	assert.True(t, msgs[0].IsError())
}

func TestHandleToggle(t *testing.T) {
	h, store := newTestHandler(t, seedUsers()...)
	bob := lookup(t, store, "bob")

	rec := post(t, h, h.HandleToggle, bob.ID.Hex(), "toggle", nil)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.False(t, lookup(t, store, "bob").Enabled)

	rec = post(t, h, h.HandleToggle, bob.ID.Hex(), "toggle", nil)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.True(t, lookup(t, store, "bob").Enabled)
	msgs := flashes(t, h, rec)
	require.Len(t, msgs, 1)
	assert.Equal(t, "User bob enabled.", msgs[0].Text)
}

func TestHandleToggle_RefusesDisablingSelf(t *testing.T) {
	h, store := newTestHandler(t, seedUsers()...)
	self := lookup(t, store, "admin")

	rec := post(t, h, h.HandleToggle, self.ID.Hex(), "toggle", nil)

	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.True(t, lookup(t, store, "admin").Enabled)
	msgs := flashes(t, h, rec)
	require.Len(t, msgs, 1)
	assert.True(t, msgs[0].IsError())
}

func TestHandleCreate(t *testing.T) {
	h, store := newTestHandler(t, seedUsers()...)

	form := url.Values{"username": {" dave "}, "role": {"User"}, "password": {"correct-horse-battery"}}
	rec := serve(h.HandleCreate, testutil.NewFormRequest("/users", form.Encode(), testutil.AdminUser()))

	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/users", rec.Header().Get("Location"))

	dave := lookup(t, store, "dave")
	assert.Equal(t, models.RoleUser, dave.Role)
	assert.True(t, dave.Enabled)
	assert.True(t, authutil.CheckPassword("correct-horse-battery", dave.PasswordHash))

	msgs := flashes(t, h, rec)
	require.Len(t, msgs, 1)
	assert.Equal(t, "User dave created.", msgs[0].Text)
}

func TestHandleCreate_Rejections(t *testing.T) {
	cases := map[string]url.Values{
		"duplicate username": {"username": {"BOB"}, "role": {"user"}, "password": {"correct-horse-battery"}},
		"short password":     {"username": {"eve"}, "role": {"user"}, "password": {"abc"}},
		"common password":    {"username": {"eve"}, "role": {"user"}, "password": {"admin123"}},
		"missing username":   {"username": {""}, "role": {"user"}, "password": {"correct-horse-battery"}},
		"unknown role":       {"username": {"eve"}, "role": {"owner"}, "password": {"correct-horse-battery"}},
	}
	for name, form := range cases {
		t.Run(name, func(t *testing.T) {
			h, store := newTestHandler(t, seedUsers()...)

			rec := serve(h.HandleCreate, testutil.NewFormRequest("/users", form.Encode(), testutil.AdminUser()))

			assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
			n, err := store.Count(context.Background())
			require.NoError(t, err)
			assert.Equal(t, int64(2), n)
		})
	}
}

func TestHandleUpdate_ChangesPassword(t *testing.T) {
	h, store := newTestHandler(t, seedUsers()...)
	bob := lookup(t, store, "bob")

	form := url.Values{"role": {"user"}, "password": {"a-much-better-secret"}}
	rec := post(t, h, h.HandleUpdate, bob.ID.Hex(), "edit", form)

	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.True(t, authutil.CheckPassword("a-much-better-secret", lookup(t, store, "bob").PasswordHash))
}

func TestHandleUpdate_BlankPasswordKeepsHash(t *testing.T) {
	hash, err := authutil.HashPassword("original-secret")
	require.NoError(t, err)
	h, store := newTestHandler(t,
		models.User{Username: "admin", Role: models.RoleAdmin, Enabled: true},
		models.User{Username: "bob", Role: models.RoleUser, Enabled: true, PasswordHash: hash},
	)
	bob := lookup(t, store, "bob")

	rec := post(t, h, h.HandleUpdate, bob.ID.Hex(), "edit", url.Values{"role": {"admin"}, "password": {""}})

	require.Equal(t, http.StatusSeeOther, rec.Code)
	got := lookup(t, store, "bob")
	assert.Equal(t, hash, got.PasswordHash)
	assert.Equal(t, models.RoleAdmin, got.Role)
}
