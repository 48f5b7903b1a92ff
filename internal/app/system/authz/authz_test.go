package authz_test

import (
	"net/http/httptest"
	"testing"

	"github.com/dalemusser/contacthub/internal/app/system/auth"
	"github.com/dalemusser/contacthub/internal/app/system/authz"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// testUserID returns a valid ObjectID hex string for tests.
func testUserID() string {
	return primitive.NewObjectID().Hex()
}

func TestIsAdmin(t *testing.T) {
	tests := []struct {
		role string
		want bool
	}{
		{"admin", true},
		{"ADMIN", true},
		{"user", false},
		{"", false},
	}
	for _, tt := range tests {
		t.Run(tt.role, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/test", nil)
			req = auth.WithTestUser(req, &auth.SessionUser{ID: testUserID(), Role: tt.role})
			if got := authz.IsAdmin(req); got != tt.want {
				t.Errorf("IsAdmin(%q) = %v, want %v", tt.role, got, tt.want)
			}
		})
	}
}

func TestIsAdmin_False_NoUser(t *testing.T) {
	req := httptest.NewRequest("GET", "/test", nil)
	if authz.IsAdmin(req) {
		t.Error("expected IsAdmin to return false when no user")
	}
}

func TestUserCtx_MalformedIDFailsClosed(t *testing.T) {
	req := httptest.NewRequest("GET", "/test", nil)
	req = auth.WithTestUser(req, &auth.SessionUser{ID: "not-an-oid", Role: "admin"})

	role, _, id, ok := authz.UserCtx(req)
	if ok {
		t.Error("expected ok=false for malformed id")
	}
	if role != "visitor" || id != primitive.NilObjectID {
		t.Errorf("got role=%q id=%v", role, id)
	}
}

func TestUserCtx_ReturnsUser(t *testing.T) {
	uid := primitive.NewObjectID()
	req := httptest.NewRequest("GET", "/test", nil)
	req = auth.WithTestUser(req, &auth.SessionUser{ID: uid.Hex(), Name: "alice", Role: "User"})

	role, name, id, ok := authz.UserCtx(req)
	if !ok || role != "user" || name != "alice" || id != uid {
		t.Errorf("UserCtx = %q %q %v %v", role, name, id, ok)
	}
}

func TestHasAnyRole(t *testing.T) {
	req := httptest.NewRequest("GET", "/test", nil)
	req = auth.WithTestUser(req, &auth.SessionUser{ID: testUserID(), Role: "user"})

	if !authz.HasAnyRole(req, "admin", " USER ") {
		t.Error("expected user to match")
	}
	if authz.HasAnyRole(req, "admin") {
		t.Error("expected user not to match admin")
	}
	if authz.HasAnyRole(httptest.NewRequest("GET", "/", nil), "user") {
		t.Error("expected no match without a user")
	}
}

func TestActor(t *testing.T) {
	if got := authz.Actor(httptest.NewRequest("GET", "/", nil)); got != "system" {
		t.Errorf("Actor without user = %q, want system", got)
	}

	req := httptest.NewRequest("GET", "/", nil)
	req = auth.WithTestUser(req, &auth.SessionUser{ID: testUserID(), Name: "bob", LoginID: "bob", Role: "admin"})
	if got := authz.Actor(req); got != "bob" {
		t.Errorf("Actor = %q, want bob", got)
	}
}
