package home_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dalemusser/contacthub/internal/app/features/home"
	"github.com/dalemusser/contacthub/internal/testutil"
	"go.uber.org/zap"
)

func TestServeRoot_RedirectsToContacts(t *testing.T) {
	handler := home.NewHandler(zap.NewNop())

	tests := []struct {
		name string
		req  *http.Request
	}{
		{"anonymous", httptest.NewRequest("GET", "/", nil)},
		{"signed in", testutil.NewAuthenticatedRequest("GET", "/", testutil.RegularUser())},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			handler.ServeRoot(rec, tt.req)

			if rec.Code != http.StatusSeeOther {
				t.Errorf("expected status %d, got %d", http.StatusSeeOther, rec.Code)
			}
			if loc := rec.Header().Get("Location"); loc != "/contacts" {
				t.Errorf("Location: got %q, want %q", loc, "/contacts")
			}
		})
	}
}
