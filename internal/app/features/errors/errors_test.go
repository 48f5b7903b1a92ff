package errors_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	uierrors "github.com/dalemusser/contacthub/internal/app/features/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// renderStatus runs fn and returns the recorded status. Template rendering
// needs a booted engine; without one it may panic after the status was
// written, which is all these tests look at.
func renderStatus(t *testing.T, fn func(w http.ResponseWriter, r *http.Request)) int {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/contacts/7", nil)
	rec := httptest.NewRecorder()
	func() {
		defer func() { _ = recover() }()
		fn(rec, req)
	}()
	return rec.Code
}

func TestRenderHelpers_SetStatus(t *testing.T) {
	tests := []struct {
		name string
		fn   func(w http.ResponseWriter, r *http.Request)
		want int
	}{
		{"not found", func(w http.ResponseWriter, r *http.Request) {
			uierrors.RenderNotFound(w, r, "Contact not found.", "/contacts")
		}, http.StatusNotFound},
		{"forbidden", func(w http.ResponseWriter, r *http.Request) {
			uierrors.RenderForbidden(w, r, "No.", "")
		}, http.StatusForbidden},
		{"unauthorized", func(w http.ResponseWriter, r *http.Request) {
			uierrors.RenderUnauthorized(w, r, "", "")
		}, http.StatusUnauthorized},
		{"bad request", func(w http.ResponseWriter, r *http.Request) {
			uierrors.RenderBadRequest(w, r, "Invalid contact id.", "/contacts")
		}, http.StatusBadRequest},
		{"server error", func(w http.ResponseWriter, r *http.Request) {
			uierrors.RenderServerError(w, r, "", "/contacts")
		}, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := renderStatus(t, tt.fn); got != tt.want {
				t.Errorf("status: got %d, want %d", got, tt.want)
			}
		})
	}
}

func TestHandler_Forbidden(t *testing.T) {
	h := uierrors.NewHandler()
	if got := renderStatus(t, h.Forbidden); got != http.StatusForbidden {
		t.Errorf("status: got %d, want %d", got, http.StatusForbidden)
	}
	if got := renderStatus(t, h.NotFound); got != http.StatusNotFound {
		t.Errorf("status: got %d, want %d", got, http.StatusNotFound)
	}
}

func TestErrorLogger_LevelsAndStatus(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	el := uierrors.NewErrorLogger(zap.New(core))
	boom := errors.New("connection reset")

	if got := renderStatus(t, func(w http.ResponseWriter, r *http.Request) {
		el.LogServerError(w, r, "load contact failed", boom, "A database error occurred.", "/contacts")
	}); got != http.StatusInternalServerError {
		t.Errorf("server error status: got %d", got)
	}
	if got := renderStatus(t, func(w http.ResponseWriter, r *http.Request) {
		el.LogBadRequest(w, r, "parse form failed", boom, "Invalid form submission.", "/contacts")
	}); got != http.StatusBadRequest {
		t.Errorf("bad request status: got %d", got)
	}
	if got := renderStatus(t, func(w http.ResponseWriter, r *http.Request) {
		el.LogForbidden(w, r, "denied", nil, "Not allowed.", "/")
	}); got != http.StatusForbidden {
		t.Errorf("forbidden status: got %d", got)
	}

	entries := logs.AllUntimed()
	if len(entries) != 3 {
		t.Fatalf("expected 3 log entries, got %d", len(entries))
	}
	wantLevels := []zapcore.Level{zapcore.ErrorLevel, zapcore.WarnLevel, zapcore.InfoLevel}
	for i, e := range entries {
		if e.Level != wantLevels[i] {
			t.Errorf("entry %d level: got %v, want %v", i, e.Level, wantLevels[i])
		}
		if e.ContextMap()["path"] != "/contacts/7" {
			t.Errorf("entry %d path: got %v", i, e.ContextMap()["path"])
		}
	}
	if entries[0].ContextMap()["error"] != "connection reset" {
		t.Errorf("server error should log the cause, got %v", entries[0].ContextMap())
	}
	if _, ok := entries[2].ContextMap()["error"]; ok {
		t.Error("nil error should not add an error field")
	}
}

func TestNewErrorLogger_NilLogger(t *testing.T) {
	el := uierrors.NewErrorLogger(nil)
	if el.Log == nil {
		t.Fatal("expected a no-op logger")
	}
}
