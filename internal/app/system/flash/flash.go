// internal/app/system/flash/flash.go
//
// Package flash carries one-shot messages across a POST/redirect/GET.
// Messages live in their own signed cookie so they never touch the auth
// session.
package flash

import (
	"context"
	"encoding/gob"
	"net/http"

	"github.com/gorilla/sessions"
	"go.uber.org/zap"
)

// Message kinds.
const (
	KindSuccess = "success"
	KindError   = "error"
)

const cookieName = "contacthub-flash"

// Message is one flash entry.
type Message struct {
	Kind string
	Text string
}

func (m Message) IsError() bool { return m.Kind == KindError }

func init() {
	gob.Register(Message{})
}

// Store writes and reads flash messages.
type Store struct {
	cs  sessions.Store
	log *zap.Logger
}

// New builds a flash Store backed by cs (typically the session manager's
// cookie store).
func New(cs sessions.Store, logger *zap.Logger) *Store {
	return &Store{cs: cs, log: logger}
}

// Success queues a success message for the next page view.
func (s *Store) Success(w http.ResponseWriter, r *http.Request, text string) {
	s.add(w, r, Message{Kind: KindSuccess, Text: text})
}

// Error queues an error message for the next page view.
func (s *Store) Error(w http.ResponseWriter, r *http.Request, text string) {
	s.add(w, r, Message{Kind: KindError, Text: text})
}

func (s *Store) add(w http.ResponseWriter, r *http.Request, m Message) {
	if s == nil {
		return
	}
	sess, _ := s.cs.Get(r, cookieName)
	sess.AddFlash(m)
	if err := sess.Save(r, w); err != nil {
		s.log.Warn("flash save failed", zap.Error(err))
	}
}

// Pop returns and clears the queued messages.
func (s *Store) Pop(w http.ResponseWriter, r *http.Request) []Message {
	if s == nil {
		return nil
	}
	sess, err := s.cs.Get(r, cookieName)
	if err != nil {
		return nil
	}
	raw := sess.Flashes()
	if len(raw) == 0 {
		return nil
	}
	if err := sess.Save(r, w); err != nil {
		s.log.Warn("flash clear failed", zap.Error(err))
	}
	out := make([]Message, 0, len(raw))
	for _, v := range raw {
		if m, ok := v.(Message); ok {
			out = append(out, m)
		}
	}
	return out
}

type ctxKey struct{}

// Middleware pops pending messages on GET requests and exposes them to the
// page through FromRequest.
func (s *Store) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			if msgs := s.Pop(w, r); len(msgs) > 0 {
				r = r.WithContext(context.WithValue(r.Context(), ctxKey{}, msgs))
			}
		}
		next.ServeHTTP(w, r)
	})
}

// FromRequest returns the messages popped by Middleware for this request.
func FromRequest(r *http.Request) []Message {
	msgs, _ := r.Context().Value(ctxKey{}).([]Message)
	return msgs
}

// WithMessages injects msgs the way Middleware does. Intended for tests.
func WithMessages(r *http.Request, msgs ...Message) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), ctxKey{}, msgs))
}
