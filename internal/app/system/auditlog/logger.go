// internal/app/system/auditlog/logger.go
package auditlog

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/dalemusser/contacthub/internal/app/store/audit"
	"go.uber.org/zap"
)

// Destination settings for Config.Auth and Config.Admin.
const (
	All = "all" // MongoDB + zap
	DB  = "db"  // MongoDB only
	Log = "log" // zap only
	Off = "off"
)

// Config holds audit logging configuration.
type Config struct {
	// Auth controls logging for sign-in and sign-out events.
	Auth string
	// Admin controls logging for user and contact changes.
	Admin string
}

// Logger provides convenience methods for logging audit events.
// It logs to both MongoDB (via audit.Store) and structured logs (via zap).
type Logger struct {
	store  *audit.Store
	zapLog *zap.Logger
	config Config
}

// New creates a new audit Logger. store may be nil, in which case only
// zap output is produced.
func New(store *audit.Store, zapLog *zap.Logger, config Config) *Logger {
	return &Logger{
		store:  store,
		zapLog: zapLog,
		config: config,
	}
}

// clientIP extracts the client IP from the request.
func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	return r.RemoteAddr
}

// logToZap logs the event to zap with consistent structure.
func (l *Logger) logToZap(event audit.Event) {
	fields := []zap.Field{
		zap.Bool("audit", true),
		zap.String("category", event.Category),
		zap.String("event_type", event.EventType),
		zap.String("actor", event.Actor),
		zap.Bool("success", event.Success),
		zap.String("ip", event.IP),
	}
	if event.Target != "" {
		fields = append(fields, zap.String("target", event.Target))
	}
	if event.FailureReason != "" {
		fields = append(fields, zap.String("failure_reason", event.FailureReason))
	}
	for k, v := range event.Details {
		fields = append(fields, zap.String("detail_"+k, v))
	}

	if event.Success {
		l.zapLog.Info("audit event", fields...)
	} else {
		l.zapLog.Warn("audit event", fields...)
	}
}

// setting returns the destination for the event's category.
func (l *Logger) setting(category string) string {
	var s string
	switch category {
	case audit.CategoryAuth:
		s = l.config.Auth
	case audit.CategoryAdmin:
		s = l.config.Admin
	}
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return All
	}
	return s
}

// Log records an audit event based on configuration.
// If the logger is nil, this is a no-op (allows tests to use nil audit logger).
func (l *Logger) Log(ctx context.Context, event audit.Event) {
	if l == nil {
		return
	}

	setting := l.setting(event.Category)
	if setting == Off {
		return
	}

	if setting == All || setting == Log {
		l.logToZap(event)
	}

	if (setting == All || setting == DB) && l.store != nil {
		if err := l.store.Log(ctx, event); err != nil {
			l.zapLog.Error("failed to store audit event",
				zap.Error(err),
				zap.String("event_type", event.EventType),
			)
		}
	}
}

func (l *Logger) auth(ctx context.Context, r *http.Request, eventType, username, reason string) {
	l.Log(ctx, audit.Event{
		Category:      audit.CategoryAuth,
		EventType:     eventType,
		Actor:         username,
		IP:            clientIP(r),
		UserAgent:     r.UserAgent(),
		Success:       reason == "",
		FailureReason: reason,
	})
}

func (l *Logger) admin(ctx context.Context, r *http.Request, eventType, actor, target string, details map[string]string) {
	l.Log(ctx, audit.Event{
		Category:  audit.CategoryAdmin,
		EventType: eventType,
		Actor:     actor,
		Target:    target,
		IP:        clientIP(r),
		UserAgent: r.UserAgent(),
		Success:   true,
		Details:   details,
	})
}

// --- Authentication Events ---

func (l *Logger) LoginSuccess(ctx context.Context, r *http.Request, username string) {
	l.auth(ctx, r, audit.EventLoginSuccess, username, "")
}

func (l *Logger) LoginFailedUserNotFound(ctx context.Context, r *http.Request, attempted string) {
	l.auth(ctx, r, audit.EventLoginFailedUserNotFound, attempted, "user not found")
}

func (l *Logger) LoginFailedWrongPassword(ctx context.Context, r *http.Request, username string) {
	l.auth(ctx, r, audit.EventLoginFailedWrongPassword, username, "wrong password")
}

func (l *Logger) LoginFailedUserDisabled(ctx context.Context, r *http.Request, username string) {
	l.auth(ctx, r, audit.EventLoginFailedUserDisabled, username, "user disabled")
}

func (l *Logger) LoginFailedRateLimit(ctx context.Context, r *http.Request, username string) {
	l.auth(ctx, r, audit.EventLoginFailedRateLimit, username, "rate limit exceeded")
}

func (l *Logger) Logout(ctx context.Context, r *http.Request, username string) {
	l.auth(ctx, r, audit.EventLogout, username, "")
}

// --- Admin Events ---

func (l *Logger) UserCreated(ctx context.Context, r *http.Request, actor, username, role string) {
	l.admin(ctx, r, audit.EventUserCreated, actor, username, map[string]string{"role": role})
}

func (l *Logger) UserRoleChanged(ctx context.Context, r *http.Request, actor, username, from, to string) {
	l.admin(ctx, r, audit.EventUserRoleChanged, actor, username, map[string]string{"from": from, "to": to})
}

// UserEnabledChanged logs a user being enabled or disabled.
func (l *Logger) UserEnabledChanged(ctx context.Context, r *http.Request, actor, username string, enabled bool) {
	eventType := audit.EventUserDisabled
	if enabled {
		eventType = audit.EventUserEnabled
	}
	l.admin(ctx, r, eventType, actor, username, nil)
}

func (l *Logger) UserDeleted(ctx context.Context, r *http.Request, actor, username string) {
	l.admin(ctx, r, audit.EventUserDeleted, actor, username, nil)
}

func (l *Logger) ContactCreated(ctx context.Context, r *http.Request, actor string, id int64, email string) {
	l.admin(ctx, r, audit.EventContactCreated, actor, strconv.FormatInt(id, 10), map[string]string{"email": email})
}

func (l *Logger) ContactUpdated(ctx context.Context, r *http.Request, actor string, id int64, email string) {
	l.admin(ctx, r, audit.EventContactUpdated, actor, strconv.FormatInt(id, 10), map[string]string{"email": email})
}

func (l *Logger) ContactDeleted(ctx context.Context, r *http.Request, actor string, id int64, email string) {
	l.admin(ctx, r, audit.EventContactDeleted, actor, strconv.FormatInt(id, 10), map[string]string{"email": email})
}

// ContactsImported logs the outcome of a CSV import batch.
func (l *Logger) ContactsImported(ctx context.Context, r *http.Request, actor, batchID string, imported, skipped, failed int) {
	l.admin(ctx, r, audit.EventContactsImport, actor, batchID, map[string]string{
		"imported": strconv.Itoa(imported),
		"skipped":  strconv.Itoa(skipped),
		"failed":   strconv.Itoa(failed),
	})
}

// ContactsExported logs a CSV export and the number of rows written.
func (l *Logger) ContactsExported(ctx context.Context, r *http.Request, actor string, rows int) {
	l.admin(ctx, r, audit.EventContactsExport, actor, "", map[string]string{"rows": strconv.Itoa(rows)})
}
