// internal/app/system/ratelimit/login.go
package ratelimit

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Default login limits.
const (
	IPLimit          = 10
	IPWindow         = time.Minute
	UsernameLimit    = 5
	UsernameWindow   = 5 * time.Minute
	msgTooManyIP     = "Too many login attempts. Please wait a minute before trying again."
	msgTooManyUser   = "Too many login attempts for this account. Please wait a few minutes."
	redisKeyPrefixIP = "contacthub:login:ip"
	redisKeyPrefixUN = "contacthub:login:user"
)

// LoginLimiter tracks both IP-based and username-based limits to prevent:
// - Distributed attacks from multiple IPs
// - Targeted attacks on specific accounts
type LoginLimiter struct {
	ip   Window
	user Window
	log  *zap.Logger
}

// NewLoginLimiter creates an in-process limiter with the default limits.
func NewLoginLimiter(logger *zap.Logger) *LoginLimiter {
	return NewLoginLimiterWith(New(IPLimit, IPWindow), New(UsernameLimit, UsernameWindow), logger)
}

// NewRedisLoginLimiter shares login counters across instances through rdb.
func NewRedisLoginLimiter(rdb redis.UniversalClient, logger *zap.Logger) *LoginLimiter {
	return NewLoginLimiterWith(
		NewRedisWindow(rdb, redisKeyPrefixIP, IPLimit, IPWindow),
		NewRedisWindow(rdb, redisKeyPrefixUN, UsernameLimit, UsernameWindow),
		logger,
	)
}

// NewLoginLimiterWith builds a limiter from explicit windows.
func NewLoginLimiterWith(ip, user Window, logger *zap.Logger) *LoginLimiter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LoginLimiter{ip: ip, user: user, log: logger}
}

// Check verifies if a login attempt should be allowed.
// Returns (allowed, reason) where reason explains why it was blocked.
// A failing backing store lets the attempt through and is logged.
func (ll *LoginLimiter) Check(ctx context.Context, r *http.Request, username string) (bool, string) {
	if ok := ll.allow(ctx, ll.ip, ClientIP(r)); !ok {
		return false, msgTooManyIP
	}
	if key := usernameKey(username); key != "" {
		if ok := ll.allow(ctx, ll.user, key); !ok {
			return false, msgTooManyUser
		}
	}
	return true, ""
}

// ResetUsername clears the username counter after a successful login.
func (ll *LoginLimiter) ResetUsername(ctx context.Context, username string) {
	if key := usernameKey(username); key != "" {
		if err := ll.user.Reset(ctx, key); err != nil {
			ll.log.Warn("ratelimit reset failed", zap.Error(err))
		}
	}
}

func (ll *LoginLimiter) allow(ctx context.Context, w Window, key string) bool {
	ok, err := w.Allow(ctx, key)
	if err != nil {
		ll.log.Warn("ratelimit check failed; allowing", zap.Error(err))
		return true
	}
	return ok
}

func usernameKey(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}
