// Package timeouts provides centralized timeout values for handler operations.
//
// Handlers wrap database calls in context.WithTimeout with one of these
// tiers:
//   - Ping: health checks
//   - Short: single-document reads (contact by id, user by username)
//   - Medium: searches, list pages, single writes
//   - Long: CSV export of the whole directory
//   - Batch: CSV import
package timeouts

import (
	"context"
	"os"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Default timeout values (used if Configure is not called).
const (
	DefaultPing   = 2 * time.Second
	DefaultShort  = 5 * time.Second
	DefaultMedium = 10 * time.Second
	DefaultLong   = 30 * time.Second
	DefaultBatch  = 2 * time.Minute
)

// Config holds timeout configuration values.
// Zero values are ignored (defaults are kept).
type Config struct {
	Ping   time.Duration
	Short  time.Duration
	Medium time.Duration
	Long   time.Duration
	Batch  time.Duration
}

var (
	mu      sync.RWMutex
	current = defaults()
)

func defaults() Config {
	return Config{
		Ping:   DefaultPing,
		Short:  DefaultShort,
		Medium: DefaultMedium,
		Long:   DefaultLong,
		Batch:  DefaultBatch,
	}
}

func get(pick func(Config) time.Duration) time.Duration {
	mu.RLock()
	defer mu.RUnlock()
	return pick(current)
}

func Ping() time.Duration   { return get(func(c Config) time.Duration { return c.Ping }) }
func Short() time.Duration  { return get(func(c Config) time.Duration { return c.Short }) }
func Medium() time.Duration { return get(func(c Config) time.Duration { return c.Medium }) }
func Long() time.Duration   { return get(func(c Config) time.Duration { return c.Long }) }
func Batch() time.Duration  { return get(func(c Config) time.Duration { return c.Batch }) }

// Configure overrides the non-zero values in cfg. Call during startup
// before handlers are registered.
func Configure(cfg Config) {
	mu.Lock()
	defer mu.Unlock()
	for _, f := range fields(&current) {
		if v := f.of(cfg); v > 0 {
			*f.dst = v
		}
	}
}

// Reset restores all timeouts to their default values.
// Useful for testing.
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	current = defaults()
}

// Current returns the current timeout configuration.
func Current() Config {
	mu.RLock()
	defer mu.RUnlock()
	return current
}

type field struct {
	env string
	dst *time.Duration
	of  func(Config) time.Duration
}

func fields(c *Config) []field {
	return []field{
		{"CONTACTHUB_TIMEOUT_PING", &c.Ping, func(c Config) time.Duration { return c.Ping }},
		{"CONTACTHUB_TIMEOUT_SHORT", &c.Short, func(c Config) time.Duration { return c.Short }},
		{"CONTACTHUB_TIMEOUT_MEDIUM", &c.Medium, func(c Config) time.Duration { return c.Medium }},
		{"CONTACTHUB_TIMEOUT_LONG", &c.Long, func(c Config) time.Duration { return c.Long }},
		{"CONTACTHUB_TIMEOUT_BATCH", &c.Batch, func(c Config) time.Duration { return c.Batch }},
	}
}

// ConfigureFromEnv reads CONTACTHUB_TIMEOUT_{PING,SHORT,MEDIUM,LONG,BATCH}
// as Go durations ("500ms", "2m"). Unset or invalid values are skipped.
// Returns the number of timeouts configured.
func ConfigureFromEnv() int {
	mu.Lock()
	defer mu.Unlock()
	configured := 0
	for _, f := range fields(&current) {
		v := os.Getenv(f.env)
		if v == "" {
			continue
		}
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			*f.dst = d
			configured++
		}
	}
	return configured
}

// WithTimeout creates a context with timeout and returns a cancel function that
// logs a warning if the context was canceled due to deadline exceeded.
//
//	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Batch(), h.Log, "contact import")
//	defer cancel()
func WithTimeout(parent context.Context, timeout time.Duration, log *zap.Logger, operation string) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(parent, timeout)
	return ctx, func() {
		if ctx.Err() == context.DeadlineExceeded && log != nil {
			log.Warn("operation timed out",
				zap.String("operation", operation),
				zap.Duration("timeout", timeout),
			)
		}
		cancel()
	}
}
