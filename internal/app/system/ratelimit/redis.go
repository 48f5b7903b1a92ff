// internal/app/system/ratelimit/redis.go
package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Increments key and sets its TTL on the first hit so the check and the
// increment are atomic across app instances.
const fixedWindowLua = `
local current = redis.call("INCR", KEYS[1])
if current == 1 then
    redis.call("PEXPIRE", KEYS[1], ARGV[2])
end
if current > tonumber(ARGV[1]) then
    return 0
end
return 1
`

// RedisWindow is a fixed-window Window shared by every instance that talks
// to the same Redis.
type RedisWindow struct {
	rdb      redis.UniversalClient
	prefix   string
	limit    int
	duration time.Duration
	script   *redis.Script
}

// NewRedisWindow allows limit hits per duration for each key, storing
// counters under prefix.
func NewRedisWindow(rdb redis.UniversalClient, prefix string, limit int, duration time.Duration) *RedisWindow {
	return &RedisWindow{
		rdb:      rdb,
		prefix:   prefix,
		limit:    limit,
		duration: duration,
		script:   redis.NewScript(fixedWindowLua),
	}
}

func (w *RedisWindow) key(k string) string { return w.prefix + ":" + k }

// Allow implements Window.
func (w *RedisWindow) Allow(ctx context.Context, key string) (bool, error) {
	res, err := w.script.Run(ctx, w.rdb, []string{w.key(key)}, w.limit, w.duration.Milliseconds()).Int()
	if err != nil {
		return false, fmt.Errorf("ratelimit %s: %w", w.prefix, err)
	}
	return res == 1, nil
}

// Reset implements Window.
func (w *RedisWindow) Reset(ctx context.Context, key string) error {
	return w.rdb.Del(ctx, w.key(key)).Err()
}
