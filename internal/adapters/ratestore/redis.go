// Package ratestore provides a Redis-backed rate limit store shared by every
// contactd process.
package ratestore

import (
	"context"
	"fmt"
	"time"

	"github.com/okian/contactd/internal/domain/ratelimit"
	"github.com/redis/go-redis/v9"
)

// hitScript admits and increments atomically. Window expiry is driven by the
// Redis server clock through the key TTL.
//
// KEYS[1] = counter key
// ARGV[1] = quota
// ARGV[2] = window in milliseconds
// Returns {allowed (0/1), count, ttl_ms}.
const hitScript = `
local quota = tonumber(ARGV[1])
local window = tonumber(ARGV[2])
local current = tonumber(redis.call('GET', KEYS[1]) or '0')

if current >= quota then
  local ttl = redis.call('PTTL', KEYS[1])
  if ttl < 0 then
    redis.call('PEXPIRE', KEYS[1], window)
    ttl = window
  end
  return {0, current, ttl}
end

current = redis.call('INCR', KEYS[1])
if current == 1 then
  redis.call('PEXPIRE', KEYS[1], window)
end
local ttl = redis.call('PTTL', KEYS[1])
if ttl < 0 then
  redis.call('PEXPIRE', KEYS[1], window)
  ttl = window
end
return {1, current, ttl}
`

// RedisStore implements ratelimit.Store with one Lua script per hit.
type RedisStore struct {
	client redis.Scripter
	script *redis.Script
	prefix string
}

var _ ratelimit.Store = (*RedisStore)(nil)

// NewRedisStore creates a store over client.
func NewRedisStore(client redis.Scripter, opts ...Option) *RedisStore {
	s := &RedisStore{
		client: client,
		script: redis.NewScript(hitScript),
		prefix: "contactd:ratelimit:",
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Connect parses redisURL and verifies the server answers.
func Connect(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis URL: %w", err)
	}
	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis connection failed: %w", err)
	}
	return client, nil
}

// Hit implements ratelimit.Store. now only anchors the returned ResetAt.
func (s *RedisStore) Hit(ctx context.Context, key string, quota int, window time.Duration, now time.Time) (ratelimit.Window, error) {
	if quota < 1 || window < time.Millisecond {
		return ratelimit.Window{}, fmt.Errorf("%w: quota=%d window=%s", ratelimit.ErrInvalidLimit, quota, window)
	}

	res, err := s.script.Run(ctx, s.client, []string{s.prefix + key}, quota, window.Milliseconds()).Int64Slice()
	if err != nil {
		return ratelimit.Window{}, fmt.Errorf("rate limit script: %w", err)
	}
	if len(res) != 3 {
		return ratelimit.Window{}, fmt.Errorf("rate limit script: unexpected reply %v", res)
	}

	return ratelimit.Window{
		Allowed: res[0] == 1,
		Count:   int(res[1]),
		ResetAt: now.Add(time.Duration(res[2]) * time.Millisecond),
	}, nil
}
