package ratelimit

import (
	"time"

	"github.com/okian/contactd/pkg/logger"
)

// Option configures a Limiter.
type Option func(*Limiter)

// WithQuota sets the number of requests admitted per window.
func WithQuota(quota int) Option {
	return func(l *Limiter) {
		if quota > 0 {
			l.quota = quota
		}
	}
}

// WithWindow sets the window length.
func WithWindow(window time.Duration) Option {
	return func(l *Limiter) {
		if window > 0 {
			l.window = window
		}
	}
}

// WithScope sets the key prefix; limiters with different scopes never share budget.
func WithScope(scope string) Option {
	return func(l *Limiter) {
		if scope != "" {
			l.scope = scope
		}
	}
}

// WithClock overrides the time source.
func WithClock(clock func() time.Time) Option {
	return func(l *Limiter) {
		if clock != nil {
			l.clock = clock
		}
	}
}

// WithLogger sets the logger.
func WithLogger(log logger.Logger) Option {
	return func(l *Limiter) {
		if log != nil {
			l.log = log
		}
	}
}

// MemoryOption configures a MemoryStore.
type MemoryOption func(*MemoryStore)

// WithShards sets the number of independently locked shards.
func WithShards(n int) MemoryOption {
	return func(s *MemoryStore) {
		if n > 0 {
			s.shardCount = n
		}
	}
}

// WithSweepInterval sets how often expired windows are removed. Zero disables
// the background sweeper.
func WithSweepInterval(d time.Duration) MemoryOption {
	return func(s *MemoryStore) {
		if d >= 0 {
			s.sweepInterval = d
		}
	}
}

// WithMemoryClock overrides the sweeper's time source.
func WithMemoryClock(clock func() time.Time) MemoryOption {
	return func(s *MemoryStore) {
		if clock != nil {
			s.clock = clock
		}
	}
}
