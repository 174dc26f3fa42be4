// Package ratelimit enforces a fixed-window submission quota per client identity.
package ratelimit

import (
	"context"
	"time"

	"github.com/okian/contactd/pkg/logger"
	"github.com/okian/contactd/pkg/metrics"
)

// Decision is the outcome of a limiter check.
type Decision int

const (
	// Allowed means the request fits inside the current window's quota.
	Allowed Decision = iota
	// Throttled means the quota for the current window is spent.
	Throttled
)

func (d Decision) String() string {
	if d == Throttled {
		return "throttled"
	}
	return "allowed"
}

// Window is the state of one identity's window after a Hit.
type Window struct {
	// Count is the number of admitted requests in the window.
	Count int
	// Allowed reports whether this hit was admitted.
	Allowed bool
	// ResetAt is when the window elapses.
	ResetAt time.Time
}

// Store is the single atomic check-and-increment primitive behind a Limiter.
//
// Hit starts a new window with count 1 when none exists or the previous one
// elapsed at or before now. Otherwise it increments and admits while the count
// stays within quota, and refuses without incrementing once it would not.
// Concurrent hits on the same key must never admit more than quota.
type Store interface {
	Hit(ctx context.Context, key string, quota int, window time.Duration, now time.Time) (Window, error)
}

// Checker is what the submission pipeline needs from a limiter.
type Checker interface {
	Check(ctx context.Context, identity string) Decision
}

// Limiter applies one quota to one route scope.
type Limiter struct {
	store  Store
	scope  string
	quota  int
	window time.Duration
	clock  func() time.Time
	log    logger.Logger
}

var _ Checker = (*Limiter)(nil)

// New creates a Limiter over store. Defaults: 5 requests per hour, scope "contact".
func New(store Store, opts ...Option) *Limiter {
	l := &Limiter{
		store:  store,
		scope:  "contact",
		quota:  5,
		window: time.Hour,
		clock:  time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.log == nil {
		l.log = logger.Get().Named("ratelimit")
	}
	return l
}

// Check records one attempt for identity and reports whether it is admitted.
// A failing store admits the request; the failure is logged and counted.
func (l *Limiter) Check(ctx context.Context, identity string) Decision {
	w, err := l.store.Hit(ctx, l.key(identity), l.quota, l.window, l.clock())
	if err != nil {
		metrics.RecordLimiterError()
		l.log.Warn(ctx, "rate limit store unavailable, admitting request",
			logger.String("scope", l.scope),
			logger.String("identity", identity),
			logger.Error(err),
		)
		return Allowed
	}
	if !w.Allowed {
		metrics.RecordThrottled()
		return Throttled
	}
	return Allowed
}

// Quota returns the configured quota.
func (l *Limiter) Quota() int { return l.quota }

// Window returns the configured window length.
func (l *Limiter) Window() time.Duration { return l.window }

func (l *Limiter) key(identity string) string {
	return l.scope + ":" + identity
}
