package mail

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/okian/contactd/internal/domain/model"
)

// TimeoutTransport bounds every Send of the wrapped transport.
type TimeoutTransport struct {
	next    Transport
	timeout time.Duration
}

// WithTimeout wraps next so that each Send gives up after d.
func WithTimeout(next Transport, d time.Duration) *TimeoutTransport {
	return &TimeoutTransport{next: next, timeout: d}
}

// Send implements Transport. A transport that ignores its context is still
// abandoned at the deadline; the result is ErrTimeout.
func (t *TimeoutTransport) Send(ctx context.Context, n model.Notification) error {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- fmt.Errorf("%w: panic: %v", ErrTransport, r)
			}
		}()
		done <- t.next.Send(ctx, n)
	}()

	select {
	case err := <-done:
		if errors.Is(err, context.DeadlineExceeded) {
			return fmt.Errorf("%w after %s: %w", ErrTimeout, t.timeout, err)
		}
		return err
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return fmt.Errorf("%w after %s", ErrTimeout, t.timeout)
		}
		return ctx.Err()
	}
}
