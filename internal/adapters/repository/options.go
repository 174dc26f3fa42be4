package repository

import "time"

// Option applies a configuration option to a store.
type Option func(*options)

type options struct {
	clock func() time.Time
}

func defaultOptions() options {
	return options{clock: time.Now}
}

// WithClock overrides the time stamped on created projects.
func WithClock(clock func() time.Time) Option {
	return func(o *options) {
		if clock != nil {
			o.clock = clock
		}
	}
}
