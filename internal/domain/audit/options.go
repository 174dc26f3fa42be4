package audit

import "time"

// Option configures a Recorder.
type Option func(*Recorder)

// WithClock overrides the event time source.
func WithClock(clock func() time.Time) Option {
	return func(r *Recorder) {
		if clock != nil {
			r.clock = clock
		}
	}
}
