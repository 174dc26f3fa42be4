package validation

import "time"

// Option configures a Validator.
type Option func(*Validator)

// WithLocale selects the message catalog used for rejections.
func WithLocale(locale string) Option {
	return func(v *Validator) {
		if locale != "" {
			v.locale = locale
		}
	}
}

// WithClock overrides the time stamped on accepted submissions.
func WithClock(clock func() time.Time) Option {
	return func(v *Validator) {
		if clock != nil {
			v.clock = clock
		}
	}
}
