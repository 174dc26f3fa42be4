package pipeline

import "github.com/okian/contactd/pkg/logger"

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithLocale selects the catalog for throttle and server messages.
func WithLocale(locale string) Option {
	return func(o *Orchestrator) {
		if locale != "" {
			o.locale = locale
		}
	}
}

// WithLogger sets the logger.
func WithLogger(log logger.Logger) Option {
	return func(o *Orchestrator) {
		if log != nil {
			o.log = log
		}
	}
}
