package heuristics

// Option configures an Engine.
type Option func(*Engine)

// WithMaxSignals sets the tolerance. Negative values are ignored.
func WithMaxSignals(n int) Option {
	return func(e *Engine) {
		if n >= 0 {
			e.maxSignals = n
		}
	}
}

// WithLocale selects the message catalog used for rejections.
func WithLocale(locale string) Option {
	return func(e *Engine) {
		if locale != "" {
			e.locale = locale
		}
	}
}
