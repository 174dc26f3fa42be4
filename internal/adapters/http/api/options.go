package api

import "github.com/okian/contactd/internal/domain/audit"

// Option configures a Server.
type Option func(*Server)

// WithAllowedOrigins sets the CORS origins.
func WithAllowedOrigins(origins ...string) Option {
	return func(s *Server) {
		if len(origins) > 0 {
			s.allowedOrigins = origins
		}
	}
}

// WithSignalRecorder enables passive request-signal auditing on the contact route.
func WithSignalRecorder(rec *audit.Recorder) Option {
	return func(s *Server) {
		s.signals = rec
	}
}

// WithLocale selects the success message catalog.
func WithLocale(locale string) Option {
	return func(s *Server) {
		if locale != "" {
			s.locale = locale
		}
	}
}

// WithMaxBodyBytes caps request bodies.
func WithMaxBodyBytes(n int64) Option {
	return func(s *Server) {
		if n > 0 {
			s.maxBodyBytes = n
		}
	}
}
