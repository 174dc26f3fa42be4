package service

import (
	"time"

	"github.com/okian/contactd/internal/adapters/mail"
	"github.com/okian/contactd/internal/adapters/repository"
	"github.com/okian/contactd/internal/domain/audit"
	"github.com/okian/contactd/internal/domain/ratelimit"
	"github.com/okian/contactd/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(log logger.Logger) Option {
	return func(s *Service) {
		if log != nil {
			s.logger = log
		}
	}
}

// WithRateLimitStore replaces the in-memory rate limit store.
func WithRateLimitStore(store ratelimit.Store) Option {
	return func(s *Service) {
		s.rateStore = store
	}
}

// WithTransport sets the mail transport. Defaults to the log transport.
func WithTransport(t mail.Transport) Option {
	return func(s *Service) {
		s.transport = t
	}
}

// WithProjectStore sets the project store. Defaults to the in-memory store.
func WithProjectStore(store repository.Store) Option {
	return func(s *Service) {
		s.projects = store
	}
}

// WithAuditSink sets where audit events are written. Defaults to the log sink.
func WithAuditSink(sink audit.Sink) Option {
	return func(s *Service) {
		s.auditSink = sink
	}
}

// WithQuota sets the submissions allowed per window per identity.
func WithQuota(quota int) Option {
	return func(s *Service) {
		if quota > 0 {
			s.quota = quota
		}
	}
}

// WithWindow sets the rate limit window.
func WithWindow(window time.Duration) Option {
	return func(s *Service) {
		if window > 0 {
			s.window = window
		}
	}
}

// WithRateLimitShards sets the shard count of the in-memory store.
func WithRateLimitShards(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.shards = n
		}
	}
}

// WithSweepInterval sets how often expired in-memory windows are removed.
func WithSweepInterval(d time.Duration) Option {
	return func(s *Service) {
		s.sweepInterval = d
	}
}

// WithMaxSignals sets the abuse heuristic tolerance.
func WithMaxSignals(n int) Option {
	return func(s *Service) {
		if n >= 0 {
			s.maxSignals = n
		}
	}
}

// WithRecipients sets the notification recipients.
func WithRecipients(recipients ...string) Option {
	return func(s *Service) {
		if len(recipients) > 0 {
			s.recipients = recipients
		}
	}
}

// WithLocale sets the client message locale.
func WithLocale(locale string) Option {
	return func(s *Service) {
		if locale != "" {
			s.locale = locale
		}
	}
}

// WithMailTimeout bounds each transport call. Zero disables the bound.
func WithMailTimeout(d time.Duration) Option {
	return func(s *Service) {
		s.mailTimeout = d
	}
}

// WithAuditQueue sizes the async audit queue and its worker pool.
func WithAuditQueue(size, workers int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
		if workers > 0 {
			s.workerCount = workers
		}
	}
}

// WithAllowedOrigins sets the CORS origins of the HTTP handler.
func WithAllowedOrigins(origins ...string) Option {
	return func(s *Service) {
		if len(origins) > 0 {
			s.allowedOrigins = origins
		}
	}
}
