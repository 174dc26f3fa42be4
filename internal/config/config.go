// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() initializer to build a Config with defaults.
// - External errors must be wrapped via this package's sentinel errors.
package config

import "time"

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8000".
	Addr string `koanf:"addr"`

	// Locale selects the message catalog for client-facing errors.
	Locale string `koanf:"locale"`

	// AllowedOrigins lists CORS origins for the portfolio front-end.
	AllowedOrigins []string `koanf:"allowed_origins"`

	// RateLimitQuota is the number of submissions allowed per window per client.
	RateLimitQuota int `koanf:"rate_limit_quota"`
	// RateLimitWindow is the fixed window length.
	RateLimitWindow time.Duration `koanf:"rate_limit_window"`
	// RateLimitBackend is "memory" or "redis".
	RateLimitBackend string `koanf:"rate_limit_backend"`
	// RateLimitShards configures the number of shards in the in-memory store.
	RateLimitShards int `koanf:"rate_limit_shards"`
	// RateLimitSweepInterval sets how often expired windows are removed.
	RateLimitSweepInterval time.Duration `koanf:"rate_limit_sweep_interval"`
	// RedisURL is required when RateLimitBackend is "redis".
	RedisURL string `koanf:"redis_url"`

	// MaxSignals is the abuse heuristic tolerance; more signals than this is rejected.
	MaxSignals int `koanf:"max_signals"`

	Recipients  []string      `koanf:"recipients"`
	MailFrom    string        `koanf:"mail_from"`
	MailBackend string        `koanf:"mail_backend"`
	MailTimeout time.Duration `koanf:"mail_timeout"`

	SESRegion    string `koanf:"ses_region"`
	SESAccessKey string `koanf:"ses_access_key"`
	SESSecretKey string `koanf:"ses_secret_key"`

	// ProjectStore is "memory" or "postgres".
	ProjectStore string `koanf:"project_store"`
	DatabaseURL  string `koanf:"database_url"`

	// AuditQueueSize bounds the async audit queue.
	AuditQueueSize int `koanf:"audit_queue_size"`
	// AuditWorkers sets the number of audit drain workers.
	AuditWorkers int `koanf:"audit_workers"`
}

// Backend names accepted by the loader.
const (
	BackendMemory   = "memory"
	BackendRedis    = "redis"
	BackendLog      = "log"
	BackendSES      = "ses"
	BackendPostgres = "postgres"
)

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:               "info",
		Addr:                   ":8000",
		Locale:                 "en",
		AllowedOrigins:         []string{"*"},
		RateLimitQuota:         5,
		RateLimitWindow:        time.Hour,
		RateLimitBackend:       BackendMemory,
		RateLimitShards:        16,
		RateLimitSweepInterval: 5 * time.Minute,
		MaxSignals:             2,
		Recipients:             []string{"owner@example.com"},
		MailFrom:               "no-reply@example.com",
		MailBackend:            BackendLog,
		MailTimeout:            10 * time.Second,
		SESRegion:              "us-east-1",
		ProjectStore:           BackendMemory,
		AuditQueueSize:         1024,
		AuditWorkers:           2,
	}
}
