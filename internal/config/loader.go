package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	envPrefix  = "CONTACTD_"
	envFileVar = "CONTACTD_CONFIG"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if CONTACTD_CONFIG is set
//  3. env (prefix CONTACTD_)
func Load(_ context.Context) (*Config, error) {
	base := New()

	k := koanf.New(".")

	if path := os.Getenv(envFileVar); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: file %s: %w", ErrLoadConfig, path, err)
		}
	}

	// CONTACTD_RATE_LIMIT_QUOTA -> rate_limit_quota (flat keys, underscores kept).
	envProvider := env.Provider(envPrefix, ".", func(s string) string {
		if s == envFileVar {
			return ""
		}
		return strings.TrimPrefix(strings.ToLower(s), strings.ToLower(envPrefix))
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: env: %w", ErrLoadConfig, err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks cross-field constraints.
func (c *Config) Validate() error {
	switch {
	case strings.TrimSpace(c.Addr) == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.RateLimitQuota < 1:
		return fmt.Errorf("%w: rate_limit_quota must be at least 1", ErrInvalidConfig)
	case c.RateLimitWindow <= 0:
		return fmt.Errorf("%w: rate_limit_window must be positive", ErrInvalidConfig)
	case c.RateLimitShards < 1:
		return fmt.Errorf("%w: rate_limit_shards must be at least 1", ErrInvalidConfig)
	case c.MaxSignals < 0:
		return fmt.Errorf("%w: max_signals must not be negative", ErrInvalidConfig)
	case len(c.Recipients) == 0:
		return fmt.Errorf("%w: recipients must not be empty", ErrInvalidConfig)
	case c.MailTimeout <= 0:
		return fmt.Errorf("%w: mail_timeout must be positive", ErrInvalidConfig)
	case c.AuditQueueSize < 1 || c.AuditWorkers < 1:
		return fmt.Errorf("%w: audit_queue_size and audit_workers must be at least 1", ErrInvalidConfig)
	}

	switch c.RateLimitBackend {
	case BackendMemory:
	case BackendRedis:
		if c.RedisURL == "" {
			return fmt.Errorf("%w: redis_url is required for the redis backend", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown rate_limit_backend %q", ErrInvalidConfig, c.RateLimitBackend)
	}

	switch c.MailBackend {
	case BackendLog, BackendSES:
	default:
		return fmt.Errorf("%w: unknown mail_backend %q", ErrInvalidConfig, c.MailBackend)
	}

	switch c.ProjectStore {
	case BackendMemory:
	case BackendPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("%w: database_url is required for the postgres store", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown project_store %q", ErrInvalidConfig, c.ProjectStore)
	}
	return nil
}
