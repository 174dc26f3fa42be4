package config_test

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/okian/contactd/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

var configEnvVars = []string{
	"CONTACTD_CONFIG",
	"CONTACTD_ADDR",
	"CONTACTD_LOCALE",
	"CONTACTD_RATE_LIMIT_QUOTA",
	"CONTACTD_RATE_LIMIT_WINDOW",
	"CONTACTD_RATE_LIMIT_BACKEND",
	"CONTACTD_REDIS_URL",
	"CONTACTD_MAX_SIGNALS",
	"CONTACTD_RECIPIENTS",
	"CONTACTD_MAIL_BACKEND",
	"CONTACTD_MAIL_TIMEOUT",
}

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()
		clearConfigEnvVars()
		defer clearConfigEnvVars()

		convey.Convey("When loading config with defaults only", func() {
			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8000")
				convey.So(cfg.RateLimitQuota, convey.ShouldEqual, 5)
				convey.So(cfg.RateLimitWindow, convey.ShouldEqual, time.Hour)
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			_ = os.Setenv("CONTACTD_ADDR", ":8080")
			_ = os.Setenv("CONTACTD_RATE_LIMIT_QUOTA", "3")
			_ = os.Setenv("CONTACTD_RATE_LIMIT_WINDOW", "30m")
			_ = os.Setenv("CONTACTD_LOCALE", "es")
			_ = os.Setenv("CONTACTD_RECIPIENTS", "a@example.com,b@example.com")

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.RateLimitQuota, convey.ShouldEqual, 3)
				convey.So(cfg.RateLimitWindow, convey.ShouldEqual, 30*time.Minute)
				convey.So(cfg.Locale, convey.ShouldEqual, "es")
				convey.So(cfg.Recipients, convey.ShouldResemble, []string{"a@example.com", "b@example.com"})
			})
		})

		convey.Convey("When loading config with YAML file", func() {
			tmpFile := createTempConfigFile(`
addr: ":9090"
rate_limit_quota: 10
rate_limit_window: 2h
max_signals: 4
mail_timeout: 3s
recipients:
  - me@example.com
`)
			defer func() { _ = os.Remove(tmpFile) }()
			_ = os.Setenv("CONTACTD_CONFIG", tmpFile)

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load from YAML file", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9090")
				convey.So(cfg.RateLimitQuota, convey.ShouldEqual, 10)
				convey.So(cfg.RateLimitWindow, convey.ShouldEqual, 2*time.Hour)
				convey.So(cfg.MaxSignals, convey.ShouldEqual, 4)
				convey.So(cfg.MailTimeout, convey.ShouldEqual, 3*time.Second)
				convey.So(cfg.Recipients, convey.ShouldResemble, []string{"me@example.com"})
			})

			convey.Convey("And env vars are also set", func() {
				_ = os.Setenv("CONTACTD_ADDR", ":7070")

				cfg, err := config.Load(ctx)

				convey.Convey("Then environment variables should override file values", func() {
					convey.So(err, convey.ShouldBeNil)
					convey.So(cfg.Addr, convey.ShouldEqual, ":7070")
					convey.So(cfg.RateLimitQuota, convey.ShouldEqual, 10)
				})
			})
		})

		convey.Convey("When loading config with partial YAML file", func() {
			tmpFile := createTempConfigFile("locale: es\n")
			defer func() { _ = os.Remove(tmpFile) }()
			_ = os.Setenv("CONTACTD_CONFIG", tmpFile)

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should merge with defaults for missing fields", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Locale, convey.ShouldEqual, "es")
				convey.So(cfg.Addr, convey.ShouldEqual, ":8000")
				convey.So(cfg.MaxSignals, convey.ShouldEqual, 2)
			})
		})

		convey.Convey("When loading config with invalid YAML file", func() {
			tmpFile := createTempConfigFile(`invalid: yaml: content: [`)
			defer func() { _ = os.Remove(tmpFile) }()
			_ = os.Setenv("CONTACTD_CONFIG", tmpFile)

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a load error", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with non-existent file", func() {
			_ = os.Setenv("CONTACTD_CONFIG", "/non/existent/file.yaml")

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return an error", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with empty addr", func() {
			_ = os.Setenv("CONTACTD_ADDR", "")

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a validation error", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(err.Error(), convey.ShouldContainSubstring, "addr must not be empty")
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When selecting redis without a URL", func() {
			_ = os.Setenv("CONTACTD_RATE_LIMIT_BACKEND", "redis")

			_, err := config.Load(ctx)

			convey.Convey("Then it should return a validation error", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When loading config with invalid numeric environment variables", func() {
			_ = os.Setenv("CONTACTD_RATE_LIMIT_QUOTA", "invalid")

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return an error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})
	})
}

func clearConfigEnvVars() {
	for _, name := range configEnvVars {
		_ = os.Unsetenv(name)
	}
}

func createTempConfigFile(content string) string {
	tmpFile, err := os.CreateTemp("", "contactd-config-*.yaml")
	if err != nil {
		panic(err)
	}
	defer func() { _ = tmpFile.Close() }()

	if _, err := tmpFile.WriteString(content); err != nil {
		panic(err)
	}
	return tmpFile.Name()
}
