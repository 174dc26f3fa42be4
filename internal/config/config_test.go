package config_test

import (
	"errors"
	"testing"
	"time"

	"github.com/okian/contactd/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New()

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.Addr, convey.ShouldEqual, ":8000")
			convey.So(cfg.Locale, convey.ShouldEqual, "en")
			convey.So(cfg.RateLimitQuota, convey.ShouldEqual, 5)
			convey.So(cfg.RateLimitWindow, convey.ShouldEqual, time.Hour)
			convey.So(cfg.RateLimitBackend, convey.ShouldEqual, config.BackendMemory)
			convey.So(cfg.MaxSignals, convey.ShouldEqual, 2)
			convey.So(cfg.MailBackend, convey.ShouldEqual, config.BackendLog)
			convey.So(cfg.MailTimeout, convey.ShouldEqual, 10*time.Second)
			convey.So(cfg.Recipients, convey.ShouldResemble, []string{"owner@example.com"})
		})

		convey.Convey("Then the defaults should validate", func() {
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})
	})
}

func TestConfig_Validate(t *testing.T) {
	convey.Convey("Given a default config", t, func() {
		cfg := config.New()

		convey.Convey("When the redis backend has no URL", func() {
			cfg.RateLimitBackend = config.BackendRedis
			err := cfg.Validate()

			convey.Convey("Then validation fails with ErrInvalidConfig", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(err.Error(), convey.ShouldContainSubstring, "redis_url")
			})
		})

		convey.Convey("When the postgres store has no URL", func() {
			cfg.ProjectStore = config.BackendPostgres
			convey.So(errors.Is(cfg.Validate(), config.ErrInvalidConfig), convey.ShouldBeTrue)
		})

		convey.Convey("When the mail backend is unknown", func() {
			cfg.MailBackend = "smtp"
			convey.So(cfg.Validate(), convey.ShouldNotBeNil)
		})

		convey.Convey("When the quota is zero", func() {
			cfg.RateLimitQuota = 0
			convey.So(cfg.Validate(), convey.ShouldNotBeNil)
		})

		convey.Convey("When there are no recipients", func() {
			cfg.Recipients = nil
			convey.So(cfg.Validate(), convey.ShouldNotBeNil)
		})

		convey.Convey("When max signals is zero", func() {
			cfg.MaxSignals = 0
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})
	})
}
