package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/okian/contactd/internal/adapters/mail"
	"github.com/okian/contactd/internal/adapters/ratestore"
	"github.com/okian/contactd/internal/adapters/repository"
	app "github.com/okian/contactd/internal/app"
	"github.com/okian/contactd/internal/config"
	"github.com/okian/contactd/pkg/logger"
	"github.com/okian/contactd/pkg/metrics"
)

// HTTP server timeout constants.
const (
	readTimeout            = 10 * time.Second
	writeTimeout           = 30 * time.Second
	idleTimeout            = 60 * time.Second
	readHeaderTimeout      = 5 * time.Second
	shutdownTimeout        = 30 * time.Second
	systemMetricsInterval  = 10 * time.Second
	serviceMetricsInterval = 5 * time.Second
)

func main() {
	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	loggerInstance := logger.Get()

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		os.Exit(1)
	}

	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		loggerInstance.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	opts, cleanup, err := buildOptions(ctx, cfg)
	if err != nil {
		loggerInstance.Error(ctx, "failed to initialize backends", logger.Error(err))
		os.Exit(1)
	}
	defer cleanup()

	svc := app.New(append(opts, app.WithLogger(loggerInstance))...)
	if err := svc.Start(ctx); err != nil {
		loggerInstance.Error(ctx, "failed to start service", logger.Error(err))
		return
	}
	defer svc.Stop()

	go startSystemMetricsUpdater(ctx)
	go startServiceMetricsUpdater(ctx, svc)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           svc.Handler(ctx),
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	go func() {
		loggerInstance.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			loggerInstance.Error(ctx, "HTTP server failed", logger.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	loggerInstance.Info(ctx, "shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		loggerInstance.Error(ctx, "server shutdown failed", logger.Error(err))
	}

	loggerInstance.Info(ctx, "server stopped")
}

// buildOptions translates cfg into service options, connecting the
// configured backends. cleanup releases whatever was opened.
func buildOptions(ctx context.Context, cfg *config.Config) (opts []app.Option, cleanup func(), err error) {
	var closers []func()
	cleanup = func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}
	defer func() {
		if err != nil {
			cleanup()
			cleanup = func() {}
		}
	}()

	opts = []app.Option{
		app.WithQuota(cfg.RateLimitQuota),
		app.WithWindow(cfg.RateLimitWindow),
		app.WithRateLimitShards(cfg.RateLimitShards),
		app.WithSweepInterval(cfg.RateLimitSweepInterval),
		app.WithMaxSignals(cfg.MaxSignals),
		app.WithRecipients(cfg.Recipients...),
		app.WithLocale(cfg.Locale),
		app.WithMailTimeout(cfg.MailTimeout),
		app.WithAuditQueue(cfg.AuditQueueSize, cfg.AuditWorkers),
		app.WithAllowedOrigins(cfg.AllowedOrigins...),
	}

	if cfg.RateLimitBackend == config.BackendRedis {
		client, cerr := ratestore.Connect(ctx, cfg.RedisURL)
		if cerr != nil {
			return nil, cleanup, cerr
		}
		closers = append(closers, func() { _ = client.Close() })
		opts = append(opts, app.WithRateLimitStore(ratestore.NewRedisStore(client)))
	}

	if cfg.MailBackend == config.BackendSES {
		client, cerr := mail.NewSESClient(ctx, cfg.SESRegion, cfg.SESAccessKey, cfg.SESSecretKey)
		if cerr != nil {
			return nil, cleanup, cerr
		}
		opts = append(opts, app.WithTransport(mail.NewSESTransport(client, cfg.MailFrom)))
	}

	if cfg.ProjectStore == config.BackendPostgres {
		db, cerr := repository.OpenPostgres(ctx, cfg.DatabaseURL)
		if cerr != nil {
			return nil, cleanup, cerr
		}
		closers = append(closers, func() { _ = db.Close() })
		store := repository.NewPostgresStore(db)
		if cerr := store.Migrate(ctx); cerr != nil {
			return nil, cleanup, fmt.Errorf("migrate projects: %w", cerr)
		}
		opts = append(opts, app.WithProjectStore(store))
	}

	return opts, cleanup, nil
}

// startSystemMetricsUpdater starts a background goroutine that updates system metrics.
func startSystemMetricsUpdater(ctx context.Context) {
	ticker := time.NewTicker(systemMetricsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			updateSystemMetrics()
		}
	}
}

// startServiceMetricsUpdater refreshes the gauges derived from service stats.
func startServiceMetricsUpdater(ctx context.Context, svc *app.Service) {
	ticker := time.NewTicker(serviceMetricsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			svc.GetStats()
		}
	}
}

// updateSystemMetrics updates system-level metrics.
func updateSystemMetrics() {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	metrics.UpdateSystemMemoryUsage(m.Alloc)
	metrics.UpdateSystemGoroutineCount(runtime.NumGoroutine())
}
