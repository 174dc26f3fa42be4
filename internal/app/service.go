// Package service wires the contact pipeline and its collaborators into a
// runnable service and exposes the dependencies required by the HTTP API.
package service

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/okian/contactd/internal/adapters/http/api"
	"github.com/okian/contactd/internal/adapters/mail"
	"github.com/okian/contactd/internal/adapters/mq/queue"
	"github.com/okian/contactd/internal/adapters/mq/worker"
	"github.com/okian/contactd/internal/adapters/repository"
	"github.com/okian/contactd/internal/domain/audit"
	"github.com/okian/contactd/internal/domain/heuristics"
	"github.com/okian/contactd/internal/domain/model"
	"github.com/okian/contactd/internal/domain/notify"
	"github.com/okian/contactd/internal/domain/pipeline"
	"github.com/okian/contactd/internal/domain/ratelimit"
	"github.com/okian/contactd/internal/domain/validation"
	"github.com/okian/contactd/pkg/logger"
	"github.com/okian/contactd/pkg/metrics"
)

const recentAuditEvents = 256

// Service owns the contact pipeline, the audit trail and the project store.
type Service struct {
	mu sync.RWMutex

	// Injected backends
	rateStore ratelimit.Store
	transport mail.Transport
	projects  repository.Store
	auditSink audit.Sink

	// Configuration
	quota          int
	window         time.Duration
	shards         int
	sweepInterval  time.Duration
	maxSignals     int
	recipients     []string
	locale         string
	mailTimeout    time.Duration
	queueSize      int
	workerCount    int
	allowedOrigins []string

	// Built on Start
	memStore     *ratelimit.MemoryStore
	limiter      *ratelimit.Limiter
	auditQueue   *queue.InMemoryQueue
	pool         *worker.Pool
	recent       *audit.MemorySink
	recorder     *audit.Recorder
	orchestrator *pipeline.Orchestrator

	started bool
	logger  logger.Logger
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		quota:          5,
		window:         time.Hour,
		shards:         16,
		sweepInterval:  5 * time.Minute,
		maxSignals:     2,
		recipients:     []string{"owner@example.com"},
		locale:         model.DefaultLocale,
		mailTimeout:    10 * time.Second,
		queueSize:      1024,
		workerCount:    2,
		allowedOrigins: []string{"*"},
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start builds the pipeline and starts the audit workers.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.logger.Info(ctx, "starting contact service...")

	store := s.rateStore
	if store == nil {
		s.memStore = ratelimit.NewMemoryStore(ctx,
			ratelimit.WithShards(s.shards),
			ratelimit.WithSweepInterval(s.sweepInterval),
		)
		store = s.memStore
		s.logger.Info(ctx, "using in-memory rate limit store", logger.Int("shards", s.shards))
	}
	s.limiter = ratelimit.New(store,
		ratelimit.WithQuota(s.quota),
		ratelimit.WithWindow(s.window),
	)

	if s.projects == nil {
		s.projects = repository.NewMemoryStore()
		s.logger.Info(ctx, "using in-memory project store")
	}

	sink := s.auditSink
	if sink == nil {
		sink = audit.NewLogSink(nil)
	}
	s.recent = audit.NewMemorySink(recentAuditEvents)
	durable := audit.MultiSink{sink, s.recent}

	s.auditQueue = queue.NewInMemoryQueue(
		queue.WithCapacity(s.queueSize),
		queue.WithOverflow(durable),
	)
	s.pool = worker.NewPool(s.workerCount, s.auditQueue, durable)
	// Workers outlive ctx so Stop can drain the queue.
	s.pool.Start(context.WithoutCancel(ctx))
	s.recorder = audit.NewRecorder(s.auditQueue)

	transport := s.transport
	if transport == nil {
		transport = mail.NewLogTransport()
	}
	if s.mailTimeout > 0 {
		transport = mail.WithTimeout(transport, s.mailTimeout)
	}

	s.orchestrator = pipeline.New(
		s.limiter,
		validation.New(validation.WithLocale(s.locale)),
		heuristics.New(heuristics.WithMaxSignals(s.maxSignals), heuristics.WithLocale(s.locale)),
		notify.New(notify.WithRecipients(s.recipients...)),
		transport,
		s.recorder,
		pipeline.WithLocale(s.locale),
	)

	s.started = true
	s.logger.Info(ctx, "contact service started",
		logger.Int("quota", s.quota),
		logger.Duration("window", s.window),
		logger.Int("max_signals", s.maxSignals),
		logger.Int("audit_workers", s.pool.Size()),
	)

	return nil
}

// Stop drains the audit queue and releases background resources.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	ctx := context.Background()
	s.logger.Info(ctx, "stopping contact service...")

	if err := s.pool.Shutdown(ctx); err != nil {
		s.logger.Warn(ctx, "audit drain incomplete", logger.Error(err))
	}

	if s.memStore != nil {
		_ = s.memStore.Close()
		s.memStore = nil
	}

	s.started = false
	s.logger.Info(ctx, "contact service stopped",
		logger.Int("audit_events_drained", int(s.pool.Processed())),
	)
}

// Submit runs req through the pipeline.
func (s *Service) Submit(ctx context.Context, req pipeline.Request) error {
	s.mu.RLock()
	o, started := s.orchestrator, s.started
	s.mu.RUnlock()

	if !started {
		return &pipeline.Error{
			Kind:    pipeline.KindServer,
			Reason:  model.ReasonInternal,
			Message: model.Message(s.locale, model.ReasonInternal),
			Err:     ErrNotStarted,
		}
	}
	return o.Submit(ctx, req)
}

// Projects returns the project store.
func (s *Service) Projects() repository.Store {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.projects
}

// RecentAudit returns the most recent audit events, oldest first.
func (s *Service) RecentAudit() []audit.Event {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.recent == nil {
		return nil
	}
	return s.recent.Events()
}

// Handler returns the HTTP handler serving the API. Start must be called first.
func (s *Service) Handler(ctx context.Context) http.Handler {
	s.mu.RLock()
	opts := []api.Option{
		api.WithAllowedOrigins(s.allowedOrigins...),
		api.WithLocale(s.locale),
	}
	if s.recorder != nil {
		opts = append(opts, api.WithSignalRecorder(s.recorder))
	}
	projects := s.projects
	s.mu.RUnlock()

	if projects == nil {
		projects = repository.NewMemoryStore()
	}
	return api.NewServer(s, projects, s, opts...).Routes(ctx)
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]interface{}{
		"started":         s.started,
		"rateLimitQuota":  s.quota,
		"rateLimitWindow": s.window.String(),
		"maxSignals":      s.maxSignals,
		"auditWorkers":    s.workerCount,
		"auditQueueSize":  s.queueSize,
	}

	if !s.started {
		return stats
	}

	queueLen := s.auditQueue.Len(ctx)
	stats["auditQueueLength"] = queueLen
	stats["auditProcessed"] = s.pool.Processed()
	metrics.UpdateAuditQueueSize(queueLen)

	if s.memStore != nil {
		windows := s.memStore.Len()
		stats["rateLimitWindows"] = windows
		metrics.UpdateRateLimitWindows(windows)
	}

	if n, err := s.projects.Count(ctx); err == nil {
		stats["projects"] = n
	}

	totals := map[string]int64{}
	for outcome, n := range s.recent.Totals() {
		totals[string(outcome)] = n
	}
	stats["auditOutcomes"] = totals

	return stats
}
