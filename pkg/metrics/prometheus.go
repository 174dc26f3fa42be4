// Package metrics provides Prometheus metrics for the contactd service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns every Prometheus collector exported by the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	constLabels      prometheus.Labels
	registry         prometheus.Registerer

	// Contact pipeline
	submissions     *prometheus.CounterVec
	rejections      *prometheus.CounterVec
	stageLatency    *prometheus.HistogramVec
	dispatchLatency prometheus.Histogram

	// Rate limiting
	throttled        prometheus.Counter
	limiterErrors    prometheus.Counter
	rateLimitWindows prometheus.Gauge
	rateLimitSwept   prometheus.Counter

	// Audit trail
	auditEvents     *prometheus.CounterVec
	auditQueueSize  prometheus.Gauge
	auditOverflow   prometheus.Counter
	passiveSignals  *prometheus.CounterVec
	auditDrainError prometheus.Counter

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Projects collaborator
	projectsCreated prometheus.Counter

	// Process
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
}

var globalManager *Manager //nolint:gochecknoglobals // singleton metrics manager

var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // process registry without default Go collectors

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "contactd",
		subsystem:        "contact",
		histogramBuckets: []float64{1, 2, 5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000, 10000},
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()
	return m
}

func (m *Manager) counterOpts(name, help string) prometheus.CounterOpts {
	return prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.constLabels,
	}
}

func (m *Manager) gaugeOpts(name, help string) prometheus.GaugeOpts {
	return prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.constLabels,
	}
}

func (m *Manager) histogramOpts(name, help string) prometheus.HistogramOpts {
	return prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.constLabels,
		Buckets:     m.histogramBuckets,
	}
}

func (m *Manager) initializeMetrics() { //nolint:funlen // one place for every collector
	auto := promauto.With(m.registry)

	m.submissions = auto.NewCounterVec(
		m.counterOpts("submissions_total", "Contact submissions by final outcome"),
		[]string{"outcome"},
	)
	m.rejections = auto.NewCounterVec(
		m.counterOpts("rejections_total", "Contact submissions rejected, by reason code"),
		[]string{"reason"},
	)
	m.stageLatency = auto.NewHistogramVec(
		m.histogramOpts("stage_latency_milliseconds", "Latency of each pipeline stage in milliseconds"),
		[]string{"stage"},
	)
	m.dispatchLatency = auto.NewHistogram(
		m.histogramOpts("dispatch_latency_milliseconds", "Mail transport latency in milliseconds"),
	)

	m.throttled = auto.NewCounter(m.counterOpts("throttled_total", "Submissions refused by the rate limiter"))
	m.limiterErrors = auto.NewCounter(m.counterOpts("ratelimit_store_errors_total", "Rate limit store failures (request allowed)"))
	m.rateLimitWindows = auto.NewGauge(m.gaugeOpts("ratelimit_windows", "Rate limit windows currently tracked in memory"))
	m.rateLimitSwept = auto.NewCounter(m.counterOpts("ratelimit_windows_swept_total", "Expired rate limit windows removed by the sweeper"))

	m.auditEvents = auto.NewCounterVec(
		m.counterOpts("audit_events_total", "Audit events written, by stage and outcome"),
		[]string{"stage", "outcome"},
	)
	m.auditQueueSize = auto.NewGauge(m.gaugeOpts("audit_queue_size", "Audit events waiting in the async queue"))
	m.auditOverflow = auto.NewCounter(m.counterOpts("audit_queue_overflow_total", "Audit events written synchronously because the queue was full or closed"))
	m.passiveSignals = auto.NewCounterVec(
		m.counterOpts("passive_signals_total", "Request signals observed on the contact route"),
		[]string{"kind"},
	)
	m.auditDrainError = auto.NewCounter(m.counterOpts("audit_drain_errors_total", "Audit worker failures while draining the queue"))

	m.httpRequests = auto.NewCounterVec(
		m.counterOpts("http_requests_total", "HTTP requests by endpoint, method and status"),
		[]string{"endpoint", "method", "status_code"},
	)
	m.httpRequestDuration = auto.NewHistogramVec(
		m.histogramOpts("http_request_duration_milliseconds", "HTTP request duration in milliseconds"),
		[]string{"endpoint", "method", "status_code"},
	)

	m.projectsCreated = auto.NewCounter(m.counterOpts("projects_created_total", "Projects created through the API"))

	m.systemMemoryUsage = auto.NewGauge(m.gaugeOpts("system_memory_usage_bytes", "Heap bytes allocated"))
	m.systemGoroutineCount = auto.NewGauge(m.gaugeOpts("system_goroutine_count", "Number of goroutines"))
}

// RecordSubmission counts a submission by final outcome (success, rejected, throttled, fault).
func RecordSubmission(outcome string) {
	globalManager.submissions.WithLabelValues(outcome).Inc()
}

// RecordRejection counts a rejection by reason code.
func RecordRejection(reason string) {
	globalManager.rejections.WithLabelValues(reason).Inc()
}

// RecordStageLatency observes the duration of one pipeline stage.
func RecordStageLatency(stage string, latencyMs float64) {
	globalManager.stageLatency.WithLabelValues(stage).Observe(latencyMs)
}

// RecordDispatchLatency observes mail transport latency.
func RecordDispatchLatency(latencyMs float64) {
	globalManager.dispatchLatency.Observe(latencyMs)
}

// RecordThrottled counts a throttled submission.
func RecordThrottled() {
	globalManager.throttled.Inc()
}

// RecordLimiterError counts a rate limit store failure.
func RecordLimiterError() {
	globalManager.limiterErrors.Inc()
}

// UpdateRateLimitWindows sets the number of tracked windows.
func UpdateRateLimitWindows(count int) {
	globalManager.rateLimitWindows.Set(float64(count))
}

// RecordRateLimitSweep counts windows removed by a sweep.
func RecordRateLimitSweep(removed int) {
	globalManager.rateLimitSwept.Add(float64(removed))
}

// RecordAuditEvent counts an audit event.
func RecordAuditEvent(stage, outcome string) {
	globalManager.auditEvents.WithLabelValues(stage, outcome).Inc()
}

// UpdateAuditQueueSize sets the async audit backlog.
func UpdateAuditQueueSize(size int) {
	globalManager.auditQueueSize.Set(float64(size))
}

// RecordAuditOverflow counts an event that bypassed the async queue.
func RecordAuditOverflow() {
	globalManager.auditOverflow.Inc()
}

// RecordAuditDrainError counts a worker failure.
func RecordAuditDrainError() {
	globalManager.auditDrainError.Inc()
}

// RecordPassiveSignal counts an observed request signal (forwarded_header, user_agent).
func RecordPassiveSignal(kind string) {
	globalManager.passiveSignals.WithLabelValues(kind).Inc()
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordProjectCreated counts a created project.
func RecordProjectCreated() {
	globalManager.projectsCreated.Inc()
}

// UpdateSystemMemoryUsage sets the system memory usage in bytes.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the number of goroutines.
func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutineCount.Set(float64(count))
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
