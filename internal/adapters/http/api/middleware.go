package api

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/okian/contactd/internal/domain/audit"
	"github.com/okian/contactd/internal/domain/identity"
	"github.com/okian/contactd/pkg/metrics"
)

// Passive signal kinds.
const (
	SignalForwarded = "forwarded_header"
	SignalUserAgent = "user_agent"
)

// forwardingHeaders are headers whose presence suggests a proxy or spoofing attempt.
var forwardingHeaders = []string{"X-Forwarded-For", "X-Real-IP", "X-Cluster-Client-IP"}

// scriptedAgents are lowercase User-Agent fragments of non-browser clients.
var scriptedAgents = []string{"curl", "wget", "python-requests", "bot", "crawler"}

// MetricsMiddleware wraps HTTP handlers to record Prometheus metrics.
func MetricsMiddleware(next http.HandlerFunc, endpoint string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(wrapped, r)

		durationMs := float64(time.Since(start).Milliseconds())
		statusCodeStr := strconv.Itoa(wrapped.statusCode)

		metrics.RecordHTTPRequest(endpoint, r.Method, statusCodeStr)
		metrics.RecordHTTPRequestDuration(endpoint, r.Method, statusCodeStr, durationMs)
	}
}

// SignalMiddleware audits forwarding headers and scripted user agents.
// It only observes; the request always continues.
func SignalMiddleware(rec *audit.Recorder) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			for _, s := range Signals(r) {
				metrics.RecordPassiveSignal(s.Kind)
				_ = rec.Emit(r.Context(), audit.Event{
					Identity: identity.FromRequest(r),
					Stage:    audit.StageSignal,
					Outcome:  audit.OutcomeObserved,
					Reason:   s.Kind,
					Detail:   s.Detail,
				})
			}
			next.ServeHTTP(w, r)
		})
	}
}

// Signal is one passive observation about a request.
type Signal struct {
	Kind   string
	Detail string
}

// Signals lists the passive observations for r.
func Signals(r *http.Request) []Signal {
	var out []Signal
	for _, h := range forwardingHeaders {
		if v := r.Header.Get(h); v != "" {
			out = append(out, Signal{Kind: SignalForwarded, Detail: h + "=" + v})
		}
	}
	ua := strings.ToLower(r.UserAgent())
	for _, frag := range scriptedAgents {
		if strings.Contains(ua, frag) {
			out = append(out, Signal{Kind: SignalUserAgent, Detail: r.UserAgent()})
			break
		}
	}
	return out
}

// responseWriter wraps http.ResponseWriter to capture status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}
