package audit

import (
	"context"
	"sync"

	"github.com/okian/contactd/pkg/logger"
)

// LogSink writes events as structured log records. Rejections are warnings,
// faults are errors, everything else is info.
type LogSink struct {
	log logger.Logger
}

// NewLogSink creates a LogSink. A nil logger uses the global "audit" logger.
func NewLogSink(log logger.Logger) *LogSink {
	if log == nil {
		log = logger.Get().Named("audit")
	}
	return &LogSink{log: log}
}

// Record implements Sink.
func (s *LogSink) Record(ctx context.Context, e Event) error {
	fields := []logger.Field{
		logger.String("event_id", e.ID),
		logger.String("identity", e.Identity),
		logger.String("stage", string(e.Stage)),
		logger.String("outcome", string(e.Outcome)),
		logger.String("timestamp", e.Timestamp.Format("2006-01-02T15:04:05.000Z07:00")),
	}
	if e.Reason != "" {
		fields = append(fields, logger.String("reason", e.Reason))
	}
	if e.Detail != "" {
		fields = append(fields, logger.String("detail", e.Detail))
	}

	switch e.Outcome {
	case OutcomeFault:
		s.log.Error(ctx, "audit", fields...)
	case OutcomeRejected:
		s.log.Warn(ctx, "audit", fields...)
	default:
		s.log.Info(ctx, "audit", fields...)
	}
	return nil
}

// MemorySink keeps the most recent events in a ring and running totals by outcome.
type MemorySink struct {
	mu     sync.RWMutex
	ring   []Event
	next   int
	full   bool
	totals map[Outcome]int64
}

// NewMemorySink creates a MemorySink holding up to capacity events.
func NewMemorySink(capacity int) *MemorySink {
	if capacity < 1 {
		capacity = 1
	}
	return &MemorySink{ring: make([]Event, capacity), totals: make(map[Outcome]int64)}
}

// Record implements Sink.
func (s *MemorySink) Record(_ context.Context, e Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.ring[s.next] = e
	s.next = (s.next + 1) % len(s.ring)
	if s.next == 0 {
		s.full = true
	}
	s.totals[e.Outcome]++
	return nil
}

// Events returns retained events oldest first.
func (s *MemorySink) Events() []Event {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.full {
		return append([]Event(nil), s.ring[:s.next]...)
	}
	out := make([]Event, 0, len(s.ring))
	out = append(out, s.ring[s.next:]...)
	return append(out, s.ring[:s.next]...)
}

// Totals returns the number of events recorded per outcome since creation.
func (s *MemorySink) Totals() map[Outcome]int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[Outcome]int64, len(s.totals))
	for k, v := range s.totals {
		out[k] = v
	}
	return out
}
