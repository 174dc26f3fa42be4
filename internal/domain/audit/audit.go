// Package audit records every decision point of the submission pipeline.
package audit

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/okian/contactd/pkg/metrics"
)

// Stage names a pipeline checkpoint.
type Stage string

// Pipeline stages, plus the passive request-signal stage.
const (
	StageReceived  Stage = "received"
	StageRateCheck Stage = "rate_check"
	StageValidate  Stage = "validate"
	StageScan      Stage = "scan"
	StageCompose   Stage = "compose"
	StageDispatch  Stage = "dispatch"
	StageRespond   Stage = "respond"
	StageSignal    Stage = "signal"
)

// Outcome is what happened at a stage.
type Outcome string

// Outcomes. Only the terminal respond event of an accepted submission is a success.
const (
	OutcomeAttempt  Outcome = "attempt"
	OutcomePassed   Outcome = "passed"
	OutcomeSuccess  Outcome = "success"
	OutcomeRejected Outcome = "rejected"
	OutcomeFault    Outcome = "fault"
	OutcomeObserved Outcome = "observed"
)

// Event is an append-only audit record.
type Event struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Identity  string    `json:"identity"`
	Stage     Stage     `json:"stage"`
	Outcome   Outcome   `json:"outcome"`
	Reason    string    `json:"reason,omitempty"`
	Detail    string    `json:"detail,omitempty"`
}

// Sink persists events. Implementations must be safe for concurrent use.
type Sink interface {
	Record(ctx context.Context, e Event) error
}

// Recorder stamps events and forwards them to a sink.
type Recorder struct {
	sink  Sink
	clock func() time.Time
}

// NewRecorder creates a Recorder writing to sink.
func NewRecorder(sink Sink, opts ...Option) *Recorder {
	r := &Recorder{sink: sink, clock: time.Now}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Emit assigns an ID and timestamp to e when missing and records it.
func (r *Recorder) Emit(ctx context.Context, e Event) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.Timestamp.IsZero() {
		e.Timestamp = r.clock().UTC()
	}
	metrics.RecordAuditEvent(string(e.Stage), string(e.Outcome))
	return r.sink.Record(ctx, e)
}

// MultiSink fans events out to every sink and joins their errors.
type MultiSink []Sink

// Record implements Sink.
func (m MultiSink) Record(ctx context.Context, e Event) error {
	var errs []error
	for _, s := range m {
		if err := s.Record(ctx, e); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
