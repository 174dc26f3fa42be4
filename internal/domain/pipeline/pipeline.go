// Package pipeline sequences the contact submission stages:
//
//	received -> rate_check -> validate -> scan -> compose -> dispatch -> respond
//
// Any checkpoint may exit early with a rejection. Each transition emits one
// audit event; only the final respond event of an accepted submission has
// outcome success.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/okian/contactd/internal/domain/audit"
	"github.com/okian/contactd/internal/domain/heuristics"
	"github.com/okian/contactd/internal/domain/model"
	"github.com/okian/contactd/internal/domain/ratelimit"
	"github.com/okian/contactd/pkg/logger"
	"github.com/okian/contactd/pkg/metrics"
)

// Validator checks raw fields.
type Validator interface {
	Validate(raw model.RawSubmission) (model.Submission, error)
}

// Scanner applies abuse heuristics to accepted content.
type Scanner interface {
	Scan(s model.Submission) (heuristics.Report, error)
}

// Composer renders a notification.
type Composer interface {
	Compose(ctx context.Context, s model.Submission, identity string) (model.Notification, error)
}

// Transport hands a composed notification to the mail system.
type Transport interface {
	Send(ctx context.Context, n model.Notification) error
}

// Request is one inbound submission with its resolved client identity.
type Request struct {
	Identity   string
	Submission model.RawSubmission
}

// Orchestrator runs submissions through every stage. It holds no per-request
// state and is safe for concurrent use.
type Orchestrator struct {
	limiter   ratelimit.Checker
	validator Validator
	scanner   Scanner
	composer  Composer
	transport Transport
	recorder  *audit.Recorder
	locale    string
	log       logger.Logger
}

// New wires an Orchestrator. Every collaborator is required.
func New(
	limiter ratelimit.Checker,
	validator Validator,
	scanner Scanner,
	composer Composer,
	transport Transport,
	recorder *audit.Recorder,
	opts ...Option,
) *Orchestrator {
	o := &Orchestrator{
		limiter:   limiter,
		validator: validator,
		scanner:   scanner,
		composer:  composer,
		transport: transport,
		recorder:  recorder,
		locale:    model.DefaultLocale,
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.log == nil {
		o.log = logger.Get().Named("pipeline")
	}
	return o
}

// Submit processes req. It returns nil once the notification was handed to
// the transport, or a *Error. Panics in any stage are recovered and reported
// as server faults.
func (o *Orchestrator) Submit(ctx context.Context, req Request) (err error) {
	id := req.Identity
	outcome := "fault"

	defer func() {
		if r := recover(); r != nil {
			o.log.Error(ctx, "panic in submission pipeline",
				logger.String("identity", id),
				logger.Any("panic", r),
			)
			o.emit(ctx, id, audit.StageRespond, audit.OutcomeFault, model.ReasonInternal, fmt.Sprint(r))
			err = o.serverError(model.ReasonInternal, fmt.Errorf("panic: %v", r))
		}
		metrics.RecordSubmission(outcome)
	}()

	o.emit(ctx, id, audit.StageReceived, audit.OutcomeAttempt, "", "")

	// rate_check
	start := time.Now()
	decision := o.limiter.Check(ctx, id)
	observe(audit.StageRateCheck, start)
	if decision == ratelimit.Throttled {
		outcome = "throttled"
		o.emit(ctx, id, audit.StageRateCheck, audit.OutcomeRejected, model.ReasonThrottled, "")
		metrics.RecordRejection(string(model.ReasonThrottled))
		return &Error{Kind: KindThrottle, Reason: model.ReasonThrottled, Message: model.Message(o.locale, model.ReasonThrottled)}
	}
	o.emit(ctx, id, audit.StageRateCheck, audit.OutcomePassed, "", "")

	// validate
	start = time.Now()
	sub, verr := o.validator.Validate(req.Submission)
	observe(audit.StageValidate, start)
	if verr != nil {
		if cerr := o.clientError(ctx, id, audit.StageValidate, verr); cerr != nil {
			outcome = "rejected"
			return cerr
		}
		o.emit(ctx, id, audit.StageValidate, audit.OutcomeFault, model.ReasonInternal, verr.Error())
		return o.serverError(model.ReasonInternal, verr)
	}
	o.emit(ctx, id, audit.StageValidate, audit.OutcomePassed, "", "")

	// scan
	start = time.Now()
	report, serr := o.scanner.Scan(sub)
	observe(audit.StageScan, start)
	if serr != nil {
		if cerr := o.clientError(ctx, id, audit.StageScan, serr, signalsDetail(report)); cerr != nil {
			outcome = "rejected"
			return cerr
		}
		o.emit(ctx, id, audit.StageScan, audit.OutcomeFault, model.ReasonInternal, serr.Error())
		return o.serverError(model.ReasonInternal, serr)
	}
	o.emit(ctx, id, audit.StageScan, audit.OutcomePassed, "", signalsDetail(report))

	// compose
	start = time.Now()
	n, cerr := o.composer.Compose(ctx, sub, id)
	observe(audit.StageCompose, start)
	if cerr != nil {
		o.log.Error(ctx, "notification render failed", logger.String("submission_id", sub.ID), logger.Error(cerr))
		o.emit(ctx, id, audit.StageCompose, audit.OutcomeFault, model.ReasonRenderError, cerr.Error())
		metrics.RecordRejection(string(model.ReasonRenderError))
		return o.serverError(model.ReasonRenderError, cerr)
	}
	o.emit(ctx, id, audit.StageCompose, audit.OutcomePassed, "", "")

	// dispatch
	start = time.Now()
	derr := o.transport.Send(ctx, n)
	observe(audit.StageDispatch, start)
	metrics.RecordDispatchLatency(float64(time.Since(start).Milliseconds()))
	if derr != nil {
		o.log.Error(ctx, "notification dispatch failed", logger.String("submission_id", sub.ID), logger.Error(derr))
		o.emit(ctx, id, audit.StageDispatch, audit.OutcomeFault, model.ReasonDispatchError, derr.Error())
		metrics.RecordRejection(string(model.ReasonDispatchError))
		return o.serverError(model.ReasonDispatchError, derr)
	}
	o.emit(ctx, id, audit.StageDispatch, audit.OutcomePassed, "", "")

	outcome = "success"
	o.emit(ctx, id, audit.StageRespond, audit.OutcomeSuccess, "", sub.ID)
	return nil
}

// clientError converts a *model.Rejection into a client *Error and records
// it. Any other error yields nil so the caller treats it as a fault.
func (o *Orchestrator) clientError(ctx context.Context, id string, stage audit.Stage, err error, detail ...string) error {
	var rej *model.Rejection
	if !errors.As(err, &rej) {
		return nil
	}
	d := ""
	if len(detail) > 0 {
		d = detail[0]
	}
	o.emit(ctx, id, stage, audit.OutcomeRejected, rej.Reason, d)
	metrics.RecordRejection(string(rej.Reason))
	return &Error{Kind: KindClient, Reason: rej.Reason, Message: rej.Message}
}

func (o *Orchestrator) serverError(reason model.Reason, cause error) *Error {
	return &Error{Kind: KindServer, Reason: reason, Message: model.Message(o.locale, reason), Err: cause}
}

func (o *Orchestrator) emit(ctx context.Context, id string, stage audit.Stage, outcome audit.Outcome, reason model.Reason, detail string) {
	err := o.recorder.Emit(ctx, audit.Event{
		Identity: id,
		Stage:    stage,
		Outcome:  outcome,
		Reason:   string(reason),
		Detail:   detail,
	})
	if err != nil {
		o.log.Warn(ctx, "audit event not recorded",
			logger.String("stage", string(stage)),
			logger.String("outcome", string(outcome)),
			logger.Error(err),
		)
	}
}

func observe(stage audit.Stage, start time.Time) {
	metrics.RecordStageLatency(string(stage), float64(time.Since(start).Microseconds())/1000)
}

func signalsDetail(r heuristics.Report) string {
	return "signals=" + strconv.Itoa(r.Total())
}
