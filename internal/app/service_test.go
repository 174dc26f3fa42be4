package service_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	service "github.com/okian/contactd/internal/app"
	"github.com/okian/contactd/internal/domain/audit"
	"github.com/okian/contactd/internal/domain/model"
	"github.com/okian/contactd/internal/domain/pipeline"
	"github.com/okian/contactd/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

type recordingTransport struct {
	mu   sync.Mutex
	sent []model.Notification
	err  error
}

func (t *recordingTransport) Send(_ context.Context, n model.Notification) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.err != nil {
		return t.err
	}
	t.sent = append(t.sent, n)
	return nil
}

func (t *recordingTransport) count() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.sent)
}

func post(h http.Handler, body string) (int, map[string]any) {
	req := httptest.NewRequest(http.MethodPost, "/api/contact", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	var out map[string]any
	_ = json.Unmarshal(w.Body.Bytes(), &out)
	return w.Code, out
}

const validBody = `{"name":"Ana","email":"ana@example.com","message":"Hello, I would like to talk."}`

func TestService_New(t *testing.T) {
	Convey("Given a new service with default options", t, func() {
		svc := service.New()

		Convey("Then it reports the defaults before starting", func() {
			stats := svc.GetStats()
			So(stats["started"], ShouldEqual, false)
			So(stats["rateLimitQuota"], ShouldEqual, 5)
			So(stats["maxSignals"], ShouldEqual, 2)
		})
	})

	Convey("Given a service that was never started", t, func() {
		svc := service.New()

		Convey("When a submission arrives", func() {
			err := svc.Submit(context.Background(), pipeline.Request{Identity: "a"})

			Convey("Then it fails as a server error", func() {
				var pe *pipeline.Error
				So(errors.As(err, &pe), ShouldBeTrue)
				So(pe.Kind, ShouldEqual, pipeline.KindServer)
				So(errors.Is(err, service.ErrNotStarted), ShouldBeTrue)
			})
		})
	})
}

func TestService_StartStop(t *testing.T) {
	Convey("Given a started service", t, func() {
		sink := audit.NewMemorySink(64)
		svc := service.New(service.WithAuditSink(sink), service.WithTransport(&recordingTransport{}))
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		So(svc.Start(ctx), ShouldBeNil)

		Convey("Then starting again is a no-op", func() {
			So(svc.Start(ctx), ShouldBeNil)
			So(svc.GetStats()["started"], ShouldEqual, true)
			svc.Stop()
		})

		Convey("When stopping the service", func() {
			svc.Stop()

			Convey("Then it is marked as stopped and a second stop is safe", func() {
				So(svc.GetStats()["started"], ShouldEqual, false)
				So(func() { svc.Stop() }, ShouldNotPanic)
			})
		})
	})
}

func TestService_ContactFlow(t *testing.T) {
	Convey("Given a started service behind its HTTP handler", t, func() {
		sink := audit.NewMemorySink(256)
		transport := &recordingTransport{}
		svc := service.New(
			service.WithAuditSink(sink),
			service.WithTransport(transport),
			service.WithRecipients("owner@example.com"),
			service.WithAuditQueue(64, 1),
		)
		ctx := context.Background()
		So(svc.Start(ctx), ShouldBeNil)
		h := svc.Handler(ctx)

		Reset(func() { svc.Stop() })

		Convey("When a valid message is posted", func() {
			code, body := post(h, validBody)
			svc.Stop()

			Convey("Then it is delivered and the whole trail is audited", func() {
				So(code, ShouldEqual, http.StatusOK)
				So(body["message"], ShouldEqual, "message sent successfully")
				So(transport.count(), ShouldEqual, 1)
				So(transport.sent[0].ReplyTo, ShouldEqual, "ana@example.com")
				So(transport.sent[0].Recipients, ShouldResemble, []string{"owner@example.com"})

				var stages []audit.Stage
				for _, e := range sink.Events() {
					stages = append(stages, e.Stage)
				}
				So(stages, ShouldResemble, []audit.Stage{
					audit.StageReceived, audit.StageRateCheck, audit.StageValidate,
					audit.StageScan, audit.StageCompose, audit.StageDispatch, audit.StageRespond,
				})
				last := sink.Events()[len(stages)-1]
				So(last.Outcome, ShouldEqual, audit.OutcomeSuccess)
				So(last.Identity, ShouldEqual, "192.0.2.1")
			})
		})

		Convey("When a sixth message arrives within the window", func() {
			for i := 0; i < 5; i++ {
				code, _ := post(h, validBody)
				So(code, ShouldEqual, http.StatusOK)
			}
			code, body := post(h, validBody)

			Convey("Then it is throttled and not delivered", func() {
				So(code, ShouldEqual, http.StatusTooManyRequests)
				So(body["code"], ShouldEqual, "throttled")
				So(transport.count(), ShouldEqual, 5)
			})
		})

		Convey("When the email is malformed", func() {
			code, body := post(h, `{"name":"Ana","email":"not-an-email","message":"Hello, I would like to talk."}`)

			Convey("Then it is rejected as a client error", func() {
				So(code, ShouldEqual, http.StatusBadRequest)
				So(body["code"], ShouldEqual, "invalid_email")
				So(transport.count(), ShouldEqual, 0)
			})
		})

		Convey("When the message carries three links", func() {
			code, body := post(h, `{"name":"Ana","email":"ana@example.com","message":"Visit http://spam.com and http://malware.com and http://phishing.com for more!"}`)

			Convey("Then it is rejected as suspicious", func() {
				So(code, ShouldEqual, http.StatusBadRequest)
				So(body["code"], ShouldEqual, "suspicious_content")
				So(transport.count(), ShouldEqual, 0)
			})
		})

		Convey("When stats are requested after traffic", func() {
			post(h, validBody)
			stats := svc.GetStats()

			Convey("Then the limiter window and project count are reported", func() {
				So(stats["started"], ShouldEqual, true)
				So(stats["rateLimitWindows"], ShouldEqual, 1)
				So(stats["projects"], ShouldEqual, 0)
			})
		})
	})
}

func TestService_DispatchFailure(t *testing.T) {
	Convey("Given a service whose transport fails", t, func() {
		transport := &recordingTransport{err: errors.New("relay refused")}
		svc := service.New(service.WithAuditSink(audit.NewMemorySink(16)), service.WithTransport(transport))
		ctx := context.Background()
		So(svc.Start(ctx), ShouldBeNil)
		defer svc.Stop()

		Convey("When a valid message is posted", func() {
			code, body := post(svc.Handler(ctx), validBody)

			Convey("Then a generic server error is returned", func() {
				So(code, ShouldEqual, http.StatusInternalServerError)
				So(body["code"], ShouldEqual, "dispatch_error")
				So(body["error"], ShouldNotContainSubstring, "relay refused")
			})
		})
	})
}
