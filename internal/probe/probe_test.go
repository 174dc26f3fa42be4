package probe_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	service "github.com/okian/contactd/internal/app"
	"github.com/okian/contactd/internal/domain/audit"
	"github.com/okian/contactd/internal/probe"
	"github.com/okian/contactd/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

func TestRunAgainstService(t *testing.T) {
	Convey("Given a running contact service", t, func() {
		ctx := context.Background()
		svc := service.New(service.WithAuditSink(audit.NewMemorySink(64)), service.WithQuota(5))
		So(svc.Start(ctx), ShouldBeNil)
		srv := httptest.NewServer(svc.Handler(ctx))

		Reset(func() {
			srv.Close()
			svc.Stop()
		})

		Convey("When the probe sends more requests than the quota", func() {
			report, err := probe.Run(ctx, &probe.Config{
				BaseURL:  srv.URL,
				Requests: 8,
				Workers:  4,
				Quota:    5,
				Timeout:  5 * time.Second,
			})

			Convey("Then every case passes and the quota holds", func() {
				So(err, ShouldBeNil)
				So(report.Cases, ShouldHaveLength, len(probe.DefaultCases()))
				for _, c := range report.Cases {
					So(c.Passed, ShouldBeTrue)
				}
				So(report.Load.Sent, ShouldEqual, 8)
				So(report.Load.Accepted, ShouldEqual, 5)
				So(report.Load.Throttled, ShouldEqual, 3)
			})
		})

		Convey("When the probe expects a smaller quota than enforced", func() {
			_, err := probe.Run(ctx, &probe.Config{
				BaseURL:  srv.URL,
				Requests: 4,
				Workers:  1,
				Quota:    2,
				Timeout:  5 * time.Second,
			})

			Convey("Then the quota check fails", func() {
				So(errors.Is(err, probe.ErrQuota), ShouldBeTrue)
			})
		})
	})
}

func TestRunAgainstBrokenService(t *testing.T) {
	Convey("Given a service that accepts everything", t, func() {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))
		defer srv.Close()

		Convey("When the probe runs", func() {
			report, err := probe.Run(context.Background(), &probe.Config{
				BaseURL: srv.URL, Requests: 1, Workers: 1, Timeout: time.Second,
			})

			Convey("Then the rejection cases are reported as mismatches", func() {
				So(errors.Is(err, probe.ErrCaseMismatch), ShouldBeTrue)
				So(report.Cases[0].Passed, ShouldBeTrue)
				So(report.Cases[1].Passed, ShouldBeFalse)
			})
		})
	})

	Convey("Given a service that is down", t, func() {
		srv := httptest.NewServer(http.NotFoundHandler())
		srv.Close()

		Convey("Then the health check fails", func() {
			_, err := probe.Run(context.Background(), &probe.Config{BaseURL: srv.URL, Timeout: time.Second})
			So(err, ShouldNotBeNil)
		})
	})
}
