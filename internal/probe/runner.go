// Package probe exercises a running contactd instance end to end.
package probe

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/okian/contactd/pkg/logger"
)

// Error constants.
var (
	ErrCaseMismatch = errors.New("unexpected response")
	ErrQuota        = errors.New("quota not enforced")
)

const percentageMultiplier = 100

// Run checks health, replays DefaultCases and then sends cfg.Requests
// submissions from a single identity. Each case uses its own identity so
// earlier cases never spend the load phase quota.
func Run(ctx context.Context, cfg *Config) (*Report, error) {
	log := logger.Get().Named("probe")
	client := NewClient(cfg.BaseURL, cfg.Timeout)
	runID := uuid.NewString()

	log.Info(ctx, "starting contact probe",
		logger.String("baseURL", cfg.BaseURL),
		logger.Int("requests", cfg.Requests),
		logger.Int("workers", cfg.Workers),
		logger.Int("quota", cfg.Quota),
	)

	if err := client.Health(ctx); err != nil {
		return nil, fmt.Errorf("service health check failed: %w", err)
	}

	report := &Report{}
	var mismatches []error
	for i, c := range DefaultCases() {
		status, code, err := client.Submit(ctx, fmt.Sprintf("probe-%s-case-%d", runID, i), c.Body)
		if err != nil {
			return report, fmt.Errorf("case %q: %w", c.Name, err)
		}
		res := CaseResult{Case: c.Name, Status: status, Code: code}
		res.Passed = status == c.WantStatus && (c.WantCode == "" || code == c.WantCode)
		report.Cases = append(report.Cases, res)

		if !res.Passed {
			mismatches = append(mismatches, fmt.Errorf("%w: %s: got %d %q, want %d %q",
				ErrCaseMismatch, c.Name, status, code, c.WantStatus, c.WantCode))
		}
		if cfg.Verbose || !res.Passed {
			log.Info(ctx, "case", logger.String("name", c.Name), logger.Int("status", status),
				logger.String("code", code), logger.Bool("passed", res.Passed))
		}
	}

	report.Load = load(ctx, client, cfg, "probe-"+runID+"-load")
	displayStats(ctx, log, report.Load)

	if err := verifyQuota(cfg, report.Load); err != nil {
		mismatches = append(mismatches, err)
	}
	return report, errors.Join(mismatches...)
}

// load sends cfg.Requests valid submissions as identity using cfg.Workers workers.
func load(ctx context.Context, client *Client, cfg *Config, identity string) Stats {
	workers := cfg.Workers
	if workers < 1 {
		workers = 1
	}
	payload := body(Submission{Name: "Probe", Email: "probe@example.com", Message: "Load phase delivery check."})

	var accepted, throttled, rejected, failed, sent atomic.Int64
	jobs := make(chan struct{}, workers*2)
	var wg sync.WaitGroup
	start := time.Now()

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range jobs {
				sent.Add(1)
				status, _, err := client.Submit(ctx, identity, payload)
				switch {
				case err != nil:
					failed.Add(1)
				case status == http.StatusOK:
					accepted.Add(1)
				case status == http.StatusTooManyRequests:
					throttled.Add(1)
				case status < http.StatusInternalServerError:
					rejected.Add(1)
				default:
					failed.Add(1)
				}
			}
		}()
	}

	go func() {
		defer close(jobs)
		for i := 0; i < cfg.Requests; i++ {
			select {
			case <-ctx.Done():
				return
			case jobs <- struct{}{}:
			}
		}
	}()
	wg.Wait()

	return Stats{
		Sent:      int(sent.Load()),
		Accepted:  int(accepted.Load()),
		Throttled: int(throttled.Load()),
		Rejected:  int(rejected.Load()),
		Failed:    int(failed.Load()),
		Duration:  time.Since(start),
	}
}

// verifyQuota checks that exactly min(Requests, Quota) submissions got through.
func verifyQuota(cfg *Config, s Stats) error {
	if cfg.Quota <= 0 || s.Failed > 0 {
		return nil
	}
	want := min(s.Sent, cfg.Quota)
	if s.Accepted != want || s.Throttled != s.Sent-want {
		return fmt.Errorf("%w: accepted %d throttled %d of %d, want %d accepted",
			ErrQuota, s.Accepted, s.Throttled, s.Sent, want)
	}
	return nil
}

func displayStats(ctx context.Context, log logger.Logger, s Stats) {
	var acceptRate, perSecond float64
	if s.Sent > 0 {
		acceptRate = float64(s.Accepted) / float64(s.Sent) * percentageMultiplier
	}
	if s.Duration > 0 {
		perSecond = float64(s.Sent) / s.Duration.Seconds()
	}
	log.Info(ctx, "load statistics",
		logger.Int("sent", s.Sent),
		logger.Int("accepted", s.Accepted),
		logger.Int("throttled", s.Throttled),
		logger.Int("rejected", s.Rejected),
		logger.Int("failed", s.Failed),
		logger.Duration("duration", s.Duration),
		logger.Float64("acceptRate", acceptRate),
		logger.Float64("requestsPerSecond", perSecond),
	)
}
