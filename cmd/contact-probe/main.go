package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/okian/contactd/internal/probe"
	"github.com/okian/contactd/pkg/logger"
)

// Default configuration constants.
const (
	defaultRequests = 10
	defaultWorkers  = 4
	defaultQuota    = 5
	defaultTimeout  = 15 * time.Second
	runTimeout      = 5 * time.Minute
)

func main() {
	var (
		baseURL  = flag.String("url", "http://localhost:8000", "Base URL of the service")
		requests = flag.Int("requests", defaultRequests, "Number of submissions in the load phase")
		workers  = flag.Int("workers", defaultWorkers, "Number of concurrent workers")
		quota    = flag.Int("quota", defaultQuota, "Expected per-identity quota (0 skips the check)")
		timeout  = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		verbose  = flag.Bool("verbose", false, "Log every case")
	)
	flag.Parse()

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
	defer cancel()

	_, err := probe.Run(ctx, &probe.Config{
		BaseURL:  *baseURL,
		Requests: *requests,
		Workers:  *workers,
		Quota:    *quota,
		Timeout:  *timeout,
		Verbose:  *verbose,
	})
	if err != nil {
		logger.Get().Error(ctx, "probe failed", logger.Error(err))
		os.Exit(1)
	}
	logger.Get().Info(ctx, "probe completed successfully")
}
