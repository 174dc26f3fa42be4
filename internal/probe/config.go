package probe

import "time"

// Config holds configuration for a probe run.
type Config struct {
	BaseURL  string        // Base URL of the service
	Requests int           // Number of submissions in the load phase
	Workers  int           // Number of concurrent workers
	Quota    int           // Expected per-identity quota of the target
	Timeout  time.Duration // HTTP request timeout
	Verbose  bool          // Log every response
}

// Submission is the request body of the contact endpoint.
type Submission struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

// Case is one request with the answer the service must give.
type Case struct {
	Name       string
	Body       string
	WantStatus int
	WantCode   string
}

// CaseResult records how the service answered a Case.
type CaseResult struct {
	Case   string
	Status int
	Code   string
	Passed bool
}

// Stats holds load phase statistics.
type Stats struct {
	Sent      int
	Accepted  int
	Throttled int
	Rejected  int
	Failed    int
	Duration  time.Duration
}

// Report is the outcome of a probe run.
type Report struct {
	Cases []CaseResult
	Load  Stats
}
