package queue

import "errors"

// Sentinel errors returned by Record when no overflow sink is configured.
var (
	ErrQueueFull   = errors.New("audit queue full")
	ErrQueueClosed = errors.New("audit queue closed")
)
