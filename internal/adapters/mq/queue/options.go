package queue

import "github.com/okian/contactd/internal/domain/audit"

// Option applies a configuration option to the InMemoryQueue.
type Option func(*InMemoryQueue)

// WithCapacity sets the maximum capacity of the queue.
func WithCapacity(capacity int) Option {
	return func(q *InMemoryQueue) {
		if capacity > 0 {
			q.capacity = capacity
		}
	}
}

// WithOverflow sets the sink written synchronously when the queue is full or closed.
func WithOverflow(sink audit.Sink) Option {
	return func(q *InMemoryQueue) {
		q.overflow = sink
	}
}
