package pipeline

import (
	"fmt"

	"github.com/okian/contactd/internal/domain/model"
)

// Kind classifies a pipeline failure for the transport layer.
type Kind int

const (
	// KindClient is bad input; the message is safe to show.
	KindClient Kind = iota + 1
	// KindThrottle means the identity's quota is spent.
	KindThrottle
	// KindServer is a render, dispatch or unexpected fault; the message is generic.
	KindServer
)

func (k Kind) String() string {
	switch k {
	case KindClient:
		return "client"
	case KindThrottle:
		return "throttle"
	case KindServer:
		return "server"
	default:
		return "unknown"
	}
}

// Error is the only error type Submit returns.
type Error struct {
	Kind    Kind
	Reason  model.Reason
	Message string
	// Err is the underlying cause for server faults. It is never shown to clients.
	Err error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Reason, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Reason)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error { return e.Err }
