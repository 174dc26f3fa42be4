// Package mail delivers composed notifications.
package mail

import (
	"context"

	"github.com/okian/contactd/internal/domain/model"
)

// Transport accepts a composed notification and reports delivery success.
type Transport interface {
	Send(ctx context.Context, n model.Notification) error
}
