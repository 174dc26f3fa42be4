package mail

import (
	"context"
	"strings"

	"github.com/okian/contactd/internal/domain/model"
	"github.com/okian/contactd/pkg/logger"
)

// LogTransport writes notifications to the log instead of sending them.
// It is the development backend.
type LogTransport struct {
	log logger.Logger
}

// NewLogTransport creates a LogTransport.
func NewLogTransport() *LogTransport {
	return &LogTransport{log: logger.Get().Named("mail.log")}
}

// Send implements Transport.
func (t *LogTransport) Send(ctx context.Context, n model.Notification) error {
	if len(n.Recipients) == 0 {
		return ErrNoRecipients
	}
	t.log.Info(ctx, "notification",
		logger.String("subject", redactSubject(n)),
		logger.Any("recipients", n.Recipients),
		logger.Email("reply_to", n.ReplyTo),
		logger.Int("text_bytes", len(n.TextBody)),
		logger.Int("html_bytes", len(n.HTMLBody)),
	)
	return nil
}

// redactSubject masks the reply-to address wherever the subject embeds it.
func redactSubject(n model.Notification) string {
	if n.ReplyTo == "" {
		return n.Subject
	}
	return strings.ReplaceAll(n.Subject, n.ReplyTo, logger.RedactEmail(n.ReplyTo))
}
