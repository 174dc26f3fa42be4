package mail

import "errors"

// Sentinel errors for mail delivery.
var (
	ErrTransport    = errors.New("mail transport failed")
	ErrTimeout      = errors.New("mail transport timed out")
	ErrNoRecipients = errors.New("notification has no recipients")
)
