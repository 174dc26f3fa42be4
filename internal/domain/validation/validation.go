// Package validation applies presence, format and length rules to contact submissions.
package validation

import (
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/okian/contactd/internal/domain/model"
)

// Length bounds, counted in characters after trimming.
const (
	MaxNameLength    = 100
	MaxEmailLength   = 254
	MinMessageLength = 10
	MaxMessageLength = 5000
)

// emailPattern is an ASCII local part of dot-separated atoms, a domain of
// dot-separated labels that neither start nor end with a hyphen, and a TLD of
// two or more letters.
var emailPattern = regexp.MustCompile(
	`^[A-Za-z0-9_%+-]+(?:\.[A-Za-z0-9_%+-]+)*` +
		`@(?:[A-Za-z0-9](?:[A-Za-z0-9-]*[A-Za-z0-9])?\.)+[A-Za-z]{2,}$`)

// Validator checks raw submissions. It is stateless and safe for concurrent use.
type Validator struct {
	locale string
	clock  func() time.Time
}

// New creates a Validator.
func New(opts ...Option) *Validator {
	v := &Validator{locale: model.DefaultLocale, clock: time.Now}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Validate runs the rules in order and stops at the first failure. On success
// the returned submission holds trimmed fields; on failure the error is a
// *model.Rejection.
func (v *Validator) Validate(raw model.RawSubmission) (model.Submission, error) {
	name := strings.TrimSpace(raw.Name)
	email := strings.TrimSpace(raw.Email)
	message := strings.TrimSpace(raw.Message)

	if name == "" || email == "" || message == "" {
		return model.Submission{}, v.reject(model.ReasonMissingFields)
	}
	if !IsEmail(email) {
		return model.Submission{}, v.reject(model.ReasonInvalidEmail)
	}
	if utf8.RuneCountInString(name) > MaxNameLength {
		return model.Submission{}, v.reject(model.ReasonNameTooLong)
	}
	if utf8.RuneCountInString(email) > MaxEmailLength {
		return model.Submission{}, v.reject(model.ReasonEmailTooLong)
	}
	switch n := utf8.RuneCountInString(message); {
	case n < MinMessageLength:
		return model.Submission{}, v.reject(model.ReasonMessageTooShort)
	case n > MaxMessageLength:
		return model.Submission{}, v.reject(model.ReasonMessageTooLong)
	}

	return model.Submission{
		ID:         uuid.NewString(),
		Name:       name,
		Email:      email,
		Message:    message,
		ReceivedAt: v.clock(),
	}, nil
}

// IsEmail reports whether s has the local@domain.tld shape.
func IsEmail(s string) bool {
	return emailPattern.MatchString(s)
}

func (v *Validator) reject(reason model.Reason) error {
	return model.Reject(v.locale, reason)
}
