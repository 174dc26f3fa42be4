// Package model contains domain models passed between layers.
package model

import "time"

// RawSubmission is the contact form body exactly as decoded from the request.
type RawSubmission struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

// Submission is a contact message that passed content validation. Fields are
// trimmed and non-empty. Submissions are forwarded, never stored.
type Submission struct {
	ID         string
	Name       string
	Email      string
	Message    string
	ReceivedAt time.Time
}

// Notification is the composed message handed to the mail transport.
type Notification struct {
	Subject    string
	TextBody   string
	HTMLBody   string
	Recipients []string
	ReplyTo    string
}
