// Package heuristics scans accepted submissions for spam-like content.
//
// The scan counts, over the lower-cased concatenation of name, email and
// message, three pattern classes: URL schemes, bare "www." tokens, and
// embedded email addresses. The submitter's own address is always present in
// that text, so it is discounted once. A submission whose total exceeds the
// tolerance is rejected as suspicious.
//
// This is a tunable heuristic. Legitimate messages with several links will be
// refused; raise the tolerance rather than special-casing content.
package heuristics

import (
	"regexp"
	"strings"

	"github.com/okian/contactd/internal/domain/model"
)

// DefaultMaxSignals rejects submissions with more than two signals.
const DefaultMaxSignals = 2

var (
	schemePattern = regexp.MustCompile(`https?://`)
	wwwPattern    = regexp.MustCompile(`www\.`)
	emailPattern  = regexp.MustCompile(`[a-z0-9._%+-]+@[a-z0-9.-]+\.[a-z]{2,}`)
)

// Report breaks a scan down by pattern class.
type Report struct {
	Schemes int
	WWW     int
	Emails  int
}

// Total is the number of signals counted against the tolerance.
func (r Report) Total() int { return r.Schemes + r.WWW + r.Emails }

// Engine is stateless and safe for concurrent use.
type Engine struct {
	maxSignals int
	locale     string
}

// New creates an Engine with the default tolerance.
func New(opts ...Option) *Engine {
	e := &Engine{maxSignals: DefaultMaxSignals, locale: model.DefaultLocale}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Count returns the signal breakdown for the given fields.
func Count(name, email, message string) Report {
	text := strings.ToLower(strings.Join([]string{name, email, message}, " "))

	r := Report{
		Schemes: len(schemePattern.FindAllStringIndex(text, -1)),
		WWW:     len(wwwPattern.FindAllStringIndex(text, -1)),
		Emails:  len(emailPattern.FindAllStringIndex(text, -1)),
	}
	// The sender's own address is not a signal.
	if r.Emails > 0 && emailPattern.MatchString(strings.ToLower(email)) {
		r.Emails--
	}
	return r
}

// Scan returns a *model.Rejection with reason suspicious_content when the
// submission carries more signals than the tolerance, and the report either way.
func (e *Engine) Scan(s model.Submission) (Report, error) {
	r := Count(s.Name, s.Email, s.Message)
	if r.Total() > e.maxSignals {
		return r, model.Reject(e.locale, model.ReasonSuspicious)
	}
	return r, nil
}

// MaxSignals returns the configured tolerance.
func (e *Engine) MaxSignals() int { return e.maxSignals }
