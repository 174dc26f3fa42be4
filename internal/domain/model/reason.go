package model

import "strings"

// Reason is a machine-readable rejection code.
type Reason string

// Rejection reasons, in the order the pipeline can produce them.
const (
	ReasonThrottled       Reason = "throttled"
	ReasonMissingFields   Reason = "missing_fields"
	ReasonInvalidEmail    Reason = "invalid_email"
	ReasonNameTooLong     Reason = "name_too_long"
	ReasonEmailTooLong    Reason = "email_too_long"
	ReasonMessageTooShort Reason = "message_too_short"
	ReasonMessageTooLong  Reason = "message_too_long"
	ReasonSuspicious      Reason = "suspicious_content"
	ReasonRenderError     Reason = "render_error"
	ReasonDispatchError   Reason = "dispatch_error"
	ReasonInternal        Reason = "internal_error"
)

// DefaultLocale is used when no catalog exists for the requested locale.
const DefaultLocale = "en"

var catalog = map[string]map[Reason]string{
	"en": {
		ReasonThrottled:       "request was throttled",
		ReasonMissingFields:   "missing fields",
		ReasonInvalidEmail:    "invalid email",
		ReasonNameTooLong:     "name too long",
		ReasonEmailTooLong:    "email too long",
		ReasonMessageTooShort: "message too short",
		ReasonMessageTooLong:  "message too long",
		ReasonSuspicious:      "suspicious content detected",
		ReasonRenderError:     "internal error sending message",
		ReasonDispatchError:   "internal error sending message",
		ReasonInternal:        "internal error sending message",
	},
	"es": {
		ReasonThrottled:       "solicitud limitada, inténtalo más tarde",
		ReasonMissingFields:   "faltan campos obligatorios",
		ReasonInvalidEmail:    "email inválido",
		ReasonNameTooLong:     "el nombre es demasiado largo",
		ReasonEmailTooLong:    "el email es demasiado largo",
		ReasonMessageTooShort: "el mensaje es demasiado corto",
		ReasonMessageTooLong:  "el mensaje es demasiado largo",
		ReasonSuspicious:      "contenido sospechoso detectado",
		ReasonRenderError:     "error interno al enviar el mensaje",
		ReasonDispatchError:   "error interno al enviar el mensaje",
		ReasonInternal:        "error interno al enviar el mensaje",
	},
}

// Message returns the human-facing text for reason in locale, falling back
// to English and finally to the reason code itself.
func Message(locale string, reason Reason) string {
	if msgs, ok := catalog[strings.ToLower(strings.TrimSpace(locale))]; ok {
		if m, ok := msgs[reason]; ok {
			return m
		}
	}
	if m, ok := catalog[DefaultLocale][reason]; ok {
		return m
	}
	return string(reason)
}

// SupportedLocale reports whether a message catalog exists for locale.
func SupportedLocale(locale string) bool {
	_, ok := catalog[strings.ToLower(strings.TrimSpace(locale))]
	return ok
}

// Rejection is a client-caused refusal: safe to show, names only the field
// and the constraint.
type Rejection struct {
	Reason  Reason
	Message string
}

func (r *Rejection) Error() string { return r.Message }

// Reject builds a Rejection with the localized message for reason.
func Reject(locale string, reason Reason) *Rejection {
	return &Rejection{Reason: reason, Message: Message(locale, reason)}
}

var successText = map[string]string{
	"en": "message sent successfully",
	"es": "mensaje enviado correctamente",
}

// SuccessMessage returns the acknowledgement shown after a submission is dispatched.
func SuccessMessage(locale string) string {
	if m, ok := successText[strings.ToLower(strings.TrimSpace(locale))]; ok {
		return m
	}
	return successText[DefaultLocale]
}
