package api

import (
	"errors"
	"net/http"

	"github.com/okian/contactd/internal/domain/identity"
	"github.com/okian/contactd/internal/domain/model"
	"github.com/okian/contactd/internal/domain/pipeline"
	"github.com/okian/contactd/pkg/logger"
)

// ContactHandler handles contact form submissions.
type ContactHandler struct {
	submitter    Submitter
	locale       string
	maxBodyBytes int64
	log          logger.Logger
}

// NewContactHandler creates a new contact handler.
func NewContactHandler(submitter Submitter, locale string, maxBodyBytes int64) *ContactHandler {
	return &ContactHandler{
		submitter:    submitter,
		locale:       locale,
		maxBodyBytes: maxBodyBytes,
		log:          logger.Get().Named("api.contact"),
	}
}

// HandleContact handles POST /api/contact requests.
func (h *ContactHandler) HandleContact(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, http.StatusMethodNotAllowed, "", "method not allowed")
		return
	}

	var raw model.RawSubmission
	if err := decodeJSON(w, r, h.maxBodyBytes, &raw); err != nil {
		// Oversized bodies are reported as an over-long message.
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			writeError(w, http.StatusBadRequest, string(model.ReasonMessageTooLong), model.Message(h.locale, model.ReasonMessageTooLong))
			return
		}
		writeError(w, http.StatusBadRequest, "", ErrBadRequest.Error())
		return
	}

	err := h.submitter.Submit(r.Context(), pipeline.Request{
		Identity:   identity.FromRequest(r),
		Submission: raw,
	})
	if err == nil {
		writeJSON(w, http.StatusOK, messageResponse{Message: model.SuccessMessage(h.locale)})
		return
	}

	var pe *pipeline.Error
	if !errors.As(err, &pe) {
		h.log.Error(r.Context(), "unexpected submission error", logger.Error(err))
		writeError(w, http.StatusInternalServerError, string(model.ReasonInternal), model.Message(h.locale, model.ReasonInternal))
		return
	}

	switch pe.Kind {
	case pipeline.KindClient:
		writeError(w, http.StatusBadRequest, string(pe.Reason), pe.Message)
	case pipeline.KindThrottle:
		writeError(w, http.StatusTooManyRequests, string(pe.Reason), pe.Message)
	default:
		writeError(w, http.StatusInternalServerError, string(pe.Reason), pe.Message)
	}
}
