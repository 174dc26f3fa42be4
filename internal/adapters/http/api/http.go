// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/okian/contactd/internal/adapters/http/site"
	"github.com/okian/contactd/internal/adapters/http/swagger"
	"github.com/okian/contactd/internal/adapters/repository"
	"github.com/okian/contactd/internal/domain/audit"
	"github.com/okian/contactd/internal/domain/model"
	"github.com/okian/contactd/internal/domain/pipeline"
)

// Submitter runs a contact submission through the pipeline.
type Submitter interface {
	Submit(ctx context.Context, req pipeline.Request) error
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler   *HealthHandler
	statsHandler    *StatsHandler
	contactHandler  *ContactHandler
	projectsHandler *ProjectsHandler

	allowedOrigins []string
	signals        *audit.Recorder
	locale         string
	maxBodyBytes   int64
}

// NewServer creates a new API server with all handlers.
func NewServer(submitter Submitter, projects repository.Store, statsProvider StatsProvider, opts ...Option) *Server {
	s := &Server{
		allowedOrigins: []string{"*"},
		locale:         model.DefaultLocale,
		maxBodyBytes:   64 << 10,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.healthHandler = NewHealthHandler()
	s.statsHandler = NewStatsHandler(statsProvider)
	s.contactHandler = NewContactHandler(submitter, s.locale, s.maxBodyBytes)
	s.projectsHandler = NewProjectsHandler(projects, s.maxBodyBytes)
	return s
}

// Routes builds the router.
func (s *Server) Routes(ctx context.Context) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.StripSlashes)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-Id"},
		MaxAge:         300,
	}))

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, "", "not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "", "method not allowed")
	})

	r.Get("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	r.Get("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))

	// The contact route answers every method itself so a wrong method gets
	// the contact error shape.
	contact := MetricsMiddleware(s.contactHandler.HandleContact, "contact")
	if s.signals != nil {
		r.With(SignalMiddleware(s.signals)).HandleFunc("/api/contact", contact)
	} else {
		r.HandleFunc("/api/contact", contact)
	}

	r.Route("/api/projects", func(r chi.Router) {
		r.Get("/", MetricsMiddleware(s.projectsHandler.HandleList, "projects"))
		r.Post("/", MetricsMiddleware(s.projectsHandler.HandleCreate, "projects"))
		r.Get("/{id}", MetricsMiddleware(s.projectsHandler.HandleGet, "project"))
	})

	swagger.Register(ctx, r)
	site.Register(ctx, r)

	return r
}

type errorResponse struct {
	Error string            `json:"error"`
	Code  string            `json:"code,omitempty"`
	Field map[string]string `json:"fields,omitempty"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// decodeJSON reads exactly one JSON value of at most limit bytes into v.
// Anything but whitespace after the value is ErrTrailingData.
func decodeJSON(w http.ResponseWriter, r *http.Request, limit int64, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, limit))
	if err := dec.Decode(v); err != nil {
		return err
	}
	var mbe *http.MaxBytesError
	switch err := dec.Decode(&struct{}{}); {
	case errors.Is(err, io.EOF):
		return nil
	case errors.As(err, &mbe):
		return err
	default:
		return ErrTrailingData
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	if msg == "" {
		msg = http.StatusText(status)
	}
	writeJSON(w, status, errorResponse{Error: msg, Code: code})
}
