package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/okian/contactd/internal/adapters/repository"
	"github.com/okian/contactd/internal/domain/model"
	"github.com/okian/contactd/pkg/logger"
)

// ProjectsHandler serves the project collaborator.
type ProjectsHandler struct {
	store        repository.Store
	maxBodyBytes int64
	log          logger.Logger
}

// NewProjectsHandler creates a new projects handler.
func NewProjectsHandler(store repository.Store, maxBodyBytes int64) *ProjectsHandler {
	return &ProjectsHandler{store: store, maxBodyBytes: maxBodyBytes, log: logger.Get().Named("api.projects")}
}

// projectRequest is the writable subset of a project.
type projectRequest struct {
	Title         string `json:"title"`
	Description   string `json:"description"`
	Technologies  string `json:"technologies"`
	ImageURL      string `json:"image_url"`
	ProjectURL    string `json:"project_url"`
	RepositoryURL string `json:"repository_url"`
}

// HandleList handles GET /api/projects.
func (h *ProjectsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	ps, err := h.store.List(r.Context())
	if err != nil {
		h.log.Error(r.Context(), "list projects failed", logger.Error(err))
		writeError(w, http.StatusInternalServerError, "", "internal error")
		return
	}
	writeJSON(w, http.StatusOK, ps)
}

// HandleCreate handles POST /api/projects.
func (h *ProjectsHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req projectRequest
	if err := decodeJSON(w, r, h.maxBodyBytes, &req); err != nil {
		writeError(w, http.StatusBadRequest, "", ErrBadRequest.Error())
		return
	}

	p, err := h.store.Create(r.Context(), model.Project{
		Title:         req.Title,
		Description:   req.Description,
		Technologies:  req.Technologies,
		ImageURL:      req.ImageURL,
		ProjectURL:    req.ProjectURL,
		RepositoryURL: req.RepositoryURL,
	})
	var ve *repository.ValidationError
	switch {
	case errors.As(err, &ve):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid project", Field: ve.Fields})
		return
	case err != nil:
		h.log.Error(r.Context(), "create project failed", logger.Error(err))
		writeError(w, http.StatusInternalServerError, "", "internal error")
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

// HandleGet handles GET /api/projects/{id}.
func (h *ProjectsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id < 1 {
		writeError(w, http.StatusNotFound, "", "not found")
		return
	}

	p, err := h.store.Get(r.Context(), id)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		writeError(w, http.StatusNotFound, "", "not found")
	case err != nil:
		h.log.Error(r.Context(), "get project failed", logger.Int("id", int(id)), logger.Error(err))
		writeError(w, http.StatusInternalServerError, "", "internal error")
	default:
		writeJSON(w, http.StatusOK, p)
	}
}
