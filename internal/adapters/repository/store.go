// Package repository stores portfolio projects. It is independent of the
// contact pipeline and shares no state with it.
package repository

import (
	"context"
	"net/url"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/okian/contactd/internal/domain/model"
)

// Field limits for projects.
const (
	MaxTitleLength        = 100
	MaxTechnologiesLength = 200
	MaxURLLength          = 200
)

// Store provides list/create/retrieve access to projects.
type Store interface {
	// List returns every project ordered by ID.
	List(ctx context.Context) ([]model.Project, error)

	// Create validates p, assigns ID and CreatedAt, and stores it.
	// Returns a *ValidationError for invalid input.
	Create(ctx context.Context, p model.Project) (model.Project, error)

	// Get returns the project with id or ErrNotFound.
	Get(ctx context.Context, id int64) (model.Project, error)

	// Count returns the number of stored projects.
	Count(ctx context.Context) (int, error)
}

// Validate checks p and returns a normalized copy with trimmed fields.
func Validate(p model.Project) (model.Project, error) {
	p.Title = strings.TrimSpace(p.Title)
	p.Description = strings.TrimSpace(p.Description)
	p.Technologies = strings.TrimSpace(p.Technologies)
	p.ImageURL = strings.TrimSpace(p.ImageURL)
	p.ProjectURL = strings.TrimSpace(p.ProjectURL)
	p.RepositoryURL = strings.TrimSpace(p.RepositoryURL)

	fields := map[string]string{}
	switch {
	case p.Title == "":
		fields["title"] = "this field is required"
	case utf8.RuneCountInString(p.Title) > MaxTitleLength:
		fields["title"] = "ensure this field has no more than 100 characters"
	}
	if p.Description == "" {
		fields["description"] = "this field is required"
	}
	switch {
	case p.Technologies == "":
		fields["technologies"] = "this field is required"
	case utf8.RuneCountInString(p.Technologies) > MaxTechnologiesLength:
		fields["technologies"] = "ensure this field has no more than 200 characters"
	}
	for name, v := range map[string]string{
		"image_url":      p.ImageURL,
		"project_url":    p.ProjectURL,
		"repository_url": p.RepositoryURL,
	} {
		if msg := checkURL(v); msg != "" {
			fields[name] = msg
		}
	}

	if len(fields) > 0 {
		return model.Project{}, &ValidationError{Fields: fields}
	}
	return p, nil
}

func checkURL(raw string) string {
	if raw == "" {
		return ""
	}
	if utf8.RuneCountInString(raw) > MaxURLLength {
		return "ensure this field has no more than 200 characters"
	}
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "enter a valid URL"
	}
	return ""
}

func sortByID(ps []model.Project) {
	sort.Slice(ps, func(i, j int) bool { return ps[i].ID < ps[j].ID })
}
