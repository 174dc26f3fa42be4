package repository

import (
	"errors"
	"sort"
	"strings"
)

// Sentinel kinds for project errors.
var (
	ErrNotFound       = errors.New("project not found")
	ErrInvalidProject = errors.New("invalid project")
)

// ValidationError lists the offending fields and why.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		names = append(names, k)
	}
	sort.Strings(names)
	parts := make([]string, 0, len(names))
	for _, k := range names {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return ErrInvalidProject.Error() + ": " + strings.Join(parts, "; ")
}

// Is reports ErrInvalidProject as a match.
func (e *ValidationError) Is(target error) bool { return target == ErrInvalidProject }
