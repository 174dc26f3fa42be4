package notify

import (
	"errors"
	"fmt"
)

// ErrRender matches every *RenderError via errors.Is.
var ErrRender = errors.New("render notification")

// RenderError reports a template that could not be loaded or rendered.
type RenderError struct {
	Template string
	Err      error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("%s: %s: %v", ErrRender, e.Template, e.Err)
}

// Unwrap returns the underlying cause.
func (e *RenderError) Unwrap() error { return e.Err }

// Is reports ErrRender as a match.
func (e *RenderError) Is(target error) bool { return target == ErrRender }
