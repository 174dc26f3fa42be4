package api

import "errors"

// Sentinel kinds for API errors.
var (
	ErrBadRequest   = errors.New("bad request")
	ErrTrailingData = errors.New("unexpected data after JSON value")
)
