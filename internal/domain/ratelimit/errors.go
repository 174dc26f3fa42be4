package ratelimit

import "errors"

// ErrInvalidLimit is returned by stores for a non-positive quota or window.
var ErrInvalidLimit = errors.New("invalid rate limit")
