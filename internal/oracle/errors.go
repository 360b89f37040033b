package oracle

import "errors"

// Sentinel errors for oracle operations.
var (
	ErrUnavailable   = errors.New("oracle unavailable")
	ErrEmptyResponse = errors.New("oracle returned empty response")
)
