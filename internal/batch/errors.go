package batch

import (
	"errors"
	"net/http"
)

// Sentinel errors for batch operations.
var (
	ErrJobNotFound   = errors.New("batch job not found")
	ErrJobNotQueued  = errors.New("batch job has already started")
	ErrJobNotRunning = errors.New("batch job is not processing")
	ErrEmptyBatch    = errors.New("batch contains no documents")
)

// MapHTTPStatus translates batch errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrJobNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrJobNotQueued), errors.Is(err, ErrJobNotRunning):
		return http.StatusConflict
	case errors.Is(err, ErrEmptyBatch):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
