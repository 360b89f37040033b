package documents

import (
	"errors"
	"net/http"
)

// Domain errors for document operations.
var (
	ErrNotFound       = errors.New("document not found")
	ErrDuplicate      = errors.New("document already exists")
	ErrMissingContent = errors.New("document has no text content")
	ErrContentTooBig  = errors.New("document content exceeds maximum size")
	ErrInvalidStatus  = errors.New("invalid document status")
)

// MapHTTPStatus maps document domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrDuplicate) {
		return http.StatusConflict
	}
	if errors.Is(err, ErrContentTooBig) {
		return http.StatusRequestEntityTooLarge
	}
	if errors.Is(err, ErrMissingContent) || errors.Is(err, ErrInvalidStatus) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
