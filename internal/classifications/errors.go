package classifications

import (
	"errors"
	"net/http"

	"github.com/arbiterhq/arbiter/internal/policy"
)

// Domain errors for classification operations.
var (
	ErrNotFound      = errors.New("classification not found")
	ErrDuplicate     = errors.New("classification already exists")
	ErrMissingActor  = errors.New("reviewed_by is required")
	ErrNoSafetyData  = errors.New("classification has no safety details")
	ErrInvalidStatus = errors.New("document is not in review status")
)

// MapHTTPStatus maps classification domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrNotFound) || errors.Is(err, ErrNoSafetyData) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrDuplicate) || errors.Is(err, ErrInvalidStatus) {
		return http.StatusConflict
	}
	if errors.Is(err, ErrMissingActor) || errors.Is(err, policy.ErrInvalidCategory) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
