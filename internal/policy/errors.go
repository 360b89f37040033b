package policy

import "errors"

// Sentinel errors for policy operations.
var (
	ErrInvalidCategory = errors.New("invalid category")
	ErrBadOrdering     = errors.New("check ordering violates category priority")
	ErrLoadFailed      = errors.New("failed to load policy documents")
)
