// Package oracle defines the external reasoning capability consulted for a
// single structured judgment per call, and its Gemini-backed implementation.
// Callers compose the full prompt (policy context + task + content) and
// parse the structured response themselves; the oracle contract is a
// prompt, a sampling temperature, and raw response text.
package oracle

import "context"

// Request carries a single oracle consultation.
type Request struct {
	Prompt      string
	Temperature float64
}

// Oracle is the external reasoning capability. Implementations must be
// safe for concurrent use. Every call is a suspension point: callers treat
// the oracle as potentially slow or unavailable and recover from errors
// with conservative defaults.
type Oracle interface {
	Generate(ctx context.Context, req Request) (string, error)
}

// ModelName reports the model identifier an oracle answers with, for
// audit metadata on stored results.
type ModelName interface {
	Model() string
}
