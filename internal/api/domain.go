package api

import (
	"context"

	"github.com/google/uuid"

	"github.com/arbiterhq/arbiter/internal/batch"
	"github.com/arbiterhq/arbiter/internal/classifications"
	"github.com/arbiterhq/arbiter/internal/documents"
	"github.com/arbiterhq/arbiter/internal/engine"
	"github.com/arbiterhq/arbiter/internal/safety"
)

// Domain holds all domain systems that comprise the API.
type Domain struct {
	Documents       documents.System
	Classifications classifications.System
	Batch           *batch.Coordinator
}

// NewDomain creates all domain systems from the API runtime. The batch
// coordinator wraps the classification pipeline so every batched
// document flows through the same decision path as a single request.
func NewDomain(runtime *Runtime) *Domain {
	docsSystem := documents.New(
		runtime.Database.Connection(),
		runtime.Logger,
		runtime.Pagination,
	)

	eng := engine.New(
		runtime.Oracle,
		runtime.Policy,
		runtime.Tracker,
		engine.Options{
			ConfidenceThreshold: runtime.Engine.ConfidenceThreshold,
			DualValidation:      runtime.Engine.DualValidationEnabled(),
			PassOneTemperature:  runtime.Engine.PassOneTemperature,
			PassTwoTemperature:  runtime.Engine.PassTwoTemperature,
		},
		runtime.Logger,
	)

	validator := safety.NewValidator(runtime.Oracle, runtime.Logger)

	classificationsSystem := classifications.New(
		runtime.Database.Connection(),
		eng,
		validator,
		runtime.Tracker,
		runtime.Policy,
		docsSystem,
		runtime.Oracle,
		runtime.Logger,
		runtime.Pagination,
	)

	coordinator := batch.NewCoordinator(
		func(ctx context.Context, documentID uuid.UUID) (batch.FileResult, error) {
			c, err := classificationsSystem.Classify(ctx, documentID)
			if err != nil {
				return batch.FileResult{}, err
			}

			return batch.FileResult{
				Category:   c.Category,
				Confidence: c.Confidence,
				HITLStatus: c.Status,
			}, nil
		},
		runtime.Engine.BatchWorkers,
		runtime.Logger,
	)

	return &Domain{
		Documents:       docsSystem,
		Classifications: classificationsSystem,
		Batch:           coordinator,
	}
}
