// Package engine implements the classification decision engine: the
// cascading policy check pipeline, dual-pass consensus, confidence
// calibration against historical precision, and the approval decision
// that routes results to auto-approval or human review.
package engine

import (
	"log/slog"

	"github.com/google/uuid"

	"github.com/arbiterhq/arbiter/internal/oracle"
	"github.com/arbiterhq/arbiter/internal/policy"
	"github.com/arbiterhq/arbiter/internal/safety"
)

// Status is the approval routing decision for a classification.
type Status string

const (
	StatusAutoApproved   Status = "AUTO_APPROVED"
	StatusRequiresReview Status = "REQUIRES_REVIEW"
)

// Document is the unit of classification: an identifier and the
// extracted text content to judge.
type Document struct {
	ID      uuid.UUID
	Content string
}

// PassOutcome records the category and confidence of one validation pass.
type PassOutcome struct {
	Category   policy.Category `json:"category"`
	Confidence float64         `json:"confidence"`
}

// DualValidation records both pass outcomes when dual validation ran.
type DualValidation struct {
	Pass1 PassOutcome `json:"pass1"`
	Pass2 PassOutcome `json:"pass2"`
}

// Result is a complete classification outcome. Consensus is nil when
// dual validation did not run; AutoApprovalProbability is nil until the
// approval decision has been applied.
type Result struct {
	DocumentID              uuid.UUID       `json:"document_id"`
	Category                policy.Category `json:"final_category"`
	Confidence              float64         `json:"confidence_score"`
	Reasoning               string          `json:"reasoning_summary"`
	Citation                string          `json:"citation_snippet"`
	Status                  Status          `json:"hitl_status"`
	StatusReasoning         string          `json:"hitl_reasoning,omitempty"`
	Consensus               *bool           `json:"validation_consensus"`
	DualValidation          *DualValidation `json:"dual_validation_results,omitempty"`
	OriginalConfidence      float64         `json:"original_confidence,omitempty"`
	AutoApprovalProbability *float64        `json:"auto_approval_probability,omitempty"`
	Safety                  *safety.Result  `json:"safety_details,omitempty"`
	ChildSafe               *bool           `json:"child_safe,omitempty"`
	ProcessingTime          float64         `json:"processing_time"`
}

// PrecisionSource supplies per-category historical precision for
// calibration and approval scoring. Sources report 0.0 for categories
// with no recorded history.
type PrecisionSource interface {
	CategoryPrecision(category policy.Category) float64
}

// Options tune the classification pipeline.
type Options struct {
	ConfidenceThreshold float64
	DualValidation      bool
	PassOneTemperature  float64
	PassTwoTemperature  float64
}

// Engine runs the classification cascade against an oracle, grounded in
// a policy knowledge base. Safe for concurrent use; all mutable state
// lives behind the policy and precision source.
type Engine struct {
	oracle    oracle.Oracle
	policy    *policy.Policy
	precision PrecisionSource
	options   Options
	logger    *slog.Logger
}

func New(o oracle.Oracle, p *policy.Policy, precision PrecisionSource, options Options, logger *slog.Logger) *Engine {
	return &Engine{
		oracle:    o,
		policy:    p,
		precision: precision,
		options:   options,
		logger:    logger.With("system", "engine"),
	}
}
