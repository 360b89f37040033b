// Package classifications implements the classification domain for
// Arbiter. It drives the full decision pipeline for a document (safety
// gate, cascade, consensus, calibration, approval scoring), stores the
// results, and feeds human review outcomes back into the accuracy
// tracker and the policy knowledge base.
package classifications

import (
	"time"

	"github.com/google/uuid"

	"github.com/arbiterhq/arbiter/internal/engine"
	"github.com/arbiterhq/arbiter/internal/policy"
	"github.com/arbiterhq/arbiter/internal/safety"
)

// Classification represents a stored classification result for a
// document. Dual-validation and safety details persist as JSON columns
// so the full audit trail survives the pipeline run.
type Classification struct {
	ID                 uuid.UUID              `json:"id"`
	DocumentID         uuid.UUID              `json:"document_id"`
	Category           policy.Category        `json:"final_category"`
	Confidence         float64                `json:"confidence_score"`
	OriginalConfidence *float64               `json:"original_confidence"`
	Reasoning          string                 `json:"reasoning_summary"`
	Citation           string                 `json:"citation_snippet"`
	Status             string                 `json:"hitl_status"`
	StatusReasoning    *string                `json:"hitl_reasoning"`
	Consensus          *bool                  `json:"validation_consensus"`
	AutoApproval       *float64               `json:"auto_approval_probability"`
	ProcessingTime     float64                `json:"processing_time"`
	DualValidation     *engine.DualValidation `json:"dual_validation_results"`
	SafetyDetails      *safety.Result         `json:"safety_details"`
	ChildSafe          *bool                  `json:"child_safe"`
	ModelName          string                 `json:"model_name"`
	ClassifiedAt       time.Time              `json:"classified_at"`
	ReviewedBy         *string                `json:"reviewed_by"`
	ReviewedAt         *time.Time             `json:"reviewed_at"`
	CorrectedCategory  *policy.Category       `json:"corrected_category"`
}

// ReviewCommand carries a human review verdict. A nil CorrectedCategory
// confirms the predicted category; a non-nil one corrects it, which
// also records the correction as ground truth and promotes the document
// into the knowledge base as a validated example.
type ReviewCommand struct {
	ReviewedBy        string           `json:"reviewed_by"`
	CorrectedCategory *policy.Category `json:"corrected_category"`
	Reasoning         string           `json:"reasoning"`
}
