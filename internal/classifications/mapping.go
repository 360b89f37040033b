package classifications

import (
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/google/uuid"

	"github.com/arbiterhq/arbiter/pkg/query"
	"github.com/arbiterhq/arbiter/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "classifications", "c").
	Project("id", "ID").
	Project("document_id", "DocumentID").
	Project("final_category", "Category").
	Project("confidence_score", "Confidence").
	Project("original_confidence", "OriginalConfidence").
	Project("reasoning_summary", "Reasoning").
	Project("citation_snippet", "Citation").
	Project("hitl_status", "Status").
	Project("hitl_reasoning", "StatusReasoning").
	Project("validation_consensus", "Consensus").
	Project("auto_approval_probability", "AutoApproval").
	Project("processing_time", "ProcessingTime").
	Project("dual_validation_results", "DualValidation").
	Project("safety_details", "SafetyDetails").
	Project("child_safe", "ChildSafe").
	Project("model_name", "ModelName").
	Project("classified_at", "ClassifiedAt").
	Project("reviewed_by", "ReviewedBy").
	Project("reviewed_at", "ReviewedAt").
	Project("corrected_category", "CorrectedCategory")

var defaultSort = query.SortField{
	Field:      "ClassifiedAt",
	Descending: true,
}

// returningColumns is the column list for INSERT/UPDATE ... RETURNING,
// in scan order.
const returningColumns = `id, document_id, final_category, confidence_score, original_confidence,
		reasoning_summary, citation_snippet, hitl_status, hitl_reasoning,
		validation_consensus, auto_approval_probability, processing_time,
		dual_validation_results, safety_details, child_safe, model_name,
		classified_at, reviewed_by, reviewed_at, corrected_category`

// Filters contains optional filtering criteria for classification queries.
// Nil fields are ignored. All fields use exact matching.
type Filters struct {
	Category   *string    `json:"final_category,omitempty"`
	Status     *string    `json:"hitl_status,omitempty"`
	DocumentID *uuid.UUID `json:"document_id,omitempty"`
	ReviewedBy *string    `json:"reviewed_by,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereEquals("Category", f.Category).
		WhereEquals("Status", f.Status).
		WhereEquals("DocumentID", f.DocumentID).
		WhereEquals("ReviewedBy", f.ReviewedBy)
}

// FiltersFromQuery extracts filter values from URL query parameters.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if c := values.Get("category"); c != "" {
		f.Category = &c
	}

	if s := values.Get("status"); s != "" {
		f.Status = &s
	}

	if d := values.Get("document_id"); d != "" {
		if id, err := uuid.Parse(d); err == nil {
			f.DocumentID = &id
		}
	}

	if v := values.Get("reviewed_by"); v != "" {
		f.ReviewedBy = &v
	}

	return f
}

func scanClassification(s repository.Scanner) (Classification, error) {
	var c Classification
	var dualRaw, safetyRaw []byte

	err := s.Scan(
		&c.ID,
		&c.DocumentID,
		&c.Category,
		&c.Confidence,
		&c.OriginalConfidence,
		&c.Reasoning,
		&c.Citation,
		&c.Status,
		&c.StatusReasoning,
		&c.Consensus,
		&c.AutoApproval,
		&c.ProcessingTime,
		&dualRaw,
		&safetyRaw,
		&c.ChildSafe,
		&c.ModelName,
		&c.ClassifiedAt,
		&c.ReviewedBy,
		&c.ReviewedAt,
		&c.CorrectedCategory,
	)
	if err != nil {
		return c, err
	}

	if len(dualRaw) > 0 {
		if err := json.Unmarshal(dualRaw, &c.DualValidation); err != nil {
			return c, fmt.Errorf("unmarshal dual_validation_results: %w", err)
		}
	}

	if len(safetyRaw) > 0 {
		if err := json.Unmarshal(safetyRaw, &c.SafetyDetails); err != nil {
			return c, fmt.Errorf("unmarshal safety_details: %w", err)
		}
	}

	return c, nil
}
