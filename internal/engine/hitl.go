package engine

import (
	"context"
	"fmt"
	"strings"

	"github.com/arbiterhq/arbiter/internal/policy"
	"github.com/arbiterhq/arbiter/internal/safety"
)

// autoApprovalThreshold is the weighted score a classification must
// reach to skip human review.
const autoApprovalThreshold = 0.75

// Decision is the outcome of the approval scoring.
type Decision struct {
	Status    Status
	Reasoning string
	Score     float64
}

// decide scores a calibrated result against the weighted approval
// factors: confidence (40%), dual-validation consensus (30%), category
// historical precision (20%), and safety score (10%). UNSAFE content is
// never auto-approved regardless of score.
func (e *Engine) decide(result Result, safetyScore float64) Decision {
	confidence := result.Confidence
	consensus := result.Consensus != nil && *result.Consensus
	precision := e.precision.CategoryPrecision(result.Category)

	score := 0.0

	switch {
	case confidence >= 0.95:
		score += 0.4
	case confidence >= 0.90:
		score += 0.3
	case confidence >= 0.85:
		score += 0.2
	}

	if consensus {
		score += 0.3
	}

	switch {
	case precision >= 0.95:
		score += 0.2
	case precision >= 0.90:
		score += 0.15
	}

	if safetyScore >= 0.95 {
		score += 0.1
	}

	if result.Category == policy.CategoryUnsafe {
		return Decision{
			Status: StatusRequiresReview,
			Reasoning: fmt.Sprintf(
				"UNSAFE classification always requires human review. Auto-approval score: %.1f%%",
				score*100,
			),
			Score: score,
		}
	}

	if score >= autoApprovalThreshold {
		validation := "strong single validation"
		if consensus {
			validation = "consensus validation"
		}

		return Decision{
			Status: StatusAutoApproved,
			Reasoning: fmt.Sprintf(
				"High confidence classification (%.1f%%) with %s, category precision %.1f%%, and safety score %.1f%%. Auto-approval score: %.1f%%",
				confidence*100, validation, precision*100, safetyScore*100, score*100,
			),
			Score: score,
		}
	}

	return Decision{
		Status: StatusRequiresReview,
		Reasoning: fmt.Sprintf(
			"Auto-approval score %.1f%% below threshold %.1f%%. Factors: confidence=%.1f%%, consensus=%t, precision=%.1f%%, safety=%.1f%%",
			score*100, autoApprovalThreshold*100, confidence*100, consensus, precision*100, safetyScore*100,
		),
		Score: score,
	}
}

// Blocked builds the forced UNSAFE result for content that failed the
// safety screen. The cascade never runs; the verdict is certain and
// human review is mandatory.
func Blocked(doc Document, safetyResult safety.Result) Result {
	consensus := true

	return Result{
		DocumentID: doc.ID,
		Category:   policy.CategoryUnsafe,
		Confidence: 1.0,
		Reasoning: fmt.Sprintf(
			"Content safety validation failed. Violations: %s. This content has been flagged for: %s.",
			strings.Join(safetyResult.Violations, ", "),
			strings.Join(safetyResult.CategoriesFlagged, ", "),
		),
		Citation:  "Multiple safety violations detected",
		Status:    StatusRequiresReview,
		Consensus: &consensus,
		Safety:    &safetyResult,
		ChildSafe: &safetyResult.ChildSafe,
	}
}

// Evaluate runs the full post-safety decision pipeline: the cascade,
// confidence calibration, and the approval decision. The safety result
// is attached to the returned classification for audit.
func (e *Engine) Evaluate(ctx context.Context, doc Document, safetyResult safety.Result) Result {
	result := e.Classify(ctx, doc)

	e.calibrate(&result)

	decision := e.decide(result, safetyResult.SafetyScore)
	result.Status = decision.Status
	result.StatusReasoning = decision.Reasoning
	result.AutoApprovalProbability = &decision.Score

	result.Safety = &safetyResult
	result.ChildSafe = &safetyResult.ChildSafe

	return result
}
