// Package accuracy implements the classification accuracy feedback
// loop: the confusion matrix, per-category precision/recall/F1,
// confidence calibration bins, and the HITL correction log. Recorded
// corrections become ground truth, so precision feeds straight back
// into confidence calibration and approval scoring.
package accuracy

import (
	"time"

	"github.com/google/uuid"

	"github.com/arbiterhq/arbiter/internal/policy"
)

// CategoryStats holds the running counters and derived scores for one
// category. Derived scores are recomputed from the counters after every
// ground-truthed prediction, never incrementally approximated.
type CategoryStats struct {
	TruePositives  int     `json:"true_positives"`
	FalsePositives int     `json:"false_positives"`
	FalseNegatives int     `json:"false_negatives"`
	Precision      float64 `json:"precision"`
	Recall         float64 `json:"recall"`
	F1Score        float64 `json:"f1_score"`
}

// Correction is one entry in the append-only HITL correction log.
type Correction struct {
	DocumentID uuid.UUID       `json:"document_id"`
	Original   policy.Category `json:"original"`
	Corrected  policy.Category `json:"corrected"`
	Confidence float64         `json:"confidence"`
	Timestamp  time.Time       `json:"timestamp"`
}

// binEntry records one prediction in its confidence bin. GroundTruth
// and Correct stay null for predictions without ground truth.
type binEntry struct {
	Predicted   policy.Category  `json:"predicted"`
	GroundTruth *policy.Category `json:"ground_truth"`
	Correct     *bool            `json:"correct"`
	DocumentID  uuid.UUID        `json:"document_id"`
}

// metrics is the persisted tracker state. It round-trips exactly
// through JSON so restarts resume from the full history.
type metrics struct {
	TotalPredictions int                                         `json:"total_predictions"`
	TotalGroundTruth int                                         `json:"total_ground_truth"`
	ConfusionMatrix  map[policy.Category]map[policy.Category]int `json:"confusion_matrix"`
	ConfidenceBins   map[string][]binEntry                       `json:"confidence_bins"`
	CategoryStats    map[policy.Category]*CategoryStats          `json:"category_stats"`
	Corrections      []Correction                                `json:"hitl_corrections"`
}

func emptyMetrics() *metrics {
	return &metrics{
		ConfusionMatrix: make(map[policy.Category]map[policy.Category]int),
		ConfidenceBins:  make(map[string][]binEntry),
		CategoryStats:   make(map[policy.Category]*CategoryStats),
		Corrections:     []Correction{},
	}
}
