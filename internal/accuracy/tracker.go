package accuracy

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/arbiterhq/arbiter/internal/policy"
)

// Tracker maintains accuracy metrics behind a single lock and persists
// them to a JSON document after every mutation. Safe for concurrent use.
type Tracker struct {
	path   string
	logger *slog.Logger

	mu      sync.Mutex
	metrics *metrics
}

// NewTracker loads existing metrics from path, or starts empty when the
// file does not exist yet.
func NewTracker(path string, logger *slog.Logger) (*Tracker, error) {
	t := &Tracker{
		path:    path,
		logger:  logger.With("system", "accuracy"),
		metrics: emptyMetrics(),
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return t, nil
		}
		return nil, fmt.Errorf("load accuracy metrics: %w", err)
	}

	if err := json.Unmarshal(data, t.metrics); err != nil {
		return nil, fmt.Errorf("parse accuracy metrics: %w", err)
	}

	return t, nil
}

// RecordPrediction logs a prediction to its confidence bin and, when
// ground truth is known, updates the confusion matrix and per-category
// counters and recomputes derived scores for every category.
func (t *Tracker) RecordPrediction(predicted policy.Category, groundTruth *policy.Category, confidence float64, documentID uuid.UUID) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.metrics.TotalPredictions++

	entry := binEntry{
		Predicted:   predicted,
		GroundTruth: groundTruth,
		DocumentID:  documentID,
	}
	if groundTruth != nil {
		correct := predicted == *groundTruth
		entry.Correct = &correct
	}

	bin := binKey(confidence)
	t.metrics.ConfidenceBins[bin] = append(t.metrics.ConfidenceBins[bin], entry)

	if groundTruth != nil {
		t.metrics.TotalGroundTruth++

		row := t.metrics.ConfusionMatrix[*groundTruth]
		if row == nil {
			row = make(map[policy.Category]int)
			t.metrics.ConfusionMatrix[*groundTruth] = row
		}
		row[predicted]++

		for _, category := range policy.Categories() {
			stats := t.stats(category)
			switch {
			case predicted == category && *groundTruth == category:
				stats.TruePositives++
			case predicted == category && *groundTruth != category:
				stats.FalsePositives++
			case predicted != category && *groundTruth == category:
				stats.FalseNegatives++
			}
		}

		t.recalculate()
	}

	return t.save()
}

// RecordCorrection appends an SME correction to the log and replays it
// as a ground-truthed prediction, so the corrected category's counters
// reflect the new truth immediately.
func (t *Tracker) RecordCorrection(documentID uuid.UUID, original, corrected policy.Category, confidence float64) error {
	t.mu.Lock()
	t.metrics.Corrections = append(t.metrics.Corrections, Correction{
		DocumentID: documentID,
		Original:   original,
		Corrected:  corrected,
		Confidence: confidence,
		Timestamp:  time.Now().UTC(),
	})
	t.mu.Unlock()

	return t.RecordPrediction(original, &corrected, confidence, documentID)
}

// CategoryPrecision returns the current precision for a category, or
// 0.0 when no ground truth has been recorded for it.
func (t *Tracker) CategoryPrecision(category policy.Category) float64 {
	t.mu.Lock()
	defer t.mu.Unlock()

	stats, ok := t.metrics.CategoryStats[category]
	if !ok {
		return 0.0
	}
	return stats.Precision
}

// Reset discards all recorded metrics and persists the empty state.
func (t *Tracker) Reset() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.metrics = emptyMetrics()
	t.logger.Info("accuracy metrics reset")

	return t.save()
}

func (t *Tracker) stats(category policy.Category) *CategoryStats {
	stats, ok := t.metrics.CategoryStats[category]
	if !ok {
		stats = &CategoryStats{}
		t.metrics.CategoryStats[category] = stats
	}
	return stats
}

// recalculate recomputes precision, recall, and F1 from the raw
// counters for every category in the fixed set.
func (t *Tracker) recalculate() {
	for _, category := range policy.Categories() {
		stats := t.stats(category)
		tp := float64(stats.TruePositives)
		fp := float64(stats.FalsePositives)
		fn := float64(stats.FalseNegatives)

		precision := 0.0
		if tp+fp > 0 {
			precision = tp / (tp + fp)
		}

		recall := 0.0
		if tp+fn > 0 {
			recall = tp / (tp + fn)
		}

		f1 := 0.0
		if precision+recall > 0 {
			f1 = 2 * (precision * recall) / (precision + recall)
		}

		stats.Precision = round4(precision)
		stats.Recall = round4(recall)
		stats.F1Score = round4(f1)
	}
}

func (t *Tracker) save() error {
	data, err := json.MarshalIndent(t.metrics, "", "  ")
	if err != nil {
		return fmt.Errorf("serialize accuracy metrics: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(t.path), 0o755); err != nil {
		return fmt.Errorf("create metrics directory: %w", err)
	}

	if err := os.WriteFile(t.path, data, 0o644); err != nil {
		return fmt.Errorf("persist accuracy metrics: %w", err)
	}

	return nil
}

// binKey buckets a confidence into its 0.1-wide bin, keyed by the bin's
// lower edge.
func binKey(confidence float64) string {
	return fmt.Sprintf("%.1f", math.Floor(confidence*10)/10)
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
