package accuracy

import (
	"math"
	"strconv"

	"github.com/arbiterhq/arbiter/internal/policy"
)

// CalibrationBin reports how well confidences in one bin matched actual
// accuracy. Expected is the bin midpoint; the calibration error is the
// absolute gap between midpoint and observed accuracy.
type CalibrationBin struct {
	Expected         float64 `json:"expected"`
	Actual           float64 `json:"actual"`
	Samples          int     `json:"samples"`
	CalibrationError float64 `json:"calibration_error"`
}

// Report is the full accuracy report surface.
type Report struct {
	OverallAccuracy       float64                                     `json:"overall_accuracy"`
	MacroF1Score          float64                                     `json:"macro_f1_score"`
	TotalPredictions      int                                         `json:"total_predictions"`
	TotalGroundTruth      int                                         `json:"total_with_ground_truth"`
	CategoryMetrics       map[policy.Category]CategoryStats           `json:"category_metrics"`
	ConfusionMatrix       map[policy.Category]map[policy.Category]int `json:"confusion_matrix"`
	ConfidenceCalibration map[string]CalibrationBin                   `json:"confidence_calibration"`
	HITLCorrectionRate    float64                                     `json:"hitl_correction_rate"`
	ExcludedCategories    []policy.Category                           `json:"categories_excluded"`
}

// DetailedReport assembles the full report from current state. Macro-F1
// averages only categories with nonzero F1; the excluded categories are
// listed explicitly so the inflation is visible to consumers.
func (t *Tracker) DetailedReport() Report {
	t.mu.Lock()
	defer t.mu.Unlock()

	report := Report{
		OverallAccuracy:       t.overallAccuracy(),
		TotalPredictions:      t.metrics.TotalPredictions,
		TotalGroundTruth:      t.metrics.TotalGroundTruth,
		CategoryMetrics:       make(map[policy.Category]CategoryStats, len(t.metrics.CategoryStats)),
		ConfusionMatrix:       make(map[policy.Category]map[policy.Category]int, len(t.metrics.ConfusionMatrix)),
		ConfidenceCalibration: t.calibration(),
		HITLCorrectionRate:    t.correctionRate(),
		ExcludedCategories:    []policy.Category{},
	}

	var f1Sum float64
	var f1Count int

	for _, category := range policy.Categories() {
		stats, ok := t.metrics.CategoryStats[category]
		if !ok {
			report.ExcludedCategories = append(report.ExcludedCategories, category)
			continue
		}

		report.CategoryMetrics[category] = *stats

		if stats.F1Score > 0 {
			f1Sum += stats.F1Score
			f1Count++
		} else {
			report.ExcludedCategories = append(report.ExcludedCategories, category)
		}
	}

	if f1Count > 0 {
		report.MacroF1Score = round4(f1Sum / float64(f1Count))
	}

	for truth, row := range t.metrics.ConfusionMatrix {
		copied := make(map[policy.Category]int, len(row))
		for predicted, count := range row {
			copied[predicted] = count
		}
		report.ConfusionMatrix[truth] = copied
	}

	return report
}

func (t *Tracker) overallAccuracy() float64 {
	if t.metrics.TotalGroundTruth == 0 {
		return 0.0
	}

	correct := 0
	for _, stats := range t.metrics.CategoryStats {
		correct += stats.TruePositives
	}

	return round2(float64(correct) / float64(t.metrics.TotalGroundTruth) * 100)
}

func (t *Tracker) correctionRate() float64 {
	if t.metrics.TotalPredictions == 0 {
		return 0.0
	}

	return round2(float64(len(t.metrics.Corrections)) / float64(t.metrics.TotalPredictions) * 100)
}

// calibration computes per-bin observed accuracy over ground-truthed
// entries. Bins with no entries are omitted.
func (t *Tracker) calibration() map[string]CalibrationBin {
	calibration := make(map[string]CalibrationBin, len(t.metrics.ConfidenceBins))

	for bin, entries := range t.metrics.ConfidenceBins {
		if len(entries) == 0 {
			continue
		}

		correct := 0
		for _, entry := range entries {
			if entry.Correct != nil && *entry.Correct {
				correct++
			}
		}

		lower, err := strconv.ParseFloat(bin, 64)
		if err != nil {
			continue
		}

		// The "1.0" bin is degenerate: it holds only exact-1.0
		// confidences, so its expected accuracy is 1.0, not 1.05.
		midpoint := math.Min(lower+0.05, 1.0)
		actual := float64(correct) / float64(len(entries))

		calibration[bin] = CalibrationBin{
			Expected:         midpoint,
			Actual:           round4(actual),
			Samples:          len(entries),
			CalibrationError: round4(math.Abs(midpoint - actual)),
		}
	}

	return calibration
}
