package engine

import "math"

// Calibrate adjusts a raw oracle confidence by the category's historical
// precision and applies the consensus bonus. The adjustment scales raw
// confidence into [0.7*raw, 1.0*raw] as precision runs from 0 to 1, so
// a category with no history is discounted hardest. The result is
// clamped to [0, 1] and rounded to four decimal places.
func Calibrate(raw, precision float64, consensus bool) float64 {
	calibrated := raw * (0.7 + 0.3*precision)

	if consensus {
		calibrated = min(1.0, calibrated*1.1)
	}

	calibrated = max(0.0, min(1.0, calibrated))

	return math.Round(calibrated*10000) / 10000
}

// calibrate applies Calibrate to a result in place, preserving the raw
// confidence for audit.
func (e *Engine) calibrate(result *Result) {
	precision := e.precision.CategoryPrecision(result.Category)
	consensus := result.Consensus != nil && *result.Consensus

	result.OriginalConfidence = result.Confidence
	result.Confidence = Calibrate(result.Confidence, precision, consensus)
}
