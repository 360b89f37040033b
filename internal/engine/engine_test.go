package engine_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"

	"github.com/arbiterhq/arbiter/internal/engine"
	"github.com/arbiterhq/arbiter/internal/oracle"
	"github.com/arbiterhq/arbiter/internal/policy"
	"github.com/arbiterhq/arbiter/internal/safety"
)

// scriptedOracle answers prompts through a caller-supplied function and
// records every request it receives.
type scriptedOracle struct {
	respond func(req oracle.Request) (string, error)

	mu    sync.Mutex
	calls []oracle.Request
}

func (s *scriptedOracle) Generate(_ context.Context, req oracle.Request) (string, error) {
	s.mu.Lock()
	s.calls = append(s.calls, req)
	s.mu.Unlock()
	return s.respond(req)
}

func (s *scriptedOracle) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.calls)
}

type fixedPrecision map[policy.Category]float64

func (f fixedPrecision) CategoryPrecision(c policy.Category) float64 { return f[c] }

func checkOf(prompt string) policy.Category {
	for _, c := range []policy.Category{policy.CategoryUnsafe, policy.CategoryConfidential, policy.CategorySensitive} {
		if strings.Contains(prompt, fmt.Sprintf("for %s content", c)) {
			return c
		}
	}
	return ""
}

func passOf(prompt string) int {
	if strings.Contains(prompt, "VALIDATION PASS: 2") {
		return 2
	}
	return 1
}

func verdict(check policy.Check, flagged bool, confidence float64, citation string) string {
	return fmt.Sprintf(
		`{%q: %t, "confidence": %g, "reasoning": "test reasoning", "citation": %q, "pii_found": []}`,
		check.FlagField(), flagged, confidence, citation,
	)
}

func notFlagged(category policy.Category) string {
	return verdict(policy.Check{Category: category}, false, 0.95, "")
}

func defaultOptions() engine.Options {
	return engine.Options{
		ConfidenceThreshold: 0.9,
		DualValidation:      true,
		PassOneTemperature:  0.1,
		PassTwoTemperature:  0.3,
	}
}

func newEngine(t *testing.T, o oracle.Oracle, precision engine.PrecisionSource, options engine.Options) *engine.Engine {
	t.Helper()

	p, err := policy.Load("")
	if err != nil {
		t.Fatalf("policy load failed: %v", err)
	}

	if precision == nil {
		precision = fixedPrecision{}
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return engine.New(o, p, precision, options, logger)
}

func safeResult() safety.Result {
	return safety.Result{
		IsSafe:      true,
		SafetyScore: 1.0,
		ChildSafe:   true,
	}
}

func TestClassifyPublicFallback(t *testing.T) {
	o := &scriptedOracle{
		respond: func(req oracle.Request) (string, error) {
			return notFlagged(checkOf(req.Prompt)), nil
		},
	}

	e := newEngine(t, o, nil, defaultOptions())
	result := e.Classify(context.Background(), engine.Document{ID: uuid.New(), Content: "quarterly press release"})

	if result.Category != policy.CategoryPublic {
		t.Errorf("Category = %s, want PUBLIC", result.Category)
	}
	if result.Confidence != 0.95 {
		t.Errorf("Confidence = %v, want 0.95", result.Confidence)
	}
	want := "Document contains no unsafe, confidential, or sensitive information. Suitable for public distribution."
	if result.Reasoning != want {
		t.Errorf("Reasoning = %q, want %q", result.Reasoning, want)
	}
	if result.Citation != "No restricted content found" {
		t.Errorf("Citation = %q, want %q", result.Citation, "No restricted content found")
	}
	if result.Consensus == nil || !*result.Consensus {
		t.Errorf("Consensus = %v, want true", result.Consensus)
	}
	if result.Status != engine.StatusAutoApproved {
		t.Errorf("Status = %s, want AUTO_APPROVED", result.Status)
	}
	if result.DualValidation == nil {
		t.Fatal("DualValidation = nil, want both passes recorded")
	}
	if result.DualValidation.Pass2.Category != policy.CategoryPublic {
		t.Errorf("Pass2.Category = %s, want PUBLIC", result.DualValidation.Pass2.Category)
	}
	// Three checks per pass, two passes; the fallback never calls the oracle.
	if got := o.callCount(); got != 6 {
		t.Errorf("oracle calls = %d, want 6", got)
	}
}

func TestClassifyUnsafeShortCircuits(t *testing.T) {
	o := &scriptedOracle{
		respond: func(req oracle.Request) (string, error) {
			check := checkOf(req.Prompt)
			if check == policy.CategoryUnsafe {
				return verdict(policy.Check{Category: check}, true, 0.97, ""), nil
			}
			return notFlagged(check), nil
		},
	}

	e := newEngine(t, o, nil, defaultOptions())
	result := e.Classify(context.Background(), engine.Document{ID: uuid.New(), Content: "threatening content"})

	if result.Category != policy.CategoryUnsafe {
		t.Errorf("Category = %s, want UNSAFE", result.Category)
	}
	if result.Citation != "UNSAFE content detected" {
		t.Errorf("Citation = %q, want fallback citation", result.Citation)
	}
	if got := o.callCount(); got != 2 {
		t.Errorf("oracle calls = %d, want 2 (first check flags, one per pass)", got)
	}
}

func TestClassifyDegradedCheckContinues(t *testing.T) {
	o := &scriptedOracle{
		respond: func(req oracle.Request) (string, error) {
			switch checkOf(req.Prompt) {
			case policy.CategoryConfidential:
				return "", errors.New("oracle unavailable")
			case policy.CategorySensitive:
				return verdict(policy.Check{Category: policy.CategorySensitive}, true, 0.92, "internal memo header"), nil
			default:
				return notFlagged(checkOf(req.Prompt)), nil
			}
		},
	}

	e := newEngine(t, o, nil, defaultOptions())
	result := e.Classify(context.Background(), engine.Document{ID: uuid.New(), Content: "internal memo"})

	if result.Category != policy.CategorySensitive {
		t.Errorf("Category = %s, want SENSITIVE after degraded CONFIDENTIAL check", result.Category)
	}
	if result.Citation != "internal memo header" {
		t.Errorf("Citation = %q, want oracle citation", result.Citation)
	}
	if result.Consensus == nil || !*result.Consensus {
		t.Errorf("Consensus = %v, want true", result.Consensus)
	}
}

func TestClassifyConsensusDisagreement(t *testing.T) {
	o := &scriptedOracle{
		respond: func(req oracle.Request) (string, error) {
			check := checkOf(req.Prompt)
			if check == policy.CategoryConfidential && passOf(req.Prompt) == 1 {
				return verdict(policy.Check{Category: check}, true, 0.93, "account table"), nil
			}
			return notFlagged(check), nil
		},
	}

	e := newEngine(t, o, nil, defaultOptions())
	result := e.Classify(context.Background(), engine.Document{ID: uuid.New(), Content: "bank records"})

	if result.Category != policy.CategoryConfidential {
		t.Errorf("Category = %s, want CONFIDENTIAL (pass 1 carries the verdict)", result.Category)
	}
	if result.Consensus == nil || *result.Consensus {
		t.Errorf("Consensus = %v, want false", result.Consensus)
	}
	if result.Status != engine.StatusRequiresReview {
		t.Errorf("Status = %s, want REQUIRES_REVIEW", result.Status)
	}
	if result.DualValidation.Pass2.Category != policy.CategoryPublic {
		t.Errorf("Pass2.Category = %s, want PUBLIC", result.DualValidation.Pass2.Category)
	}
}

func TestClassifyConsensusRequiresBothConfidences(t *testing.T) {
	o := &scriptedOracle{
		respond: func(req oracle.Request) (string, error) {
			check := checkOf(req.Prompt)
			if check != policy.CategoryConfidential {
				return notFlagged(check), nil
			}
			confidence := 0.93
			if passOf(req.Prompt) == 2 {
				confidence = 0.85
			}
			return verdict(policy.Check{Category: check}, true, confidence, "ssn list"), nil
		},
	}

	e := newEngine(t, o, nil, defaultOptions())
	result := e.Classify(context.Background(), engine.Document{ID: uuid.New(), Content: "customer records"})

	if result.Consensus == nil || *result.Consensus {
		t.Errorf("Consensus = %v, want false when pass 2 confidence is below threshold", result.Consensus)
	}
}

func TestClassifySinglePass(t *testing.T) {
	options := defaultOptions()
	options.DualValidation = false

	t.Run("above threshold auto approves", func(t *testing.T) {
		o := &scriptedOracle{
			respond: func(req oracle.Request) (string, error) {
				return notFlagged(checkOf(req.Prompt)), nil
			},
		}

		e := newEngine(t, o, nil, options)
		result := e.Classify(context.Background(), engine.Document{ID: uuid.New(), Content: "press release"})

		if result.Consensus != nil {
			t.Errorf("Consensus = %v, want nil for single pass", result.Consensus)
		}
		if result.Status != engine.StatusAutoApproved {
			t.Errorf("Status = %s, want AUTO_APPROVED", result.Status)
		}
		if got := o.callCount(); got != 3 {
			t.Errorf("oracle calls = %d, want 3", got)
		}
	})

	t.Run("below threshold requires review", func(t *testing.T) {
		o := &scriptedOracle{
			respond: func(req oracle.Request) (string, error) {
				check := checkOf(req.Prompt)
				if check == policy.CategorySensitive {
					return verdict(policy.Check{Category: check}, true, 0.82, "draft marker"), nil
				}
				return notFlagged(check), nil
			},
		}

		e := newEngine(t, o, nil, options)
		result := e.Classify(context.Background(), engine.Document{ID: uuid.New(), Content: "draft plan"})

		if result.Status != engine.StatusRequiresReview {
			t.Errorf("Status = %s, want REQUIRES_REVIEW", result.Status)
		}
	})
}

func TestClassifyPassTemperatures(t *testing.T) {
	o := &scriptedOracle{
		respond: func(req oracle.Request) (string, error) {
			return notFlagged(checkOf(req.Prompt)), nil
		},
	}

	e := newEngine(t, o, nil, defaultOptions())
	e.Classify(context.Background(), engine.Document{ID: uuid.New(), Content: "content"})

	o.mu.Lock()
	defer o.mu.Unlock()

	for _, call := range o.calls {
		want := 0.1
		if passOf(call.Prompt) == 2 {
			want = 0.3
		}
		if call.Temperature != want {
			t.Errorf("pass %d temperature = %v, want %v", passOf(call.Prompt), call.Temperature, want)
		}
	}
}

func TestCalibrate(t *testing.T) {
	tests := []struct {
		name      string
		raw       float64
		precision float64
		consensus bool
		want      float64
	}{
		{"no history discounts hardest", 0.9, 0.0, false, 0.63},
		{"perfect precision keeps raw", 0.9, 1.0, false, 0.9},
		{"consensus bonus", 0.9, 1.0, true, 0.99},
		{"bonus capped at 1.0", 1.0, 1.0, true, 1.0},
		{"midrange precision", 0.8, 0.5, false, 0.68},
		{"zero confidence stays zero", 0.0, 1.0, true, 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := engine.Calibrate(tt.raw, tt.precision, tt.consensus)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Calibrate(%v, %v, %t) = %v, want %v", tt.raw, tt.precision, tt.consensus, got, tt.want)
			}
		})
	}
}

func TestEvaluateAutoApproval(t *testing.T) {
	o := &scriptedOracle{
		respond: func(req oracle.Request) (string, error) {
			return notFlagged(checkOf(req.Prompt)), nil
		},
	}

	precision := fixedPrecision{policy.CategoryPublic: 0.96}
	e := newEngine(t, o, precision, defaultOptions())

	result := e.Evaluate(context.Background(), engine.Document{ID: uuid.New(), Content: "press release"}, safeResult())

	if result.OriginalConfidence != 0.95 {
		t.Errorf("OriginalConfidence = %v, want 0.95", result.OriginalConfidence)
	}
	// 0.95 * (0.7 + 0.3*0.96) = 0.9386, consensus bonus caps at 1.0.
	if result.Confidence != 1.0 {
		t.Errorf("Confidence = %v, want 1.0", result.Confidence)
	}
	if result.Status != engine.StatusAutoApproved {
		t.Errorf("Status = %s, want AUTO_APPROVED", result.Status)
	}
	if result.AutoApprovalProbability == nil || *result.AutoApprovalProbability != 1.0 {
		t.Errorf("AutoApprovalProbability = %v, want 1.0", result.AutoApprovalProbability)
	}
	if !strings.Contains(result.StatusReasoning, "consensus validation") {
		t.Errorf("StatusReasoning = %q, want consensus validation mention", result.StatusReasoning)
	}
	if result.Safety == nil || !result.Safety.IsSafe {
		t.Errorf("Safety = %v, want attached safe result", result.Safety)
	}
	if result.ChildSafe == nil || !*result.ChildSafe {
		t.Errorf("ChildSafe = %v, want true", result.ChildSafe)
	}
}

func TestEvaluateBelowThresholdRequiresReview(t *testing.T) {
	options := defaultOptions()
	options.DualValidation = false

	o := &scriptedOracle{
		respond: func(req oracle.Request) (string, error) {
			return notFlagged(checkOf(req.Prompt)), nil
		},
	}

	e := newEngine(t, o, fixedPrecision{}, options)
	result := e.Evaluate(context.Background(), engine.Document{ID: uuid.New(), Content: "press release"}, safeResult())

	// 0.95 * 0.7 = 0.665 calibrated: only the safety factor contributes.
	if result.Status != engine.StatusRequiresReview {
		t.Errorf("Status = %s, want REQUIRES_REVIEW", result.Status)
	}
	if result.AutoApprovalProbability == nil || math.Abs(*result.AutoApprovalProbability-0.1) > 1e-9 {
		t.Errorf("AutoApprovalProbability = %v, want 0.1", result.AutoApprovalProbability)
	}
	if !strings.Contains(result.StatusReasoning, "below threshold") {
		t.Errorf("StatusReasoning = %q, want threshold explanation", result.StatusReasoning)
	}
}

func TestEvaluateUnsafeNeverAutoApproved(t *testing.T) {
	o := &scriptedOracle{
		respond: func(req oracle.Request) (string, error) {
			check := checkOf(req.Prompt)
			if check == policy.CategoryUnsafe {
				return verdict(policy.Check{Category: check}, true, 0.99, "explicit threat"), nil
			}
			return notFlagged(check), nil
		},
	}

	precision := fixedPrecision{policy.CategoryUnsafe: 1.0}
	e := newEngine(t, o, precision, defaultOptions())

	result := e.Evaluate(context.Background(), engine.Document{ID: uuid.New(), Content: "threat"}, safeResult())

	if result.Category != policy.CategoryUnsafe {
		t.Fatalf("Category = %s, want UNSAFE", result.Category)
	}
	if result.Status != engine.StatusRequiresReview {
		t.Errorf("Status = %s, want REQUIRES_REVIEW regardless of score", result.Status)
	}
	if !strings.HasPrefix(result.StatusReasoning, "UNSAFE classification always requires human review.") {
		t.Errorf("StatusReasoning = %q, want UNSAFE override explanation", result.StatusReasoning)
	}
}

func TestBlocked(t *testing.T) {
	doc := engine.Document{ID: uuid.New(), Content: "blocked content"}
	safetyResult := safety.Result{
		IsSafe:            false,
		SafetyScore:       0.2,
		Violations:        []string{"violence: Pattern match found - [bomb]", "hate speech detected"},
		CategoriesFlagged: []string{"violence", "hate_speech"},
		ChildSafe:         false,
	}

	result := engine.Blocked(doc, safetyResult)

	if result.DocumentID != doc.ID {
		t.Errorf("DocumentID = %s, want %s", result.DocumentID, doc.ID)
	}
	if result.Category != policy.CategoryUnsafe {
		t.Errorf("Category = %s, want UNSAFE", result.Category)
	}
	if result.Confidence != 1.0 {
		t.Errorf("Confidence = %v, want 1.0", result.Confidence)
	}
	want := "Content safety validation failed. Violations: violence: Pattern match found - [bomb], hate speech detected. This content has been flagged for: violence, hate_speech."
	if result.Reasoning != want {
		t.Errorf("Reasoning = %q, want %q", result.Reasoning, want)
	}
	if result.Citation != "Multiple safety violations detected" {
		t.Errorf("Citation = %q", result.Citation)
	}
	if result.Status != engine.StatusRequiresReview {
		t.Errorf("Status = %s, want REQUIRES_REVIEW", result.Status)
	}
	if result.Consensus == nil || !*result.Consensus {
		t.Errorf("Consensus = %v, want true", result.Consensus)
	}
	if result.Safety == nil || result.Safety.SafetyScore != 0.2 {
		t.Errorf("Safety = %v, want attached result", result.Safety)
	}
	if result.ChildSafe == nil || *result.ChildSafe {
		t.Errorf("ChildSafe = %v, want false", result.ChildSafe)
	}
}
