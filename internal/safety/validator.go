package safety

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/arbiterhq/arbiter/internal/oracle"
	"github.com/arbiterhq/arbiter/pkg/formatting"
)

// Sampling limits for the oracle-backed layers.
const (
	deepCheckSampleLimit  = 5000
	childCheckSampleLimit = 3000
)

// Validator runs the three-layer safety screen. All oracle calls use
// temperature zero so repeated checks of the same content agree.
type Validator struct {
	oracle oracle.Oracle
	logger *slog.Logger
}

func NewValidator(o oracle.Oracle, logger *slog.Logger) *Validator {
	return &Validator{
		oracle: o,
		logger: logger.With("system", "safety"),
	}
}

// Validate screens content through all three layers and unions their
// findings. A failure in any oracle layer degrades to a conservative
// verdict rather than an error; content is never passed on an
// incomplete check.
func (v *Validator) Validate(ctx context.Context, content string) Result {
	result := Result{
		IsSafe:            true,
		SafetyScore:       1.0,
		Violations:        []string{},
		CategoriesFlagged: []string{},
		ChildSafe:         true,
		Recommendations:   []string{},
	}

	pattern := patternCheck(strings.ToLower(content))
	if pattern.Flagged {
		result.IsSafe = false
		result.Violations = append(result.Violations, pattern.Violations...)
		result.CategoriesFlagged = append(result.CategoriesFlagged, pattern.Categories...)
	}

	deep := v.deepCheck(ctx, content)
	if !deep.IsSafe {
		result.IsSafe = false
		result.Violations = append(result.Violations, deep.Violations...)
		result.CategoriesFlagged = append(result.CategoriesFlagged, deep.Categories...)
		result.SafetyScore = min(result.SafetyScore, deep.SafetyScore)
	}

	child := v.childCheck(ctx, content)
	result.ChildSafe = child.IsChildSafe
	if !child.IsChildSafe {
		result.IsSafe = false
		result.Violations = append(result.Violations, child.Reason)
	}

	if !result.IsSafe {
		result.Recommendations = recommendations(result.CategoriesFlagged)
	}

	result.CategoriesFlagged = dedupe(result.CategoriesFlagged)
	result.Violations = dedupe(result.Violations)

	result.Detail = Detail{
		Pattern: pattern,
		Deep:    deep,
		Child:   child,
	}

	return result
}

const deepCheckPrompt = `You are a content safety validator. Analyze the following content for safety violations.

SAFETY CATEGORIES TO CHECK:
1. Violence/Threats: Content promoting or describing violence, threats, weapons
2. Hate Speech: Discriminatory, racist, sexist, or hateful content
3. Explicit Content: Sexually explicit or pornographic material
4. Child Safety: Content inappropriate for children or child exploitation
5. Dangerous Activities: Instructions for self-harm, illegal drugs, dangerous acts
6. Illegal Content: Fraud, malware, piracy, criminal activities

CONTENT TO ANALYZE:
%s

Respond in JSON format:
{
    "is_safe": true/false,
    "safety_score": 0.0-1.0,
    "violations": ["list of specific violations found"],
    "categories": ["list of safety categories violated"],
    "severity": "low/medium/high/critical",
    "reasoning": "detailed explanation"
}`

func (v *Validator) deepCheck(ctx context.Context, content string) DeepResult {
	prompt := fmt.Sprintf(deepCheckPrompt, sample(content, deepCheckSampleLimit))

	response, err := v.oracle.Generate(ctx, oracle.Request{
		Prompt:      prompt,
		Temperature: 0.0,
	})
	if err == nil {
		var verdict DeepResult
		verdict, err = formatting.Parse[DeepResult](response)
		if err == nil {
			return verdict
		}
	}

	v.logger.Warn("deep safety check failed, failing closed", "error", err)

	return DeepResult{
		IsSafe:      false,
		SafetyScore: 0.5,
		Violations:  []string{fmt.Sprintf("Safety check failed: %v", err)},
		Categories:  []string{"check_error"},
		Severity:    "medium",
		Reasoning:   "Unable to complete safety validation",
	}
}

const childCheckPrompt = `You are a child safety expert. Determine if the following content is safe for children under 13 (COPPA compliance).

CHILD SAFETY CRITERIA:
- No inappropriate or mature content
- No collection of personal information from minors
- No content that could endanger children
- No violence, explicit material, or scary content
- Educational or age-appropriate material only

CONTENT:
%s

Respond in JSON format:
{
    "is_child_safe": true/false,
    "age_appropriate": "all_ages/13+/17+/18+",
    "concerns": ["list of child safety concerns"],
    "reason": "brief explanation"
}`

func (v *Validator) childCheck(ctx context.Context, content string) ChildResult {
	prompt := fmt.Sprintf(childCheckPrompt, sample(content, childCheckSampleLimit))

	response, err := v.oracle.Generate(ctx, oracle.Request{
		Prompt:      prompt,
		Temperature: 0.0,
	})
	if err == nil {
		var verdict ChildResult
		verdict, err = formatting.Parse[ChildResult](response)
		if err == nil {
			return verdict
		}
	}

	v.logger.Warn("child safety check failed, failing closed", "error", err)

	return ChildResult{
		IsChildSafe:    false,
		AgeAppropriate: "18+",
		Concerns:       []string{"Unable to verify child safety"},
		Reason:         fmt.Sprintf("Safety check error: %v", err),
	}
}

// recommendations maps flagged categories to fixed handling guidance.
func recommendations(flagged []string) []string {
	recs := []string{}

	if slices.Contains(flagged, "violence") {
		recs = append(recs, "Content contains violent or threatening material. Mark as UNSAFE and require escalation.")
	}
	if slices.Contains(flagged, "hate_speech") {
		recs = append(recs, "Content contains hate speech or discriminatory language. Immediate rejection required.")
	}
	if slices.Contains(flagged, "explicit_content") {
		recs = append(recs, "Explicit or adult content detected. Mark as UNSAFE and restrict access.")
	}
	if slices.Contains(flagged, "child_safety") {
		recs = append(recs, "Child safety concerns identified. URGENT: Escalate to compliance team immediately.")
	}
	if slices.Contains(flagged, "dangerous_activities") {
		recs = append(recs, "Content promotes dangerous activities. Mark as UNSAFE and consider reporting.")
	}
	if slices.Contains(flagged, "illegal_content") {
		recs = append(recs, "Potentially illegal content detected. Legal review required.")
	}

	if len(recs) == 0 {
		recs = append(recs, "General safety violation detected. Review required before classification.")
	}

	return recs
}

func sample(content string, limit int) string {
	if len(content) > limit {
		return content[:limit]
	}
	return content
}

func dedupe(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))

	for _, value := range values {
		if _, ok := seen[value]; ok {
			continue
		}
		seen[value] = struct{}{}
		out = append(out, value)
	}

	return out
}
