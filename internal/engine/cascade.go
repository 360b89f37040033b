package engine

import (
	"context"

	"github.com/arbiterhq/arbiter/internal/oracle"
	"github.com/arbiterhq/arbiter/internal/policy"
	"github.com/arbiterhq/arbiter/pkg/formatting"
)

// PUBLIC fallback constants. The fallback never consults the oracle and
// always reports the same verdict.
const (
	publicConfidence = 0.95
	publicReasoning  = "Document contains no unsafe, confidential, or sensitive information. Suitable for public distribution."
	publicCitation   = "No restricted content found"
)

// checkVerdict is the oracle's structured answer to a single policy
// check. Flag fields are pointers so a missing field is distinguishable
// from an explicit false.
type checkVerdict struct {
	IsUnsafe       *bool    `json:"is_unsafe"`
	IsConfidential *bool    `json:"is_confidential"`
	IsSensitive    *bool    `json:"is_sensitive"`
	Confidence     float64  `json:"confidence"`
	Reasoning      string   `json:"reasoning"`
	Citation       string   `json:"citation"`
	PIIFound       []string `json:"pii_found"`
}

func (v checkVerdict) flagged(check policy.Check) bool {
	var flag *bool

	switch check.Category {
	case policy.CategoryUnsafe:
		flag = v.IsUnsafe
	case policy.CategoryConfidential:
		flag = v.IsConfidential
	case policy.CategorySensitive:
		flag = v.IsSensitive
	}

	return flag != nil && *flag
}

// passResult is the outcome of one full cascade pass.
type passResult struct {
	Category   policy.Category
	Confidence float64
	Reasoning  string
	Citation   string
}

// classifyPass runs the check cascade once at the given pass's
// temperature. The first flagging check short-circuits the cascade; if
// no check flags, the PUBLIC fallback applies.
func (e *Engine) classifyPass(ctx context.Context, doc Document, pass int) passResult {
	for _, check := range e.policy.Checks() {
		if !check.Enabled {
			continue
		}

		verdict, err := e.runCheck(ctx, check, doc, pass)
		if err != nil {
			e.logger.Warn(
				"policy check degraded",
				"document_id", doc.ID,
				"category", check.Category,
				"pass", pass,
				"error", err,
			)
			continue
		}

		if verdict.flagged(check) {
			citation := verdict.Citation
			if citation == "" {
				citation = string(check.Category) + " content detected"
			}

			return passResult{
				Category:   check.Category,
				Confidence: verdict.Confidence,
				Reasoning:  verdict.Reasoning,
				Citation:   citation,
			}
		}
	}

	return passResult{
		Category:   policy.CategoryPublic,
		Confidence: publicConfidence,
		Reasoning:  publicReasoning,
		Citation:   publicCitation,
	}
}

func (e *Engine) runCheck(ctx context.Context, check policy.Check, doc Document, pass int) (checkVerdict, error) {
	temperature := e.options.PassOneTemperature
	if pass != 1 {
		temperature = e.options.PassTwoTemperature
	}

	response, err := e.oracle.Generate(ctx, oracle.Request{
		Prompt:      e.policy.CheckPrompt(check, pass, doc.Content),
		Temperature: temperature,
	})
	if err != nil {
		return checkVerdict{}, err
	}

	verdict, err := formatting.Parse[checkVerdict](response)
	if err != nil {
		return checkVerdict{}, err
	}

	return verdict, nil
}
