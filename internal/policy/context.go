package policy

import (
	"fmt"
	"strings"
)

// Context returns the policy context prepended to every oracle prompt:
// the category definitions in priority order and the decision-tree
// evaluation instructions.
func (p *Policy) Context() string {
	var sb strings.Builder

	sb.WriteString("You have access to the Enterprise Classification Policy.\n")
	sb.WriteString("Use this policy to ground your classification decisions.\n\n")
	sb.WriteString("Key Categories (in priority order):\n")

	for _, def := range p.definitions {
		fmt.Fprintf(&sb, "  %d. %s: %s\n", def.Priority, def.Name, def.Description)
	}

	sb.WriteString("\nIMPORTANT: Follow the classification decision tree:\n")
	sb.WriteString("  1. Check UNSAFE first (highest priority)\n")
	sb.WriteString("  2. Then check CONFIDENTIAL\n")
	sb.WriteString("  3. Then check SENSITIVE\n")
	sb.WriteString("  4. Default to PUBLIC only if none of the above apply\n")

	p.writePII(&sb)

	if examples := p.Examples(); len(examples) > 0 {
		sb.WriteString("\nValidated classification examples:\n")
		for i, ex := range examples {
			fmt.Fprintf(&sb, "\nExample %d: %s\n", i+1, ex.DocumentType)
			fmt.Fprintf(&sb, "Content: %s\n", ex.ContentSnippet)
			fmt.Fprintf(&sb, "Classification: %s\n", ex.Classification)
			fmt.Fprintf(&sb, "Reasoning: %s\n", ex.Reasoning)
		}
	}

	return sb.String()
}

func (p *Policy) writePII(sb *strings.Builder) {
	if p.pii == nil {
		return
	}

	sb.WriteString("\nPII DETECTION PATTERNS:\n")

	writeTier := func(heading string, tier PIIRiskTier) {
		fmt.Fprintf(sb, "\n%s:\n", heading)
		if tier.Description != "" {
			fmt.Fprintf(sb, "%s\n", tier.Description)
		}
		for _, pattern := range tier.Patterns {
			fmt.Fprintf(sb, "- %s (%s): %s\n",
				pattern.Name, pattern.Severity, strings.Join(pattern.Examples, ", "))
		}
	}

	writeKeywords := func(heading string, kw PIIKeywords) {
		fmt.Fprintf(sb, "\n%s:\n", heading)
		for _, keyword := range kw.Keywords {
			fmt.Fprintf(sb, "  - %s\n", keyword)
		}
	}

	writeTier("High risk PII (CONFIDENTIAL)", p.pii.HighRisk)
	writeTier("Medium risk PII (SENSITIVE)", p.pii.MediumRisk)
	writeKeywords("Financial/confidential indicators", p.pii.FinancialIndicators)
	writeKeywords("Technical/confidential indicators", p.pii.TechnicalIndicators)
}

// CheckPrompt composes the full oracle prompt for a single policy check:
// policy context, validation pass marker, the category's task definition,
// the document content, and the required JSON response shape.
func (p *Policy) CheckPrompt(check Check, pass int, content string) string {
	def, _ := p.Definition(check.Category)

	var sb strings.Builder
	sb.WriteString(p.Context())

	fmt.Fprintf(&sb, "\nVALIDATION PASS: %d\n", pass)
	fmt.Fprintf(&sb, "\nTASK: Analyze the following document for %s content.\n", check.Category)

	fmt.Fprintf(&sb, "\n%s content includes:\n", check.Category)
	for _, criterion := range def.Criteria {
		fmt.Fprintf(&sb, "- %s\n", criterion)
	}

	if len(def.PIIPatterns) > 0 {
		sb.WriteString("\nPII PATTERNS:\n")
		for _, pattern := range def.PIIPatterns {
			fmt.Fprintf(&sb, "- %s\n", pattern)
		}
	}

	fmt.Fprintf(&sb, "\nDOCUMENT CONTENT:\n%s\n", content)

	sb.WriteString("\nRespond in JSON format:\n{\n")
	fmt.Fprintf(&sb, "    %q: true/false,\n", check.FlagField())
	sb.WriteString("    \"confidence\": 0.0-1.0,\n")
	sb.WriteString("    \"reasoning\": \"Detailed explanation citing specific evidence\",\n")
	sb.WriteString("    \"citation\": \"Exact quote and location of the detected content\",\n")
	sb.WriteString("    \"pii_found\": [\"list of PII types detected\"]\n}\n")

	return sb.String()
}
