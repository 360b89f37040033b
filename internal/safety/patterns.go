package safety

import (
	"fmt"
	"regexp"
)

// patternCategory is a named group of compiled unsafe-content patterns.
// Each category reports at most one violation regardless of how many of
// its patterns match.
type patternCategory struct {
	name     string
	patterns []*regexp.Regexp
}

// unsafePatterns is the fast pre-screen layer. Patterns run against
// lowercased content, so the expressions themselves stay lowercase.
var unsafePatterns = []patternCategory{
	{
		name: "violence",
		patterns: compile(
			`\b(kill|murder|assault|attack|weapon|gun|knife|bomb|explosive)\b`,
			`\b(violence|violent|harm|hurt|injure|wound)\b`,
			`\b(threat|threatening|terroris[mt]|radical)\b`,
		),
	},
	{
		name: "hate_speech",
		patterns: compile(
			`\b(hate|hatred|racist|racism|sexist|sexism|discrimination)\b`,
			`\b(slur|derogatory|offensive|insult)\b`,
			`\b(supremac[yi]|extremis[mt]|bigot)\b`,
		),
	},
	{
		name: "explicit_content",
		patterns: compile(
			`\b(porn|pornograph[yi]|xxx|explicit|sexual|nude|naked)\b`,
			`\b(adult content|nsfw|mature content)\b`,
		),
	},
	{
		name: "child_safety",
		patterns: compile(
			`\b(child|children|minor|kid|teen|adolescent|youth)\b.*\b(abuse|exploitation|harm|danger)`,
			`\b(predator|grooming|inappropriate contact)\b`,
			`\b(age.*verification|parental.*consent)\b`,
		),
	},
	{
		name: "dangerous_activities",
		patterns: compile(
			`\b(suicide|self-harm|self harm)\b`,
			`\b(drug|narcotic|illegal substance)\b`,
			`\b(instruct.*\w*.*harm|how to.*\w*.*damage)\b`,
		),
	},
	{
		name: "illegal_content",
		patterns: compile(
			`\b(illegal|unlawful|criminal|contraband)\b`,
			`\b(fraud|scam|phishing|malware)\b`,
			`\b(piracy|counterfeit|stolen)\b`,
		),
	},
}

func compile(exprs ...string) []*regexp.Regexp {
	compiled := make([]*regexp.Regexp, len(exprs))
	for i, expr := range exprs {
		compiled[i] = regexp.MustCompile(expr)
	}
	return compiled
}

// maxReportedMatches caps how many matched terms a single violation
// message quotes.
const maxReportedMatches = 3

// patternCheck screens lowercased content against every category and
// reports the first matching pattern per category.
func patternCheck(lower string) PatternResult {
	result := PatternResult{
		Categories: []string{},
		Violations: []string{},
	}

	for _, category := range unsafePatterns {
		for _, pattern := range category.patterns {
			matches := pattern.FindAllString(lower, maxReportedMatches)
			if len(matches) == 0 {
				continue
			}

			result.Categories = append(result.Categories, category.name)
			result.Violations = append(
				result.Violations,
				fmt.Sprintf("%s: Pattern match found - %v", category.name, matches),
			)
			break
		}
	}

	result.Flagged = len(result.Categories) > 0
	return result
}
