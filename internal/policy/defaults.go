package policy

// Built-in policy definitions used when no policy documents exist in the
// policy directory. The criteria text mirrors the enterprise classification
// policy the oracle prompts are grounded on.
func defaultDefinitions() []Definition {
	return []Definition{
		{
			Name:        string(CategoryUnsafe),
			Priority:    1,
			Description: "Content that is harmful, dangerous, or explicitly prohibited",
			Criteria: []string{
				"Violent, threatening, or harmful content",
				"Instructions for illegal activities",
				"Malware, exploits, or security vulnerabilities",
				"Content promoting harm to individuals or groups",
				"Explicitly prohibited content per enterprise policies",
			},
		},
		{
			Name:        string(CategoryConfidential),
			Priority:    2,
			Description: "Business-critical material restricted to authorized personnel",
			Criteria: []string{
				"Trade secrets and proprietary algorithms",
				"Financial records and banking information",
				"Legal documents under attorney-client privilege",
				"Merger & acquisition plans",
				"Executive compensation details",
				"Source code and intellectual property",
				"Customer databases with high-risk PII (SSN, credit cards, medical records)",
			},
			PIIPatterns: []string{
				"SSN: XXX-XX-XXXX format",
				"Credit cards: 16 digits",
				"Bank accounts: 8-17 digits",
				"Medical record numbers",
				"Passport numbers",
			},
		},
		{
			Name:        string(CategorySensitive),
			Priority:    3,
			Description: "Internal material not intended for external distribution",
			Criteria: []string{
				"Internal memos and communications",
				"Employee contact information",
				"Draft documents not for external distribution",
				"Internal project plans",
				"Budget information (non-executive)",
				"Customer feedback and survey data",
				"Performance reviews",
			},
			PIIPatterns: []string{
				"Email addresses",
				"Phone numbers",
				"Physical addresses",
				"Employee IDs",
				"Dates of birth",
			},
		},
		{
			Name:        string(CategoryPublic),
			Priority:    4,
			Description: "Material suitable for unrestricted distribution",
			Criteria: []string{
				"Published marketing material",
				"Press releases",
				"Public documentation",
			},
		},
	}
}
