package policy

// PIIPattern describes one named PII pattern with its severity and
// example values.
type PIIPattern struct {
	Name     string   `json:"name"`
	Severity string   `json:"severity"`
	Examples []string `json:"examples"`
}

// PIIRiskTier groups the patterns of one risk level.
type PIIRiskTier struct {
	Description string       `json:"description"`
	Patterns    []PIIPattern `json:"patterns"`
}

// PIIKeywords is a keyword list indicating one class of restricted
// content.
type PIIKeywords struct {
	Description string   `json:"description"`
	Keywords    []string `json:"keywords"`
}

// PIIPatterns is the PII detection section of the policy knowledge
// base: risk-tiered patterns plus financial and technical indicator
// keywords, folded into every oracle prompt.
type PIIPatterns struct {
	HighRisk            PIIRiskTier `json:"high_risk"`
	MediumRisk          PIIRiskTier `json:"medium_risk"`
	FinancialIndicators PIIKeywords `json:"financial_indicators"`
	TechnicalIndicators PIIKeywords `json:"technical_indicators"`
}

type piiDocument struct {
	PIIPatterns PIIPatterns `json:"pii_patterns"`
}
