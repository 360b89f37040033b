// Package policy implements the classification policy domain for Arbiter.
// It owns the category set, the ordered check descriptors consumed by the
// classification cascade, and the policy knowledge base (category
// definitions, PII patterns, and validated examples) that grounds every
// oracle prompt.
package policy

import (
	"encoding/json"
	"slices"
)

// Category represents a document sensitivity tier.
type Category string

// Sensitivity tiers in decreasing priority order. UNSAFE is always
// evaluated first; PUBLIC is the fallback when no check flags.
const (
	CategoryUnsafe       Category = "UNSAFE"
	CategoryConfidential Category = "CONFIDENTIAL"
	CategorySensitive    Category = "SENSITIVE"
	CategoryPublic       Category = "PUBLIC"
)

var categories = []Category{
	CategoryUnsafe,
	CategoryConfidential,
	CategorySensitive,
	CategoryPublic,
}

// Categories returns the closed category set in priority order.
func Categories() []Category {
	return categories
}

// ParseCategory validates a string as a known category.
// Returns ErrInvalidCategory if the value is not recognized.
func ParseCategory(s string) (Category, error) {
	v := Category(s)
	if !slices.Contains(categories, v) {
		return "", ErrInvalidCategory
	}
	return v, nil
}

// UnmarshalJSON validates that the decoded string is a known category value.
func (c *Category) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	v := Category(raw)
	if !slices.Contains(categories, v) {
		return ErrInvalidCategory
	}
	*c = v
	return nil
}

// Priority returns the evaluation priority of the category (1 = checked first).
func (c Category) Priority() int {
	return slices.Index(categories, c) + 1
}

// Check describes a single policy check in the classification cascade.
// Checks are evaluated in Priority order; the PUBLIC fallback is not a
// check and never consults the oracle.
type Check struct {
	Category Category `json:"category"`
	Priority int      `json:"priority"`
	Enabled  bool     `json:"enabled"`
}

// FlagField returns the JSON field name the oracle uses to report this
// check's verdict (is_unsafe, is_confidential, is_sensitive).
func (c Check) FlagField() string {
	switch c.Category {
	case CategoryUnsafe:
		return "is_unsafe"
	case CategoryConfidential:
		return "is_confidential"
	case CategorySensitive:
		return "is_sensitive"
	}
	return ""
}

// Definition holds the policy text for a single category: what the
// category means and the criteria the oracle is instructed to apply.
type Definition struct {
	Name        string   `json:"name"`
	Priority    int      `json:"priority"`
	Description string   `json:"description"`
	Criteria    []string `json:"criteria"`
	PIIPatterns []string `json:"pii_patterns,omitempty"`
}

// Example is an SME-validated classification example ingested into the
// knowledge base, either seeded or added through HITL review.
type Example struct {
	DocumentType   string   `json:"document_type"`
	ContentSnippet string   `json:"content_snippet"`
	Classification Category `json:"classification"`
	Confidence     float64  `json:"confidence"`
	Reasoning      string   `json:"reasoning"`
	Citations      string   `json:"citations"`
}
