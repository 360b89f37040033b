// Package safety implements the three-layer content safety screen that
// gates every classification: a pattern pre-screen, an oracle-based deep
// check, and a child-safety-specific check. All three layers always run;
// their findings are unioned. Oracle failures fail closed.
package safety

// Result is the outcome of a full safety validation.
type Result struct {
	IsSafe            bool     `json:"is_safe"`
	SafetyScore       float64  `json:"safety_score"`
	Violations        []string `json:"violations"`
	CategoriesFlagged []string `json:"categories_flagged"`
	ChildSafe         bool     `json:"child_safe"`
	Recommendations   []string `json:"recommendations"`
	Detail            Detail   `json:"detail"`
}

// Detail preserves each layer's individual findings for audit.
type Detail struct {
	Pattern PatternResult `json:"pattern_check"`
	Deep    DeepResult    `json:"ai_check"`
	Child   ChildResult   `json:"child_safety_check"`
}

// PatternResult is the outcome of the regex pre-screen layer.
type PatternResult struct {
	Flagged    bool     `json:"flagged"`
	Categories []string `json:"categories"`
	Violations []string `json:"violations"`
}

// DeepResult is the structured verdict of the oracle deep-check layer.
type DeepResult struct {
	IsSafe      bool     `json:"is_safe"`
	SafetyScore float64  `json:"safety_score"`
	Violations  []string `json:"violations"`
	Categories  []string `json:"categories"`
	Severity    string   `json:"severity"`
	Reasoning   string   `json:"reasoning"`
}

// ChildResult is the structured verdict of the child-safety layer.
type ChildResult struct {
	IsChildSafe    bool     `json:"is_child_safe"`
	AgeAppropriate string   `json:"age_appropriate"`
	Concerns       []string `json:"concerns"`
	Reason         string   `json:"reason"`
}
