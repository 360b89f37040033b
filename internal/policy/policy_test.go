package policy_test

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/arbiterhq/arbiter/internal/policy"
)

func TestCategories(t *testing.T) {
	got := policy.Categories()
	want := []policy.Category{
		policy.CategoryUnsafe,
		policy.CategoryConfidential,
		policy.CategorySensitive,
		policy.CategoryPublic,
	}

	if len(got) != len(want) {
		t.Fatalf("Categories() length = %d, want %d", len(got), len(want))
	}
	for i := range got {
		if got[i] != want[i] {
			t.Errorf("Categories()[%d] = %s, want %s", i, got[i], want[i])
		}
	}
}

func TestCategoryPriority(t *testing.T) {
	tests := []struct {
		category policy.Category
		want     int
	}{
		{policy.CategoryUnsafe, 1},
		{policy.CategoryConfidential, 2},
		{policy.CategorySensitive, 3},
		{policy.CategoryPublic, 4},
	}

	for _, tt := range tests {
		if got := tt.category.Priority(); got != tt.want {
			t.Errorf("%s.Priority() = %d, want %d", tt.category, got, tt.want)
		}
	}
}

func TestParseCategory(t *testing.T) {
	if _, err := policy.ParseCategory("CONFIDENTIAL"); err != nil {
		t.Errorf("ParseCategory(CONFIDENTIAL) err = %v, want nil", err)
	}
	if _, err := policy.ParseCategory("SECRET"); !errors.Is(err, policy.ErrInvalidCategory) {
		t.Errorf("ParseCategory(SECRET) err = %v, want ErrInvalidCategory", err)
	}
	if _, err := policy.ParseCategory("confidential"); !errors.Is(err, policy.ErrInvalidCategory) {
		t.Errorf("ParseCategory is case-sensitive; err = %v, want ErrInvalidCategory", err)
	}
}

func TestCategoryUnmarshalJSON(t *testing.T) {
	var c policy.Category
	if err := json.Unmarshal([]byte(`"SENSITIVE"`), &c); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if c != policy.CategorySensitive {
		t.Errorf("category = %s, want SENSITIVE", c)
	}

	if err := json.Unmarshal([]byte(`"TOP_SECRET"`), &c); !errors.Is(err, policy.ErrInvalidCategory) {
		t.Errorf("err = %v, want ErrInvalidCategory", err)
	}
}

func TestCheckFlagField(t *testing.T) {
	tests := []struct {
		category policy.Category
		want     string
	}{
		{policy.CategoryUnsafe, "is_unsafe"},
		{policy.CategoryConfidential, "is_confidential"},
		{policy.CategorySensitive, "is_sensitive"},
		{policy.CategoryPublic, ""},
	}

	for _, tt := range tests {
		check := policy.Check{Category: tt.category}
		if got := check.FlagField(); got != tt.want {
			t.Errorf("FlagField(%s) = %q, want %q", tt.category, got, tt.want)
		}
	}
}

func TestLoadDefaults(t *testing.T) {
	p, err := policy.Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	checks := p.Checks()
	if len(checks) != 3 {
		t.Fatalf("Checks() length = %d, want 3 (PUBLIC excluded)", len(checks))
	}

	want := []policy.Category{
		policy.CategoryUnsafe,
		policy.CategoryConfidential,
		policy.CategorySensitive,
	}
	for i, check := range checks {
		if check.Category != want[i] {
			t.Errorf("Checks()[%d] = %s, want %s", i, check.Category, want[i])
		}
		if !check.Enabled {
			t.Errorf("Checks()[%d].Enabled = false, want true", i)
		}
	}

	def, ok := p.Definition(policy.CategoryConfidential)
	if !ok {
		t.Fatal("CONFIDENTIAL definition missing")
	}
	if len(def.Criteria) == 0 || len(def.PIIPatterns) == 0 {
		t.Errorf("CONFIDENTIAL definition incomplete: %+v", def)
	}
}

func TestLoadRejectsBadOrdering(t *testing.T) {
	dir := t.TempDir()
	doc := map[string]any{
		"categories": []map[string]any{
			{"name": "UNSAFE", "priority": 2, "description": "x", "criteria": []string{"a"}},
			{"name": "CONFIDENTIAL", "priority": 1, "description": "x", "criteria": []string{"a"}},
		},
	}
	writeJSON(t, filepath.Join(dir, "categories.json"), doc)

	if _, err := policy.Load(dir); !errors.Is(err, policy.ErrBadOrdering) {
		t.Errorf("Load err = %v, want ErrBadOrdering", err)
	}
}

func TestLoadRejectsUnknownCategory(t *testing.T) {
	dir := t.TempDir()
	doc := map[string]any{
		"categories": []map[string]any{
			{"name": "RESTRICTED", "priority": 1, "description": "x", "criteria": []string{"a"}},
		},
	}
	writeJSON(t, filepath.Join(dir, "categories.json"), doc)

	if _, err := policy.Load(dir); !errors.Is(err, policy.ErrLoadFailed) {
		t.Errorf("Load err = %v, want ErrLoadFailed", err)
	}
}

func TestContext(t *testing.T) {
	p, err := policy.Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	context := p.Context()

	for _, want := range []string{
		"Enterprise Classification Policy",
		"Key Categories (in priority order):",
		"1. UNSAFE:",
		"4. PUBLIC:",
		"Check UNSAFE first (highest priority)",
		"Default to PUBLIC only if none of the above apply",
	} {
		if !strings.Contains(context, want) {
			t.Errorf("Context() missing %q", want)
		}
	}

	if strings.Contains(context, "Validated classification examples") {
		t.Error("Context() lists examples with an empty knowledge base")
	}
}

func TestContextIncludesExamples(t *testing.T) {
	p, err := policy.Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if err := p.AddExample("Internal budget draft", policy.CategorySensitive, "SME corrected", "budget table", "spreadsheet"); err != nil {
		t.Fatalf("AddExample failed: %v", err)
	}

	context := p.Context()
	for _, want := range []string{
		"Validated classification examples:",
		"Example 1: spreadsheet",
		"Content: Internal budget draft",
		"Classification: SENSITIVE",
	} {
		if !strings.Contains(context, want) {
			t.Errorf("Context() missing %q", want)
		}
	}
}

func TestLoadPIIPatterns(t *testing.T) {
	dir := t.TempDir()
	doc := map[string]any{
		"pii_patterns": map[string]any{
			"high_risk": map[string]any{
				"description": "Identifiers requiring CONFIDENTIAL handling",
				"patterns": []map[string]any{
					{"name": "SSN", "severity": "critical", "examples": []string{"123-45-6789"}},
				},
			},
			"medium_risk": map[string]any{
				"patterns": []map[string]any{
					{"name": "Phone Number", "severity": "moderate", "examples": []string{"(555) 123-4567"}},
				},
			},
			"financial_indicators": map[string]any{
				"keywords": []string{"wire transfer", "routing number"},
			},
			"technical_indicators": map[string]any{
				"keywords": []string{"api key", "private key"},
			},
		},
	}
	writeJSON(t, filepath.Join(dir, "pii_patterns.json"), doc)

	p, err := policy.Load(dir)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	context := p.Context()
	for _, want := range []string{
		"PII DETECTION PATTERNS:",
		"High risk PII (CONFIDENTIAL):",
		"Identifiers requiring CONFIDENTIAL handling",
		"- SSN (critical): 123-45-6789",
		"Medium risk PII (SENSITIVE):",
		"- Phone Number (moderate): (555) 123-4567",
		"Financial/confidential indicators:",
		"  - wire transfer",
		"Technical/confidential indicators:",
		"  - api key",
	} {
		if !strings.Contains(context, want) {
			t.Errorf("Context() missing %q", want)
		}
	}
}

func TestContextWithoutPIIDocument(t *testing.T) {
	p, err := policy.Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if strings.Contains(p.Context(), "PII DETECTION PATTERNS") {
		t.Error("Context() lists PII patterns without a patterns document")
	}
}

func TestCheckPrompt(t *testing.T) {
	p, err := policy.Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	check := policy.Check{Category: policy.CategoryConfidential, Priority: 2, Enabled: true}
	prompt := p.CheckPrompt(check, 2, "account number 12345678")

	for _, want := range []string{
		"VALIDATION PASS: 2",
		"TASK: Analyze the following document for CONFIDENTIAL content.",
		"PII PATTERNS:",
		"DOCUMENT CONTENT:\naccount number 12345678",
		`"is_confidential": true/false`,
		`"pii_found"`,
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("CheckPrompt missing %q", want)
		}
	}
}

func TestAddExample(t *testing.T) {
	dir := t.TempDir()

	p, err := policy.Load(dir)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	long := strings.Repeat("x", 800)
	if err := p.AddExample(long, policy.CategoryConfidential, "SME corrected PUBLIC to CONFIDENTIAL", "page 2", ""); err != nil {
		t.Fatalf("AddExample failed: %v", err)
	}

	examples := p.Examples()
	if len(examples) != 1 {
		t.Fatalf("Examples() length = %d, want 1", len(examples))
	}

	example := examples[0]
	if len(example.ContentSnippet) != 500 {
		t.Errorf("ContentSnippet length = %d, want 500 (truncated)", len(example.ContentSnippet))
	}
	if example.DocumentType != "HITL Validated" {
		t.Errorf("DocumentType = %q, want HITL Validated default", example.DocumentType)
	}
	if example.Confidence != 1.0 {
		t.Errorf("Confidence = %v, want 1.0", example.Confidence)
	}

	// Examples persist to the policy directory and survive a reload.
	reloaded, err := policy.Load(dir)
	if err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if len(reloaded.Examples()) != 1 {
		t.Errorf("reloaded Examples() length = %d, want 1", len(reloaded.Examples()))
	}
}

func TestClearExamples(t *testing.T) {
	dir := t.TempDir()

	p, err := policy.Load(dir)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if err := p.AddExample("payroll export", policy.CategoryConfidential, "SME corrected", "row 3", ""); err != nil {
		t.Fatalf("AddExample failed: %v", err)
	}
	if err := p.ClearExamples(); err != nil {
		t.Fatalf("ClearExamples failed: %v", err)
	}

	if got := len(p.Examples()); got != 0 {
		t.Fatalf("Examples() length = %d, want 0", got)
	}

	// The cleared knowledge base persists across a reload.
	reloaded, err := policy.Load(dir)
	if err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if got := len(reloaded.Examples()); got != 0 {
		t.Errorf("reloaded Examples() length = %d, want 0", got)
	}
}

func TestExamplesReturnsCopy(t *testing.T) {
	p, err := policy.Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if err := p.AddExample("content", policy.CategoryPublic, "reason", "citation", "memo"); err != nil {
		t.Fatalf("AddExample failed: %v", err)
	}

	examples := p.Examples()
	examples[0].Reasoning = "mutated"

	if p.Examples()[0].Reasoning != "reason" {
		t.Error("Examples() exposes internal state")
	}
}

func writeJSON(t *testing.T, path string, v any) {
	t.Helper()

	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		t.Fatalf("write failed: %v", err)
	}
}
