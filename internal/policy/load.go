package policy

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
)

const (
	categoriesFile = "categories.json"
	piiFile        = "pii_patterns.json"
	examplesFile   = "few_shot_examples.json"
)

type categoriesDocument struct {
	Categories []Definition `json:"categories"`
}

type examplesDocument struct {
	Examples []Example `json:"few_shot_examples"`
}

// Policy holds the loaded classification policy: category definitions in
// priority order and the validated example knowledge base. Examples are
// mutated through HITL ingestion, guarded by an internal mutex; definitions
// are immutable after load.
type Policy struct {
	dir         string
	definitions []Definition
	pii         *PIIPatterns

	mu       sync.RWMutex
	examples []Example
}

// Load reads policy documents from dir, falling back to built-in defaults
// for any document that does not exist. It validates that the configured
// check ordering matches the fixed category priority ordering.
func Load(dir string) (*Policy, error) {
	p := &Policy{dir: dir, definitions: defaultDefinitions()}

	if dir != "" {
		var doc categoriesDocument
		ok, err := readDocument(filepath.Join(dir, categoriesFile), &doc)
		if err != nil {
			return nil, err
		}
		if ok {
			p.definitions = doc.Categories
		}

		var pii piiDocument
		ok, err = readDocument(filepath.Join(dir, piiFile), &pii)
		if err != nil {
			return nil, err
		}
		if ok {
			p.pii = &pii.PIIPatterns
		}

		var ex examplesDocument
		if _, err := readDocument(filepath.Join(dir, examplesFile), &ex); err != nil {
			return nil, err
		}
		p.examples = ex.Examples
	}

	sort.SliceStable(p.definitions, func(i, j int) bool {
		return p.definitions[i].Priority < p.definitions[j].Priority
	})

	if err := p.validateOrdering(); err != nil {
		return nil, err
	}

	return p, nil
}

// Checks returns the ordered check descriptors for the classification
// cascade. The PUBLIC fallback category is excluded: it is a policy
// decision, not an oracle check.
func (p *Policy) Checks() []Check {
	checks := make([]Check, 0, len(p.definitions))
	for _, def := range p.definitions {
		cat := Category(def.Name)
		if cat == CategoryPublic {
			continue
		}
		checks = append(checks, Check{
			Category: cat,
			Priority: def.Priority,
			Enabled:  true,
		})
	}
	return checks
}

// Definition returns the policy definition for a category, or false if the
// category has no definition.
func (p *Policy) Definition(cat Category) (Definition, bool) {
	for _, def := range p.definitions {
		if Category(def.Name) == cat {
			return def, true
		}
	}
	return Definition{}, false
}

// Configured definitions may come from an external document, but the
// evaluation order is policy-defined: it must match the fixed category
// priority ordering exactly.
func (p *Policy) validateOrdering() error {
	for _, def := range p.definitions {
		cat, err := ParseCategory(def.Name)
		if err != nil {
			return fmt.Errorf("%w: unknown category %q", ErrLoadFailed, def.Name)
		}
		if def.Priority != cat.Priority() {
			return fmt.Errorf(
				"%w: %s configured at priority %d, policy requires %d",
				ErrBadOrdering, cat, def.Priority, cat.Priority(),
			)
		}
	}
	return nil
}

func readDocument(path string, v any) (bool, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%w: read %s: %w", ErrLoadFailed, path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return false, fmt.Errorf("%w: parse %s: %w", ErrLoadFailed, path, err)
	}
	return true, nil
}
