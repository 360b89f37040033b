package policy

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

const snippetLimit = 500

// Examples returns a copy of the validated example knowledge base.
func (p *Policy) Examples() []Example {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]Example, len(p.examples))
	copy(out, p.examples)
	return out
}

// AddExample ingests an SME-validated example into the knowledge base.
// Content is truncated to a bounded snippet. Validated examples carry
// full confidence. The updated example set is persisted when a policy
// directory is configured.
func (p *Policy) AddExample(content string, classification Category, reasoning, citations, documentType string) error {
	if documentType == "" {
		documentType = "HITL Validated"
	}

	if len(content) > snippetLimit {
		content = content[:snippetLimit]
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	p.examples = append(p.examples, Example{
		DocumentType:   documentType,
		ContentSnippet: content,
		Classification: classification,
		Confidence:     1.0,
		Reasoning:      reasoning,
		Citations:      citations,
	})

	return p.saveExamplesLocked()
}

// ClearExamples removes all HITL-validated examples from the knowledge base.
func (p *Policy) ClearExamples() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.examples = nil
	return p.saveExamplesLocked()
}

func (p *Policy) saveExamplesLocked() error {
	if p.dir == "" {
		return nil
	}

	doc := examplesDocument{Examples: p.examples}
	if doc.Examples == nil {
		doc.Examples = []Example{}
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("serialize examples: %w", err)
	}

	path := filepath.Join(p.dir, examplesFile)
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("write examples: %w", err)
	}

	return nil
}
