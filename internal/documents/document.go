// Package documents implements the document domain for Arbiter.
// Documents are registered with text already extracted by an external
// processing pipeline; this domain owns their metadata, content, and
// classification lifecycle status.
package documents

import (
	"time"

	"github.com/google/uuid"
)

// Document lifecycle statuses. A document is pending until classified,
// in review when its classification requires a human, and complete once
// auto-approved or validated.
const (
	StatusPending  = "pending"
	StatusReview   = "review"
	StatusComplete = "complete"
)

// Document represents a registered document. FullText is the complete
// extracted text; CachedContent is the condensed representation handed
// to the oracle. Classification fields are populated from the joined
// classification row when one exists.
type Document struct {
	ID            uuid.UUID `json:"id"`
	Filename      string    `json:"filename"`
	ContentType   string    `json:"content_type"`
	SizeBytes     int64     `json:"size_bytes"`
	PageCount     *int      `json:"page_count"`
	Status        string    `json:"status"`
	FullText      string    `json:"full_text,omitempty"`
	CachedContent string    `json:"cached_content,omitempty"`
	UploadedAt    time.Time `json:"uploaded_at"`
	UpdatedAt     time.Time `json:"updated_at"`

	Classification *string    `json:"classification,omitempty"`
	Confidence     *float64   `json:"confidence,omitempty"`
	ClassifiedAt   *time.Time `json:"classified_at,omitempty"`
}

// StatusCommand carries a lifecycle status override.
type StatusCommand struct {
	Status string `json:"status"`
}

// CreateCommand carries the data needed to register a new document.
// FullText is required; CachedContent defaults to FullText when empty.
// SizeBytes and PageCount describe the source file and are reported by
// the extraction pipeline; a zero SizeBytes falls back to the text
// length.
type CreateCommand struct {
	Filename      string `json:"filename"`
	ContentType   string `json:"content_type"`
	FullText      string `json:"full_text"`
	CachedContent string `json:"cached_content"`
	SizeBytes     int64  `json:"size_bytes"`
	PageCount     *int   `json:"page_count"`
}
