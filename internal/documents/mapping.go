package documents

import (
	"net/url"

	"github.com/arbiterhq/arbiter/pkg/query"
	"github.com/arbiterhq/arbiter/pkg/repository"
)

// projection covers document metadata plus the joined classification
// summary. Text columns are excluded; list responses never carry full
// document content.
var projection = query.
	NewProjectionMap("public", "documents", "d").
	Project("id", "ID").
	Project("filename", "Filename").
	Project("content_type", "ContentType").
	Project("size_bytes", "SizeBytes").
	Project("page_count", "PageCount").
	Project("status", "Status").
	Project("uploaded_at", "UploadedAt").
	Project("updated_at", "UpdatedAt").
	Join("public", "classifications", "c", "LEFT JOIN", "d.id = c.document_id").
	Project("final_category", "Classification").
	Project("confidence_score", "Confidence").
	Project("classified_at", "ClassifiedAt")

// fullProjection adds the text columns for single-document reads.
var fullProjection = query.
	NewProjectionMap("public", "documents", "d").
	Project("id", "ID").
	Project("filename", "Filename").
	Project("content_type", "ContentType").
	Project("size_bytes", "SizeBytes").
	Project("page_count", "PageCount").
	Project("status", "Status").
	Project("full_text", "FullText").
	Project("cached_content", "CachedContent").
	Project("uploaded_at", "UploadedAt").
	Project("updated_at", "UpdatedAt").
	Join("public", "classifications", "c", "LEFT JOIN", "d.id = c.document_id").
	Project("final_category", "Classification").
	Project("confidence_score", "Confidence").
	Project("classified_at", "ClassifiedAt")

var defaultSort = query.SortField{
	Field:      "UploadedAt",
	Descending: true,
}

// Filters contains optional filtering criteria for document queries.
// Nil fields are ignored. Status, ContentType, and Classification use
// exact matching; Filename uses case-insensitive contains matching.
type Filters struct {
	Status         *string `json:"status,omitempty"`
	Filename       *string `json:"filename,omitempty"`
	ContentType    *string `json:"content_type,omitempty"`
	Classification *string `json:"classification,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereEquals("Status", f.Status).
		WhereContains("Filename", f.Filename).
		WhereEquals("ContentType", f.ContentType).
		WhereEquals("Classification", f.Classification)
}

// FiltersFromQuery extracts filter values from URL query parameters.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if s := values.Get("status"); s != "" {
		f.Status = &s
	}

	if fn := values.Get("filename"); fn != "" {
		f.Filename = &fn
	}

	if ct := values.Get("content_type"); ct != "" {
		f.ContentType = &ct
	}

	if cl := values.Get("classification"); cl != "" {
		f.Classification = &cl
	}

	return f
}

func scanDocument(s repository.Scanner) (Document, error) {
	var d Document
	err := s.Scan(
		&d.ID,
		&d.Filename,
		&d.ContentType,
		&d.SizeBytes,
		&d.PageCount,
		&d.Status,
		&d.UploadedAt,
		&d.UpdatedAt,
		&d.Classification,
		&d.Confidence,
		&d.ClassifiedAt,
	)
	return d, err
}

func scanDocumentFull(s repository.Scanner) (Document, error) {
	var d Document
	err := s.Scan(
		&d.ID,
		&d.Filename,
		&d.ContentType,
		&d.SizeBytes,
		&d.PageCount,
		&d.Status,
		&d.FullText,
		&d.CachedContent,
		&d.UploadedAt,
		&d.UpdatedAt,
		&d.Classification,
		&d.Confidence,
		&d.ClassifiedAt,
	)
	return d, err
}
