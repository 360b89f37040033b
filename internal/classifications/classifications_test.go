package classifications_test

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"testing"

	"github.com/google/uuid"

	"github.com/arbiterhq/arbiter/internal/classifications"
	"github.com/arbiterhq/arbiter/internal/policy"
	"github.com/arbiterhq/arbiter/pkg/query"
)

func ptr[T any](v T) *T { return &v }

func TestMapHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"not found", classifications.ErrNotFound, http.StatusNotFound},
		{"no safety data", classifications.ErrNoSafetyData, http.StatusNotFound},
		{"duplicate", classifications.ErrDuplicate, http.StatusConflict},
		{"invalid status", classifications.ErrInvalidStatus, http.StatusConflict},
		{"missing actor", classifications.ErrMissingActor, http.StatusBadRequest},
		{"invalid category", policy.ErrInvalidCategory, http.StatusBadRequest},
		{"unknown error", errors.New("something else"), http.StatusInternalServerError},
		{"wrapped not found", fmt.Errorf("find failed: %w", classifications.ErrNotFound), http.StatusNotFound},
		{"wrapped invalid category", fmt.Errorf("review failed: %w", policy.ErrInvalidCategory), http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := classifications.MapHTTPStatus(tt.err)
			if got != tt.want {
				t.Errorf("MapHTTPStatus(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

func TestFiltersFromQuery(t *testing.T) {
	t.Run("all params present", func(t *testing.T) {
		id := uuid.New()
		values := url.Values{
			"category":    {"CONFIDENTIAL"},
			"status":      {"AUTO_APPROVED"},
			"document_id": {id.String()},
			"reviewed_by": {"sme@example.com"},
		}

		f := classifications.FiltersFromQuery(values)

		if f.Category == nil || *f.Category != "CONFIDENTIAL" {
			t.Errorf("Category = %v, want CONFIDENTIAL", f.Category)
		}
		if f.Status == nil || *f.Status != "AUTO_APPROVED" {
			t.Errorf("Status = %v, want AUTO_APPROVED", f.Status)
		}
		if f.DocumentID == nil || *f.DocumentID != id {
			t.Errorf("DocumentID = %v, want %s", f.DocumentID, id)
		}
		if f.ReviewedBy == nil || *f.ReviewedBy != "sme@example.com" {
			t.Errorf("ReviewedBy = %v, want sme@example.com", f.ReviewedBy)
		}
	})

	t.Run("empty params yield nil fields", func(t *testing.T) {
		f := classifications.FiltersFromQuery(url.Values{})

		if f.Category != nil || f.Status != nil || f.DocumentID != nil || f.ReviewedBy != nil {
			t.Errorf("filters = %+v, want all nil", f)
		}
	})

	t.Run("invalid document_id ignored", func(t *testing.T) {
		values := url.Values{"document_id": {"not-a-uuid"}}
		f := classifications.FiltersFromQuery(values)

		if f.DocumentID != nil {
			t.Errorf("DocumentID = %v, want nil for invalid UUID", f.DocumentID)
		}
	})
}

func TestFiltersApply(t *testing.T) {
	proj := query.
		NewProjectionMap("public", "classifications", "c").
		Project("final_category", "Category").
		Project("hitl_status", "Status").
		Project("document_id", "DocumentID").
		Project("reviewed_by", "ReviewedBy")

	t.Run("no filters produces no WHERE clause", func(t *testing.T) {
		b := query.NewBuilder(proj)
		f := classifications.Filters{}
		f.Apply(b)
		sql, args := b.Build()

		wantSQL := "SELECT c.final_category, c.hitl_status, c.document_id, c.reviewed_by FROM public.classifications c"
		if sql != wantSQL {
			t.Errorf("sql = %q, want %q", sql, wantSQL)
		}
		if len(args) != 0 {
			t.Errorf("args = %v, want empty", args)
		}
	})

	t.Run("category equals filter", func(t *testing.T) {
		b := query.NewBuilder(proj)
		f := classifications.Filters{Category: ptr("UNSAFE")}
		f.Apply(b)
		sql, args := b.Build()

		wantSQL := "SELECT c.final_category, c.hitl_status, c.document_id, c.reviewed_by FROM public.classifications c WHERE c.final_category = $1"
		if sql != wantSQL {
			t.Errorf("sql = %q, want %q", sql, wantSQL)
		}
		if len(args) != 1 {
			t.Fatalf("args length = %d, want 1", len(args))
		}
	})

	t.Run("multiple filters combine with AND", func(t *testing.T) {
		id := uuid.New()
		b := query.NewBuilder(proj)
		f := classifications.Filters{
			Category:   ptr("CONFIDENTIAL"),
			Status:     ptr("REQUIRES_REVIEW"),
			DocumentID: &id,
		}
		f.Apply(b)
		_, args := b.Build()

		if len(args) != 3 {
			t.Errorf("args length = %d, want 3", len(args))
		}
	})
}
