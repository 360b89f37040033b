package documents_test

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"testing"

	"github.com/arbiterhq/arbiter/internal/documents"
	"github.com/arbiterhq/arbiter/pkg/query"
)

func ptr(s string) *string { return &s }

func TestMapHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"not found", documents.ErrNotFound, http.StatusNotFound},
		{"duplicate", documents.ErrDuplicate, http.StatusConflict},
		{"content too big", documents.ErrContentTooBig, http.StatusRequestEntityTooLarge},
		{"missing content", documents.ErrMissingContent, http.StatusBadRequest},
		{"invalid status", documents.ErrInvalidStatus, http.StatusBadRequest},
		{"unknown error", errors.New("something else"), http.StatusInternalServerError},
		{"wrapped not found", fmt.Errorf("find failed: %w", documents.ErrNotFound), http.StatusNotFound},
		{"wrapped too big", fmt.Errorf("register failed: %w", documents.ErrContentTooBig), http.StatusRequestEntityTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := documents.MapHTTPStatus(tt.err)
			if got != tt.want {
				t.Errorf("MapHTTPStatus(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

func TestFiltersFromQuery(t *testing.T) {
	t.Run("all params present", func(t *testing.T) {
		values := url.Values{
			"status":         {"complete"},
			"filename":       {"report"},
			"content_type":   {"application/pdf"},
			"classification": {"CONFIDENTIAL"},
		}

		f := documents.FiltersFromQuery(values)

		if f.Status == nil || *f.Status != "complete" {
			t.Errorf("Status = %v, want complete", f.Status)
		}
		if f.Filename == nil || *f.Filename != "report" {
			t.Errorf("Filename = %v, want report", f.Filename)
		}
		if f.ContentType == nil || *f.ContentType != "application/pdf" {
			t.Errorf("ContentType = %v, want application/pdf", f.ContentType)
		}
		if f.Classification == nil || *f.Classification != "CONFIDENTIAL" {
			t.Errorf("Classification = %v, want CONFIDENTIAL", f.Classification)
		}
	})

	t.Run("empty params yield nil fields", func(t *testing.T) {
		f := documents.FiltersFromQuery(url.Values{})

		if f.Status != nil || f.Filename != nil || f.ContentType != nil || f.Classification != nil {
			t.Errorf("filters = %+v, want all nil", f)
		}
	})
}

func TestFiltersApply(t *testing.T) {
	proj := query.
		NewProjectionMap("public", "documents", "d").
		Project("status", "Status").
		Project("filename", "Filename").
		Project("content_type", "ContentType").
		Join("public", "classifications", "c", "LEFT JOIN", "d.id = c.document_id").
		Project("final_category", "Classification")

	t.Run("no filters produces no WHERE clause", func(t *testing.T) {
		b := query.NewBuilder(proj)
		f := documents.Filters{}
		f.Apply(b)
		sql, args := b.Build()

		wantSQL := "SELECT d.status, d.filename, d.content_type, c.final_category " +
			"FROM public.documents d LEFT JOIN public.classifications c ON d.id = c.document_id"
		if sql != wantSQL {
			t.Errorf("sql = %q, want %q", sql, wantSQL)
		}
		if len(args) != 0 {
			t.Errorf("args = %v, want empty", args)
		}
	})

	t.Run("filename uses contains matching", func(t *testing.T) {
		b := query.NewBuilder(proj)
		f := documents.Filters{Filename: ptr("report")}
		f.Apply(b)
		_, args := b.Build()

		if len(args) != 1 || args[0] != "%report%" {
			t.Errorf("args = %v, want [%%report%%]", args)
		}
	})

	t.Run("classification filters joined column", func(t *testing.T) {
		b := query.NewBuilder(proj)
		f := documents.Filters{Classification: ptr("CONFIDENTIAL")}
		f.Apply(b)
		sql, args := b.Build()

		wantSQL := "SELECT d.status, d.filename, d.content_type, c.final_category " +
			"FROM public.documents d LEFT JOIN public.classifications c ON d.id = c.document_id " +
			"WHERE c.final_category = $1"
		if sql != wantSQL {
			t.Errorf("sql = %q, want %q", sql, wantSQL)
		}
		if len(args) != 1 {
			t.Errorf("args length = %d, want 1", len(args))
		}
	})

	t.Run("multiple filters combine with AND", func(t *testing.T) {
		b := query.NewBuilder(proj)
		f := documents.Filters{
			Status:         ptr("complete"),
			Filename:       ptr("report"),
			Classification: ptr("PUBLIC"),
		}
		f.Apply(b)
		_, args := b.Build()

		if len(args) != 3 {
			t.Errorf("args length = %d, want 3", len(args))
		}
	})
}
