// Package batch implements the batch coordinator: it fans a set of
// registered documents out across a bounded worker pool, tracks
// per-job progress, and isolates per-file failures so one bad document
// never aborts a batch.
package batch

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/arbiterhq/arbiter/internal/policy"
)

// Status is the lifecycle state of a batch job.
type Status string

const (
	StatusQueued     Status = "QUEUED"
	StatusProcessing Status = "PROCESSING"
	StatusCompleted  Status = "COMPLETED"
	StatusFailed     Status = "FAILED"
	StatusCancelled  Status = "CANCELLED"
)

// FileResult records the outcome of one document in a batch. Failed
// documents carry the error message instead of a classification.
type FileResult struct {
	DocumentID uuid.UUID       `json:"document_id"`
	Status     string          `json:"status"`
	Category   policy.Category `json:"classification,omitempty"`
	Confidence float64         `json:"confidence,omitempty"`
	HITLStatus string          `json:"hitl_status,omitempty"`
	Duration   float64         `json:"processing_time"`
	Error      string          `json:"error,omitempty"`
}

// Per-file outcome values.
const (
	FileSuccess = "SUCCESS"
	FileFailed  = "FAILED"
)

// Job is a batch of documents owned exclusively by the coordinator.
// Counters and the result list are mutated under the job's own lock so
// concurrent worker completions stay consistent; results arrive in
// completion order, not submission order.
type Job struct {
	id        uuid.UUID
	documents []uuid.UUID

	mu          sync.Mutex
	status      Status
	processed   int
	failed      int
	results     []FileResult
	currentFile string
	startedAt   *time.Time
	completedAt *time.Time
}

func newJob(id uuid.UUID, documents []uuid.UUID) *Job {
	return &Job{
		id:        id,
		documents: documents,
		status:    StatusQueued,
		results:   []FileResult{},
	}
}

// Snapshot is a point-in-time view of a job for API responses.
// CurrentFile is advisory only: the last document picked up, not
// necessarily the slowest.
type Snapshot struct {
	JobID           uuid.UUID    `json:"job_id"`
	TotalFiles      int          `json:"total_files"`
	ProcessedFiles  int          `json:"processed_files"`
	FailedFiles     int          `json:"failed_files"`
	Status          Status       `json:"status"`
	ProgressPercent float64      `json:"progress_percent"`
	CurrentFile     string       `json:"current_file,omitempty"`
	StartedAt       *time.Time   `json:"started_at"`
	CompletedAt     *time.Time   `json:"completed_at"`
	Results         []FileResult `json:"results"`
}

func (j *Job) snapshot() Snapshot {
	j.mu.Lock()
	defer j.mu.Unlock()

	progress := 0.0
	if len(j.documents) > 0 {
		progress = float64(j.processed) / float64(len(j.documents)) * 100
	}

	results := make([]FileResult, len(j.results))
	copy(results, j.results)

	return Snapshot{
		JobID:           j.id,
		TotalFiles:      len(j.documents),
		ProcessedFiles:  j.processed,
		FailedFiles:     j.failed,
		Status:          j.status,
		ProgressPercent: progress,
		CurrentFile:     j.currentFile,
		StartedAt:       j.startedAt,
		CompletedAt:     j.completedAt,
		Results:         results,
	}
}

func (j *Job) record(result FileResult) {
	j.mu.Lock()
	defer j.mu.Unlock()

	j.results = append(j.results, result)
	j.processed++
	if result.Status == FileFailed {
		j.failed++
	}
}

func (j *Job) setCurrent(documentID uuid.UUID) {
	j.mu.Lock()
	j.currentFile = documentID.String()
	j.mu.Unlock()
}

func (j *Job) cancelled() bool {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.status == StatusCancelled
}
