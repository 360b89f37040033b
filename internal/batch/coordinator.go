package batch

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// DefaultWorkers is the bounded worker pool size when none is
// configured.
const DefaultWorkers = 3

// ProcessFunc runs the full classification pipeline for one document.
type ProcessFunc func(ctx context.Context, documentID uuid.UUID) (FileResult, error)

// Coordinator owns all batch jobs and drives their execution. Each job
// runs on a fixed-size worker pool; workers from different jobs never
// touch each other's state.
type Coordinator struct {
	process ProcessFunc
	workers int
	logger  *slog.Logger

	mu   sync.Mutex
	jobs map[uuid.UUID]*Job
}

func NewCoordinator(process ProcessFunc, workers int, logger *slog.Logger) *Coordinator {
	if workers <= 0 {
		workers = DefaultWorkers
	}

	return &Coordinator{
		process: process,
		workers: workers,
		logger:  logger.With("system", "batch"),
		jobs:    make(map[uuid.UUID]*Job),
	}
}

// Submit registers a new job over the given documents and returns its
// identifier. The job stays QUEUED until Run.
func (c *Coordinator) Submit(documents []uuid.UUID) (uuid.UUID, error) {
	if len(documents) == 0 {
		return uuid.Nil, ErrEmptyBatch
	}

	id := uuid.New()

	c.mu.Lock()
	c.jobs[id] = newJob(id, documents)
	c.mu.Unlock()

	c.logger.Info("batch job submitted", "job_id", id, "documents", len(documents))

	return id, nil
}

// Run drives a queued job to completion. Per-document failures are
// recorded and never abort the batch; only a coordinator-level panic
// fails the whole job. Cancellation prevents documents not yet picked
// up from being processed; in-flight documents run to completion.
func (c *Coordinator) Run(ctx context.Context, jobID uuid.UUID) (Snapshot, error) {
	job, err := c.job(jobID)
	if err != nil {
		return Snapshot{}, err
	}

	job.mu.Lock()
	if job.status != StatusQueued {
		job.mu.Unlock()
		return job.snapshot(), ErrJobNotQueued
	}
	now := time.Now().UTC()
	job.status = StatusProcessing
	job.startedAt = &now
	job.mu.Unlock()

	defer func() {
		if r := recover(); r != nil {
			c.fail(job, fmt.Errorf("batch coordinator panic: %v", r))
		}
	}()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.workers)

	for _, documentID := range job.documents {
		g.Go(func() error {
			if job.cancelled() {
				return nil
			}

			job.setCurrent(documentID)
			job.record(c.processOne(gctx, documentID))

			return nil
		})
	}

	// Workers always return nil; per-file errors are recorded in the job.
	_ = g.Wait()

	job.mu.Lock()
	if job.status == StatusProcessing {
		job.status = StatusCompleted
	}
	done := time.Now().UTC()
	job.completedAt = &done
	status := job.status
	job.mu.Unlock()

	c.logger.Info("batch job finished", "job_id", jobID, "status", status)

	return job.snapshot(), nil
}

func (c *Coordinator) processOne(ctx context.Context, documentID uuid.UUID) FileResult {
	start := time.Now()

	result, err := c.process(ctx, documentID)
	if err != nil {
		c.logger.Warn("batch document failed", "document_id", documentID, "error", err)

		return FileResult{
			DocumentID: documentID,
			Status:     FileFailed,
			Duration:   time.Since(start).Seconds(),
			Error:      err.Error(),
		}
	}

	result.DocumentID = documentID
	result.Status = FileSuccess
	result.Duration = time.Since(start).Seconds()

	return result
}

func (c *Coordinator) fail(job *Job, err error) {
	job.mu.Lock()
	job.status = StatusFailed
	done := time.Now().UTC()
	job.completedAt = &done
	job.mu.Unlock()

	c.logger.Error("batch job failed", "job_id", job.id, "error", err)
}

// Status returns a snapshot of one job.
func (c *Coordinator) Status(jobID uuid.UUID) (Snapshot, error) {
	job, err := c.job(jobID)
	if err != nil {
		return Snapshot{}, err
	}

	return job.snapshot(), nil
}

// Jobs returns snapshots of every known job.
func (c *Coordinator) Jobs() []Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	snapshots := make([]Snapshot, 0, len(c.jobs))
	for _, job := range c.jobs {
		snapshots = append(snapshots, job.snapshot())
	}

	return snapshots
}

// Cancel marks a processing job as cancelled. Documents already picked
// up by workers run to completion; the rest are skipped.
func (c *Coordinator) Cancel(jobID uuid.UUID) error {
	job, err := c.job(jobID)
	if err != nil {
		return err
	}

	job.mu.Lock()
	defer job.mu.Unlock()

	if job.status != StatusProcessing {
		return ErrJobNotRunning
	}

	job.status = StatusCancelled

	return nil
}

func (c *Coordinator) job(jobID uuid.UUID) (*Job, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	job, ok := c.jobs[jobID]
	if !ok {
		return nil, ErrJobNotFound
	}

	return job, nil
}
