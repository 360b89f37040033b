package classifications

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/arbiterhq/arbiter/internal/accuracy"
	"github.com/arbiterhq/arbiter/internal/documents"
	"github.com/arbiterhq/arbiter/internal/engine"
	"github.com/arbiterhq/arbiter/internal/oracle"
	"github.com/arbiterhq/arbiter/internal/policy"
	"github.com/arbiterhq/arbiter/internal/safety"
	"github.com/arbiterhq/arbiter/pkg/pagination"
	"github.com/arbiterhq/arbiter/pkg/query"
	"github.com/arbiterhq/arbiter/pkg/repository"
)

type repo struct {
	db         *sql.DB
	engine     *engine.Engine
	validator  *safety.Validator
	tracker    *accuracy.Tracker
	policy     *policy.Policy
	docs       documents.System
	model      string
	logger     *slog.Logger
	pagination pagination.Config
}

// New creates a classification repository implementing the System
// interface, wired to the decision engine, safety validator, accuracy
// tracker, and policy knowledge base.
func New(
	db *sql.DB,
	eng *engine.Engine,
	validator *safety.Validator,
	tracker *accuracy.Tracker,
	pol *policy.Policy,
	docs documents.System,
	o oracle.Oracle,
	logger *slog.Logger,
	pagination pagination.Config,
) System {
	model := ""
	if named, ok := o.(oracle.ModelName); ok {
		model = named.Model()
	}

	return &repo{
		db:         db,
		engine:     eng,
		validator:  validator,
		tracker:    tracker,
		policy:     pol,
		docs:       docs,
		model:      model,
		logger:     logger.With("system", "classifications"),
		pagination: pagination,
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger, r.pagination)
}

func (r *repo) List(
	ctx context.Context,
	page pagination.PageRequest,
	filters Filters,
) (*pagination.PageResult[Classification], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(projection, defaultSort).
		WhereSearch(page.Search, "Category", "Reasoning")

	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count classifications: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	items, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanClassification)
	if err != nil {
		return nil, fmt.Errorf("query classifications: %w", err)
	}

	result := pagination.NewPageResult(items, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*Classification, error) {
	q, args := query.NewBuilder(projection).BuildSingle("ID", id)

	c, err := repository.QueryOne(ctx, r.db, q, args, scanClassification)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &c, nil
}

func (r *repo) FindByDocument(ctx context.Context, documentID uuid.UUID) (*Classification, error) {
	q, args := query.NewBuilder(projection).BuildSingle("DocumentID", documentID)

	c, err := repository.QueryOne(ctx, r.db, q, args, scanClassification)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &c, nil
}

// Classify runs the full decision pipeline for a registered document.
// The safety screen gates entry: content that fails it receives a
// forced UNSAFE classification and never reaches the cascade. The
// result is upserted so re-classification replaces the prior verdict
// and clears any earlier review.
func (r *repo) Classify(ctx context.Context, documentID uuid.UUID) (*Classification, error) {
	start := time.Now()

	doc, err := r.docs.Find(ctx, documentID)
	if err != nil {
		return nil, fmt.Errorf("classify document %s: %w", documentID, err)
	}

	safetyResult := r.validator.Validate(ctx, doc.FullText)

	target := engine.Document{ID: documentID, Content: doc.CachedContent}

	var result engine.Result
	if safetyResult.IsSafe {
		result = r.engine.Evaluate(ctx, target, safetyResult)
	} else {
		result = engine.Blocked(target, safetyResult)
		r.logger.Warn("unsafe content blocked", "document_id", documentID,
			"categories", safetyResult.CategoriesFlagged)
	}

	// Wall time for the whole pipeline, safety screen included.
	result.ProcessingTime = time.Since(start).Seconds()

	// Predictions are logged without ground truth; review supplies it later.
	if err := r.tracker.RecordPrediction(result.Category, nil, result.Confidence, documentID); err != nil {
		r.logger.Warn("prediction tracking failed", "document_id", documentID, "error", err)
	}

	c, err := r.store(ctx, documentID, result)
	if err != nil {
		return nil, err
	}

	r.logger.Info("document classified",
		"id", c.ID,
		"document_id", documentID,
		"category", c.Category,
		"confidence", c.Confidence,
		"status", c.Status,
	)
	return c, nil
}

func (r *repo) store(ctx context.Context, documentID uuid.UUID, result engine.Result) (*Classification, error) {
	dualJSON, err := marshalNullable(result.DualValidation)
	if err != nil {
		return nil, fmt.Errorf("marshal dual validation: %w", err)
	}

	safetyJSON, err := marshalNullable(result.Safety)
	if err != nil {
		return nil, fmt.Errorf("marshal safety details: %w", err)
	}

	upsertQ := `
		INSERT INTO classifications(
			document_id, final_category, confidence_score, original_confidence,
			reasoning_summary, citation_snippet, hitl_status, hitl_reasoning,
			validation_consensus, auto_approval_probability, processing_time,
			dual_validation_results, safety_details, child_safe, model_name
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		ON CONFLICT (document_id) DO UPDATE SET
			final_category = EXCLUDED.final_category,
			confidence_score = EXCLUDED.confidence_score,
			original_confidence = EXCLUDED.original_confidence,
			reasoning_summary = EXCLUDED.reasoning_summary,
			citation_snippet = EXCLUDED.citation_snippet,
			hitl_status = EXCLUDED.hitl_status,
			hitl_reasoning = EXCLUDED.hitl_reasoning,
			validation_consensus = EXCLUDED.validation_consensus,
			auto_approval_probability = EXCLUDED.auto_approval_probability,
			processing_time = EXCLUDED.processing_time,
			dual_validation_results = EXCLUDED.dual_validation_results,
			safety_details = EXCLUDED.safety_details,
			child_safe = EXCLUDED.child_safe,
			model_name = EXCLUDED.model_name,
			classified_at = NOW(),
			reviewed_by = NULL,
			reviewed_at = NULL,
			corrected_category = NULL
		RETURNING ` + returningColumns

	var statusReasoning *string
	if result.StatusReasoning != "" {
		statusReasoning = &result.StatusReasoning
	}

	var original *float64
	if result.OriginalConfidence > 0 {
		original = &result.OriginalConfidence
	}

	upsertArgs := []any{
		documentID,
		string(result.Category),
		result.Confidence,
		original,
		result.Reasoning,
		result.Citation,
		string(result.Status),
		statusReasoning,
		result.Consensus,
		result.AutoApprovalProbability,
		result.ProcessingTime,
		dualJSON,
		safetyJSON,
		result.ChildSafe,
		r.model,
	}

	docStatus := documents.StatusComplete
	if result.Status == engine.StatusRequiresReview {
		docStatus = documents.StatusReview
	}

	c, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Classification, error) {
		cl, err := repository.QueryOne(ctx, tx, upsertQ, upsertArgs, scanClassification)
		if err != nil {
			return Classification{}, fmt.Errorf("upsert classification: %w", err)
		}

		if err := repository.ExecExpectOne(
			ctx, tx,
			"UPDATE documents SET status = $2, updated_at = NOW() WHERE id = $1",
			documentID, docStatus,
		); err != nil {
			return Classification{}, fmt.Errorf("update document status: %w", err)
		}

		return cl, nil
	})
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	return &c, nil
}

// Review records a human verdict. A correction feeds the accuracy
// tracker as ground truth and promotes the document into the policy
// knowledge base; a confirmation records the prediction as correct.
func (r *repo) Review(ctx context.Context, id uuid.UUID, cmd ReviewCommand) (*Classification, error) {
	if cmd.ReviewedBy == "" {
		return nil, ErrMissingActor
	}

	current, err := r.Find(ctx, id)
	if err != nil {
		return nil, err
	}

	corrected := cmd.CorrectedCategory
	if corrected != nil && *corrected == current.Category {
		corrected = nil
	}

	if corrected != nil {
		if err := r.tracker.RecordCorrection(current.DocumentID, current.Category, *corrected, current.Confidence); err != nil {
			r.logger.Warn("correction tracking failed", "classification_id", id, "error", err)
		}

		if err := r.promoteExample(ctx, current, *corrected, cmd.Reasoning); err != nil {
			r.logger.Warn("knowledge base promotion failed", "classification_id", id, "error", err)
		}
	} else {
		truth := current.Category
		if err := r.tracker.RecordPrediction(current.Category, &truth, current.Confidence, current.DocumentID); err != nil {
			r.logger.Warn("confirmation tracking failed", "classification_id", id, "error", err)
		}
	}

	reviewQ := `
		UPDATE classifications
		SET reviewed_by = $1, reviewed_at = NOW(), corrected_category = $2
		WHERE id = $3
		RETURNING ` + returningColumns

	var correctedArg *string
	if corrected != nil {
		s := string(*corrected)
		correctedArg = &s
	}

	c, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Classification, error) {
		cl, err := repository.QueryOne(ctx, tx, reviewQ,
			[]any{cmd.ReviewedBy, correctedArg, id},
			scanClassification,
		)
		if err != nil {
			return Classification{}, repository.MapError(err, ErrNotFound, ErrDuplicate)
		}

		if err := repository.ExecExpectOne(
			ctx, tx,
			"UPDATE documents SET status = 'complete', updated_at = NOW() WHERE id = $1",
			cl.DocumentID,
		); err != nil {
			return Classification{}, ErrInvalidStatus
		}

		return cl, nil
	})
	if err != nil {
		return nil, err
	}

	r.logger.Info("classification reviewed",
		"id", c.ID,
		"reviewed_by", cmd.ReviewedBy,
		"corrected", corrected != nil,
	)
	return &c, nil
}

// SafetyReport renders the stored safety validation as a human-readable
// report.
func (r *repo) SafetyReport(ctx context.Context, id uuid.UUID) (string, error) {
	c, err := r.Find(ctx, id)
	if err != nil {
		return "", err
	}

	if c.SafetyDetails == nil {
		return "", ErrNoSafetyData
	}

	return safety.Report(*c.SafetyDetails), nil
}

// ClearExamples empties the HITL example knowledge base. Subsequent
// oracle prompts fall back to the category definitions alone.
func (r *repo) ClearExamples(ctx context.Context) error {
	if err := r.policy.ClearExamples(); err != nil {
		return fmt.Errorf("clear examples: %w", err)
	}

	r.logger.Info("knowledge base examples cleared")
	return nil
}

func (r *repo) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
		if err := repository.ExecExpectOne(
			ctx, tx,
			"DELETE FROM classifications WHERE id = $1",
			id,
		); err != nil {
			return struct{}{}, err
		}
		return struct{}{}, nil
	})

	if err != nil {
		return repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("classification deleted", "id", id)
	return nil
}

func (r *repo) promoteExample(ctx context.Context, c *Classification, corrected policy.Category, reasoning string) error {
	doc, err := r.docs.Find(ctx, c.DocumentID)
	if err != nil {
		return err
	}

	if reasoning == "" {
		reasoning = fmt.Sprintf("SME corrected %s to %s", c.Category, corrected)
	}

	return r.policy.AddExample(doc.FullText, corrected, reasoning, c.Citation, doc.ContentType)
}

func marshalNullable(v any) ([]byte, error) {
	if v == nil {
		return nil, nil
	}

	// Typed nils marshal to "null"; store SQL NULL instead.
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	if string(data) == "null" {
		return nil, nil
	}
	return data, nil
}
