package engine

import "context"

// Classify runs the classification cascade for a document. With dual
// validation enabled, two independent passes run at different sampling
// temperatures and consensus requires the same category from both with
// both confidences at or above the threshold. The first pass's verdict
// always carries the result; the second pass only confirms or denies.
func (e *Engine) Classify(ctx context.Context, doc Document) Result {
	if !e.options.DualValidation {
		return e.classifySingle(ctx, doc)
	}

	pass1 := e.classifyPass(ctx, doc, 1)
	pass2 := e.classifyPass(ctx, doc, 2)

	consensus := pass1.Category == pass2.Category &&
		pass1.Confidence >= e.options.ConfidenceThreshold &&
		pass2.Confidence >= e.options.ConfidenceThreshold

	status := StatusRequiresReview
	if consensus {
		status = StatusAutoApproved
	}

	e.logger.Info(
		"dual validation complete",
		"document_id", doc.ID,
		"category", pass1.Category,
		"consensus", consensus,
	)

	return Result{
		DocumentID: doc.ID,
		Category:   pass1.Category,
		Confidence: pass1.Confidence,
		Reasoning:  pass1.Reasoning,
		Citation:   pass1.Citation,
		Status:     status,
		Consensus:  &consensus,
		DualValidation: &DualValidation{
			Pass1: PassOutcome{Category: pass1.Category, Confidence: pass1.Confidence},
			Pass2: PassOutcome{Category: pass2.Category, Confidence: pass2.Confidence},
		},
	}
}

// classifySingle runs one pass. Consensus stays nil so downstream
// consumers can distinguish "no consensus" from "consensus not
// evaluated".
func (e *Engine) classifySingle(ctx context.Context, doc Document) Result {
	pass := e.classifyPass(ctx, doc, 1)

	status := StatusAutoApproved
	if pass.Confidence < e.options.ConfidenceThreshold {
		status = StatusRequiresReview
	}

	return Result{
		DocumentID: doc.ID,
		Category:   pass.Category,
		Confidence: pass.Confidence,
		Reasoning:  pass.Reasoning,
		Citation:   pass.Citation,
		Status:     status,
	}
}
