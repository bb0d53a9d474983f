// Package engine implements the suspicion engine that checks extracted
// invoice line items against declared company goals.
package engine

import (
	"context"
	"log/slog"

	"github.com/hollis-dev/invoice-sentinel/internal/model"
)

// SuspicionEngine decides, per invoice line item, whether the item
// corresponds to a declared goal and whether its quantity is plausible.
type SuspicionEngine struct {
	variations VariationSource
	logger     *slog.Logger
}

// New creates a suspicion engine backed by the given variation source.
func New(variations VariationSource, logger *slog.Logger) *SuspicionEngine {
	if logger == nil {
		logger = slog.Default()
	}
	return &SuspicionEngine{
		variations: variations,
		logger:     logger,
	}
}

// Evaluate checks one invoice line item against the goal set and returns a
// verdict. Goals are tried in the order supplied and the first match wins;
// there is no scoring across candidates.
//
// Evaluation never fails: an empty goal set, a malformed goal record, or any
// internal error resolves the item to suspicious-unidentified. An item must
// never default to approved.
func (e *SuspicionEngine) Evaluate(ctx context.Context, item model.InvoiceItem, goals []model.Goal) (verdict model.Verdict) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("item evaluation panicked, marking suspicious",
				"description", item.Description,
				"panic", r)
			verdict = model.Verdict{Suspicious: true}
		}
	}()

	if len(goals) == 0 {
		return model.Verdict{Suspicious: true}
	}

	desc := normalize(item.Description)
	variations := e.variations.Variations(ctx, desc)

	for i := range goals {
		goal := &goals[i]
		if normalize(goal.Name) == "" {
			// Malformed record: nothing to match against.
			e.logger.Warn("skipping goal with empty name", "goal_id", goal.ID)
			continue
		}

		if !Matches(desc, goal.Name, variations) {
			continue
		}

		if ExceedsGoal(item.Quantity, goal) {
			e.logger.Info("item quantity exceeds goal",
				"description", item.Description,
				"goal", goal.Name,
				"quantity", item.Quantity,
				"expected", *goal.ExpectedQuantity)
			return model.Verdict{Suspicious: true, MatchedGoal: goal.Name}
		}

		return model.Verdict{Suspicious: false, MatchedGoal: goal.Name}
	}

	return model.Verdict{Suspicious: true}
}

// EvaluateInvoice evaluates every item of one invoice, returning one verdict
// per item in input order.
func (e *SuspicionEngine) EvaluateInvoice(ctx context.Context, items []model.InvoiceItem, goals []model.Goal) []model.Verdict {
	verdicts := make([]model.Verdict, len(items))
	suspicious := 0

	for i, item := range items {
		verdicts[i] = e.Evaluate(ctx, item, goals)
		if verdicts[i].Suspicious {
			suspicious++
		}
	}

	e.logger.Info("invoice evaluated",
		"items", len(items),
		"suspicious", suspicious)

	return verdicts
}
