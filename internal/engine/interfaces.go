package engine

import "context"

// VariationSource supplies alternative names for an item description.
//
// Implementations must always return at least one string and must never
// fail: any trouble producing variations degrades to returning the item
// itself. The LLM-backed implementation lives in internal/llm.
type VariationSource interface {
	Variations(ctx context.Context, item string) []string
}
