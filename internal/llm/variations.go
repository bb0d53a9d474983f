package llm

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
)

const variationPromptTemplate = `Generate 3-5 common alternative names or descriptions for '%s' as a comma-separated list.
Only return the list, nothing else.
Example: if input is "laptop", return "notebook computer, portable computer, personal computer, pc"`

// VariationGenerator produces alternative names for an item via a
// text-generation client.
//
// It never fails: on any provider error, or when the response parses to
// nothing usable, it returns the item itself. No retry is performed; one
// failed call is one degraded lookup.
type VariationGenerator struct {
	client Client
	logger *slog.Logger
}

// NewVariationGenerator creates a generator backed by the given client.
func NewVariationGenerator(client Client, logger *slog.Logger) *VariationGenerator {
	if logger == nil {
		logger = slog.Default()
	}
	return &VariationGenerator{
		client: client,
		logger: logger,
	}
}

// Variations returns alternative names for the item. The result is always
// non-empty; the item itself is the fallback.
func (g *VariationGenerator) Variations(ctx context.Context, item string) []string {
	prompt := fmt.Sprintf(variationPromptTemplate, item)

	response, err := g.client.Generate(ctx, prompt)
	if err != nil {
		g.logger.Warn("variation generation failed, falling back to identity",
			"item", item,
			"error", err)
		return []string{item}
	}

	variations := splitVariations(response)
	if len(variations) == 0 {
		g.logger.Warn("variation response was empty, falling back to identity",
			"item", item)
		return []string{item}
	}

	g.logger.Debug("generated variations",
		"item", item,
		"count", len(variations))

	return variations
}

// splitVariations splits a comma-separated model response into trimmed,
// non-empty variation strings.
func splitVariations(response string) []string {
	parts := strings.Split(response, ",")
	variations := make([]string, 0, len(parts))
	for _, part := range parts {
		if v := strings.TrimSpace(part); v != "" {
			variations = append(variations, v)
		}
	}
	return variations
}
