package extract

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// buildInvoiceJSONSchema returns the JSON Schema the LLM's extraction output
// must satisfy before it is trusted. Invoice header and line items are
// required; summary amounts are optional because not every invoice prints
// them.
func buildInvoiceJSONSchema() map[string]any {
	amount := map[string]any{"type": "number"}

	return map[string]any{
		"type":     "object",
		"required": []string{"invoice_info", "items"},
		"properties": map[string]any{
			"invoice_info": map[string]any{
				"type":     "object",
				"required": []string{"number", "date"},
				"properties": map[string]any{
					"number": map[string]any{"type": "string"},
					"date":   map[string]any{"type": "string"},
				},
			},
			"items": map[string]any{
				"type":     "array",
				"minItems": 1,
				"items": map[string]any{
					"type":     "object",
					"required": []string{"description", "quantity", "price"},
					"properties": map[string]any{
						"description": map[string]any{"type": "string", "minLength": 1},
						"quantity":    amount,
						"price":       amount,
						"total":       amount,
						"category":    map[string]any{"type": "string"},
					},
				},
			},
			"summary": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"subtotal": amount,
					"tax":      amount,
					"total":    amount,
				},
			},
		},
	}
}

// validateJSONAgainstSchema validates data against schemaMap.
func validateJSONAgainstSchema(schemaMap map[string]any, data []byte) error {
	b, err := json.Marshal(schemaMap)
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("schema.json", bytes.NewReader(b)); err != nil {
		return fmt.Errorf("add schema: %w", err)
	}
	schema, err := compiler.Compile("schema.json")
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("unmarshal data: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("json does not match schema: %w", err)
	}
	return nil
}
