// Package extract turns OCR text into structured invoices via a
// text-generation client.
package extract

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/hollis-dev/invoice-sentinel/internal/common"
	"github.com/hollis-dev/invoice-sentinel/internal/llm"
	"github.com/hollis-dev/invoice-sentinel/internal/model"
	"github.com/hollis-dev/invoice-sentinel/internal/service"
)

const invoicePromptHeader = `You are an invoice analysis expert. Given the following invoice text, extract:
1. Invoice number
2. Invoice date
3. All items with their descriptions, quantities, and prices
4. Subtotal, tax (if present), and total amount
5. Categorize the type of product

Return ONLY the data in this JSON format, with the invoice number as a string:
{
    "invoice_info": {
        "number": "invoice number",
        "date": "invoice date"
    },
    "items": [
        {
            "description": "full item description",
            "quantity": number,
            "price": number,
            "total": number,
            "category": "product category"
        }
    ],
    "summary": {
        "subtotal": number,
        "tax": number,
        "total": number
    }
}

Invoice text:
`

// invoicePayload mirrors the JSON shape requested from the model.
type invoicePayload struct {
	InvoiceInfo struct {
		Number string `json:"number"`
		Date   string `json:"date"`
	} `json:"invoice_info"`
	Items []struct {
		Description string  `json:"description"`
		Category    string  `json:"category"`
		Quantity    float64 `json:"quantity"`
		Price       float64 `json:"price"`
		Total       float64 `json:"total"`
	} `json:"items"`
	Summary struct {
		Subtotal float64 `json:"subtotal"`
		Tax      float64 `json:"tax"`
		Total    float64 `json:"total"`
	} `json:"summary"`
}

// Extractor extracts structured invoice data from OCR text.
type Extractor struct {
	client    llm.Client
	logger    *slog.Logger
	schema    map[string]any
	retryOpts service.RetryOptions
}

// New creates an extractor backed by the given client. Extraction calls are
// retried per opts; this is host-side glue, unlike the variation path which
// never retries.
func New(client llm.Client, opts service.RetryOptions, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{
		client:    client,
		retryOpts: opts,
		logger:    logger,
		schema:    buildInvoiceJSONSchema(),
	}
}

// Extract asks the model for structured data over the OCR text, validates
// the response against the invoice schema, and returns the invoice with a
// fresh ingest ID.
func (e *Extractor) Extract(ctx context.Context, ocrText string) (*model.Invoice, error) {
	if strings.TrimSpace(ocrText) == "" {
		return nil, common.ErrNoInvoiceText
	}

	prompt := invoicePromptHeader + ocrText

	var raw string
	err := common.WithRetry(ctx, func() error {
		response, genErr := e.client.Generate(ctx, prompt)
		if genErr != nil {
			return genErr
		}
		raw = response
		return nil
	}, e.retryOpts)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrExtractionFailed, err)
	}

	jsonStr := stripCodeFence(raw)

	if err := validateJSONAgainstSchema(e.schema, []byte(jsonStr)); err != nil {
		return nil, fmt.Errorf("%w: response failed validation: %w", common.ErrExtractionFailed, err)
	}

	var payload invoicePayload
	if err := json.Unmarshal([]byte(jsonStr), &payload); err != nil {
		return nil, fmt.Errorf("%w: unparseable response: %w", common.ErrExtractionFailed, err)
	}

	invoice := &model.Invoice{
		ID:        uuid.NewString(),
		CreatedAt: time.Now(),
		Number:    payload.InvoiceInfo.Number,
		Date:      payload.InvoiceInfo.Date,
		Summary: model.InvoiceSummary{
			Subtotal: payload.Summary.Subtotal,
			Tax:      payload.Summary.Tax,
			Total:    payload.Summary.Total,
		},
	}

	invoice.Items = make([]model.InvoiceItem, len(payload.Items))
	for i, item := range payload.Items {
		invoice.Items[i] = model.InvoiceItem{
			Description: item.Description,
			Category:    item.Category,
			Quantity:    item.Quantity,
			Price:       item.Price,
			Total:       item.Total,
		}
	}

	e.logger.Info("invoice extracted",
		"invoice_number", invoice.Number,
		"items", len(invoice.Items))

	return invoice, nil
}

// stripCodeFence removes a surrounding markdown code fence from a model
// response, if present. Models frequently wrap JSON in ```json blocks even
// when told not to.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)

	if idx := strings.Index(s, "```json"); idx != -1 {
		s = s[idx+len("```json"):]
		if end := strings.Index(s, "```"); end != -1 {
			s = s[:end]
		}
		return strings.TrimSpace(s)
	}

	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```")
		if end := strings.Index(s, "```"); end != -1 {
			s = s[:end]
		}
		return strings.TrimSpace(s)
	}

	return s
}
