package model

import "time"

// InvoiceItem is a single extracted line item from an invoice.
type InvoiceItem struct {
	Description string
	Category    string
	Quantity    float64
	Price       float64
	Total       float64
}

// InvoiceSummary holds the document-level totals extracted from an invoice.
type InvoiceSummary struct {
	Subtotal float64
	Tax      float64
	Total    float64
}

// Invoice is the structured result of extracting one invoice document.
type Invoice struct {
	CreatedAt  time.Time
	ID         string // assigned at ingest, not extracted
	Number     string
	Date       string // raw date string as printed on the invoice
	SourceFile string
	Items      []InvoiceItem
	Summary    InvoiceSummary
}

// PaymentStatus tracks the accounts payable state of a stored invoice.
type PaymentStatus string

const (
	// PaymentPending is the initial status of every ingested invoice.
	PaymentPending PaymentStatus = "pending"
	// PaymentPaid marks an invoice whose payment completed.
	PaymentPaid PaymentStatus = "paid"
	// PaymentFailed marks an invoice whose payment attempt failed.
	PaymentFailed PaymentStatus = "failed"
)

// EvaluatedItem pairs a stored line item with the verdict it received.
type EvaluatedItem struct {
	Item    InvoiceItem
	Verdict Verdict
}
