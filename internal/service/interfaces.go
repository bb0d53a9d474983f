// Package service defines the interfaces for all application services.
package service

import (
	"context"
	"time"

	"github.com/hollis-dev/invoice-sentinel/internal/model"
)

// InvoiceFilter defines filtering options for invoice queries.
type InvoiceFilter struct {
	Status         model.PaymentStatus // empty means any status
	SuspiciousOnly bool
	Limit          int
}

// LedgerRow is one stored line item joined with its invoice-level fields.
// Reports and exports work over these rows.
type LedgerRow struct {
	InvoiceID     string
	InvoiceNumber string
	InvoiceDate   string
	Item          model.InvoiceItem
	Verdict       model.Verdict
}

// Payable summarizes one invoice for the accounts payable view.
type Payable struct {
	InvoiceID       string
	InvoiceNumber   string
	InvoiceDate     string
	Status          model.PaymentStatus
	Total           float64
	SuspiciousItems int
}

// Storage defines the contract for our persistence layer.
type Storage interface {
	// Goal operations
	CreateGoal(ctx context.Context, goal *model.Goal) (*model.Goal, error)
	GetGoals(ctx context.Context) ([]model.Goal, error)
	GetGoalByName(ctx context.Context, name string) (*model.Goal, error)
	DeleteGoal(ctx context.Context, id int64) error

	// Invoice operations
	SaveInvoice(ctx context.Context, invoice *model.Invoice, items []model.EvaluatedItem) error
	GetInvoice(ctx context.Context, id string) (*model.Invoice, []model.EvaluatedItem, error)
	GetLedgerRows(ctx context.Context, filter InvoiceFilter) ([]LedgerRow, error)

	// Accounts payable operations
	GetPayables(ctx context.Context) ([]Payable, error)
	UpdatePaymentStatus(ctx context.Context, invoiceID string, status model.PaymentStatus) error

	// Database management
	Migrate(ctx context.Context) error
	Close() error
}

// RetryOptions configures retry behavior for operations against external services.
type RetryOptions struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}

// ScanStats shows the results of an invoice scan run.
type ScanStats struct {
	Invoices        int
	Items           int
	SuspiciousItems int
	Duration        time.Duration
}
