package report

import (
	"testing"
	"time"

	"github.com/hollis-dev/invoice-sentinel/internal/model"
	"github.com/hollis-dev/invoice-sentinel/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuild(t *testing.T) {
	now := time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)

	rows := []service.LedgerRow{
		{
			InvoiceID: "inv-1",
			Item:      model.InvoiceItem{Description: "office chairs", Category: "Furniture", Quantity: 4, Price: 120.50, Total: 482.00},
			Verdict:   model.Verdict{MatchedGoal: "chairs"},
		},
		{
			InvoiceID: "inv-1",
			Item:      model.InvoiceItem{Description: "desk lamp", Category: "Lighting", Quantity: 1, Price: 35.00, Total: 35.00},
			Verdict:   model.Verdict{Suspicious: true},
		},
		{
			InvoiceID: "inv-2",
			// No stored total: falls back to quantity * price.
			Item:    model.InvoiceItem{Description: "more chairs", Category: "Furniture", Quantity: 2, Price: 100.00},
			Verdict: model.Verdict{MatchedGoal: "chairs"},
		},
		{
			InvoiceID: "inv-2",
			Item:      model.InvoiceItem{Description: "mystery fee", Quantity: 1, Price: 10.00, Total: 10.00},
			Verdict:   model.Verdict{Suspicious: true},
		},
	}

	payables := []service.Payable{
		{InvoiceID: "inv-1", InvoiceDate: "2024-12-01", Status: model.PaymentPending},
		{InvoiceID: "inv-2", InvoiceDate: "2026-01-01", Status: model.PaymentPending},
		{InvoiceID: "inv-3", InvoiceDate: "2024-01-01", Status: model.PaymentPaid},
	}

	summary := Build(rows, payables, now)

	assert.Equal(t, 3, summary.TotalInvoices)
	assert.Equal(t, 4, summary.TotalItems)
	assert.Equal(t, 2, summary.SuspiciousItems)
	assert.Equal(t, 1, summary.PaidInvoices)
	// inv-1 is overdue, inv-2 is not yet due, inv-3 is paid.
	assert.Equal(t, 1, summary.OverdueInvoices)
	assert.InDelta(t, 727.00, summary.TotalSpend, 0.001)

	require.Len(t, summary.Categories, 3)
	assert.Equal(t, "Furniture", summary.Categories[0].Category)
	assert.InDelta(t, 682.00, summary.Categories[0].Total, 0.001)
	assert.Equal(t, 2, summary.Categories[0].Items)
	assert.Equal(t, "Lighting", summary.Categories[1].Category)
	assert.Equal(t, "Uncategorized", summary.Categories[2].Category)
}

func TestBuildEmpty(t *testing.T) {
	summary := Build(nil, nil, time.Now())

	assert.Zero(t, summary.TotalInvoices)
	assert.Zero(t, summary.TotalSpend)
	assert.Empty(t, summary.Categories)
}

func TestBuildSkipsUnparseableDates(t *testing.T) {
	payables := []service.Payable{
		{InvoiceID: "inv-1", InvoiceDate: "sometime soon", Status: model.PaymentPending},
	}

	summary := Build(nil, payables, time.Now())

	assert.Zero(t, summary.OverdueInvoices)
}
