package storage

import (
	"context"
	"testing"

	"github.com/hollis-dev/invoice-sentinel/internal/common"
	"github.com/hollis-dev/invoice-sentinel/internal/model"
	"github.com/hollis-dev/invoice-sentinel/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleInvoice(id, number string) *model.Invoice {
	return &model.Invoice{
		ID:     id,
		Number: number,
		Date:   "19.07.2024",
		Summary: model.InvoiceSummary{
			Subtotal: 517.00,
			Tax:      51.70,
			Total:    568.70,
		},
	}
}

func sampleItems() []model.EvaluatedItem {
	return []model.EvaluatedItem{
		{
			Item:    model.InvoiceItem{Description: "office chairs", Category: "Furniture", Quantity: 4, Price: 120.50, Total: 482.00},
			Verdict: model.Verdict{Suspicious: false, MatchedGoal: "chairs"},
		},
		{
			Item:    model.InvoiceItem{Description: "desk lamp", Category: "Lighting", Quantity: 1, Price: 35.00, Total: 35.00},
			Verdict: model.Verdict{Suspicious: true},
		},
	}
}

func TestInvoiceRoundTrip(t *testing.T) {
	db := testStorage(t)
	ctx := context.Background()

	require.NoError(t, db.SaveInvoice(ctx, sampleInvoice("inv-1", "INV-1042"), sampleItems()))

	invoice, items, err := db.GetInvoice(ctx, "inv-1")
	require.NoError(t, err)
	assert.Equal(t, "INV-1042", invoice.Number)
	assert.Equal(t, "19.07.2024", invoice.Date)
	assert.InDelta(t, 568.70, invoice.Summary.Total, 0.001)

	require.Len(t, items, 2)
	assert.Equal(t, "office chairs", items[0].Item.Description)
	assert.False(t, items[0].Verdict.Suspicious)
	assert.Equal(t, "chairs", items[0].Verdict.MatchedGoal)
	assert.True(t, items[1].Verdict.Suspicious)
	assert.Empty(t, items[1].Verdict.MatchedGoal)
}

func TestGetInvoiceNotFound(t *testing.T) {
	db := testStorage(t)

	_, _, err := db.GetInvoice(context.Background(), "missing")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestGetLedgerRows(t *testing.T) {
	db := testStorage(t)
	ctx := context.Background()

	require.NoError(t, db.SaveInvoice(ctx, sampleInvoice("inv-1", "INV-1042"), sampleItems()))

	all, err := db.GetLedgerRows(ctx, service.InvoiceFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)
	assert.Equal(t, "INV-1042", all[0].InvoiceNumber)

	suspicious, err := db.GetLedgerRows(ctx, service.InvoiceFilter{SuspiciousOnly: true})
	require.NoError(t, err)
	require.Len(t, suspicious, 1)
	assert.Equal(t, "desk lamp", suspicious[0].Item.Description)

	limited, err := db.GetLedgerRows(ctx, service.InvoiceFilter{Limit: 1})
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestGetLedgerRowsFiltersByStatus(t *testing.T) {
	db := testStorage(t)
	ctx := context.Background()

	require.NoError(t, db.SaveInvoice(ctx, sampleInvoice("inv-1", "INV-1"), sampleItems()))
	require.NoError(t, db.SaveInvoice(ctx, sampleInvoice("inv-2", "INV-2"), sampleItems()))
	require.NoError(t, db.UpdatePaymentStatus(ctx, "inv-1", model.PaymentPaid))

	pending, err := db.GetLedgerRows(ctx, service.InvoiceFilter{Status: model.PaymentPending})
	require.NoError(t, err)
	for _, row := range pending {
		assert.Equal(t, "inv-2", row.InvoiceID)
	}
	assert.Len(t, pending, 2)
}

func TestPayables(t *testing.T) {
	db := testStorage(t)
	ctx := context.Background()

	require.NoError(t, db.SaveInvoice(ctx, sampleInvoice("inv-1", "INV-1"), sampleItems()))
	require.NoError(t, db.SaveInvoice(ctx, sampleInvoice("inv-2", "INV-2"), nil))

	payables, err := db.GetPayables(ctx)
	require.NoError(t, err)
	require.Len(t, payables, 2)

	byID := map[string]service.Payable{}
	for _, p := range payables {
		byID[p.InvoiceID] = p
	}

	assert.Equal(t, model.PaymentPending, byID["inv-1"].Status)
	assert.Equal(t, 1, byID["inv-1"].SuspiciousItems)
	assert.Equal(t, 0, byID["inv-2"].SuspiciousItems)
	assert.InDelta(t, 568.70, byID["inv-1"].Total, 0.001)
}

func TestUpdatePaymentStatus(t *testing.T) {
	db := testStorage(t)
	ctx := context.Background()

	require.NoError(t, db.SaveInvoice(ctx, sampleInvoice("inv-1", "INV-1"), nil))

	require.NoError(t, db.UpdatePaymentStatus(ctx, "inv-1", model.PaymentPaid))

	payables, err := db.GetPayables(ctx)
	require.NoError(t, err)
	require.Len(t, payables, 1)
	assert.Equal(t, model.PaymentPaid, payables[0].Status)
}

func TestUpdatePaymentStatusValidation(t *testing.T) {
	db := testStorage(t)
	ctx := context.Background()

	assert.ErrorIs(t, db.UpdatePaymentStatus(ctx, "missing", model.PaymentPaid), common.ErrNotFound)
	assert.Error(t, db.UpdatePaymentStatus(ctx, "inv-1", model.PaymentStatus("bogus")))
}
