// Package report aggregates stored invoice data into expenditure summaries.
package report

import (
	"sort"
	"time"

	"github.com/hollis-dev/invoice-sentinel/internal/model"
	"github.com/hollis-dev/invoice-sentinel/internal/service"
)

// CategoryTotal is the spend accumulated under one item category.
type CategoryTotal struct {
	Category string
	Total    float64
	Items    int
}

// Summary is the expenditure analysis over the stored ledger.
type Summary struct {
	Categories      []CategoryTotal
	TotalInvoices   int
	TotalSpend      float64
	TotalItems      int
	SuspiciousItems int
	OverdueInvoices int
	PaidInvoices    int
}

// Build computes a summary over ledger rows and payables. An invoice counts
// as overdue when its date parses to before now and it has not been paid;
// unparseable dates are skipped rather than guessed at.
func Build(rows []service.LedgerRow, payables []service.Payable, now time.Time) Summary {
	summary := Summary{
		TotalInvoices: len(payables),
		TotalItems:    len(rows),
	}

	byCategory := make(map[string]*CategoryTotal)
	for _, row := range rows {
		if row.Verdict.Suspicious {
			summary.SuspiciousItems++
		}

		amount := row.Item.Total
		if amount == 0 {
			amount = row.Item.Quantity * row.Item.Price
		}
		summary.TotalSpend += amount

		category := row.Item.Category
		if category == "" {
			category = "Uncategorized"
		}
		ct, ok := byCategory[category]
		if !ok {
			ct = &CategoryTotal{Category: category}
			byCategory[category] = ct
		}
		ct.Total += amount
		ct.Items++
	}

	for _, ct := range byCategory {
		summary.Categories = append(summary.Categories, *ct)
	}
	sort.Slice(summary.Categories, func(i, j int) bool {
		if summary.Categories[i].Total != summary.Categories[j].Total {
			return summary.Categories[i].Total > summary.Categories[j].Total
		}
		return summary.Categories[i].Category < summary.Categories[j].Category
	})

	for _, p := range payables {
		if p.Status == model.PaymentPaid {
			summary.PaidInvoices++
			continue
		}
		if model.Overdue(p.InvoiceDate, now) {
			summary.OverdueInvoices++
		}
	}

	return summary
}
