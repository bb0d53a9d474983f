package storage

import (
	"context"
	"fmt"

	"github.com/hollis-dev/invoice-sentinel/internal/common"
	"github.com/hollis-dev/invoice-sentinel/internal/model"
	"github.com/hollis-dev/invoice-sentinel/internal/service"
)

// GetPayables returns one row per stored invoice with its payment status
// and suspicious item count, newest first.
func (s *SQLiteStorage) GetPayables(ctx context.Context) ([]service.Payable, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT i.id, i.number, COALESCE(i.invoice_date, ''), i.payment_status, i.total,
		       COALESCE(SUM(CASE WHEN it.suspicious THEN 1 ELSE 0 END), 0)
		FROM invoices i
		LEFT JOIN invoice_items it ON it.invoice_id = i.id
		GROUP BY i.id
		ORDER BY i.created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query payables: %w", err)
	}
	defer rows.Close()

	var payables []service.Payable
	for rows.Next() {
		var p service.Payable
		var status string
		if err := rows.Scan(&p.InvoiceID, &p.InvoiceNumber, &p.InvoiceDate, &status, &p.Total, &p.SuspiciousItems); err != nil {
			return nil, fmt.Errorf("failed to scan payable: %w", err)
		}
		p.Status = model.PaymentStatus(status)
		payables = append(payables, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating payables: %w", err)
	}
	return payables, nil
}

// UpdatePaymentStatus sets the payment status of a stored invoice.
func (s *SQLiteStorage) UpdatePaymentStatus(ctx context.Context, invoiceID string, status model.PaymentStatus) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(invoiceID, "invoiceID"); err != nil {
		return err
	}

	switch status {
	case model.PaymentPending, model.PaymentPaid, model.PaymentFailed:
	default:
		return fmt.Errorf("invalid payment status: %s", status)
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE invoices SET payment_status = ? WHERE id = ?`,
		string(status), invoiceID)
	if err != nil {
		return fmt.Errorf("failed to update payment status: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("invoice %s: %w", invoiceID, common.ErrNotFound)
	}
	return nil
}
