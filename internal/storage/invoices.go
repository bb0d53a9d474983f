package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/hollis-dev/invoice-sentinel/internal/common"
	"github.com/hollis-dev/invoice-sentinel/internal/model"
	"github.com/hollis-dev/invoice-sentinel/internal/service"
)

// SaveInvoice stores an invoice and its evaluated line items atomically.
func (s *SQLiteStorage) SaveInvoice(ctx context.Context, invoice *model.Invoice, items []model.EvaluatedItem) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if invoice == nil || invoice.ID == "" {
		return fmt.Errorf("invoice must have an id")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO invoices (id, number, invoice_date, source_file, subtotal, tax, total, payment_status)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		invoice.ID, invoice.Number, invoice.Date, invoice.SourceFile,
		invoice.Summary.Subtotal, invoice.Summary.Tax, invoice.Summary.Total,
		string(model.PaymentPending),
	)
	if err != nil {
		return fmt.Errorf("failed to insert invoice: %w", err)
	}

	for _, item := range items {
		var matchedGoal any
		if item.Verdict.MatchedGoal != "" {
			matchedGoal = item.Verdict.MatchedGoal
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO invoice_items (invoice_id, description, category, quantity, price, total, suspicious, matched_goal)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			invoice.ID, item.Item.Description, item.Item.Category,
			item.Item.Quantity, item.Item.Price, item.Item.Total,
			item.Verdict.Suspicious, matchedGoal,
		)
		if err != nil {
			return fmt.Errorf("failed to insert invoice item: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit invoice: %w", err)
	}

	slog.Debug("saved invoice", "id", invoice.ID, "number", invoice.Number, "items", len(items))
	return nil
}

// GetInvoice returns a stored invoice and its evaluated items.
func (s *SQLiteStorage) GetInvoice(ctx context.Context, id string) (*model.Invoice, []model.EvaluatedItem, error) {
	if err := validateContext(ctx); err != nil {
		return nil, nil, err
	}
	if err := validateString(id, "id"); err != nil {
		return nil, nil, err
	}

	var invoice model.Invoice
	var date, sourceFile sql.NullString
	err := s.db.QueryRowContext(ctx, `
		SELECT id, number, invoice_date, source_file, subtotal, tax, total, created_at
		FROM invoices
		WHERE id = ?`, id,
	).Scan(&invoice.ID, &invoice.Number, &date, &sourceFile,
		&invoice.Summary.Subtotal, &invoice.Summary.Tax, &invoice.Summary.Total,
		&invoice.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil, fmt.Errorf("invoice %s: %w", id, common.ErrNotFound)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query invoice: %w", err)
	}
	invoice.Date = date.String
	invoice.SourceFile = sourceFile.String

	rows, err := s.db.QueryContext(ctx, `
		SELECT description, category, quantity, price, total, suspicious, matched_goal
		FROM invoice_items
		WHERE invoice_id = ?
		ORDER BY id`, id)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query invoice items: %w", err)
	}
	defer rows.Close()

	var items []model.EvaluatedItem
	for rows.Next() {
		item, scanErr := scanEvaluatedItem(rows)
		if scanErr != nil {
			return nil, nil, scanErr
		}
		items = append(items, *item)
		invoice.Items = append(invoice.Items, item.Item)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("error iterating invoice items: %w", err)
	}

	return &invoice, items, nil
}

// GetLedgerRows returns stored line items joined with invoice fields,
// newest invoices first.
func (s *SQLiteStorage) GetLedgerRows(ctx context.Context, filter service.InvoiceFilter) ([]service.LedgerRow, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	query := `
		SELECT i.id, i.number, i.invoice_date,
		       it.description, it.category, it.quantity, it.price, it.total,
		       it.suspicious, it.matched_goal
		FROM invoice_items it
		JOIN invoices i ON i.id = it.invoice_id`

	var conditions []string
	var args []any
	if filter.SuspiciousOnly {
		conditions = append(conditions, "it.suspicious = 1")
	}
	if filter.Status != "" {
		conditions = append(conditions, "i.payment_status = ?")
		args = append(args, string(filter.Status))
	}
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY i.created_at DESC, it.id"
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query ledger rows: %w", err)
	}
	defer rows.Close()

	var ledger []service.LedgerRow
	for rows.Next() {
		var row service.LedgerRow
		var date sql.NullString
		var category sql.NullString
		var matchedGoal sql.NullString

		err := rows.Scan(&row.InvoiceID, &row.InvoiceNumber, &date,
			&row.Item.Description, &category, &row.Item.Quantity,
			&row.Item.Price, &row.Item.Total,
			&row.Verdict.Suspicious, &matchedGoal)
		if err != nil {
			return nil, fmt.Errorf("failed to scan ledger row: %w", err)
		}

		row.InvoiceDate = date.String
		row.Item.Category = category.String
		row.Verdict.MatchedGoal = matchedGoal.String
		ledger = append(ledger, row)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating ledger rows: %w", err)
	}
	return ledger, nil
}

func scanEvaluatedItem(rows *sql.Rows) (*model.EvaluatedItem, error) {
	var item model.EvaluatedItem
	var category, matchedGoal sql.NullString

	err := rows.Scan(&item.Item.Description, &category, &item.Item.Quantity,
		&item.Item.Price, &item.Item.Total,
		&item.Verdict.Suspicious, &matchedGoal)
	if err != nil {
		return nil, fmt.Errorf("failed to scan invoice item: %w", err)
	}

	item.Item.Category = category.String
	item.Verdict.MatchedGoal = matchedGoal.String
	return &item, nil
}
