// Package export produces XLSX workbooks over stored invoice data.
package export

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/hollis-dev/invoice-sentinel/internal/service"
)

const ledgerSheet = "Invoice Items"

// LedgerXLSX renders ledger rows into an XLSX workbook and returns its bytes.
func LedgerXLSX(rows []service.LedgerRow) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	index, err := f.NewSheet(ledgerSheet)
	if err != nil {
		return nil, fmt.Errorf("create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("drop default sheet: %w", err)
	}

	headers := []string{
		"Invoice Number",
		"Invoice Date",
		"Description",
		"Quantity",
		"Price",
		"Total",
		"Category",
		"Suspicious",
		"Matched Goal",
	}
	for i, h := range headers {
		cell, cellErr := excelize.CoordinatesToCellName(i+1, 1)
		if cellErr != nil {
			return nil, cellErr
		}
		if err := f.SetCellValue(ledgerSheet, cell, h); err != nil {
			return nil, fmt.Errorf("write header: %w", err)
		}
	}

	for r, row := range rows {
		values := []any{
			row.InvoiceNumber,
			row.InvoiceDate,
			row.Item.Description,
			row.Item.Quantity,
			row.Item.Price,
			row.Item.Total,
			row.Item.Category,
			row.Verdict.Suspicious,
			row.Verdict.MatchedGoal,
		}
		for c, v := range values {
			cell, cellErr := excelize.CoordinatesToCellName(c+1, r+2)
			if cellErr != nil {
				return nil, cellErr
			}
			if err := f.SetCellValue(ledgerSheet, cell, v); err != nil {
				return nil, fmt.Errorf("write row %d: %w", r+1, err)
			}
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}
