package main

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/hollis-dev/invoice-sentinel/internal/cli"
	"github.com/hollis-dev/invoice-sentinel/internal/export"
	"github.com/hollis-dev/invoice-sentinel/internal/model"
	"github.com/hollis-dev/invoice-sentinel/internal/report"
	"github.com/hollis-dev/invoice-sentinel/internal/service"
	"github.com/spf13/cobra"
)

func reportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Analyze stored spending",
		Long:  `Summarize stored invoice spending by category and export the ledger to a spreadsheet.`,
	}

	cmd.AddCommand(summaryReportCmd())
	cmd.AddCommand(exportReportCmd())

	return cmd
}

func ledgerFilterFlags(cmd *cobra.Command, suspiciousOnly *bool, status *string, limit *int) {
	cmd.Flags().BoolVar(suspiciousOnly, "suspicious-only", false, "Only include flagged items")
	cmd.Flags().StringVar(status, "status", "", "Only include invoices with this payment status (pending, paid, failed)")
	cmd.Flags().IntVar(limit, "limit", 0, "Maximum number of items (0 for all)")
}

func summaryReportCmd() *cobra.Command {
	var (
		suspiciousOnly bool
		status         string
		limit          int
	)

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Print an expenditure summary",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			filter := service.InvoiceFilter{
				Status:         model.PaymentStatus(status),
				SuspiciousOnly: suspiciousOnly,
				Limit:          limit,
			}
			rows, err := store.GetLedgerRows(ctx, filter)
			if err != nil {
				return fmt.Errorf("failed to load ledger: %w", err)
			}
			payables, err := store.GetPayables(ctx)
			if err != nil {
				return fmt.Errorf("failed to load payables: %w", err)
			}

			summary := report.Build(rows, payables, time.Now())
			printSummary(summary)
			return nil
		},
	}

	ledgerFilterFlags(cmd, &suspiciousOnly, &status, &limit)

	return cmd
}

func printSummary(summary report.Summary) {
	fmt.Println(cli.FormatTitle("Expenditure Summary"))
	fmt.Printf("  Invoices:  %d (%d paid, %d overdue)\n",
		summary.TotalInvoices, summary.PaidInvoices, summary.OverdueInvoices)
	fmt.Printf("  Items:     %d\n", summary.TotalItems)
	fmt.Printf("  Spend:     %.2f\n", summary.TotalSpend)
	if summary.SuspiciousItems > 0 {
		fmt.Println(cli.SuspiciousStyle.Render(fmt.Sprintf("  Flagged:   %d", summary.SuspiciousItems)))
	}

	if len(summary.Categories) == 0 {
		return
	}

	fmt.Println()
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	defer w.Flush()

	fmt.Fprintf(w, "%s\t%s\t%s\n",
		cli.TitleStyle.Render("Category"),
		cli.TitleStyle.Render("Items"),
		cli.TitleStyle.Render("Total"))
	for _, c := range summary.Categories {
		fmt.Fprintf(w, "%s\t%d\t%.2f\n", c.Category, c.Items, c.Total)
	}
}

func exportReportCmd() *cobra.Command {
	var (
		output         string
		suspiciousOnly bool
		status         string
		limit          int
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the ledger to an XLSX spreadsheet",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			filter := service.InvoiceFilter{
				Status:         model.PaymentStatus(status),
				SuspiciousOnly: suspiciousOnly,
				Limit:          limit,
			}
			rows, err := store.GetLedgerRows(ctx, filter)
			if err != nil {
				return fmt.Errorf("failed to load ledger: %w", err)
			}

			data, err := export.LedgerXLSX(rows)
			if err != nil {
				return fmt.Errorf("failed to build spreadsheet: %w", err)
			}

			if err := os.WriteFile(output, data, 0o644); err != nil {
				return fmt.Errorf("failed to write spreadsheet: %w", err)
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Exported %d items to %s", len(rows), output)))
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "ledger.xlsx", "Output file path")
	ledgerFilterFlags(cmd, &suspiciousOnly, &status, &limit)

	return cmd
}
