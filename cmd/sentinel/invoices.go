package main

import (
	"errors"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/hollis-dev/invoice-sentinel/internal/cli"
	"github.com/hollis-dev/invoice-sentinel/internal/common"
	"github.com/hollis-dev/invoice-sentinel/internal/model"
	"github.com/hollis-dev/invoice-sentinel/internal/service"
	"github.com/spf13/cobra"
)

func invoicesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "invoices",
		Short: "Inspect stored invoices",
		Long:  `List stored invoice line items and show individual invoices with their verdicts.`,
	}

	cmd.AddCommand(listInvoicesCmd())
	cmd.AddCommand(showInvoiceCmd())

	return cmd
}

func listInvoicesCmd() *cobra.Command {
	var (
		suspiciousOnly bool
		status         string
		limit          int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored invoice line items",
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

			if len(rows) == 0 {
				fmt.Println(cli.InfoStyle.Render("No invoice items stored. Use 'sentinel scan' to ingest some."))
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			defer w.Flush()

			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
				cli.TitleStyle.Render("Invoice"),
				cli.TitleStyle.Render("Date"),
				cli.TitleStyle.Render("Item"),
				cli.TitleStyle.Render("Qty"),
				cli.TitleStyle.Render("Total"),
				cli.TitleStyle.Render("Verdict"),
				cli.TitleStyle.Render("Matched Goal"))

			for _, row := range rows {
				verdict := cli.SuccessStyle.Render(cli.SuccessIcon + " ok")
				if row.Verdict.Suspicious {
					verdict = cli.SuspiciousStyle.Render(cli.SuspiciousIcon + " suspicious")
				}
				matched := row.Verdict.MatchedGoal
				if matched == "" {
					matched = cli.SubtleStyle.Render("(none)")
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%.0f\t%.2f\t%s\t%s\n",
					row.InvoiceNumber, row.InvoiceDate, row.Item.Description,
					row.Item.Quantity, row.Item.Total, verdict, matched)
			}

			return nil
		},
	}

	ledgerFilterFlags(cmd, &suspiciousOnly, &status, &limit)

	return cmd
}

func showInvoiceCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one invoice with its verdicts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			invoice, items, err := store.GetInvoice(ctx, args[0])
			if err != nil {
				if errors.Is(err, common.ErrNotFound) {
					return fmt.Errorf("invoice %q not found", args[0])
				}
				return fmt.Errorf("failed to load invoice: %w", err)
			}

			fmt.Println(cli.FormatTitle(fmt.Sprintf("Invoice %s", invoice.Number)))
			fmt.Printf("  ID:     %s\n", invoice.ID)
			fmt.Printf("  Date:   %s\n", invoice.Date)
			fmt.Printf("  Source: %s\n", invoice.SourceFile)
			fmt.Printf("  Total:  %.2f (subtotal %.2f, tax %.2f)\n\n",
				invoice.Summary.Total, invoice.Summary.Subtotal, invoice.Summary.Tax)

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			defer w.Flush()

			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
				cli.TitleStyle.Render("Item"),
				cli.TitleStyle.Render("Qty"),
				cli.TitleStyle.Render("Total"),
				cli.TitleStyle.Render("Verdict"),
				cli.TitleStyle.Render("Matched Goal"))

			for _, e := range items {
				verdict := cli.SuccessStyle.Render(cli.SuccessIcon + " ok")
				if e.Verdict.Suspicious {
					verdict = cli.SuspiciousStyle.Render(cli.SuspiciousIcon + " suspicious")
				}
				matched := e.Verdict.MatchedGoal
				if matched == "" {
					matched = cli.SubtleStyle.Render("(none)")
				}
				fmt.Fprintf(w, "%s\t%.0f\t%.2f\t%s\t%s\n",
					e.Item.Description, e.Item.Quantity, e.Item.Total, verdict, matched)
			}

			return nil
		},
	}
}
