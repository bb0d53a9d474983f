package main

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/hollis-dev/invoice-sentinel/internal/cli"
	"github.com/hollis-dev/invoice-sentinel/internal/common"
	"github.com/hollis-dev/invoice-sentinel/internal/model"
	"github.com/spf13/cobra"
)

func payablesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "payables",
		Short: "Manage accounts payable",
		Long:  `List stored invoices awaiting payment and record payment outcomes.`,
	}

	cmd.AddCommand(listPayablesCmd())
	cmd.AddCommand(payCmd())

	return cmd
}

func listPayablesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List invoices with their payment status",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			payables, err := store.GetPayables(ctx)
			if err != nil {
				return fmt.Errorf("failed to get payables: %w", err)
			}

			if len(payables) == 0 {
				fmt.Println(cli.InfoStyle.Render("No invoices stored. Use 'sentinel scan' to ingest some."))
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			defer w.Flush()

			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
				cli.TitleStyle.Render("ID"),
				cli.TitleStyle.Render("Number"),
				cli.TitleStyle.Render("Date"),
				cli.TitleStyle.Render("Total"),
				cli.TitleStyle.Render("Status"),
				cli.TitleStyle.Render("Flagged"))

			for _, p := range payables {
				flagged := "-"
				if p.SuspiciousItems > 0 {
					flagged = cli.SuspiciousStyle.Render(fmt.Sprintf("%s %d", cli.SuspiciousIcon, p.SuspiciousItems))
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%.2f\t%s\t%s\n",
					p.InvoiceID, p.InvoiceNumber, p.InvoiceDate, p.Total, renderStatus(p.Status), flagged)
			}

			return nil
		},
	}
}

func renderStatus(status model.PaymentStatus) string {
	switch status {
	case model.PaymentPaid:
		return cli.SuccessStyle.Render(string(status))
	case model.PaymentFailed:
		return cli.ErrorStyle.Render(string(status))
	default:
		return cli.WarningStyle.Render(string(status))
	}
}

func payCmd() *cobra.Command {
	var (
		status string
		force  bool
	)

	cmd := &cobra.Command{
		Use:   "pay <invoice-id>",
		Short: "Record a payment outcome for an invoice",
		Long: `Mark an invoice as paid or failed. Paying an invoice with flagged
items requires --force.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			invoiceID := args[0]

			newStatus := model.PaymentStatus(strings.ToLower(status))
			if newStatus != model.PaymentPaid && newStatus != model.PaymentFailed {
				return fmt.Errorf("invalid status %q (want paid or failed)", status)
			}

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			if newStatus == model.PaymentPaid && !force {
				_, items, err := store.GetInvoice(ctx, invoiceID)
				if err != nil {
					if errors.Is(err, common.ErrNotFound) {
						return fmt.Errorf("invoice %q not found", invoiceID)
					}
					return fmt.Errorf("failed to load invoice: %w", err)
				}
				var flagged int
				for _, e := range items {
					if e.Verdict.Suspicious {
						flagged++
					}
				}
				if flagged > 0 {
					return fmt.Errorf("invoice has %d flagged items; rerun with --force to pay anyway", flagged)
				}
			}

			if err := store.UpdatePaymentStatus(ctx, invoiceID, newStatus); err != nil {
				if errors.Is(err, common.ErrNotFound) {
					return fmt.Errorf("invoice %q not found", invoiceID)
				}
				return fmt.Errorf("failed to update payment status: %w", err)
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Marked invoice %s as %s", invoiceID, newStatus)))
			return nil
		},
	}

	cmd.Flags().StringVar(&status, "status", "paid", "Payment outcome (paid, failed)")
	cmd.Flags().BoolVar(&force, "force", false, "Pay even when the invoice has flagged items")

	return cmd
}
