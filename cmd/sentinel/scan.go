package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/hollis-dev/invoice-sentinel/internal/cli"
	"github.com/hollis-dev/invoice-sentinel/internal/engine"
	"github.com/hollis-dev/invoice-sentinel/internal/extract"
	"github.com/hollis-dev/invoice-sentinel/internal/model"
	"github.com/hollis-dev/invoice-sentinel/internal/ocr"
	"github.com/hollis-dev/invoice-sentinel/internal/service"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

func scanCmd() *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "scan <image>...",
		Short: "Scan invoice images for suspicious items",
		Long: `Run one or more invoice images through OCR, extract their line items,
and check every item against the current purchasing goals.

Items matching no goal, or exceeding a goal's expected quantity, are
flagged as suspicious. Results are stored for the payables and report
commands unless --dry-run is given.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScan(cmd.Context(), args, dryRun)
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Print verdicts without storing anything")

	return cmd
}

// scanPipeline holds the wired services one scan run needs.
type scanPipeline struct {
	store     service.Storage
	reader    *ocr.Reader
	extractor *extract.Extractor
	engine    *engine.SuspicionEngine
	goals     []model.Goal
}

func runScan(ctx context.Context, paths []string, dryRun bool) error {
	logger := slog.Default()
	start := time.Now()

	store, err := initStorage(ctx)
	if err != nil {
		return err
	}
	defer store.Close()

	client, err := createLLMClient()
	if err != nil {
		return fmt.Errorf("failed to initialize LLM: %w", err)
	}

	goals, err := store.GetGoals(ctx)
	if err != nil {
		return fmt.Errorf("failed to load goals: %w", err)
	}
	if len(goals) == 0 {
		fmt.Println(cli.FormatWarning("No goals defined; every scanned item will be flagged as suspicious."))
	}

	pipeline := &scanPipeline{
		store:     store,
		reader:    createOCRReader(logger),
		extractor: extract.New(client, retryOptions(), logger),
		engine:    engine.New(createVariationSource(client, logger), logger),
		goals:     goals,
	}

	bar := newScanProgressBar(len(paths))
	var stats service.ScanStats
	var failures int

	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return err
		}

		if err := pipeline.scanOne(ctx, path, dryRun, &stats); err != nil {
			failures++
			fmt.Println(cli.FormatError(fmt.Sprintf("%s: %v", path, err)))
		}
		_ = bar.Add(1)
	}
	stats.Duration = time.Since(start)

	printScanSummary(stats, failures, dryRun)
	if failures > 0 {
		return fmt.Errorf("%d of %d invoices failed to scan", failures, len(paths))
	}
	return nil
}

func (p *scanPipeline) scanOne(ctx context.Context, path string, dryRun bool, stats *service.ScanStats) error {
	text, err := p.reader.Text(ctx, path)
	if err != nil {
		return err
	}

	invoice, err := p.extractor.Extract(ctx, text)
	if err != nil {
		return err
	}
	invoice.SourceFile = path

	verdicts := p.engine.EvaluateInvoice(ctx, invoice.Items, p.goals)
	evaluated := make([]model.EvaluatedItem, len(invoice.Items))
	for i, item := range invoice.Items {
		evaluated[i] = model.EvaluatedItem{Item: item, Verdict: verdicts[i]}
	}

	if !dryRun {
		if err := p.store.SaveInvoice(ctx, invoice, evaluated); err != nil {
			return fmt.Errorf("failed to store invoice: %w", err)
		}
	}

	stats.Invoices++
	stats.Items += len(evaluated)
	for _, e := range evaluated {
		if e.Verdict.Suspicious {
			stats.SuspiciousItems++
			printVerdict(invoice, e)
		}
	}
	return nil
}

func printVerdict(invoice *model.Invoice, e model.EvaluatedItem) {
	label := "matches no goal"
	if e.Verdict.Identified() {
		label = fmt.Sprintf("exceeds goal %q", e.Verdict.MatchedGoal)
	}
	fmt.Println(cli.FormatSuspicious(fmt.Sprintf("%s: %q (qty %.0f) %s",
		invoice.Number, e.Item.Description, e.Item.Quantity, label)))
}

func newScanProgressBar(total int) *progressbar.ProgressBar {
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowCount(),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription("[cyan][bold]Scanning invoices...[reset]"),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprintln(os.Stderr)
		}),
	)
}

func printScanSummary(stats service.ScanStats, failures int, dryRun bool) {
	fmt.Println(cli.FormatTitle("Scan complete"))
	fmt.Printf("  Invoices: %d\n", stats.Invoices)
	fmt.Printf("  Items:    %d\n", stats.Items)
	if stats.SuspiciousItems > 0 {
		fmt.Println(cli.SuspiciousStyle.Render(fmt.Sprintf("  Flagged:  %d", stats.SuspiciousItems)))
	} else {
		fmt.Printf("  Flagged:  0\n")
	}
	if failures > 0 {
		fmt.Println(cli.ErrorStyle.Render(fmt.Sprintf("  Failed:   %d", failures)))
	}
	fmt.Printf("  Duration: %s\n", stats.Duration.Round(time.Millisecond))
	if dryRun {
		fmt.Println(cli.SubtleStyle.Render("  (dry run, nothing stored)"))
	}
}
