package main

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/hollis-dev/invoice-sentinel/internal/cli"
	"github.com/hollis-dev/invoice-sentinel/internal/common"
	"github.com/hollis-dev/invoice-sentinel/internal/model"
	"github.com/hollis-dev/invoice-sentinel/internal/service"
	"github.com/spf13/cobra"
)

func goalsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "goals",
		Short: "Manage purchasing goals",
		Long:  `List, add, import, and delete the purchasing goals that invoice line items are checked against.`,
	}

	cmd.AddCommand(listGoalsCmd())
	cmd.AddCommand(addGoalCmd())
	cmd.AddCommand(importGoalsCmd())
	cmd.AddCommand(deleteGoalCmd())

	return cmd
}

func listGoalsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all goals",
		Long:  `Display all purchasing goals with their quantities and due dates.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			goals, err := store.GetGoals(ctx)
			if err != nil {
				return fmt.Errorf("failed to get goals: %w", err)
			}

			if len(goals) == 0 {
				fmt.Println(cli.InfoStyle.Render("No goals found. Use 'sentinel goals add' to create one."))
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			defer w.Flush()

			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
				cli.TitleStyle.Render("ID"),
				cli.TitleStyle.Render("Goal"),
				cli.TitleStyle.Render("Quantity"),
				cli.TitleStyle.Render("Due"),
				cli.TitleStyle.Render("Outcome"))

			for i := range goals {
				g := &goals[i]
				quantity := cli.SubtleStyle.Render("(none)")
				if g.HasQuantity() {
					quantity = strconv.FormatInt(*g.ExpectedQuantity, 10)
				}
				due := cli.SubtleStyle.Render("(none)")
				if !g.DueDate.IsZero() {
					due = g.DueDate.Format("2006-01-02")
				}
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", g.ID, g.Name, quantity, due, g.Outcome)
			}

			return nil
		},
	}
}

func addGoalCmd() *cobra.Command {
	var (
		outcome   string
		keyResult string
		due       string
		quantity  int64
	)

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a new goal",
		Long:  `Create a purchasing goal. Scanned invoice items matching no goal are flagged as suspicious.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			name := strings.TrimSpace(args[0])

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			goal := &model.Goal{
				Name:      name,
				Outcome:   outcome,
				KeyResult: keyResult,
			}
			if cmd.Flags().Changed("quantity") {
				goal.ExpectedQuantity = &quantity
			}
			if due != "" {
				parsed, err := model.ParseDate(due)
				if err != nil {
					return fmt.Errorf("invalid due date: %w", err)
				}
				goal.DueDate = parsed
			}

			created, err := store.CreateGoal(ctx, goal)
			if err != nil {
				if errors.Is(err, common.ErrDuplicateEntry) {
					return fmt.Errorf("goal %q already exists", name)
				}
				return fmt.Errorf("failed to create goal: %w", err)
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Created goal %q (ID: %d)", created.Name, created.ID)))
			return nil
		},
	}

	cmd.Flags().Int64Var(&quantity, "quantity", 0, "Expected number of items (omit for no quantity check)")
	cmd.Flags().StringVar(&outcome, "outcome", "", "Expected outcome of the purchase")
	cmd.Flags().StringVar(&keyResult, "key-result", "", "Key result the purchase supports")
	cmd.Flags().StringVar(&due, "due", "", "Due date (e.g. 2026-03-31)")

	return cmd
}

func importGoalsCmd() *cobra.Command {
	var skipDuplicates bool

	cmd := &cobra.Command{
		Use:   "import <file.csv>",
		Short: "Import goals from a CSV file",
		Long: `Import purchasing goals from a CSV file with the columns
Goals, Number of Items, Outcomes, Due Date, Key Results.

Extra columns are ignored; header matching is case-insensitive.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			imported, skipped, err := importGoalsCSV(ctx, store, args[0], skipDuplicates)
			if err != nil {
				return err
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Imported %d goals (%d skipped)", imported, skipped)))
			return nil
		},
	}

	cmd.Flags().BoolVar(&skipDuplicates, "skip-duplicates", true, "Skip goals whose name already exists instead of failing")

	return cmd
}

// csvColumns maps the goal CSV's header names to field positions.
type csvColumns struct {
	name      int
	quantity  int
	outcome   int
	due       int
	keyResult int
}

func importGoalsCSV(ctx context.Context, store service.Storage, path string, skipDuplicates bool) (imported, skipped int, err error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to open goals file: %w", err)
	}
	defer func() { _ = f.Close() }()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return 0, 0, fmt.Errorf("failed to read CSV header: %w", err)
	}
	cols, err := resolveColumns(header)
	if err != nil {
		return 0, 0, err
	}

	line := 1
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return imported, skipped, fmt.Errorf("failed to read CSV line %d: %w", line+1, err)
		}
		line++

		goal, err := goalFromRecord(record, cols)
		if err != nil {
			return imported, skipped, fmt.Errorf("line %d: %w", line, err)
		}
		if goal == nil {
			skipped++
			continue
		}

		if _, err := store.CreateGoal(ctx, goal); err != nil {
			if skipDuplicates && errors.Is(err, common.ErrDuplicateEntry) {
				skipped++
				continue
			}
			return imported, skipped, fmt.Errorf("line %d: failed to create goal %q: %w", line, goal.Name, err)
		}
		imported++
	}

	return imported, skipped, nil
}

func resolveColumns(header []string) (csvColumns, error) {
	cols := csvColumns{name: -1, quantity: -1, outcome: -1, due: -1, keyResult: -1}
	for i, h := range header {
		switch strings.ToLower(strings.TrimSpace(h)) {
		case "goals", "goal":
			cols.name = i
		case "number of items", "quantity":
			cols.quantity = i
		case "outcomes", "outcome":
			cols.outcome = i
		case "due date", "due":
			cols.due = i
		case "key results", "key result":
			cols.keyResult = i
		}
	}
	if cols.name == -1 {
		return cols, fmt.Errorf("CSV is missing a Goals column")
	}
	return cols, nil
}

// goalFromRecord builds a goal from one CSV row. A nil goal with nil error
// means the row is blank and should be skipped.
func goalFromRecord(record []string, cols csvColumns) (*model.Goal, error) {
	field := func(idx int) string {
		if idx < 0 || idx >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[idx])
	}

	name := field(cols.name)
	if name == "" {
		return nil, nil
	}

	goal := &model.Goal{
		Name:      name,
		Outcome:   field(cols.outcome),
		KeyResult: field(cols.keyResult),
	}

	if raw := field(cols.quantity); raw != "" {
		quantity, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid quantity %q: %w", raw, err)
		}
		goal.ExpectedQuantity = &quantity
	}

	if raw := field(cols.due); raw != "" {
		due, err := model.ParseDate(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid due date: %w", err)
		}
		goal.DueDate = due
	}

	return goal, nil
}

func deleteGoalCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a goal",
		Long:  `Delete a goal. Items on future scans will no longer match it.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid goal ID: %w", err)
			}

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			if !force {
				fmt.Printf("Are you sure you want to delete goal %d? (y/N): ", id)
				var response string
				fmt.Scanln(&response)
				if strings.ToLower(response) != "y" {
					fmt.Println("Deletion cancelled.")
					return nil
				}
			}

			if err := store.DeleteGoal(ctx, id); err != nil {
				if errors.Is(err, common.ErrNotFound) {
					return fmt.Errorf("goal %d not found", id)
				}
				return fmt.Errorf("failed to delete goal: %w", err)
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Deleted goal %d", id)))
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Skip confirmation prompt")

	return cmd
}
