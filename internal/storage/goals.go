package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/hollis-dev/invoice-sentinel/internal/common"
	"github.com/hollis-dev/invoice-sentinel/internal/model"
)

// CreateGoal inserts a new goal and returns it with its assigned ID.
func (s *SQLiteStorage) CreateGoal(ctx context.Context, goal *model.Goal) (*model.Goal, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if goal == nil || strings.TrimSpace(goal.Name) == "" {
		return nil, fmt.Errorf("%w: name cannot be empty", common.ErrMalformedGoal)
	}

	var dueDate any
	if !goal.DueDate.IsZero() {
		dueDate = goal.DueDate
	}

	result, err := s.db.ExecContext(ctx, `
		INSERT INTO goals (name, expected_quantity, outcome, key_result, due_date)
		VALUES (?, ?, ?, ?, ?)`,
		goal.Name, goal.ExpectedQuantity, goal.Outcome, goal.KeyResult, dueDate,
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return nil, fmt.Errorf("goal %q: %w", goal.Name, common.ErrDuplicateEntry)
		}
		return nil, fmt.Errorf("failed to insert goal: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get goal id: %w", err)
	}

	created := *goal
	created.ID = id
	created.CreatedAt = time.Now()

	slog.Debug("created goal", "id", id, "name", goal.Name)
	return &created, nil
}

// GetGoals returns all goals in insertion order. The order matters: the
// engine's first-matching-goal-wins tie-break follows it.
func (s *SQLiteStorage) GetGoals(ctx context.Context) ([]model.Goal, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, expected_quantity, outcome, key_result, due_date, created_at
		FROM goals
		ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query goals: %w", err)
	}
	defer rows.Close()

	var goals []model.Goal
	for rows.Next() {
		goal, scanErr := scanGoal(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		goals = append(goals, *goal)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating goals: %w", err)
	}

	return goals, nil
}

// GetGoalByName returns the goal with the given name, or ErrNotFound.
func (s *SQLiteStorage) GetGoalByName(ctx context.Context, name string) (*model.Goal, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(name, "name"); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, expected_quantity, outcome, key_result, due_date, created_at
		FROM goals
		WHERE name = ?`, name)

	goal, err := scanGoal(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("goal %q: %w", name, common.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return goal, nil
}

// DeleteGoal removes a goal by ID.
func (s *SQLiteStorage) DeleteGoal(ctx context.Context, id int64) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `DELETE FROM goals WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete goal: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("goal %d: %w", id, common.ErrNotFound)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanGoal(row rowScanner) (*model.Goal, error) {
	var goal model.Goal
	var quantity sql.NullInt64
	var outcome, keyResult sql.NullString
	var dueDate sql.NullTime

	err := row.Scan(&goal.ID, &goal.Name, &quantity, &outcome, &keyResult, &dueDate, &goal.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan goal: %w", err)
	}

	if quantity.Valid {
		q := quantity.Int64
		goal.ExpectedQuantity = &q
	}
	goal.Outcome = outcome.String
	goal.KeyResult = keyResult.String
	if dueDate.Valid {
		goal.DueDate = dueDate.Time
	}

	return &goal, nil
}
