package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/bankbridge/internal/history"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

const selectRunColumns = `
	id, mode, status, exported, pending, skipped, created, duplicates, collisions,
	budget_id, account_id, error, started_at, finished_at
`

func scanRun(s scanner) (*history.Run, error) {
	var run history.Run

	var status string

	var budgetID, accountID, runErr sql.NullString

	if err := s.Scan(
		&run.ID, &run.Mode, &status,
		&run.Exported, &run.Pending, &run.Skipped, &run.Created, &run.Duplicates, &run.Collisions,
		&budgetID, &accountID, &runErr, &run.StartedAt, &run.FinishedAt,
	); err != nil {
		return nil, err
	}

	run.Status = history.Status(status)
	run.BudgetID = budgetID.String
	run.AccountID = accountID.String
	run.Error = runErr.String

	return &run, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func (s *Store) CreateRun(ctx context.Context, run *history.Run) error {
	query := `
		INSERT INTO import_runs (
			id, mode, status, exported, pending, skipped, created, duplicates, collisions,
			budget_id, account_id, error, started_at, finished_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`

	_, err := s.db.ExecContext(ctx, query,
		run.ID,
		run.Mode,
		string(run.Status),
		run.Exported,
		run.Pending,
		run.Skipped,
		run.Created,
		run.Duplicates,
		run.Collisions,
		nullString(run.BudgetID),
		nullString(run.AccountID),
		nullString(run.Error),
		run.StartedAt,
		run.FinishedAt,
	)
	if err != nil {
		return fmt.Errorf("creating run: %w", err)
	}

	return nil
}

func (s *Store) GetRun(ctx context.Context, id uuid.UUID) (*history.Run, error) {
	query := `SELECT ` + selectRunColumns + ` FROM import_runs WHERE id = $1`

	run, err := scanRun(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, history.ErrNotFound
		}

		return nil, fmt.Errorf("getting run: %w", err)
	}

	return run, nil
}

func (s *Store) ListRuns(ctx context.Context, limit int) ([]*history.Run, error) {
	query := `SELECT ` + selectRunColumns + `
		FROM import_runs
		ORDER BY started_at DESC, id
		LIMIT $1`

	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}
	defer rows.Close()

	var runs []*history.Run

	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}

		runs = append(runs, run)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating runs: %w", err)
	}

	return runs, nil
}
