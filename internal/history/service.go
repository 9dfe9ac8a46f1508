package history

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=history
type Repository interface {
	CreateRun(ctx context.Context, run *Run) error
	GetRun(ctx context.Context, id uuid.UUID) (*Run, error)
	ListRuns(ctx context.Context, limit int) ([]*Run, error)
}

const (
	DefaultListLimit = 50
	MaxListLimit     = 500
)

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// Record stores a finished run. A missing id or finish time is filled in.
func (s *Service) Record(ctx context.Context, run *Run) error {
	if run.ID == uuid.Nil {
		run.ID = uuid.New()
	}

	if run.FinishedAt.IsZero() {
		run.FinishedAt = s.now().UTC()
	}

	if run.StartedAt.IsZero() {
		run.StartedAt = run.FinishedAt
	}

	if err := s.repo.CreateRun(ctx, run); err != nil {
		return fmt.Errorf("recording run: %w", err)
	}

	return nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Run, error) {
	run, err := s.repo.GetRun(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("getting run: %w", err)
	}

	return run, nil
}

// List returns the most recent runs first. Limits outside (0, MaxListLimit]
// fall back to DefaultListLimit or MaxListLimit.
func (s *Service) List(ctx context.Context, limit int) ([]*Run, error) {
	switch {
	case limit <= 0:
		limit = DefaultListLimit
	case limit > MaxListLimit:
		limit = MaxListLimit
	}

	runs, err := s.repo.ListRuns(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}

	return runs, nil
}
