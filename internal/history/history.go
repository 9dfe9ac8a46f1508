// Package history keeps an audit trail of import runs.
package history

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("run not found")

type Status string

const (
	StatusSubmitted Status = "submitted"
	StatusEmpty     Status = "empty" // nothing left to submit after normalization
	StatusPreview   Status = "preview"
	StatusFailed    Status = "failed"
)

// Run summarizes one pass of the pipeline.
type Run struct {
	ID         uuid.UUID `json:"id"`
	Mode       string    `json:"mode"`
	Status     Status    `json:"status"`
	Exported   int       `json:"exported"`
	Pending    int       `json:"pending"`
	Skipped    int       `json:"skipped"`
	Created    int       `json:"created"`
	Duplicates int       `json:"duplicates"`
	Collisions int       `json:"collisions"`
	BudgetID   string    `json:"budget_id,omitempty"`
	AccountID  string    `json:"account_id,omitempty"`
	Error      string    `json:"error,omitempty"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
}

// Duration is how long the run took.
func (r Run) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}
