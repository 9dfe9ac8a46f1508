// Package importer runs an export through the whole pipeline: reading,
// normalization, pending merge, import id assignment and submission.
package importer

import (
	"io"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/bankbridge/internal/ledger"
	"github.com/MrJamesThe3rd/bankbridge/internal/normalize"
	"github.com/MrJamesThe3rd/bankbridge/internal/pending"
	"github.com/MrJamesThe3rd/bankbridge/internal/statement"
	"github.com/MrJamesThe3rd/bankbridge/internal/transaction"
)

// Input is the raw material of one run as handed over by the scraper.
type Input struct {
	Export  io.Reader
	Mode    statement.Mode
	Pending []pending.Row
}

// Prepared is a normalized batch that has not been sent anywhere.
type Prepared struct {
	Batch    transaction.Batch
	Skipped  []normalize.Skip
	Balances int
}

func (p Prepared) Exported() int {
	return p.Batch.Count(transaction.SourceExport)
}

func (p Prepared) Pending() int {
	return p.Batch.Count(transaction.SourcePending)
}

// Report describes a finished sync.
type Report struct {
	RunID      uuid.UUID
	Prepared   Prepared
	Target     ledger.Target
	Result     ledger.Result
	Collisions []string
}
