package transaction

import (
	"time"
)

// Clearance is the settlement state the ledger records for a transaction.
type Clearance string

const (
	Cleared   Clearance = "cleared"
	Uncleared Clearance = "uncleared"
)

// Source records which input a transaction was built from.
type Source string

const (
	SourceExport  Source = "export"
	SourcePending Source = "pending"
)

// Field limits enforced by the ledger.
const (
	MaxPayeeLen = 49
	MaxMemoLen  = 99
)

// Transaction is the canonical shape every bank row is normalized into.
type Transaction struct {
	PayeeName string
	Date      time.Time // UTC midnight of the booking day
	Memo      string
	Amount    int64 // ledger milliunits, negative for outflows
	Cleared   Clearance
	ImportID  string // provisional template until finalized by importid.Assign
	AccountID string // set together with the final import id
	Source    Source
}

// DateString renders the date the way the ledger expects it.
func (t Transaction) DateString() string {
	return t.Date.Format(time.DateOnly)
}

// Batch is an ordered set of transactions headed for one submission.
type Batch []Transaction

// Clone returns a copy that can be modified without touching b.
func (b Batch) Clone() Batch {
	if b == nil {
		return nil
	}

	out := make(Batch, len(b))
	copy(out, b)

	return out
}

// Count returns how many transactions come from the given source.
func (b Batch) Count(src Source) int {
	n := 0

	for _, t := range b {
		if t.Source == src {
			n++
		}
	}

	return n
}
