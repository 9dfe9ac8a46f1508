// Package importid builds the identifiers the ledger uses to recognise a
// transaction it has already seen.
package importid

import (
	"fmt"
	"strconv"
	"time"

	"github.com/MrJamesThe3rd/bankbridge/internal/transaction"
)

// DefaultPrefix matches the ledger's own file-import convention.
const DefaultPrefix = "YNAB"

// Template returns the provisional id "<prefix>:<amount>:<date>:". The numeric
// suffix is appended by Assign once the whole batch is known.
func Template(prefix string, amount int64, date time.Time) string {
	if prefix == "" {
		prefix = DefaultPrefix
	}

	return fmt.Sprintf("%s:%d:%s:", prefix, amount, date.Format(time.DateOnly))
}

// Assign finalizes every import id and attaches the account id.
//
// The suffix is the number of other transactions in the batch carrying the
// same template, counted on the batch as it is before any suffix is added.
// All siblings therefore end up with the same id, so three or more
// transactions with equal amount and date are not told apart.
//
// Ids already stored by the ledger were issued with this rule. Keep it stable.
func Assign(b transaction.Batch, accountID string) transaction.Batch {
	siblings := make(map[string]int, len(b))
	for _, t := range b {
		siblings[t.ImportID]++
	}

	out := make(transaction.Batch, len(b))

	for i, t := range b {
		t.ImportID += strconv.Itoa(siblings[t.ImportID] - 1)
		t.AccountID = accountID
		out[i] = t
	}

	return out
}

// Collisions returns the finalized ids that occur more than once, in first
// occurrence order.
func Collisions(b transaction.Batch) []string {
	seen := make(map[string]int, len(b))

	var dup []string

	for _, t := range b {
		seen[t.ImportID]++
		if seen[t.ImportID] == 2 {
			dup = append(dup, t.ImportID)
		}
	}

	return dup
}
