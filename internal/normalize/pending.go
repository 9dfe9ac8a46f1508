package normalize

import (
	"fmt"

	"github.com/MrJamesThe3rd/bankbridge/internal/pending"
	"github.com/MrJamesThe3rd/bankbridge/internal/statement"
	"github.com/MrJamesThe3rd/bankbridge/internal/transaction"
)

// MergePending appends one uncleared transaction per pending row. The
// transactions already in b are left untouched and an empty list returns b
// itself.
func (n *Normalizer) MergePending(b transaction.Batch, rows []pending.Row) (transaction.Batch, []Skip) {
	if len(rows) == 0 {
		return b, nil
	}

	out := make(transaction.Batch, len(b), len(b)+len(rows))
	copy(out, b)

	var skips []Skip

	for i, row := range rows {
		t, err := n.pendingTransaction(row)
		if err != nil {
			skip := Skip{
				Line:   i + 1,
				Kind:   statement.KindChecking,
				Source: transaction.SourcePending,
				Reason: err.Error(),
			}
			n.logger.Warn("skipping pending row", "entry", skip.Line, "reason", skip.Reason)
			skips = append(skips, skip)

			continue
		}

		out = append(out, t)
	}

	return out, skips
}

func (n *Normalizer) pendingTransaction(row pending.Row) (transaction.Transaction, error) {
	date, err := parseDate(row.Date)
	if err != nil {
		return transaction.Transaction{}, err
	}

	amount, err := SplitAmount(row.Debit, row.Credit)
	if err != nil {
		return transaction.Transaction{}, fmt.Errorf("pending %q: %w", row.Memo, err)
	}

	return n.ok(transaction.Transaction{
		Date:    date,
		Memo:    truncate(row.Memo, transaction.MaxMemoLen),
		Amount:  amount,
		Cleared: transaction.Uncleared,
		Source:  transaction.SourcePending,
	}).Transaction, nil
}
