// Package normalize maps classified export rows and scraped pending rows
// into canonical transactions.
package normalize

import (
	"log/slog"

	"github.com/MrJamesThe3rd/bankbridge/internal/importid"
	"github.com/MrJamesThe3rd/bankbridge/internal/statement"
	"github.com/MrJamesThe3rd/bankbridge/internal/transaction"
)

// Status tells what became of a single row.
type Status int

const (
	StatusOK Status = iota
	StatusSkipped
	StatusDropped // balance rows, discarded without a reason
)

// Skip records a row that did not produce a transaction.
type Skip struct {
	Line   int // line in the export, or 1-based entry index for pending rows
	Kind   statement.RowKind
	Source transaction.Source
	Reason string
}

type Result struct {
	Status      Status
	Transaction transaction.Transaction
	Skip        Skip
}

// Outcome is the aggregate of normalizing a whole export.
type Outcome struct {
	Batch    transaction.Batch
	Skipped  []Skip
	Balances int
}

type Normalizer struct {
	prefix string
	logger *slog.Logger
}

// New creates a Normalizer stamping provisional import ids with prefix.
func New(prefix string, logger *slog.Logger) *Normalizer {
	if logger == nil {
		logger = slog.Default()
	}

	return &Normalizer{prefix: prefix, logger: logger}
}

// Row maps one classified row.
func (n *Normalizer) Row(c statement.Classified) Result {
	switch c.Kind {
	case statement.KindBalance:
		return Result{Status: StatusDropped}
	case statement.KindMalformed:
		return skipped(c, c.Reason)
	case statement.KindChecking:
		return n.checking(c)
	case statement.KindCreditCard:
		return n.creditCard(c)
	}

	return skipped(c, "unknown row kind "+c.Kind.String())
}

// Statement classifies and maps every row of one export. Rows keep their
// file order.
func (n *Normalizer) Statement(mode statement.Mode, rows []statement.RawRow) Outcome {
	classifier := statement.NewClassifier(mode)

	var out Outcome

	for _, row := range rows {
		res := n.Row(classifier.Classify(row))

		switch res.Status {
		case StatusOK:
			out.Batch = append(out.Batch, res.Transaction)
		case StatusDropped:
			out.Balances++
		case StatusSkipped:
			n.logger.Warn("skipping export row", "line", res.Skip.Line, "kind", res.Skip.Kind.String(), "reason", res.Skip.Reason)
			out.Skipped = append(out.Skipped, res.Skip)
		}
	}

	return out
}

func (n *Normalizer) checking(c statement.Classified) Result {
	p, row := c.Profile, c.Row

	date, err := parseDate(value(row, p.DateCol))
	if err != nil {
		return skipped(c, err.Error())
	}

	amount, err := SplitAmount(value(row, p.DebitCol), value(row, p.CreditCol))
	if err != nil {
		return skipped(c, err.Error())
	}

	memo := value(row, p.MemoCol)

	return n.ok(transaction.Transaction{
		PayeeName: truncate(checkingPayee(row, p, memo), transaction.MaxPayeeLen),
		Date:      date,
		Memo:      truncate(memo, transaction.MaxMemoLen),
		Amount:    amount,
		Cleared:   transaction.Cleared,
		Source:    transaction.SourceExport,
	})
}

func (n *Normalizer) creditCard(c statement.Classified) Result {
	p, row := c.Profile, c.Row

	date, err := parseDate(value(row, p.DateCol))
	if err != nil {
		return skipped(c, err.Error())
	}

	amount, err := SignedAmount(value(row, p.AmountCol))
	if err != nil {
		return skipped(c, err.Error())
	}

	memo := value(row, p.MemoCol)

	return n.ok(transaction.Transaction{
		PayeeName: truncate(memo, transaction.MaxPayeeLen),
		Date:      date,
		Memo:      truncate(memo, transaction.MaxMemoLen),
		Amount:    amount,
		Cleared:   transaction.Cleared,
		Source:    transaction.SourceExport,
	})
}

func (n *Normalizer) ok(t transaction.Transaction) Result {
	t.ImportID = importid.Template(n.prefix, t.Amount, t.Date)
	return Result{Status: StatusOK, Transaction: t}
}

// checkingPayee prefers the beneficiary column and falls back to the part of
// the purpose text before "//".
func checkingPayee(row statement.RawRow, p statement.Profile, memo string) string {
	for _, col := range p.PayeeCols {
		if v, ok := row.Get(col); ok && v != "" {
			return v
		}
	}

	return payeeFromMemo(memo)
}

func value(row statement.RawRow, col string) string {
	v, _ := row.Get(col)
	return v
}

func skipped(c statement.Classified, reason string) Result {
	return Result{
		Status: StatusSkipped,
		Skip: Skip{
			Line:   c.Row.Line,
			Kind:   c.Kind,
			Source: transaction.SourceExport,
			Reason: reason,
		},
	}
}
