// Package upload renders a batch as the CSV accepted by the ledger's manual
// file upload, for accounts that cannot be reached through the API.
package upload

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/bankbridge/internal/transaction"
)

var Header = []string{"Date", "Payee", "Memo", "Outflow", "Inflow"}

var milliunitsPerUnit = decimal.NewFromInt(1000)

// Render writes the header and one line per transaction. Every field is
// quoted and lines end in "\n".
func Render(w io.Writer, batch transaction.Batch) error {
	bw := bufio.NewWriter(w)

	if err := writeRecord(bw, Header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, t := range batch {
		outflow, inflow := Split(t.Amount)

		if err := writeRecord(bw, []string{t.DateString(), t.PayeeName, t.Memo, outflow, inflow}); err != nil {
			return fmt.Errorf("writing transaction %d: %w", i+1, err)
		}
	}

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("flushing upload csv: %w", err)
	}

	return nil
}

// Split returns the positive outflow and inflow strings for a milliunit
// amount. The side that does not apply is empty.
func Split(milliunits int64) (outflow, inflow string) {
	d := decimal.NewFromInt(milliunits).Div(milliunitsPerUnit)

	switch {
	case d.IsNegative():
		return d.Neg().StringFixed(2), ""
	case d.IsPositive():
		return "", d.StringFixed(2)
	}

	return "", ""
}

func writeRecord(w *bufio.Writer, fields []string) error {
	for i, f := range fields {
		if i > 0 {
			if err := w.WriteByte(','); err != nil {
				return err
			}
		}

		if _, err := w.WriteString(`"` + strings.ReplaceAll(f, `"`, `""`) + `"`); err != nil {
			return err
		}
	}

	return w.WriteByte('\n')
}
