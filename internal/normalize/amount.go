package normalize

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Exports carry two decimals, so stripping the separators leaves hundredths.
// Multiplying them by ten yields milliunits.
var milliunitScale = decimal.NewFromInt(10)

var (
	splitSeparators  = strings.NewReplacer(",", "", ".", "")
	singleSeparators = strings.NewReplacer(",", "", ".", "", " ", "")
)

// stripAmount removes separators and reads what is left as an integer.
// An empty field counts as zero.
func stripAmount(s string, r *strings.Replacer) (decimal.Decimal, error) {
	clean := r.Replace(strings.TrimSpace(s))
	if clean == "" {
		return decimal.Zero, nil
	}

	d, err := decimal.NewFromString(clean)
	if err != nil {
		return decimal.Zero, err
	}

	return d, nil
}

// SplitAmount computes the milliunit amount of a row with separate debit and
// credit columns. Debit values already carry their minus sign.
func SplitAmount(debit, credit string) (int64, error) {
	d, err := stripAmount(debit, splitSeparators)
	if err != nil {
		return 0, &AmountError{Field: "debit", Value: debit, Err: err}
	}

	c, err := stripAmount(credit, splitSeparators)
	if err != nil {
		return 0, &AmountError{Field: "credit", Value: credit, Err: err}
	}

	return d.Add(c).Mul(milliunitScale).IntPart(), nil
}

// SignedAmount computes the milliunit amount of a single signed column. Spaces
// used as thousands separators are removed as well.
func SignedAmount(s string) (int64, error) {
	d, err := stripAmount(s, singleSeparators)
	if err != nil {
		return 0, &AmountError{Field: "amount", Value: s, Err: err}
	}

	return d.Mul(milliunitScale).IntPart(), nil
}
