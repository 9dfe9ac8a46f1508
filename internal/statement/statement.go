// Package statement turns a raw bank export into classified rows.
//
// The export always starts with a fixed preamble, followed by a header line
// and the data rows. Which layout (checking or credit card) a file uses is
// known up front from the account that was exported, so classification is
// driven by a run-level Mode rather than sniffed per row.
package statement

import (
	"fmt"
	"strings"
)

// Mode selects the export layout for a whole run.
type Mode int

const (
	ModeChecking Mode = iota
	ModeCreditCard
)

func (m Mode) String() string {
	switch m {
	case ModeChecking:
		return "checking"
	case ModeCreditCard:
		return "credit_card"
	}

	return fmt.Sprintf("Mode(%d)", int(m))
}

// ParseMode accepts the names used in configuration and API requests.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "checking", "giro":
		return ModeChecking, nil
	case "credit_card", "creditcard", "credit":
		return ModeCreditCard, nil
	}

	return 0, fmt.Errorf("unknown statement mode %q", s)
}

// RowKind is the classification of a single raw row.
type RowKind int

const (
	KindChecking RowKind = iota
	KindCreditCard
	KindBalance
	KindMalformed
)

func (k RowKind) String() string {
	switch k {
	case KindChecking:
		return "checking"
	case KindCreditCard:
		return "credit_card"
	case KindBalance:
		return "balance"
	case KindMalformed:
		return "malformed"
	}

	return fmt.Sprintf("RowKind(%d)", int(k))
}

// RawRow is one data line of the export keyed by header name. Header names are
// kept exactly as decoded, replacement characters included.
type RawRow struct {
	Line    int // 1-based line number in the original file
	Values  map[string]string
	Problem string // set when the line could not be mapped cleanly onto the header
}

// Get returns the value for a column and whether the column was present.
func (r RawRow) Get(col string) (string, bool) {
	v, ok := r.Values[col]
	return v, ok
}

// FormatError means the export does not have the expected tabular shape.
type FormatError struct {
	Reason string
	Err    error
}

func (e *FormatError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("statement format: %s: %v", e.Reason, e.Err)
	}

	return "statement format: " + e.Reason
}

func (e *FormatError) Unwrap() error { return e.Err }
