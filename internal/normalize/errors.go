package normalize

import "fmt"

// DateParseError means a date field did not match DD.MM.YYYY.
type DateParseError struct {
	Value string
	Err   error
}

func (e *DateParseError) Error() string {
	return fmt.Sprintf("unparseable date %q: %v", e.Value, e.Err)
}

func (e *DateParseError) Unwrap() error { return e.Err }

// AmountError means an amount field is not numeric once separators are removed.
type AmountError struct {
	Field string
	Value string
	Err   error
}

func (e *AmountError) Error() string {
	return fmt.Sprintf("non-numeric %s amount %q", e.Field, e.Value)
}

func (e *AmountError) Unwrap() error { return e.Err }
