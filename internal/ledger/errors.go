package ledger

import (
	"fmt"
	"net/http"
)

// ResolutionError means no budget or account carries the configured name.
type ResolutionError struct {
	Resource string // "budget" or "account"
	Name     string
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("ledger: no %s named %q", e.Resource, e.Name)
}

// SubmissionError means the batch was not accepted. StatusCode is zero when
// no response was received.
type SubmissionError struct {
	StatusCode int
	Err        error
}

func (e *SubmissionError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("ledger: submitting transactions: %v", e.Err)
	}

	return fmt.Sprintf("ledger: submitting transactions: %s: %v", http.StatusText(e.StatusCode), e.Err)
}

func (e *SubmissionError) Unwrap() error { return e.Err }

// StatusError is a non-2xx answer from the ledger.
type StatusError struct {
	StatusCode int
	ID         string
	Detail     string
}

func (e *StatusError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("unexpected status code %d (%s): %s", e.StatusCode, e.ID, e.Detail)
	}

	return fmt.Sprintf("unexpected status code %d", e.StatusCode)
}
