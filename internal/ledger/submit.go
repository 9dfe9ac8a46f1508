package ledger

import (
	"context"
	"errors"
	"net/http"
	"net/url"

	"github.com/MrJamesThe3rd/bankbridge/internal/session"
	"github.com/MrJamesThe3rd/bankbridge/internal/transaction"
)

// Submit posts the whole batch in one request. Deduplication by import id is
// left to the ledger. An empty batch is not sent.
func (c *Client) Submit(ctx context.Context, sess session.Session, target Target, batch transaction.Batch) (Result, error) {
	if len(batch) == 0 {
		return Result{}, nil
	}

	req := saveTransactionsRequest{Transactions: make([]saveTransaction, 0, len(batch))}
	for _, t := range batch {
		req.Transactions = append(req.Transactions, toSave(t))
	}

	var resp saveTransactionsResponse

	path := "/budgets/" + url.PathEscape(target.BudgetID) + "/transactions"
	if err := c.doJSON(ctx, sess, http.MethodPost, path, req, &resp); err != nil {
		serr := &SubmissionError{Err: err}

		var statusErr *StatusError
		if errors.As(err, &statusErr) {
			serr.StatusCode = statusErr.StatusCode
		}

		return Result{}, serr
	}

	c.logger.Info("submitted transactions",
		"budget_id", target.BudgetID,
		"sent", len(batch),
		"created", len(resp.Data.TransactionIDs),
		"duplicates", len(resp.Data.DuplicateImportIDs),
	)

	return Result{
		Created:    resp.Data.TransactionIDs,
		Duplicates: resp.Data.DuplicateImportIDs,
	}, nil
}
