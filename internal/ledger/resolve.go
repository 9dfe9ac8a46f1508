package ledger

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/MrJamesThe3rd/bankbridge/internal/session"
)

// Resolve looks up the budget and account ids by exact name.
func (c *Client) Resolve(ctx context.Context, sess session.Session, budgetName, accountName string) (Target, error) {
	var budgets budgetsResponse
	if err := c.doJSON(ctx, sess, http.MethodGet, "/budgets", nil, &budgets); err != nil {
		return Target{}, fmt.Errorf("listing budgets: %w", err)
	}

	budgetID := ""

	for _, b := range budgets.Data.Budgets {
		if b.Name == budgetName {
			budgetID = b.ID
			break
		}
	}

	if budgetID == "" {
		return Target{}, &ResolutionError{Resource: "budget", Name: budgetName}
	}

	var accounts accountsResponse

	path := "/budgets/" + url.PathEscape(budgetID) + "/accounts"
	if err := c.doJSON(ctx, sess, http.MethodGet, path, nil, &accounts); err != nil {
		return Target{}, fmt.Errorf("listing accounts: %w", err)
	}

	for _, a := range accounts.Data.Accounts {
		if a.Name == accountName {
			c.logger.Debug("resolved ledger target", "budget_id", budgetID, "account_id", a.ID)
			return Target{BudgetID: budgetID, AccountID: a.ID}, nil
		}
	}

	return Target{}, &ResolutionError{Resource: "account", Name: accountName}
}
