package ledger

import "github.com/MrJamesThe3rd/bankbridge/internal/transaction"

// Target is the resolved destination of a batch.
type Target struct {
	BudgetID  string
	AccountID string
}

// Result reports what the ledger did with a batch. Duplicates are the import
// ids it already knew and silently ignored.
type Result struct {
	Created    []string
	Duplicates []string
}

type budget struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type budgetsResponse struct {
	Data struct {
		Budgets []budget `json:"budgets"`
	} `json:"data"`
}

type account struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Closed  bool   `json:"closed"`
	Deleted bool   `json:"deleted"`
}

type accountsResponse struct {
	Data struct {
		Accounts []account `json:"accounts"`
	} `json:"data"`
}

type saveTransaction struct {
	AccountID string `json:"account_id"`
	Date      string `json:"date"`
	Amount    int64  `json:"amount"`
	PayeeName string `json:"payee_name"`
	Memo      string `json:"memo"`
	Cleared   string `json:"cleared"`
	ImportID  string `json:"import_id"`
}

type saveTransactionsRequest struct {
	Transactions []saveTransaction `json:"transactions"`
}

type saveTransactionsResponse struct {
	Data struct {
		TransactionIDs     []string `json:"transaction_ids"`
		DuplicateImportIDs []string `json:"duplicate_import_ids"`
	} `json:"data"`
}

type errorResponse struct {
	Error struct {
		ID     string `json:"id"`
		Name   string `json:"name"`
		Detail string `json:"detail"`
	} `json:"error"`
}

func toSave(t transaction.Transaction) saveTransaction {
	return saveTransaction{
		AccountID: t.AccountID,
		Date:      t.DateString(),
		Amount:    t.Amount,
		PayeeName: t.PayeeName,
		Memo:      t.Memo,
		Cleared:   string(t.Cleared),
		ImportID:  t.ImportID,
	}
}
