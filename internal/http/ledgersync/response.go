package ledgersync

import (
	"github.com/MrJamesThe3rd/bankbridge/internal/importer"
	"github.com/MrJamesThe3rd/bankbridge/internal/importid"
	"github.com/MrJamesThe3rd/bankbridge/internal/transaction"
)

type transactionResponse struct {
	PayeeName string `json:"payee_name"`
	Date      string `json:"date"`
	Memo      string `json:"memo"`
	Amount    int64  `json:"amount"`
	Cleared   string `json:"cleared"`
	ImportID  string `json:"import_id"`
	Source    string `json:"source"`
}

type skipResponse struct {
	Line   int    `json:"line"`
	Kind   string `json:"kind"`
	Source string `json:"source"`
	Reason string `json:"reason"`
}

type previewResponse struct {
	Transactions []transactionResponse `json:"transactions"`
	Skipped      []skipResponse        `json:"skipped"`
	Collisions   []string              `json:"collisions"`
	Exported     int                   `json:"exported"`
	Pending      int                   `json:"pending"`
}

func toTransactionResponse(t transaction.Transaction) transactionResponse {
	return transactionResponse{
		PayeeName: t.PayeeName,
		Date:      t.DateString(),
		Memo:      t.Memo,
		Amount:    t.Amount,
		Cleared:   string(t.Cleared),
		ImportID:  t.ImportID,
		Source:    string(t.Source),
	}
}

func toPreviewResponse(p importer.Prepared) previewResponse {
	resp := previewResponse{
		Transactions: make([]transactionResponse, 0, len(p.Batch)),
		Skipped:      make([]skipResponse, 0, len(p.Skipped)),
		Collisions:   importid.Collisions(p.Batch),
		Exported:     p.Exported(),
		Pending:      p.Pending(),
	}

	if resp.Collisions == nil {
		resp.Collisions = []string{}
	}

	for _, t := range p.Batch {
		resp.Transactions = append(resp.Transactions, toTransactionResponse(t))
	}

	for _, s := range p.Skipped {
		resp.Skipped = append(resp.Skipped, skipResponse{
			Line:   s.Line,
			Kind:   s.Kind.String(),
			Source: string(s.Source),
			Reason: s.Reason,
		})
	}

	return resp
}
