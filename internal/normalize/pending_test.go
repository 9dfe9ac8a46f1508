package normalize_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/bankbridge/internal/normalize"
	"github.com/MrJamesThe3rd/bankbridge/internal/pending"
	"github.com/MrJamesThe3rd/bankbridge/internal/transaction"
)

func TestNormalizer_MergePending(t *testing.T) {
	n := normalize.New("", nil)
	existing := transaction.Batch{{
		PayeeName: "Jane Doe",
		Date:      day(2020, 3, 1),
		Memo:      "Invoice #4",
		Amount:    -50000,
		Cleared:   transaction.Cleared,
		ImportID:  "YNAB:-50000:2020-03-01:",
		Source:    transaction.SourceExport,
	}}
	before := existing.Clone()

	got, skips := n.MergePending(existing, []pending.Row{
		{Date: "02.03.2020", Memo: "Coffee", Debit: "10,00", Credit: ""},
		{Date: "yesterday", Memo: "Broken", Debit: "1,00"},
		{Date: "03.03.2020", Memo: "Refund", Debit: "", Credit: "5,00"},
	})

	require.Len(t, got, 3)
	assert.Equal(t, before[0], got[0])
	assert.Equal(t, before, existing)

	assert.Equal(t, transaction.Transaction{
		PayeeName: "",
		Date:      day(2020, 3, 2),
		Memo:      "Coffee",
		Amount:    10000,
		Cleared:   transaction.Uncleared,
		ImportID:  "YNAB:10000:2020-03-02:",
		Source:    transaction.SourcePending,
	}, got[1])
	assert.Equal(t, int64(5000), got[2].Amount)

	require.Len(t, skips, 1)
	assert.Equal(t, 2, skips[0].Line)
	assert.Equal(t, transaction.SourcePending, skips[0].Source)
	assert.Contains(t, skips[0].Reason, "unparseable date")
}

func TestNormalizer_MergePending_Empty(t *testing.T) {
	n := normalize.New("", nil)
	existing := transaction.Batch{{Memo: "a"}, {Memo: "b"}}

	got, skips := n.MergePending(existing, nil)

	assert.Nil(t, skips)
	require.Len(t, got, 2)
	assert.Same(t, &existing[0], &got[0])
}

func TestNormalizer_MergePending_BadAmount(t *testing.T) {
	got, skips := normalize.New("", nil).MergePending(nil, []pending.Row{
		{Date: "02.03.2020", Memo: "Coffee", Debit: "ten", Credit: ""},
	})

	assert.Empty(t, got)
	require.Len(t, skips, 1)
	assert.Contains(t, skips[0].Reason, "non-numeric debit amount")
}
