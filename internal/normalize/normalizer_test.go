package normalize_test

import (
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/bankbridge/internal/normalize"
	"github.com/MrJamesThe3rd/bankbridge/internal/statement"
	"github.com/MrJamesThe3rd/bankbridge/internal/transaction"
)

func day(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}

func checkingRow(line int, date, payee, memo, debit, credit string) statement.RawRow {
	return statement.RawRow{
		Line: line,
		Values: map[string]string{
			statement.ColBookingDate: date,
			statement.ColPayee:       payee,
			statement.ColPurpose:     memo,
			statement.ColDebit:       debit,
			statement.ColCredit:      credit,
		},
	}
}

func cardRow(line int, date, memo, amount string) statement.RawRow {
	return statement.RawRow{
		Line: line,
		Values: map[string]string{
			statement.ColReceiptDate: date,
			statement.ColPurpose:     memo,
			statement.ColAmount:      amount,
		},
	}
}

func TestNormalizer_Row_Checking(t *testing.T) {
	type testCase struct {
		name       string
		row        statement.RawRow
		wantStatus normalize.Status
		want       transaction.Transaction
		wantReason string
	}

	tests := []testCase{
		{
			name:       "Beneficiary Column",
			row:        checkingRow(6, "01.03.2020", "Jane Doe", "Invoice #4", "-50,00", ""),
			wantStatus: normalize.StatusOK,
			want: transaction.Transaction{
				PayeeName: "Jane Doe",
				Date:      day(2020, 3, 1),
				Memo:      "Invoice #4",
				Amount:    -50000,
				Cleared:   transaction.Cleared,
				ImportID:  "YNAB:-50000:2020-03-01:",
				Source:    transaction.SourceExport,
			},
		},
		{
			name:       "Payee From Purpose Text",
			row:        checkingRow(7, "2.3.2020", "", "ACME GmbH//Ref 123//x", "", "1.234,56"),
			wantStatus: normalize.StatusOK,
			want: transaction.Transaction{
				PayeeName: "ACME GmbH",
				Date:      day(2020, 3, 2),
				Memo:      "ACME GmbH//Ref 123//x",
				Amount:    1234560,
				Cleared:   transaction.Cleared,
				ImportID:  "YNAB:1234560:2020-03-02:",
				Source:    transaction.SourceExport,
			},
		},
		{
			name:       "No Payee Anywhere",
			row:        checkingRow(8, "03.03.2020", "", "Card payment", "-3,50", ""),
			wantStatus: normalize.StatusOK,
			want: transaction.Transaction{
				Date:     day(2020, 3, 3),
				Memo:     "Card payment",
				Amount:   -3500,
				Cleared:  transaction.Cleared,
				ImportID: "YNAB:-3500:2020-03-03:",
				Source:   transaction.SourceExport,
			},
		},
		{
			name:       "Both Amounts Empty",
			row:        checkingRow(9, "04.03.2020", "Bank", "Fee reversal", "", ""),
			wantStatus: normalize.StatusOK,
			want: transaction.Transaction{
				PayeeName: "Bank",
				Date:      day(2020, 3, 4),
				Memo:      "Fee reversal",
				Cleared:   transaction.Cleared,
				ImportID:  "YNAB:0:2020-03-04:",
				Source:    transaction.SourceExport,
			},
		},
		{
			name:       "Unparseable Date",
			row:        checkingRow(10, "2020-03-01", "Jane Doe", "Invoice", "-1,00", ""),
			wantStatus: normalize.StatusSkipped,
			wantReason: "unparseable date",
		},
		{
			name:       "Non Numeric Amount",
			row:        checkingRow(11, "01.03.2020", "Jane Doe", "Invoice", "n/a", ""),
			wantStatus: normalize.StatusSkipped,
			wantReason: "non-numeric debit amount",
		},
		{
			name:       "Balance Footer",
			row:        checkingRow(12, statement.CheckingBalance, "", "", "", "1.000,00"),
			wantStatus: normalize.StatusDropped,
		},
		{
			name:       "Missing Date",
			row:        checkingRow(13, "", "Jane Doe", "Invoice", "-1,00", ""),
			wantStatus: normalize.StatusSkipped,
			wantReason: "missing " + statement.ColBookingDate,
		},
	}

	n := normalize.New("", nil)
	profile := statement.ProfileFor(statement.ModeChecking)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := n.Row(statement.Classify(profile, tt.row))

			require.Equal(t, tt.wantStatus, got.Status)

			switch tt.wantStatus {
			case normalize.StatusOK:
				assert.Equal(t, tt.want, got.Transaction)
			case normalize.StatusSkipped:
				assert.Equal(t, tt.row.Line, got.Skip.Line)
				assert.Equal(t, transaction.SourceExport, got.Skip.Source)
				assert.Contains(t, got.Skip.Reason, tt.wantReason)
			}
		})
	}
}

func TestNormalizer_Row_CleanPayeeHeader(t *testing.T) {
	row := statement.RawRow{
		Line: 6,
		Values: map[string]string{
			statement.ColBookingDate: "01.03.2020",
			statement.ColPayeeClean:  "Jane Doe",
			statement.ColPurpose:     "Invoice",
			statement.ColDebit:       "-1,00",
			statement.ColCredit:      "",
		},
	}

	got := normalize.New("", nil).Row(statement.Classify(statement.ProfileFor(statement.ModeChecking), row))

	require.Equal(t, normalize.StatusOK, got.Status)
	assert.Equal(t, "Jane Doe", got.Transaction.PayeeName)
}

func TestNormalizer_Row_CreditCard(t *testing.T) {
	n := normalize.New("ledger-ref", nil)
	profile := statement.ProfileFor(statement.ModeCreditCard)

	got := n.Row(statement.Classify(profile, cardRow(6, "05.03.2020", "AMAZON MKTPLACE", "-1 234,56")))
	require.Equal(t, normalize.StatusOK, got.Status)
	assert.Equal(t, transaction.Transaction{
		PayeeName: "AMAZON MKTPLACE",
		Date:      day(2020, 3, 5),
		Memo:      "AMAZON MKTPLACE",
		Amount:    -1234560,
		Cleared:   transaction.Cleared,
		ImportID:  "ledger-ref:-1234560:2020-03-05:",
		Source:    transaction.SourceExport,
	}, got.Transaction)

	refund := n.Row(statement.Classify(profile, cardRow(7, "06.03.2020", "REFUND", "20,00")))
	require.Equal(t, normalize.StatusOK, refund.Status)
	assert.Equal(t, int64(20000), refund.Transaction.Amount)

	balance := n.Row(statement.Classify(profile, cardRow(8, statement.CardBalance, "", "-99,00")))
	assert.Equal(t, normalize.StatusDropped, balance.Status)
}

func TestNormalizer_Row_Truncation(t *testing.T) {
	long := strings.Repeat("ä", 300)

	got := normalize.New("", nil).Row(statement.Classify(
		statement.ProfileFor(statement.ModeChecking),
		checkingRow(6, "01.03.2020", long, long, "-1,00", ""),
	))

	require.Equal(t, normalize.StatusOK, got.Status)
	assert.Equal(t, transaction.MaxPayeeLen, utf8.RuneCountInString(got.Transaction.PayeeName))
	assert.Equal(t, transaction.MaxMemoLen, utf8.RuneCountInString(got.Transaction.Memo))
	assert.True(t, utf8.ValidString(got.Transaction.PayeeName))
	assert.True(t, utf8.ValidString(got.Transaction.Memo))

	short := normalize.New("", nil).Row(statement.Classify(
		statement.ProfileFor(statement.ModeChecking),
		checkingRow(7, "01.03.2020", "", "Short//rest", "-1,00", ""),
	))
	assert.Equal(t, "Short", short.Transaction.PayeeName)
	assert.Equal(t, "Short//rest", short.Transaction.Memo)
}

func TestNormalizer_Statement(t *testing.T) {
	rows := []statement.RawRow{
		checkingRow(6, "01.03.2020", "Jane Doe", "Invoice #4", "-50,00", ""),
		checkingRow(7, "bad", "Jane Doe", "Invoice #5", "-50,00", ""),
		checkingRow(8, "02.03.2020", "", "Salary//March", "", "2.000,00"),
		checkingRow(9, statement.CheckingBalance, "", "", "", "1.950,00"),
		{Line: 10, Values: map[string]string{statement.ColBookingDate: "03.03.2020"}, Problem: "expected 5 fields, got 6"},
	}

	out := normalize.New("", nil).Statement(statement.ModeChecking, rows)

	require.Len(t, out.Batch, 2)
	assert.Equal(t, "Jane Doe", out.Batch[0].PayeeName)
	assert.Equal(t, "Salary", out.Batch[1].PayeeName)
	assert.Equal(t, int64(2000000), out.Batch[1].Amount)
	assert.Equal(t, 1, out.Balances)

	require.Len(t, out.Skipped, 2)
	assert.Equal(t, 7, out.Skipped[0].Line)
	assert.Equal(t, statement.KindChecking, out.Skipped[0].Kind)
	assert.Equal(t, 10, out.Skipped[1].Line)
	assert.Equal(t, statement.KindMalformed, out.Skipped[1].Kind)
	assert.Equal(t, "expected 5 fields, got 6", out.Skipped[1].Reason)
}

func TestNormalizer_Statement_OnlyBalance(t *testing.T) {
	out := normalize.New("", nil).Statement(statement.ModeCreditCard, []statement.RawRow{
		cardRow(6, statement.CardBalance, "", "-10,00"),
	})

	assert.Empty(t, out.Batch)
	assert.Empty(t, out.Skipped)
	assert.Equal(t, 1, out.Balances)
}
