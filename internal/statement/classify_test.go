package statement_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/MrJamesThe3rd/bankbridge/internal/statement"
)

func row(values map[string]string) statement.RawRow {
	return statement.RawRow{Line: 6, Values: values}
}

func TestClassify_Checking(t *testing.T) {
	type testCase struct {
		name       string
		row        statement.RawRow
		wantKind   statement.RowKind
		wantReason string
	}

	tests := []testCase{
		{
			name: "Valid Row",
			row: row(map[string]string{
				"Buchungstag": "01.03.2020", statement.ColPayee: "Jane Doe",
				"Verwendungszweck": "Invoice #4", "Soll": "-50,00", "Haben": "",
			}),
			wantKind: statement.KindChecking,
		},
		{
			name: "Payee Column Is Optional",
			row: row(map[string]string{
				"Buchungstag": "01.03.2020", "Verwendungszweck": "Invoice #4", "Soll": "-50,00", "Haben": "",
			}),
			wantKind: statement.KindChecking,
		},
		{
			name: "Balance Footer",
			row: statement.RawRow{
				Values:  map[string]string{"Buchungstag": "Kontostand", "Soll": "02.03.2020"},
				Problem: "expected 5 fields, got 6",
			},
			wantKind: statement.KindBalance,
		},
		{
			name:       "Missing Date",
			row:        row(map[string]string{"Buchungstag": "", "Verwendungszweck": "x", "Soll": "1", "Haben": ""}),
			wantKind:   statement.KindMalformed,
			wantReason: "missing Buchungstag",
		},
		{
			name:       "Missing Credit Column",
			row:        row(map[string]string{"Buchungstag": "01.03.2020", "Verwendungszweck": "x", "Soll": "1"}),
			wantKind:   statement.KindMalformed,
			wantReason: "missing column Haben",
		},
		{
			name: "Field Count Mismatch",
			row: statement.RawRow{
				Values:  map[string]string{"Buchungstag": "01.03.2020"},
				Problem: "expected 5 fields, got 1",
			},
			wantKind:   statement.KindMalformed,
			wantReason: "expected 5 fields, got 1",
		},
		{
			name: "Credit Card Row In Checking Run",
			row: row(map[string]string{
				"Belegdatum": "01.03.2020", "Verwendungszweck": "x", "Betrag": "-1,00",
			}),
			wantKind:   statement.KindMalformed,
			wantReason: "missing Buchungstag",
		},
	}

	c := statement.NewClassifier(statement.ModeChecking)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.Classify(tt.row)
			assert.Equal(t, tt.wantKind, got.Kind)
			assert.Equal(t, tt.wantReason, got.Reason)
			assert.Equal(t, tt.row, got.Row)
		})
	}
}

func TestClassify_CreditCard(t *testing.T) {
	c := statement.NewClassifier(statement.ModeCreditCard)

	got := c.Classify(row(map[string]string{
		"Belegdatum": "05.03.2020", "Verwendungszweck": "AMAZON", "Betrag": "-12,99",
	}))
	assert.Equal(t, statement.KindCreditCard, got.Kind)
	assert.False(t, got.Profile.SplitAmount())

	got = c.Classify(row(map[string]string{"Belegdatum": "Online-Saldo:", "Betrag": "-400,00"}))
	assert.Equal(t, statement.KindBalance, got.Kind)

	// A checking row never gets credit card treatment.
	got = c.Classify(row(map[string]string{
		"Buchungstag": "01.03.2020", "Verwendungszweck": "x", "Soll": "-1,00", "Haben": "",
	}))
	assert.Equal(t, statement.KindMalformed, got.Kind)
	assert.Equal(t, "missing Belegdatum", got.Reason)
}

func TestProfileFor(t *testing.T) {
	assert.Equal(t, statement.KindChecking, statement.ProfileFor(statement.ModeChecking).Kind)
	assert.True(t, statement.ProfileFor(statement.ModeChecking).SplitAmount())
	assert.Equal(t, statement.KindCreditCard, statement.ProfileFor(statement.ModeCreditCard).Kind)
}
