package statement

// amountMode determines how amounts are laid out in a row.
type amountMode int

const (
	// amountSplit means separate debit and credit columns ("Soll"/"Haben").
	amountSplit amountMode = iota
	// amountSingle means one signed column ("Betrag").
	amountSingle
)

// Column names as they appear in the exports. The payee header contains an
// umlaut the portal never encodes correctly, so the mangled form is the one
// seen in practice.
const (
	ColBookingDate  = "Buchungstag"
	ColPayee        = "Beg�nstigter / Auftraggeber"
	ColPayeeClean   = "Begünstigter / Auftraggeber"
	ColPurpose      = "Verwendungszweck"
	ColDebit        = "Soll"
	ColCredit       = "Haben"
	ColReceiptDate  = "Belegdatum"
	ColAmount       = "Betrag"
	CheckingBalance = "Kontostand"
	CardBalance     = "Online-Saldo:"
)

// Profile describes the column layout of one export format.
type Profile struct {
	Name            string
	Kind            RowKind
	DateCol         string
	BalanceSentinel string
	PayeeCols       []string // optional; the first present column wins
	MemoCol         string
	AmountMode      amountMode
	AmountCol       string // used when AmountMode == amountSingle
	DebitCol        string // used when AmountMode == amountSplit
	CreditCol       string // used when AmountMode == amountSplit
}

// SplitAmount reports whether the profile uses separate debit/credit columns.
func (p Profile) SplitAmount() bool {
	return p.AmountMode == amountSplit
}

// requiredCols returns the column names a row must carry to be usable.
func (p Profile) requiredCols() []string {
	cols := []string{p.DateCol, p.MemoCol}

	switch p.AmountMode {
	case amountSingle:
		cols = append(cols, p.AmountCol)
	case amountSplit:
		cols = append(cols, p.DebitCol, p.CreditCol)
	}

	return cols
}

var (
	checkingProfile = Profile{
		Name:            "checking",
		Kind:            KindChecking,
		DateCol:         ColBookingDate,
		BalanceSentinel: CheckingBalance,
		PayeeCols:       []string{ColPayee, ColPayeeClean},
		MemoCol:         ColPurpose,
		AmountMode:      amountSplit,
		DebitCol:        ColDebit,
		CreditCol:       ColCredit,
	}

	creditCardProfile = Profile{
		Name:            "credit_card",
		Kind:            KindCreditCard,
		DateCol:         ColReceiptDate,
		BalanceSentinel: CardBalance,
		MemoCol:         ColPurpose,
		AmountMode:      amountSingle,
		AmountCol:       ColAmount,
	}
)

// ProfileFor returns the layout used by exports of the given mode.
func ProfileFor(m Mode) Profile {
	if m == ModeCreditCard {
		return creditCardProfile
	}

	return checkingProfile
}
