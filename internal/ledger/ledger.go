// Package ledger implements the expense-splitting engine: the split
// calculator, the balance engine and the settlement simplifier. The package
// is purely computational. It performs no I/O and holds no state of its own;
// callers pass in a snapshot of expenses and get values back.
package ledger

// SplitType tags the rule an expense was divided under.
type SplitType string

const (
	SplitTypeEqual      SplitType = "EQUAL"
	SplitTypeExact      SplitType = "EXACT"
	SplitTypePercentage SplitType = "PERCENTAGE"
)

// Split is one participant's owed share of a single expense. Percentage is
// set only for percentage-rule expenses and is kept for display and audit.
type Split struct {
	UserID     int64
	Amount     Cents
	Percentage *float64
}

// Expense is the engine's view of one recorded expense. GroupID is nil for
// expenses outside any group. The payer appears in Splits like any other
// participant; the balance engine is what skips the payer's own share.
type Expense struct {
	ID          int64
	GroupID     *int64
	PayerID     int64
	Description string
	Amount      Cents
	Category    string
	SplitType   SplitType
	Splits      []Split
}

// IsSplit reports whether the expense has been divided. An expense with no
// splits is excluded from balance computation.
func (e *Expense) IsSplit() bool {
	return len(e.Splits) > 0
}
