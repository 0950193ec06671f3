package expense

import (
	"time"

	"github.com/liauzhanyi/splitwiser/internal/ledger"
)

// Expense represents an expense in the system. Amount is stored in integer
// cents. SplitType is empty until a split has been applied.
type Expense struct {
	ID          int64        `json:"id"`
	GroupID     *int64       `json:"group_id,omitempty"`
	PayerID     int64        `json:"payer_id"`
	Description string       `json:"description"`
	Amount      ledger.Cents `json:"amount"`
	Category    string       `json:"category"`
	SplitType   *string      `json:"split_type,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`

	// Populated via JOIN
	PayerUsername string `json:"payer_username,omitempty"`
}

// Split represents one participant's owed share of an expense
type Split struct {
	ID         int64        `json:"id"`
	ExpenseID  int64        `json:"expense_id"`
	UserID     int64        `json:"user_id"`
	Amount     ledger.Cents `json:"amount"`
	Percentage *float64     `json:"percentage,omitempty"`

	// Populated via JOIN
	Username string `json:"username,omitempty"`
}

// ExpenseWithSplits combines an expense with its splits
type ExpenseWithSplits struct {
	Expense *Expense
	Splits  []*Split
}

// ToLedger converts a stored expense and its splits into the engine's
// snapshot form.
func (e *ExpenseWithSplits) ToLedger() ledger.Expense {
	le := ledger.Expense{
		ID:          e.Expense.ID,
		GroupID:     e.Expense.GroupID,
		PayerID:     e.Expense.PayerID,
		Description: e.Expense.Description,
		Amount:      e.Expense.Amount,
		Category:    e.Expense.Category,
	}
	if e.Expense.SplitType != nil {
		le.SplitType = ledger.SplitType(*e.Expense.SplitType)
	}
	le.Splits = make([]ledger.Split, len(e.Splits))
	for i, s := range e.Splits {
		le.Splits[i] = ledger.Split{
			UserID:     s.UserID,
			Amount:     s.Amount,
			Percentage: s.Percentage,
		}
	}
	return le
}

// CategoryTotal is an aggregate of group spending per category
type CategoryTotal struct {
	Category string       `json:"category"`
	Total    ledger.Cents `json:"total"`
}

// MemberTotal is an aggregate of the amount each member has paid
type MemberTotal struct {
	UserID   int64        `json:"user_id"`
	Username string       `json:"username"`
	Total    ledger.Cents `json:"total"`
}
