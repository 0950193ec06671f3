package expense

import "github.com/liauzhanyi/splitwiser/internal/ledger"

// SplitParticipant is one participant entry in a split request. Amount is
// used for EXACT splits, Percentage for PERCENTAGE splits; EQUAL splits need
// only the user id.
type SplitParticipant struct {
	UserID     int64    `json:"user_id"`
	Amount     *float64 `json:"amount,omitempty"`
	Percentage *float64 `json:"percentage,omitempty"`
}

// SplitRequest describes how to divide an expense
type SplitRequest struct {
	SplitType    string              `json:"split_type" validate:"required,oneof=EQUAL EXACT PERCENTAGE"`
	Participants []*SplitParticipant `json:"participants" validate:"required,min=1"`
}

// CreateExpenseRequest represents the request to create an expense. Split is
// optional; an expense created without one stays "unsplit" and is ignored by
// balance computation until a split is applied.
type CreateExpenseRequest struct {
	GroupID     *int64        `json:"group_id,omitempty"`
	PayerID     *int64        `json:"payer_id,omitempty"` // defaults to the acting user
	Description string        `json:"description" validate:"required,min=1,max=255"`
	Amount      float64       `json:"amount" validate:"required,gt=0"`
	Category    string        `json:"category,omitempty"`
	Split       *SplitRequest `json:"split,omitempty"`
}

// ExpenseResponse represents the response for an expense
type ExpenseResponse struct {
	ID            int64            `json:"id"`
	GroupID       *int64           `json:"group_id,omitempty"`
	PayerID       int64            `json:"payer_id"`
	PayerUsername string           `json:"payer_username,omitempty"`
	Description   string           `json:"description"`
	Amount        float64          `json:"amount"`
	Category      string           `json:"category"`
	SplitType     *string          `json:"split_type,omitempty"`
	CreatedAt     string           `json:"created_at"`
	Splits        []*SplitResponse `json:"splits,omitempty"`
}

// SplitResponse represents the response for a split
type SplitResponse struct {
	ID         int64    `json:"id"`
	ExpenseID  int64    `json:"expense_id"`
	UserID     int64    `json:"user_id"`
	Username   string   `json:"username,omitempty"`
	Amount     float64  `json:"amount"`
	Percentage *float64 `json:"percentage,omitempty"`
}

// AnalyticsResponse aggregates a group's spending for the dashboard
type AnalyticsResponse struct {
	Categories []*CategoryTotalResponse `json:"categories"`
	Members    []*MemberTotalResponse   `json:"members"`
}

// CategoryTotalResponse is a per-category spending total
type CategoryTotalResponse struct {
	Category string  `json:"category"`
	Total    float64 `json:"total"`
}

// MemberTotalResponse is a per-member paid total
type MemberTotalResponse struct {
	UserID   int64   `json:"user_id"`
	Username string  `json:"username"`
	Total    float64 `json:"total"`
}

// ToResponse converts an Expense model to an ExpenseResponse DTO
func (e *Expense) ToResponse() *ExpenseResponse {
	return &ExpenseResponse{
		ID:            e.ID,
		GroupID:       e.GroupID,
		PayerID:       e.PayerID,
		PayerUsername: e.PayerUsername,
		Description:   e.Description,
		Amount:        e.Amount.Float(),
		Category:      e.Category,
		SplitType:     e.SplitType,
		CreatedAt:     e.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
}

// ToResponse converts a Split model to a SplitResponse DTO
func (s *Split) ToResponse() *SplitResponse {
	return &SplitResponse{
		ID:         s.ID,
		ExpenseID:  s.ExpenseID,
		UserID:     s.UserID,
		Username:   s.Username,
		Amount:     s.Amount.Float(),
		Percentage: s.Percentage,
	}
}

// ToRule converts a split request into the engine's tagged rule variant.
func (r *SplitRequest) ToRule() (ledger.Rule, error) {
	splitType, err := ledger.ParseSplitType(r.SplitType)
	if err != nil {
		return nil, err
	}

	switch splitType {
	case ledger.SplitTypeEqual:
		ids := make([]int64, len(r.Participants))
		for i, p := range r.Participants {
			ids[i] = p.UserID
		}
		return &ledger.EqualRule{Participants: ids}, nil

	case ledger.SplitTypeExact:
		amounts := make(map[int64]ledger.Cents, len(r.Participants))
		for _, p := range r.Participants {
			if p.Amount == nil {
				return nil, ErrMissingExactAmount
			}
			if _, ok := amounts[p.UserID]; ok {
				return nil, ledger.ErrDuplicateParticipant
			}
			amounts[p.UserID] = ledger.CentsFromFloat(*p.Amount)
		}
		return &ledger.ExactRule{Amounts: amounts}, nil

	default: // ledger.SplitTypePercentage
		percentages := make(map[int64]float64, len(r.Participants))
		for _, p := range r.Participants {
			if p.Percentage == nil {
				return nil, ErrMissingPercentage
			}
			if _, ok := percentages[p.UserID]; ok {
				return nil, ledger.ErrDuplicateParticipant
			}
			percentages[p.UserID] = *p.Percentage
		}
		return &ledger.PercentageRule{Percentages: percentages}, nil
	}
}
