package settlement

import "github.com/liauzhanyi/splitwiser/internal/ledger"

// RecordSettlementRequest represents the request to record a repayment
type RecordSettlementRequest struct {
	GroupID    *int64  `json:"group_id,omitempty"`
	PayerID    *int64  `json:"payer_id,omitempty"` // defaults to the acting user
	ReceiverID int64   `json:"receiver_id" validate:"required"`
	Amount     float64 `json:"amount" validate:"required,gt=0"`
}

// SettlementResponse represents the response for a settlement
type SettlementResponse struct {
	ID               int64   `json:"id"`
	GroupID          *int64  `json:"group_id,omitempty"`
	PayerID          int64   `json:"payer_id"`
	PayerUsername    string  `json:"payer_username,omitempty"`
	ReceiverID       int64   `json:"receiver_id"`
	ReceiverUsername string  `json:"receiver_username,omitempty"`
	Amount           float64 `json:"amount"`
	CreatedAt        string  `json:"created_at"`
}

// BalanceEntry is one pairwise balance. A positive amount means the
// counterparty owes the user; negative means the user owes the counterparty.
type BalanceEntry struct {
	CounterpartyID int64   `json:"counterparty_id"`
	Amount         float64 `json:"amount"`
}

// UserBalanceResponse is the user's outstanding position against each
// counterparty, with the overall net
type UserBalanceResponse struct {
	UserID   int64           `json:"user_id"`
	GroupID  *int64          `json:"group_id,omitempty"`
	Balances []*BalanceEntry `json:"balances"`
	Net      float64         `json:"net"`
}

// MemberBalanceResponse is one member's position inside a group
type MemberBalanceResponse struct {
	UserID   int64           `json:"user_id"`
	Balances []*BalanceEntry `json:"balances"`
	Net      float64         `json:"net"`
}

// GroupBalancesResponse is the full pairwise balance matrix of a group
type GroupBalancesResponse struct {
	GroupID int64                    `json:"group_id"`
	Members []*MemberBalanceResponse `json:"members"`
}

// PaymentResponse is one suggested transfer from the debt simplifier
type PaymentResponse struct {
	FromUserID int64   `json:"from_user_id"`
	ToUserID   int64   `json:"to_user_id"`
	Amount     float64 `json:"amount"`
}

// SimplifyResponse is the simplifier's full payment plan for a group
type SimplifyResponse struct {
	GroupID  int64              `json:"group_id"`
	Payments []*PaymentResponse `json:"payments"`
}

// ToResponse converts a Settlement model to a SettlementResponse DTO
func (s *Settlement) ToResponse() *SettlementResponse {
	return &SettlementResponse{
		ID:               s.ID,
		GroupID:          s.GroupID,
		PayerID:          s.PayerID,
		PayerUsername:    s.PayerUsername,
		ReceiverID:       s.ReceiverID,
		ReceiverUsername: s.ReceiverUsername,
		Amount:           s.Amount.Float(),
		CreatedAt:        s.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
}

func toBalanceEntries(balances map[int64]ledger.Cents) ([]*BalanceEntry, float64) {
	entries := make([]*BalanceEntry, 0, len(balances))
	var net ledger.Cents
	for _, id := range sortedKeys(balances) {
		amount := balances[id]
		entries = append(entries, &BalanceEntry{CounterpartyID: id, Amount: amount.Float()})
		net += amount
	}
	return entries, net.Float()
}
