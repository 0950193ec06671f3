package settlement

import (
	"time"

	"github.com/liauzhanyi/splitwiser/internal/ledger"
)

// Settlement represents a recorded repayment between two users. Amount is
// stored in integer cents, payer to receiver.
type Settlement struct {
	ID         int64        `json:"id"`
	GroupID    *int64       `json:"group_id,omitempty"`
	PayerID    int64        `json:"payer_id"`
	ReceiverID int64        `json:"receiver_id"`
	Amount     ledger.Cents `json:"amount"`
	CreatedAt  time.Time    `json:"created_at"`

	// Populated via JOIN
	PayerUsername    string `json:"payer_username,omitempty"`
	ReceiverUsername string `json:"receiver_username,omitempty"`
}
