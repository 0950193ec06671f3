package notification

import "time"

// Entity types a notification can point back to
const (
	EntityExpense    = "EXPENSE"
	EntitySettlement = "SETTLEMENT"
	EntityGroup      = "GROUP"
)

// Notification represents an in-app message for a user
type Notification struct {
	ID                int64     `json:"id"`
	RecipientID       int64     `json:"recipient_id"`
	Message           string    `json:"message"`
	IsRead            bool      `json:"is_read"`
	RelatedEntityType *string   `json:"related_entity_type,omitempty"`
	RelatedEntityID   *int64    `json:"related_entity_id,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
}
