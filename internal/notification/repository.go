package notification

import (
	"context"
	"database/sql"
	"fmt"
)

// Repository handles notification data persistence
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new notification repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new notification row
func (r *Repository) Create(ctx context.Context, recipientID int64, message, entityType string, entityID int64) (*Notification, error) {
	query := `
		INSERT INTO notifications (recipient_id, message, related_entity_type, related_entity_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id, recipient_id, message, is_read, related_entity_type, related_entity_id, created_at
	`

	notification := &Notification{}
	err := r.db.QueryRowContext(ctx, query, recipientID, message, entityType, entityID).Scan(
		&notification.ID,
		&notification.RecipientID,
		&notification.Message,
		&notification.IsRead,
		&notification.RelatedEntityType,
		&notification.RelatedEntityID,
		&notification.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create notification: %w", err)
	}

	return notification, nil
}

// ListByRecipientID retrieves a user's notifications, newest first
func (r *Repository) ListByRecipientID(ctx context.Context, recipientID int64, limit, offset int) ([]*Notification, int, error) {
	var total int
	countQuery := `SELECT COUNT(*) FROM notifications WHERE recipient_id = $1`
	if err := r.db.QueryRowContext(ctx, countQuery, recipientID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count notifications: %w", err)
	}

	query := `
		SELECT id, recipient_id, message, is_read, related_entity_type, related_entity_id, created_at
		FROM notifications
		WHERE recipient_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.QueryContext(ctx, query, recipientID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list notifications: %w", err)
	}
	defer rows.Close()

	var notifications []*Notification
	for rows.Next() {
		notification := &Notification{}
		if err := rows.Scan(
			&notification.ID,
			&notification.RecipientID,
			&notification.Message,
			&notification.IsRead,
			&notification.RelatedEntityType,
			&notification.RelatedEntityID,
			&notification.CreatedAt,
		); err != nil {
			return nil, 0, fmt.Errorf("failed to scan notification: %w", err)
		}
		notifications = append(notifications, notification)
	}

	return notifications, total, rows.Err()
}

// UnreadCount returns how many unread notifications the user has
func (r *Repository) UnreadCount(ctx context.Context, recipientID int64) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM notifications WHERE recipient_id = $1 AND is_read = FALSE`
	if err := r.db.QueryRowContext(ctx, query, recipientID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count unread notifications: %w", err)
	}
	return count, nil
}

// MarkRead flags one notification as read. Only the recipient's own rows
// match, so a wrong id simply affects nothing.
func (r *Repository) MarkRead(ctx context.Context, id, recipientID int64) (bool, error) {
	result, err := r.db.ExecContext(ctx,
		`UPDATE notifications SET is_read = TRUE WHERE id = $1 AND recipient_id = $2`, id, recipientID)
	if err != nil {
		return false, fmt.Errorf("failed to mark notification read: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to mark notification read: %w", err)
	}
	return rows > 0, nil
}

// MarkAllRead flags all of the user's notifications as read
func (r *Repository) MarkAllRead(ctx context.Context, recipientID int64) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE notifications SET is_read = TRUE WHERE recipient_id = $1 AND is_read = FALSE`, recipientID)
	if err != nil {
		return fmt.Errorf("failed to mark notifications read: %w", err)
	}
	return nil
}
