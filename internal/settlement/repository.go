package settlement

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/liauzhanyi/splitwiser/internal/ledger"
)

// Repository handles settlement data persistence
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new settlement repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new settlement row
func (r *Repository) Create(ctx context.Context, groupID *int64, payerID, receiverID int64, amount ledger.Cents) (*Settlement, error) {
	query := `
		INSERT INTO settlements (group_id, payer_id, receiver_id, amount_cents)
		VALUES ($1, $2, $3, $4)
		RETURNING id, group_id, payer_id, receiver_id, amount_cents, created_at
	`

	settlement := &Settlement{}
	err := r.db.QueryRowContext(ctx, query, groupID, payerID, receiverID, int64(amount)).Scan(
		&settlement.ID,
		&settlement.GroupID,
		&settlement.PayerID,
		&settlement.ReceiverID,
		&settlement.Amount,
		&settlement.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create settlement: %w", err)
	}

	return settlement, nil
}

// ListByGroupID retrieves a group's settlements, newest first
func (r *Repository) ListByGroupID(ctx context.Context, groupID int64, limit, offset int) ([]*Settlement, int, error) {
	var total int
	countQuery := `SELECT COUNT(*) FROM settlements WHERE group_id = $1`
	if err := r.db.QueryRowContext(ctx, countQuery, groupID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count settlements: %w", err)
	}

	query := `
		SELECT s.id, s.group_id, s.payer_id, s.receiver_id, s.amount_cents, s.created_at,
		       p.username, rc.username
		FROM settlements s
		JOIN users p ON s.payer_id = p.id
		JOIN users rc ON s.receiver_id = rc.id
		WHERE s.group_id = $1
		ORDER BY s.created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.QueryContext(ctx, query, groupID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list settlements: %w", err)
	}
	defer rows.Close()

	settlements, err := scanSettlements(rows)
	if err != nil {
		return nil, 0, err
	}
	return settlements, total, nil
}

// ListForUser retrieves every settlement the user paid or received, optionally
// restricted to one group. Used to offset the balance engine's output.
func (r *Repository) ListForUser(ctx context.Context, userID int64, groupID *int64) ([]*Settlement, error) {
	query := `
		SELECT s.id, s.group_id, s.payer_id, s.receiver_id, s.amount_cents, s.created_at,
		       p.username, rc.username
		FROM settlements s
		JOIN users p ON s.payer_id = p.id
		JOIN users rc ON s.receiver_id = rc.id
		WHERE (s.payer_id = $1 OR s.receiver_id = $1)
	`
	args := []interface{}{userID}
	if groupID != nil {
		query += ` AND s.group_id = $2`
		args = append(args, *groupID)
	}
	query += ` ORDER BY s.created_at`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list settlements: %w", err)
	}
	defer rows.Close()

	return scanSettlements(rows)
}

// ListByGroupIDAll retrieves every settlement of a group, oldest first,
// without pagination. Used to offset the balance engine's output.
func (r *Repository) ListByGroupIDAll(ctx context.Context, groupID int64) ([]*Settlement, error) {
	query := `
		SELECT s.id, s.group_id, s.payer_id, s.receiver_id, s.amount_cents, s.created_at,
		       p.username, rc.username
		FROM settlements s
		JOIN users p ON s.payer_id = p.id
		JOIN users rc ON s.receiver_id = rc.id
		WHERE s.group_id = $1
		ORDER BY s.created_at
	`

	rows, err := r.db.QueryContext(ctx, query, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to list settlements: %w", err)
	}
	defer rows.Close()

	return scanSettlements(rows)
}

func scanSettlements(rows *sql.Rows) ([]*Settlement, error) {
	var settlements []*Settlement
	for rows.Next() {
		settlement := &Settlement{}
		if err := rows.Scan(
			&settlement.ID,
			&settlement.GroupID,
			&settlement.PayerID,
			&settlement.ReceiverID,
			&settlement.Amount,
			&settlement.CreatedAt,
			&settlement.PayerUsername,
			&settlement.ReceiverUsername,
		); err != nil {
			return nil, fmt.Errorf("failed to scan settlement: %w", err)
		}
		settlements = append(settlements, settlement)
	}
	return settlements, rows.Err()
}
