package group

import (
	"context"
	"database/sql"
	"fmt"
)

// Repository handles group data persistence
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new group repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new group into the database
func (r *Repository) Create(ctx context.Context, creatorID int64, req *CreateGroupRequest) (*Group, error) {
	query := `
		INSERT INTO groups (name, description, created_by)
		VALUES ($1, $2, $3)
		RETURNING id, name, description, created_by, created_at
	`

	group := &Group{}
	err := r.db.QueryRowContext(ctx, query, req.Name, req.Description, creatorID).Scan(
		&group.ID,
		&group.Name,
		&group.Description,
		&group.CreatedBy,
		&group.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create group: %w", err)
	}

	return group, nil
}

// GetByID retrieves a group by its ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*Group, error) {
	query := `
		SELECT id, name, description, created_by, created_at
		FROM groups
		WHERE id = $1
	`

	group := &Group{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&group.ID,
		&group.Name,
		&group.Description,
		&group.CreatedBy,
		&group.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get group: %w", err)
	}

	return group, nil
}

// ListByUserID retrieves the groups a user is a member of
func (r *Repository) ListByUserID(ctx context.Context, userID int64, limit, offset int) ([]*Group, int, error) {
	var total int
	countQuery := `
		SELECT COUNT(*)
		FROM groups g
		JOIN group_members gm ON gm.group_id = g.id
		WHERE gm.user_id = $1
	`
	if err := r.db.QueryRowContext(ctx, countQuery, userID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count groups: %w", err)
	}

	query := `
		SELECT g.id, g.name, g.description, g.created_by, g.created_at
		FROM groups g
		JOIN group_members gm ON gm.group_id = g.id
		WHERE gm.user_id = $1
		ORDER BY g.created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.QueryContext(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list groups: %w", err)
	}
	defer rows.Close()

	var groups []*Group
	for rows.Next() {
		group := &Group{}
		if err := rows.Scan(
			&group.ID,
			&group.Name,
			&group.Description,
			&group.CreatedBy,
			&group.CreatedAt,
		); err != nil {
			return nil, 0, fmt.Errorf("failed to scan group: %w", err)
		}
		groups = append(groups, group)
	}

	return groups, total, nil
}

// Update modifies an existing group
func (r *Repository) Update(ctx context.Context, id int64, req *UpdateGroupRequest) (*Group, error) {
	query := `
		UPDATE groups
		SET name = COALESCE($2, name),
		    description = COALESCE($3, description)
		WHERE id = $1
		RETURNING id, name, description, created_by, created_at
	`

	group := &Group{}
	err := r.db.QueryRowContext(ctx, query, id, req.Name, req.Description).Scan(
		&group.ID,
		&group.Name,
		&group.Description,
		&group.CreatedBy,
		&group.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to update group: %w", err)
	}

	return group, nil
}

// Delete removes a group and, via cascade, its memberships and expenses
func (r *Repository) Delete(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM groups WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete group: %w", err)
	}
	return nil
}

// AddMember inserts a membership row
func (r *Repository) AddMember(ctx context.Context, groupID, userID int64, role MemberRole, status MemberStatus) (*GroupMember, error) {
	query := `
		INSERT INTO group_members (group_id, user_id, role, status)
		VALUES ($1, $2, $3, $4)
		RETURNING id, group_id, user_id, status, role, joined_at
	`

	member := &GroupMember{}
	err := r.db.QueryRowContext(ctx, query, groupID, userID, role, status).Scan(
		&member.ID,
		&member.GroupID,
		&member.UserID,
		&member.Status,
		&member.Role,
		&member.JoinedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to add member: %w", err)
	}

	return member, nil
}

// GetMember retrieves a single membership row
func (r *Repository) GetMember(ctx context.Context, groupID, userID int64) (*GroupMember, error) {
	query := `
		SELECT gm.id, gm.group_id, gm.user_id, gm.status, gm.role, gm.joined_at, u.username
		FROM group_members gm
		JOIN users u ON gm.user_id = u.id
		WHERE gm.group_id = $1 AND gm.user_id = $2
	`

	member := &GroupMember{}
	err := r.db.QueryRowContext(ctx, query, groupID, userID).Scan(
		&member.ID,
		&member.GroupID,
		&member.UserID,
		&member.Status,
		&member.Role,
		&member.JoinedAt,
		&member.Username,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get member: %w", err)
	}

	return member, nil
}

// GetMembers retrieves all members of a group
func (r *Repository) GetMembers(ctx context.Context, groupID int64) ([]*GroupMember, error) {
	query := `
		SELECT gm.id, gm.group_id, gm.user_id, gm.status, gm.role, gm.joined_at, u.username
		FROM group_members gm
		JOIN users u ON gm.user_id = u.id
		WHERE gm.group_id = $1
		ORDER BY gm.id
	`

	rows, err := r.db.QueryContext(ctx, query, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to get members: %w", err)
	}
	defer rows.Close()

	var members []*GroupMember
	for rows.Next() {
		member := &GroupMember{}
		if err := rows.Scan(
			&member.ID,
			&member.GroupID,
			&member.UserID,
			&member.Status,
			&member.Role,
			&member.JoinedAt,
			&member.Username,
		); err != nil {
			return nil, fmt.Errorf("failed to scan member: %w", err)
		}
		members = append(members, member)
	}

	return members, nil
}

// UpdateMemberStatus changes a member's status
func (r *Repository) UpdateMemberStatus(ctx context.Context, groupID, userID int64, status MemberStatus) (*GroupMember, error) {
	query := `
		UPDATE group_members
		SET status = $3
		WHERE group_id = $1 AND user_id = $2
		RETURNING id, group_id, user_id, status, role, joined_at
	`

	member := &GroupMember{}
	err := r.db.QueryRowContext(ctx, query, groupID, userID, status).Scan(
		&member.ID,
		&member.GroupID,
		&member.UserID,
		&member.Status,
		&member.Role,
		&member.JoinedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to update member: %w", err)
	}

	return member, nil
}

// RemoveMember deletes a membership row. Zero rows affected is fine.
func (r *Repository) RemoveMember(ctx context.Context, groupID, userID int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM group_members WHERE group_id = $1 AND user_id = $2`, groupID, userID)
	if err != nil {
		return fmt.Errorf("failed to remove member: %w", err)
	}
	return nil
}
