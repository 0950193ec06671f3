package group

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/liauzhanyi/splitwiser/internal/notification"
)

// Common errors
var (
	ErrGroupNotFound       = errors.New("group not found")
	ErrGroupNameRequired   = errors.New("group name is required")
	ErrMemberNotFound      = errors.New("member not found")
	ErrMemberAlreadyExists = errors.New("user is already a member of this group")
)

// Service handles group business logic
type Service struct {
	repo     *Repository
	notifier *notification.Service
}

// NewService creates a new group service
func NewService(repo *Repository, notifier *notification.Service) *Service {
	return &Service{repo: repo, notifier: notifier}
}

// Create creates a new group and adds the creator as a joined admin, so the
// creator always belongs to their own group.
func (s *Service) Create(ctx context.Context, creatorID int64, req *CreateGroupRequest) (*Group, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, ErrGroupNameRequired
	}

	group, err := s.repo.Create(ctx, creatorID, req)
	if err != nil {
		return nil, err
	}

	if _, err := s.repo.AddMember(ctx, group.ID, creatorID, MemberRoleAdmin, MemberStatusJoined); err != nil {
		return nil, err
	}

	return group, nil
}

// GetByID retrieves a group by its ID
func (s *Service) GetByID(ctx context.Context, id int64) (*Group, error) {
	group, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if group == nil {
		return nil, ErrGroupNotFound
	}
	return group, nil
}

// GetByIDWithMembers retrieves a group with all its members
func (s *Service) GetByIDWithMembers(ctx context.Context, id int64) (*Group, []*GroupMember, error) {
	group, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	members, err := s.repo.GetMembers(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	return group, members, nil
}

// ListByUserID retrieves all groups a user belongs to
func (s *Service) ListByUserID(ctx context.Context, userID int64, page, perPage int) ([]*Group, int, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}

	offset := (page - 1) * perPage
	return s.repo.ListByUserID(ctx, userID, perPage, offset)
}

// Update modifies an existing group
func (s *Service) Update(ctx context.Context, id int64, req *UpdateGroupRequest) (*Group, error) {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, ErrGroupNotFound
	}
	if req.Name != nil && strings.TrimSpace(*req.Name) == "" {
		return nil, ErrGroupNameRequired
	}

	return s.repo.Update(ctx, id, req)
}

// Delete removes a group
func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

// AddMember invites a user into a group
func (s *Service) AddMember(ctx context.Context, groupID int64, req *AddMemberRequest) (*GroupMember, error) {
	group, err := s.repo.GetByID(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if group == nil {
		return nil, ErrGroupNotFound
	}

	existing, err := s.repo.GetMember(ctx, groupID, req.UserID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrMemberAlreadyExists
	}

	role := req.Role
	if role == "" {
		role = MemberRoleMember
	}
	member, err := s.repo.AddMember(ctx, groupID, req.UserID, role, MemberStatusInvited)
	if err != nil {
		return nil, err
	}

	// Invitation notices are best effort; failures are logged, never surfaced.
	if s.notifier != nil {
		if _, err := s.notifier.NotifyGroupInvite(ctx, req.UserID, group.Name, groupID); err != nil {
			slog.Warn("failed to notify invitee", "group_id", groupID, "user_id", req.UserID, "error", err)
		}
	}

	return member, nil
}

// GetMembers retrieves all members of a group
func (s *Service) GetMembers(ctx context.Context, groupID int64) ([]*GroupMember, error) {
	group, err := s.repo.GetByID(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if group == nil {
		return nil, ErrGroupNotFound
	}

	return s.repo.GetMembers(ctx, groupID)
}

// MemberIDs returns the user ids of a group's members.
func (s *Service) MemberIDs(ctx context.Context, groupID int64) ([]int64, error) {
	members, err := s.GetMembers(ctx, groupID)
	if err != nil {
		return nil, err
	}
	ids := make([]int64, len(members))
	for i, m := range members {
		ids[i] = m.UserID
	}
	return ids, nil
}

// RemoveMember removes a user from a group. Removing someone who is not a
// member is a no-op, not an error.
func (s *Service) RemoveMember(ctx context.Context, groupID, userID int64) error {
	group, err := s.repo.GetByID(ctx, groupID)
	if err != nil {
		return err
	}
	if group == nil {
		return ErrGroupNotFound
	}

	return s.repo.RemoveMember(ctx, groupID, userID)
}

// AcceptInvitation allows a user to accept their group invitation
func (s *Service) AcceptInvitation(ctx context.Context, groupID, userID int64) (*GroupMember, error) {
	member, err := s.repo.GetMember(ctx, groupID, userID)
	if err != nil {
		return nil, err
	}
	if member == nil {
		return nil, ErrMemberNotFound
	}
	if member.Status != MemberStatusInvited {
		return member, nil // Already joined
	}

	return s.repo.UpdateMemberStatus(ctx, groupID, userID, MemberStatusJoined)
}
