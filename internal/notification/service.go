package notification

import (
	"context"
	"errors"
	"fmt"

	"github.com/liauzhanyi/splitwiser/internal/ledger"
)

// Common errors
var (
	ErrNotificationNotFound = errors.New("notification not found")
)

// Service handles notification business logic
type Service struct {
	repo *Repository
}

// NewService creates a new notification service
func NewService(repo *Repository) *Service {
	return &Service{repo: repo}
}

// NotifyExpenseAdded tells a participant they owe a share of a new expense
func (s *Service) NotifyExpenseAdded(ctx context.Context, recipientID int64, description string, amount ledger.Cents, expenseID int64) (*Notification, error) {
	message := fmt.Sprintf("You owe %s for \"%s\"", amount.String(), description)
	return s.repo.Create(ctx, recipientID, message, EntityExpense, expenseID)
}

// NotifySettlementRecorded tells a receiver that a repayment was recorded
func (s *Service) NotifySettlementRecorded(ctx context.Context, recipientID, payerID int64, amount ledger.Cents, settlementID int64) (*Notification, error) {
	message := fmt.Sprintf("User %d paid you %s", payerID, amount.String())
	return s.repo.Create(ctx, recipientID, message, EntitySettlement, settlementID)
}

// NotifyGroupInvite tells a user they have been invited to a group
func (s *Service) NotifyGroupInvite(ctx context.Context, recipientID int64, groupName string, groupID int64) (*Notification, error) {
	message := fmt.Sprintf("You have been invited to join \"%s\"", groupName)
	return s.repo.Create(ctx, recipientID, message, EntityGroup, groupID)
}

// List retrieves a user's notifications
func (s *Service) List(ctx context.Context, recipientID int64, page, perPage int) ([]*Notification, int, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}

	offset := (page - 1) * perPage
	return s.repo.ListByRecipientID(ctx, recipientID, perPage, offset)
}

// UnreadCount returns how many unread notifications the user has
func (s *Service) UnreadCount(ctx context.Context, recipientID int64) (int, error) {
	return s.repo.UnreadCount(ctx, recipientID)
}

// MarkRead flags one of the user's notifications as read
func (s *Service) MarkRead(ctx context.Context, id, recipientID int64) error {
	updated, err := s.repo.MarkRead(ctx, id, recipientID)
	if err != nil {
		return err
	}
	if !updated {
		return ErrNotificationNotFound
	}
	return nil
}

// MarkAllRead flags all of the user's notifications as read
func (s *Service) MarkAllRead(ctx context.Context, recipientID int64) error {
	return s.repo.MarkAllRead(ctx, recipientID)
}
