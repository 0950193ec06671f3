package expense

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/liauzhanyi/splitwiser/internal/group"
	"github.com/liauzhanyi/splitwiser/internal/ledger"
	"github.com/liauzhanyi/splitwiser/internal/metrics"
	"github.com/liauzhanyi/splitwiser/internal/notification"
	"github.com/liauzhanyi/splitwiser/internal/user"
)

// Common errors
var (
	ErrExpenseNotFound      = errors.New("expense not found")
	ErrDescriptionRequired  = errors.New("description is required")
	ErrPayerNotFound        = errors.New("payer does not reference an existing user")
	ErrGroupNotFound        = errors.New("group does not reference an existing group")
	ErrParticipantNotFound  = errors.New("participant does not reference an existing user")
	ErrParticipantNotMember = errors.New("participant is not a member of the expense's group")
	ErrNotPayer             = errors.New("only the payer can delete an expense")
	ErrMissingExactAmount   = errors.New("exact amount required for all participants")
	ErrMissingPercentage    = errors.New("percentage value required for all participants")
)

// Service handles expense business logic. Split calculation is delegated to
// the ledger engine; this layer resolves references and persists the result.
type Service struct {
	repo      *Repository
	userRepo  *user.Repository
	groupRepo *group.Repository
	notifier  *notification.Service
}

// NewService creates a new expense service with dependencies injected
func NewService(repo *Repository, userRepo *user.Repository, groupRepo *group.Repository, notifier *notification.Service) *Service {
	return &Service{
		repo:      repo,
		userRepo:  userRepo,
		groupRepo: groupRepo,
		notifier:  notifier,
	}
}

// CreateExpense records a new expense and, when a split is included in the
// request, divides it in the same transaction.
func (s *Service) CreateExpense(ctx context.Context, actorID int64, req *CreateExpenseRequest) (*ExpenseWithSplits, error) {
	if strings.TrimSpace(req.Description) == "" {
		return nil, ErrDescriptionRequired
	}
	amount := ledger.CentsFromFloat(req.Amount)
	if amount <= 0 {
		return nil, ledger.ErrInvalidAmount
	}

	payerID := actorID
	if req.PayerID != nil {
		payerID = *req.PayerID
	}
	if payer, err := s.userRepo.GetByID(ctx, payerID); err != nil {
		return nil, err
	} else if payer == nil {
		return nil, ErrPayerNotFound
	}
	if req.GroupID != nil {
		if g, err := s.groupRepo.GetByID(ctx, *req.GroupID); err != nil {
			return nil, err
		} else if g == nil {
			return nil, ErrGroupNotFound
		}
	}

	category := req.Category
	if category == "" {
		category = "General"
	}

	var splits []ledger.Split
	var splitType *string
	if req.Split != nil {
		var err error
		splits, err = s.calculateSplits(ctx, req.GroupID, amount, req.Split)
		if err != nil {
			return nil, err
		}
		st := req.Split.SplitType
		splitType = &st
	}

	result, err := s.repo.CreateExpense(ctx, payerID, req.GroupID, req.Description, amount, category, splitType, splits)
	if err != nil {
		return nil, err
	}

	label := "NONE"
	if splitType != nil {
		label = *splitType
	}
	metrics.ExpensesCreated.WithLabelValues(label).Inc()
	slog.Info("expense created",
		"expense_id", result.Expense.ID,
		"payer_id", payerID,
		"amount", amount.String(),
		"splits", len(result.Splits))

	s.notifyParticipants(ctx, result)
	return result, nil
}

// ApplySplit replaces an expense's split list wholesale under the requested
// rule. The replacement is atomic: on failure the previous splits stand.
func (s *Service) ApplySplit(ctx context.Context, expenseID int64, req *SplitRequest) (*ExpenseWithSplits, error) {
	expense, err := s.repo.GetExpenseByID(ctx, expenseID)
	if err != nil {
		return nil, err
	}
	if expense == nil {
		return nil, ErrExpenseNotFound
	}

	splits, err := s.calculateSplits(ctx, expense.GroupID, expense.Amount, req)
	if err != nil {
		metrics.SplitErrors.WithLabelValues(errorKind(err)).Inc()
		return nil, err
	}

	result, err := s.repo.ReplaceSplits(ctx, expenseID, req.SplitType, splits)
	if err != nil {
		return nil, err
	}

	slog.Info("splits replaced", "expense_id", expenseID, "split_type", req.SplitType, "splits", len(splits))
	s.notifyParticipants(ctx, result)
	return result, nil
}

// calculateSplits validates participant references against the group (or the
// user store for group-less expenses) and runs the ledger split calculator.
func (s *Service) calculateSplits(ctx context.Context, groupID *int64, amount ledger.Cents, req *SplitRequest) ([]ledger.Split, error) {
	if groupID != nil {
		members, err := s.groupRepo.GetMembers(ctx, *groupID)
		if err != nil {
			return nil, err
		}
		memberSet := make(map[int64]bool, len(members))
		for _, m := range members {
			memberSet[m.UserID] = true
		}
		for _, p := range req.Participants {
			if !memberSet[p.UserID] {
				return nil, ErrParticipantNotMember
			}
		}
	} else {
		for _, p := range req.Participants {
			if u, err := s.userRepo.GetByID(ctx, p.UserID); err != nil {
				return nil, err
			} else if u == nil {
				return nil, ErrParticipantNotFound
			}
		}
	}

	rule, err := req.ToRule()
	if err != nil {
		return nil, err
	}
	return rule.Calculate(amount)
}

// GetExpenseByID retrieves an expense with its splits
func (s *Service) GetExpenseByID(ctx context.Context, id int64) (*ExpenseWithSplits, error) {
	expense, err := s.repo.GetExpenseByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if expense == nil {
		return nil, ErrExpenseNotFound
	}

	splits, err := s.repo.GetSplitsByExpenseID(ctx, id)
	if err != nil {
		return nil, err
	}

	return &ExpenseWithSplits{Expense: expense, Splits: splits}, nil
}

// ListExpensesByGroupID retrieves expenses for a group
func (s *Service) ListExpensesByGroupID(ctx context.Context, groupID int64, page, perPage int) ([]*Expense, int, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}

	offset := (page - 1) * perPage
	return s.repo.ListExpensesByGroupID(ctx, groupID, perPage, offset)
}

// ListExpensesByUserID retrieves expenses the user paid or participates in
func (s *Service) ListExpensesByUserID(ctx context.Context, userID int64, page, perPage int) ([]*Expense, int, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}

	offset := (page - 1) * perPage
	return s.repo.ListExpensesByUserID(ctx, userID, perPage, offset)
}

// DeleteExpense deletes an expense; only the payer may do so
func (s *Service) DeleteExpense(ctx context.Context, id, userID int64) error {
	expense, err := s.repo.GetExpenseByID(ctx, id)
	if err != nil {
		return err
	}
	if expense == nil {
		return ErrExpenseNotFound
	}
	if expense.PayerID != userID {
		return ErrNotPayer
	}

	return s.repo.DeleteExpense(ctx, id)
}

// GroupAnalytics aggregates a group's spending per category and per member
func (s *Service) GroupAnalytics(ctx context.Context, groupID int64) (*AnalyticsResponse, error) {
	if g, err := s.groupRepo.GetByID(ctx, groupID); err != nil {
		return nil, err
	} else if g == nil {
		return nil, ErrGroupNotFound
	}

	categories, err := s.repo.CategoryTotals(ctx, groupID)
	if err != nil {
		return nil, err
	}
	members, err := s.repo.MemberPaidTotals(ctx, groupID)
	if err != nil {
		return nil, err
	}

	resp := &AnalyticsResponse{
		Categories: make([]*CategoryTotalResponse, len(categories)),
		Members:    make([]*MemberTotalResponse, len(members)),
	}
	for i, c := range categories {
		resp.Categories[i] = &CategoryTotalResponse{Category: c.Category, Total: c.Total.Float()}
	}
	for i, m := range members {
		resp.Members[i] = &MemberTotalResponse{UserID: m.UserID, Username: m.Username, Total: m.Total.Float()}
	}
	return resp, nil
}

// notifyParticipants tells everyone with a share (except the payer) that
// they owe money. Notification failures are logged, never surfaced.
func (s *Service) notifyParticipants(ctx context.Context, result *ExpenseWithSplits) {
	if s.notifier == nil {
		return
	}
	for _, split := range result.Splits {
		if split.UserID == result.Expense.PayerID {
			continue
		}
		_, err := s.notifier.NotifyExpenseAdded(ctx, split.UserID, result.Expense.Description, split.Amount, result.Expense.ID)
		if err != nil {
			slog.Warn("failed to notify participant", "user_id", split.UserID, "expense_id", result.Expense.ID, "error", err)
		}
	}
}

func errorKind(err error) string {
	switch {
	case errors.Is(err, ledger.ErrSplitMismatch):
		return "split_mismatch"
	case errors.Is(err, ledger.ErrInvalidAmount),
		errors.Is(err, ledger.ErrNegativeSplit),
		errors.Is(err, ledger.ErrPercentageOutOfRange):
		return "invalid_amount"
	case errors.Is(err, ErrParticipantNotMember), errors.Is(err, ErrParticipantNotFound):
		return "invalid_reference"
	default:
		return "other"
	}
}
