package settlement

import (
	"context"
	"errors"
	"log/slog"
	"sort"

	"github.com/liauzhanyi/splitwiser/internal/expense"
	"github.com/liauzhanyi/splitwiser/internal/group"
	"github.com/liauzhanyi/splitwiser/internal/ledger"
	"github.com/liauzhanyi/splitwiser/internal/metrics"
	"github.com/liauzhanyi/splitwiser/internal/notification"
	"github.com/liauzhanyi/splitwiser/internal/user"
)

// Common errors
var (
	ErrGroupNotFound    = errors.New("group not found")
	ErrUserNotFound     = errors.New("user not found")
	ErrPayerNotFound    = errors.New("payer does not reference an existing user")
	ErrReceiverNotFound = errors.New("receiver does not reference an existing user")
	ErrSelfSettlement   = errors.New("payer and receiver must differ")
)

// Service handles settlement business logic. Balances come from running the
// ledger engine over a fresh expense snapshot and offsetting the result with
// every repayment recorded since.
type Service struct {
	repo        *Repository
	expenseRepo *expense.Repository
	userRepo    *user.Repository
	groups      *group.Service
	notifier    *notification.Service
}

// NewService creates a new settlement service with dependencies injected
func NewService(repo *Repository, expenseRepo *expense.Repository, userRepo *user.Repository, groups *group.Service, notifier *notification.Service) *Service {
	return &Service{
		repo:        repo,
		expenseRepo: expenseRepo,
		userRepo:    userRepo,
		groups:      groups,
		notifier:    notifier,
	}
}

// Record persists a repayment from payer to receiver
func (s *Service) Record(ctx context.Context, actorID int64, req *RecordSettlementRequest) (*Settlement, error) {
	amount := ledger.CentsFromFloat(req.Amount)
	if amount <= 0 {
		return nil, ledger.ErrInvalidAmount
	}

	payerID := actorID
	if req.PayerID != nil {
		payerID = *req.PayerID
	}
	if payerID == req.ReceiverID {
		return nil, ErrSelfSettlement
	}

	if payer, err := s.userRepo.GetByID(ctx, payerID); err != nil {
		return nil, err
	} else if payer == nil {
		return nil, ErrPayerNotFound
	}
	if receiver, err := s.userRepo.GetByID(ctx, req.ReceiverID); err != nil {
		return nil, err
	} else if receiver == nil {
		return nil, ErrReceiverNotFound
	}
	if req.GroupID != nil {
		if g, err := s.groups.GetByID(ctx, *req.GroupID); err != nil {
			if errors.Is(err, group.ErrGroupNotFound) {
				return nil, ErrGroupNotFound
			}
			return nil, err
		} else if g == nil {
			return nil, ErrGroupNotFound
		}
	}

	settlement, err := s.repo.Create(ctx, req.GroupID, payerID, req.ReceiverID, amount)
	if err != nil {
		return nil, err
	}

	metrics.SettlementsRecorded.Inc()
	slog.Info("settlement recorded",
		"settlement_id", settlement.ID,
		"payer_id", payerID,
		"receiver_id", req.ReceiverID,
		"amount", amount.String())

	if s.notifier != nil {
		if _, err := s.notifier.NotifySettlementRecorded(ctx, req.ReceiverID, payerID, amount, settlement.ID); err != nil {
			slog.Warn("failed to notify receiver", "settlement_id", settlement.ID, "error", err)
		}
	}

	return settlement, nil
}

// ListByGroupID retrieves a group's settlement history
func (s *Service) ListByGroupID(ctx context.Context, groupID int64, page, perPage int) ([]*Settlement, int, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}

	offset := (page - 1) * perPage
	return s.repo.ListByGroupID(ctx, groupID, perPage, offset)
}

// UserBalance computes the user's outstanding position against each
// counterparty, across all groups or within one.
func (s *Service) UserBalance(ctx context.Context, userID int64, groupID *int64) (*UserBalanceResponse, error) {
	if u, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return nil, err
	} else if u == nil {
		return nil, ErrUserNotFound
	}

	snapshot, err := s.expenseRepo.SnapshotByUser(ctx, userID, groupID)
	if err != nil {
		return nil, err
	}
	balances := ledger.UserBalance(snapshot, userID)

	settlements, err := s.repo.ListForUser(ctx, userID, groupID)
	if err != nil {
		return nil, err
	}
	offsetUserBalances(balances, userID, settlements)

	entries, net := toBalanceEntries(balances)
	return &UserBalanceResponse{
		UserID:   userID,
		GroupID:  groupID,
		Balances: entries,
		Net:      net,
	}, nil
}

// GroupBalances computes the pairwise balance matrix for a group
func (s *Service) GroupBalances(ctx context.Context, groupID int64) (*GroupBalancesResponse, error) {
	balances, memberIDs, err := s.groupBalanceMatrix(ctx, groupID)
	if err != nil {
		return nil, err
	}

	resp := &GroupBalancesResponse{
		GroupID: groupID,
		Members: make([]*MemberBalanceResponse, len(memberIDs)),
	}
	for i, id := range memberIDs {
		entries, net := toBalanceEntries(balances[id])
		resp.Members[i] = &MemberBalanceResponse{UserID: id, Balances: entries, Net: net}
	}
	return resp, nil
}

// SettleUp runs the debt simplifier over a group's outstanding balances and
// returns the minimal transfer plan. Nothing is persisted; the plan becomes
// real only as its payments are recorded.
func (s *Service) SettleUp(ctx context.Context, groupID int64) (*SimplifyResponse, error) {
	balances, _, err := s.groupBalanceMatrix(ctx, groupID)
	if err != nil {
		return nil, err
	}

	payments := ledger.Simplify(balances)
	metrics.SimplifyRuns.Inc()
	slog.Info("debt simplification computed", "group_id", groupID, "payments", len(payments))

	resp := &SimplifyResponse{
		GroupID:  groupID,
		Payments: make([]*PaymentResponse, len(payments)),
	}
	for i, p := range payments {
		resp.Payments[i] = &PaymentResponse{
			FromUserID: p.FromUserID,
			ToUserID:   p.ToUserID,
			Amount:     p.Amount.Float(),
		}
	}
	return resp, nil
}

func (s *Service) groupBalanceMatrix(ctx context.Context, groupID int64) (map[int64]map[int64]ledger.Cents, []int64, error) {
	memberIDs, err := s.groups.MemberIDs(ctx, groupID)
	if err != nil {
		if errors.Is(err, group.ErrGroupNotFound) {
			return nil, nil, ErrGroupNotFound
		}
		return nil, nil, err
	}

	snapshot, err := s.expenseRepo.SnapshotByGroup(ctx, groupID)
	if err != nil {
		return nil, nil, err
	}
	balances := ledger.GroupBalances(snapshot, memberIDs)

	settlements, err := s.repo.ListByGroupIDAll(ctx, groupID)
	if err != nil {
		return nil, nil, err
	}
	offsetGroupBalances(balances, settlements)

	return balances, memberIDs, nil
}

// offsetUserBalances folds recorded repayments into a single user's balance
// map. A payment the user made shrinks their debt to the receiver; a payment
// they received shrinks what the payer owes them.
func offsetUserBalances(balances map[int64]ledger.Cents, userID int64, settlements []*Settlement) {
	for _, st := range settlements {
		switch userID {
		case st.PayerID:
			balances[st.ReceiverID] += st.Amount
		case st.ReceiverID:
			balances[st.PayerID] -= st.Amount
		}
	}
	for id, amount := range balances {
		if amount == 0 {
			delete(balances, id)
		}
	}
}

// offsetGroupBalances folds recorded repayments into a group's pairwise
// balance matrix, keeping it antisymmetric.
func offsetGroupBalances(balances map[int64]map[int64]ledger.Cents, settlements []*Settlement) {
	for _, st := range settlements {
		if row, ok := balances[st.PayerID]; ok {
			row[st.ReceiverID] += st.Amount
		}
		if row, ok := balances[st.ReceiverID]; ok {
			row[st.PayerID] -= st.Amount
		}
	}
	for _, row := range balances {
		for id, amount := range row {
			if amount == 0 {
				delete(row, id)
			}
		}
	}
}

func sortedKeys(m map[int64]ledger.Cents) []int64 {
	keys := make([]int64, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}
