package expense

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/liauzhanyi/splitwiser/internal/ledger"
)

// Repository handles expense and split data persistence
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new expense repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// CreateExpense inserts an expense and its splits in one transaction.
func (r *Repository) CreateExpense(ctx context.Context, payerID int64, groupID *int64, description string, amount ledger.Cents, category string, splitType *string, splits []ledger.Split) (*ExpenseWithSplits, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO expenses (group_id, payer_id, description, amount_cents, category, split_type)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, group_id, payer_id, description, amount_cents, category, split_type, created_at
	`

	expense := &Expense{}
	err = tx.QueryRowContext(ctx, query, groupID, payerID, description, amount, category, splitType).Scan(
		&expense.ID,
		&expense.GroupID,
		&expense.PayerID,
		&expense.Description,
		&expense.Amount,
		&expense.Category,
		&expense.SplitType,
		&expense.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create expense: %w", err)
	}

	stored, err := insertSplits(ctx, tx, expense.ID, splits)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit expense: %w", err)
	}

	return &ExpenseWithSplits{Expense: expense, Splits: stored}, nil
}

// ReplaceSplits swaps an expense's splits and split-type tag wholesale in
// one transaction, so a failed replacement leaves the old splits intact.
func (r *Repository) ReplaceSplits(ctx context.Context, expenseID int64, splitType string, splits []ledger.Split) (*ExpenseWithSplits, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM splits WHERE expense_id = $1`, expenseID); err != nil {
		return nil, fmt.Errorf("failed to clear splits: %w", err)
	}

	query := `
		UPDATE expenses SET split_type = $2
		WHERE id = $1
		RETURNING id, group_id, payer_id, description, amount_cents, category, split_type, created_at
	`

	expense := &Expense{}
	err = tx.QueryRowContext(ctx, query, expenseID, splitType).Scan(
		&expense.ID,
		&expense.GroupID,
		&expense.PayerID,
		&expense.Description,
		&expense.Amount,
		&expense.Category,
		&expense.SplitType,
		&expense.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update split type: %w", err)
	}

	stored, err := insertSplits(ctx, tx, expenseID, splits)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit splits: %w", err)
	}

	return &ExpenseWithSplits{Expense: expense, Splits: stored}, nil
}

func insertSplits(ctx context.Context, tx *sql.Tx, expenseID int64, splits []ledger.Split) ([]*Split, error) {
	query := `
		INSERT INTO splits (expense_id, user_id, amount_cents, percentage)
		VALUES ($1, $2, $3, $4)
		RETURNING id, expense_id, user_id, amount_cents, percentage
	`

	stored := make([]*Split, len(splits))
	for i, s := range splits {
		row := &Split{}
		err := tx.QueryRowContext(ctx, query, expenseID, s.UserID, s.Amount, s.Percentage).Scan(
			&row.ID,
			&row.ExpenseID,
			&row.UserID,
			&row.Amount,
			&row.Percentage,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create split: %w", err)
		}
		stored[i] = row
	}
	return stored, nil
}

// GetExpenseByID retrieves an expense by its ID
func (r *Repository) GetExpenseByID(ctx context.Context, id int64) (*Expense, error) {
	query := `
		SELECT e.id, e.group_id, e.payer_id, e.description, e.amount_cents, e.category, e.split_type, e.created_at, u.username
		FROM expenses e
		JOIN users u ON e.payer_id = u.id
		WHERE e.id = $1
	`

	expense := &Expense{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&expense.ID,
		&expense.GroupID,
		&expense.PayerID,
		&expense.Description,
		&expense.Amount,
		&expense.Category,
		&expense.SplitType,
		&expense.CreatedAt,
		&expense.PayerUsername,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get expense: %w", err)
	}

	return expense, nil
}

// GetSplitsByExpenseID retrieves all splits for an expense
func (r *Repository) GetSplitsByExpenseID(ctx context.Context, expenseID int64) ([]*Split, error) {
	query := `
		SELECT s.id, s.expense_id, s.user_id, s.amount_cents, s.percentage, u.username
		FROM splits s
		JOIN users u ON s.user_id = u.id
		WHERE s.expense_id = $1
		ORDER BY s.user_id
	`

	rows, err := r.db.QueryContext(ctx, query, expenseID)
	if err != nil {
		return nil, fmt.Errorf("failed to get splits: %w", err)
	}
	defer rows.Close()

	var splits []*Split
	for rows.Next() {
		split := &Split{}
		if err := rows.Scan(
			&split.ID,
			&split.ExpenseID,
			&split.UserID,
			&split.Amount,
			&split.Percentage,
			&split.Username,
		); err != nil {
			return nil, fmt.Errorf("failed to scan split: %w", err)
		}
		splits = append(splits, split)
	}

	return splits, nil
}

// ListExpensesByGroupID retrieves all expenses for a group
func (r *Repository) ListExpensesByGroupID(ctx context.Context, groupID int64, limit, offset int) ([]*Expense, int, error) {
	var total int
	countQuery := `SELECT COUNT(*) FROM expenses WHERE group_id = $1`
	if err := r.db.QueryRowContext(ctx, countQuery, groupID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count expenses: %w", err)
	}

	query := `
		SELECT e.id, e.group_id, e.payer_id, e.description, e.amount_cents, e.category, e.split_type, e.created_at, u.username
		FROM expenses e
		JOIN users u ON e.payer_id = u.id
		WHERE e.group_id = $1
		ORDER BY e.created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.QueryContext(ctx, query, groupID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list expenses: %w", err)
	}
	defer rows.Close()

	expenses, err := scanExpenses(rows)
	if err != nil {
		return nil, 0, err
	}
	return expenses, total, nil
}

// ListExpensesByUserID retrieves expenses the user paid or holds a split in
func (r *Repository) ListExpensesByUserID(ctx context.Context, userID int64, limit, offset int) ([]*Expense, int, error) {
	filter := `
		(e.payer_id = $1 OR EXISTS (
			SELECT 1 FROM splits s WHERE s.expense_id = e.id AND s.user_id = $1
		))
	`

	var total int
	countQuery := `SELECT COUNT(*) FROM expenses e WHERE ` + filter
	if err := r.db.QueryRowContext(ctx, countQuery, userID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count expenses: %w", err)
	}

	query := `
		SELECT e.id, e.group_id, e.payer_id, e.description, e.amount_cents, e.category, e.split_type, e.created_at, u.username
		FROM expenses e
		JOIN users u ON e.payer_id = u.id
		WHERE ` + filter + `
		ORDER BY e.created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.QueryContext(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list expenses: %w", err)
	}
	defer rows.Close()

	expenses, err := scanExpenses(rows)
	if err != nil {
		return nil, 0, err
	}
	return expenses, total, nil
}

func scanExpenses(rows *sql.Rows) ([]*Expense, error) {
	var expenses []*Expense
	for rows.Next() {
		expense := &Expense{}
		if err := rows.Scan(
			&expense.ID,
			&expense.GroupID,
			&expense.PayerID,
			&expense.Description,
			&expense.Amount,
			&expense.Category,
			&expense.SplitType,
			&expense.CreatedAt,
			&expense.PayerUsername,
		); err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		expenses = append(expenses, expense)
	}
	return expenses, rows.Err()
}

// SnapshotByGroup loads every expense of a group together with its splits
// as a ledger snapshot for balance computation.
func (r *Repository) SnapshotByGroup(ctx context.Context, groupID int64) ([]ledger.Expense, error) {
	return r.snapshot(ctx, `e.group_id = $1`, groupID)
}

// SnapshotByUser loads every expense the user pays for or holds a split in,
// optionally scoped to one group.
func (r *Repository) SnapshotByUser(ctx context.Context, userID int64, groupID *int64) ([]ledger.Expense, error) {
	participates := `
		(e.payer_id = $1 OR EXISTS (
			SELECT 1 FROM splits s WHERE s.expense_id = e.id AND s.user_id = $1
		))
	`
	if groupID != nil {
		return r.snapshot(ctx, participates+` AND e.group_id = $2`, userID, *groupID)
	}
	return r.snapshot(ctx, participates, userID)
}

// snapshot assembles ledger expenses for a filter over the expenses table.
// Splits are fetched in one joined query and grouped by expense id.
func (r *Repository) snapshot(ctx context.Context, filter string, args ...interface{}) ([]ledger.Expense, error) {
	query := `
		SELECT e.id, e.group_id, e.payer_id, e.description, e.amount_cents, e.category, e.split_type
		FROM expenses e
		WHERE ` + filter + `
		ORDER BY e.id
	`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to load expenses: %w", err)
	}
	defer rows.Close()

	var expenses []ledger.Expense
	index := make(map[int64]int)
	for rows.Next() {
		var e ledger.Expense
		var splitType sql.NullString
		if err := rows.Scan(&e.ID, &e.GroupID, &e.PayerID, &e.Description, &e.Amount, &e.Category, &splitType); err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		if splitType.Valid {
			e.SplitType = ledger.SplitType(splitType.String)
		}
		index[e.ID] = len(expenses)
		expenses = append(expenses, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to load expenses: %w", err)
	}
	if len(expenses) == 0 {
		return nil, nil
	}

	splitQuery := `
		SELECT s.expense_id, s.user_id, s.amount_cents, s.percentage
		FROM splits s
		JOIN expenses e ON s.expense_id = e.id
		WHERE ` + filter + `
		ORDER BY s.expense_id, s.user_id
	`

	splitRows, err := r.db.QueryContext(ctx, splitQuery, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to load splits: %w", err)
	}
	defer splitRows.Close()

	for splitRows.Next() {
		var expenseID int64
		var s ledger.Split
		if err := splitRows.Scan(&expenseID, &s.UserID, &s.Amount, &s.Percentage); err != nil {
			return nil, fmt.Errorf("failed to scan split: %w", err)
		}
		if i, ok := index[expenseID]; ok {
			expenses[i].Splits = append(expenses[i].Splits, s)
		}
	}
	return expenses, splitRows.Err()
}

// CategoryTotals aggregates a group's split expenses per category
func (r *Repository) CategoryTotals(ctx context.Context, groupID int64) ([]*CategoryTotal, error) {
	query := `
		SELECT category, SUM(amount_cents)
		FROM expenses
		WHERE group_id = $1
		GROUP BY category
		ORDER BY SUM(amount_cents) DESC
	`

	rows, err := r.db.QueryContext(ctx, query, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate categories: %w", err)
	}
	defer rows.Close()

	var totals []*CategoryTotal
	for rows.Next() {
		t := &CategoryTotal{}
		if err := rows.Scan(&t.Category, &t.Total); err != nil {
			return nil, fmt.Errorf("failed to scan category total: %w", err)
		}
		totals = append(totals, t)
	}
	return totals, rows.Err()
}

// MemberPaidTotals aggregates the amount each member has paid in a group
func (r *Repository) MemberPaidTotals(ctx context.Context, groupID int64) ([]*MemberTotal, error) {
	query := `
		SELECT e.payer_id, u.username, SUM(e.amount_cents)
		FROM expenses e
		JOIN users u ON e.payer_id = u.id
		WHERE e.group_id = $1
		GROUP BY e.payer_id, u.username
		ORDER BY SUM(e.amount_cents) DESC
	`

	rows, err := r.db.QueryContext(ctx, query, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate member totals: %w", err)
	}
	defer rows.Close()

	var totals []*MemberTotal
	for rows.Next() {
		t := &MemberTotal{}
		if err := rows.Scan(&t.UserID, &t.Username, &t.Total); err != nil {
			return nil, fmt.Errorf("failed to scan member total: %w", err)
		}
		totals = append(totals, t)
	}
	return totals, rows.Err()
}

// DeleteExpense deletes an expense; splits go with it via cascade
func (r *Repository) DeleteExpense(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM expenses WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete expense: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrExpenseNotFound
	}
	return nil
}
