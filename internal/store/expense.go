package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/dukerupert/fintrack/internal/model"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type ExpenseStore struct {
	db *sql.DB
}

func NewExpenseStore(db *sql.DB) *ExpenseStore {
	return &ExpenseStore{db: db}
}

const expenseCols = `id, user_id, title, amount, date, category, payment_method, notes, created_at`

func scanExpense(scanner interface{ Scan(...any) error }) (*model.Expense, error) {
	var e model.Expense
	err := scanner.Scan(
		&e.ID, &e.UserID, &e.Title, &e.Amount, &e.Date,
		&e.Category, &e.PaymentMethod, &e.Notes, &e.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (s *ExpenseStore) Create(userID, title string, amount decimal.Decimal, date time.Time, category, paymentMethod, notes string) (*model.Expense, error) {
	id := uuid.NewString()
	_, err := s.db.Exec(
		`INSERT INTO expenses (id, user_id, title, amount, date, category, payment_method, notes) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		id, userID, title, amount, date.UTC(), category, paymentMethod, notes,
	)
	if err != nil {
		return nil, fmt.Errorf("insert expense: %w", err)
	}
	return s.GetByID(id)
}

func (s *ExpenseStore) GetByID(id string) (*model.Expense, error) {
	row := s.db.QueryRow(`SELECT `+expenseCols+` FROM expenses WHERE id = ?`, id)
	e, err := scanExpense(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get expense: %w", err)
	}
	return e, nil
}

func (s *ExpenseStore) ListByUser(userID string) ([]model.Expense, error) {
	rows, err := s.db.Query(
		`SELECT `+expenseCols+` FROM expenses WHERE user_id = ? ORDER BY date DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	defer rows.Close()

	var expenses []model.Expense
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("scan expense: %w", err)
		}
		expenses = append(expenses, *e)
	}
	return expenses, rows.Err()
}

func (s *ExpenseStore) Update(id, title string, amount decimal.Decimal, date time.Time, category, paymentMethod, notes string) (*model.Expense, error) {
	_, err := s.db.Exec(
		`UPDATE expenses SET title = ?, amount = ?, date = ?, category = ?, payment_method = ?, notes = ? WHERE id = ?`,
		title, amount, date.UTC(), category, paymentMethod, notes, id,
	)
	if err != nil {
		return nil, fmt.Errorf("update expense: %w", err)
	}
	return s.GetByID(id)
}

func (s *ExpenseStore) Delete(id string) error {
	_, err := s.db.Exec(`DELETE FROM expenses WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete expense: %w", err)
	}
	return nil
}

// SummarizeByCategory sums a user's expenses per category over [start, end).
// Amounts are summed in Go because they are stored as decimal strings.
func (s *ExpenseStore) SummarizeByCategory(userID string, start, end time.Time) ([]model.CategoryTotal, error) {
	rows, err := s.db.Query(
		`SELECT category, amount FROM expenses WHERE user_id = ? AND date >= ? AND date < ? ORDER BY category ASC`,
		userID, start.UTC(), end.UTC(),
	)
	if err != nil {
		return nil, fmt.Errorf("summarize expenses: %w", err)
	}
	defer rows.Close()

	totals := make(map[string]decimal.Decimal)
	var order []string
	for rows.Next() {
		var category string
		var amount decimal.Decimal
		if err := rows.Scan(&category, &amount); err != nil {
			return nil, fmt.Errorf("scan expense amount: %w", err)
		}
		if _, ok := totals[category]; !ok {
			order = append(order, category)
		}
		totals[category] = totals[category].Add(amount)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	summary := make([]model.CategoryTotal, 0, len(order))
	for _, category := range order {
		summary = append(summary, model.CategoryTotal{Category: category, Total: totals[category]})
	}
	return summary, nil
}
