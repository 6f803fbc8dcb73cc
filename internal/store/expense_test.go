package store

import (
	"testing"
	"time"

	"github.com/dukerupert/fintrack/internal/database"
	"github.com/shopspring/decimal"
)

func setupExpenseTestDB(t *testing.T) (*ExpenseStore, string) {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	users := NewUserStore(db)
	u, err := users.Create("dave@example.com", "Dave")
	if err != nil {
		t.Fatalf("create user: %v", err)
	}

	return NewExpenseStore(db), u.ID
}

func TestCreateAndUpdateExpense(t *testing.T) {
	es, uid := setupExpenseTestDB(t)

	date := time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC)
	e, err := es.Create(uid, "Groceries", decimal.NewFromFloat(85.40), date, "food", "card", "")
	if err != nil {
		t.Fatalf("create expense: %v", err)
	}
	if e.ID == "" {
		t.Error("expected non-empty ID")
	}

	updated, err := es.Update(e.ID, "Groceries", decimal.NewFromFloat(90.00), date, "food", "cash", "weekly run")
	if err != nil {
		t.Fatalf("update expense: %v", err)
	}
	if updated.PaymentMethod != "cash" {
		t.Errorf("payment method = %q, want %q", updated.PaymentMethod, "cash")
	}
	if !updated.Amount.Equal(decimal.NewFromInt(90)) {
		t.Errorf("amount = %s, want 90", updated.Amount)
	}
}

func TestDeleteExpense(t *testing.T) {
	es, uid := setupExpenseTestDB(t)

	date := time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC)
	e, _ := es.Create(uid, "Coffee", decimal.NewFromInt(5), date, "food", "cash", "")

	if err := es.Delete(e.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	got, _ := es.GetByID(e.ID)
	if got != nil {
		t.Error("expected nil after delete")
	}
}

func TestSummarizeByCategory(t *testing.T) {
	es, uid := setupExpenseTestDB(t)

	monthStart := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	monthEnd := monthStart.AddDate(0, 1, 0)

	es.Create(uid, "Groceries", decimal.NewFromInt(100), monthStart.AddDate(0, 0, 2), "food", "card", "")
	es.Create(uid, "Dinner", decimal.NewFromFloat(45.50), monthStart.AddDate(0, 0, 10), "food", "card", "")
	es.Create(uid, "Fuel", decimal.NewFromInt(60), monthStart.AddDate(0, 0, 5), "transport", "card", "")
	// Outside the month: excluded.
	es.Create(uid, "Old groceries", decimal.NewFromInt(999), monthStart.AddDate(0, -1, 0), "food", "card", "")

	summary, err := es.SummarizeByCategory(uid, monthStart, monthEnd)
	if err != nil {
		t.Fatalf("summarize: %v", err)
	}
	if len(summary) != 2 {
		t.Fatalf("len = %d, want 2", len(summary))
	}

	byCategory := make(map[string]decimal.Decimal)
	for _, row := range summary {
		byCategory[row.Category] = row.Total
	}
	if !byCategory["food"].Equal(decimal.NewFromFloat(145.50)) {
		t.Errorf("food total = %s, want 145.5", byCategory["food"])
	}
	if !byCategory["transport"].Equal(decimal.NewFromInt(60)) {
		t.Errorf("transport total = %s, want 60", byCategory["transport"])
	}
}
