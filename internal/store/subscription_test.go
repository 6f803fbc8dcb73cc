package store

import (
	"testing"
	"time"

	"github.com/dukerupert/fintrack/internal/database"
	"github.com/dukerupert/fintrack/internal/model"
	"github.com/shopspring/decimal"
)

func setupSubscriptionTestDB(t *testing.T) (*SubscriptionStore, string) {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	users := NewUserStore(db)
	u, err := users.Create("bob@example.com", "Bob")
	if err != nil {
		t.Fatalf("create user: %v", err)
	}

	return NewSubscriptionStore(db), u.ID
}

func TestCreateSubscription(t *testing.T) {
	ss, uid := setupSubscriptionTestDB(t)

	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	next := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	sub, err := ss.Create(uid, "Netflix", decimal.NewFromFloat(649), model.CycleMonthly, model.CategorySubscription, start, next, "https://netflix.com")
	if err != nil {
		t.Fatalf("create subscription: %v", err)
	}
	if sub.ID == "" {
		t.Error("expected non-empty ID")
	}
	if !sub.Active {
		t.Error("new subscription should be active")
	}
	if sub.BillingCycle != model.CycleMonthly {
		t.Errorf("cycle = %q, want monthly", sub.BillingCycle)
	}
}

func TestCancelSubscription(t *testing.T) {
	ss, uid := setupSubscriptionTestDB(t)

	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	sub, _ := ss.Create(uid, "Gym", decimal.NewFromInt(999), model.CycleMonthly, model.CategoryOther, start, start.AddDate(0, 1, 0), "")

	cancelled, err := ss.Cancel(sub.ID)
	if err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if cancelled.Active {
		t.Error("expected active = false after cancel")
	}

	active, _ := ss.ListActiveByUser(uid)
	if len(active) != 0 {
		t.Errorf("expected no active subscriptions, got %d", len(active))
	}
}

func TestSubscriptionListDueBetween(t *testing.T) {
	ss, uid := setupSubscriptionTestDB(t)

	start := time.Date(2026, 5, 2, 0, 0, 0, 0, time.UTC)
	end := start.Add(24*time.Hour - time.Millisecond)
	created := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	ss.Create(uid, "Due tomorrow", decimal.NewFromInt(100), model.CycleMonthly, model.CategorySubscription, created, start.Add(8*time.Hour), "")
	ss.Create(uid, "Due later", decimal.NewFromInt(100), model.CycleMonthly, model.CategorySubscription, created, start.AddDate(0, 0, 3), "")

	inactive, _ := ss.Create(uid, "Cancelled", decimal.NewFromInt(100), model.CycleMonthly, model.CategorySubscription, created, start.Add(8*time.Hour), "")
	ss.Cancel(inactive.ID)

	due, err := ss.ListDueBetween(start, end)
	if err != nil {
		t.Fatalf("list due: %v", err)
	}
	if len(due) != 1 {
		t.Fatalf("len = %d, want 1", len(due))
	}
	if due[0].Name != "Due tomorrow" {
		t.Errorf("name = %q, want %q", due[0].Name, "Due tomorrow")
	}
}

func TestAdvanceBillingDate(t *testing.T) {
	ss, uid := setupSubscriptionTestDB(t)

	created := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	next := time.Date(2026, 5, 2, 0, 0, 0, 0, time.UTC)
	sub, _ := ss.Create(uid, "Spotify", decimal.NewFromInt(119), model.CycleMonthly, model.CategorySubscription, created, next, "")

	advanced := next.AddDate(0, 1, 0)
	if err := ss.AdvanceBillingDate(sub.ID, advanced); err != nil {
		t.Fatalf("advance billing date: %v", err)
	}

	got, _ := ss.GetByID(sub.ID)
	if !got.NextBillingDate.Equal(advanced) {
		t.Errorf("next billing date = %v, want %v", got.NextBillingDate, advanced)
	}
}
