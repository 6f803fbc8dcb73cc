package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/dukerupert/fintrack/internal/model"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type SubscriptionStore struct {
	db *sql.DB
}

func NewSubscriptionStore(db *sql.DB) *SubscriptionStore {
	return &SubscriptionStore{db: db}
}

const subscriptionCols = `id, user_id, name, amount, billing_cycle, category, start_date, next_billing_date, website, active, created_at`

func scanSubscription(scanner interface{ Scan(...any) error }) (*model.Subscription, error) {
	var sub model.Subscription
	err := scanner.Scan(
		&sub.ID, &sub.UserID, &sub.Name, &sub.Amount, &sub.BillingCycle,
		&sub.Category, &sub.StartDate, &sub.NextBillingDate, &sub.Website,
		&sub.Active, &sub.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

func (s *SubscriptionStore) Create(userID, name string, amount decimal.Decimal, billingCycle, category string, startDate, nextBillingDate time.Time, website string) (*model.Subscription, error) {
	id := uuid.NewString()
	_, err := s.db.Exec(
		`INSERT INTO subscriptions (id, user_id, name, amount, billing_cycle, category, start_date, next_billing_date, website)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, userID, name, amount, billingCycle, category, startDate.UTC(), nextBillingDate.UTC(), website,
	)
	if err != nil {
		return nil, fmt.Errorf("insert subscription: %w", err)
	}
	return s.GetByID(id)
}

func (s *SubscriptionStore) GetByID(id string) (*model.Subscription, error) {
	row := s.db.QueryRow(`SELECT `+subscriptionCols+` FROM subscriptions WHERE id = ?`, id)
	sub, err := scanSubscription(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get subscription: %w", err)
	}
	return sub, nil
}

func (s *SubscriptionStore) ListByUser(userID string) ([]model.Subscription, error) {
	rows, err := s.db.Query(
		`SELECT `+subscriptionCols+` FROM subscriptions WHERE user_id = ? ORDER BY next_billing_date ASC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list subscriptions: %w", err)
	}
	defer rows.Close()
	return collectSubscriptions(rows)
}

// ListActiveByUser returns the user's active subscriptions, the set the
// monthly-cost summary is computed over.
func (s *SubscriptionStore) ListActiveByUser(userID string) ([]model.Subscription, error) {
	rows, err := s.db.Query(
		`SELECT `+subscriptionCols+` FROM subscriptions WHERE user_id = ? AND active = 1 ORDER BY next_billing_date ASC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list active subscriptions: %w", err)
	}
	defer rows.Close()
	return collectSubscriptions(rows)
}

// ListDueBetween returns active subscriptions with a next billing date in
// [start, end] inclusive, across all owners.
func (s *SubscriptionStore) ListDueBetween(start, end time.Time) ([]model.Subscription, error) {
	rows, err := s.db.Query(
		`SELECT `+subscriptionCols+` FROM subscriptions WHERE active = 1 AND next_billing_date >= ? AND next_billing_date <= ? ORDER BY next_billing_date ASC`,
		start.UTC(), end.UTC(),
	)
	if err != nil {
		return nil, fmt.Errorf("list due subscriptions: %w", err)
	}
	defer rows.Close()
	return collectSubscriptions(rows)
}

// Cancel flips the active flag. Cancellation is one-way; there is no
// reactivation path.
func (s *SubscriptionStore) Cancel(id string) (*model.Subscription, error) {
	_, err := s.db.Exec(`UPDATE subscriptions SET active = 0 WHERE id = ?`, id)
	if err != nil {
		return nil, fmt.Errorf("cancel subscription: %w", err)
	}
	return s.GetByID(id)
}

// AdvanceBillingDate moves next_billing_date forward after a confirmed
// renewal notification so daily batches do not re-notify on a stale date.
func (s *SubscriptionStore) AdvanceBillingDate(id string, next time.Time) error {
	_, err := s.db.Exec(`UPDATE subscriptions SET next_billing_date = ? WHERE id = ?`, next.UTC(), id)
	if err != nil {
		return fmt.Errorf("advance billing date: %w", err)
	}
	return nil
}

func collectSubscriptions(rows *sql.Rows) ([]model.Subscription, error) {
	var subs []model.Subscription
	for rows.Next() {
		sub, err := scanSubscription(rows)
		if err != nil {
			return nil, fmt.Errorf("scan subscription: %w", err)
		}
		subs = append(subs, *sub)
	}
	return subs, rows.Err()
}
