package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/dukerupert/fintrack/internal/model"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type ReminderStore struct {
	db *sql.DB
}

func NewReminderStore(db *sql.DB) *ReminderStore {
	return &ReminderStore{db: db}
}

const reminderCols = `id, user_id, title, amount, due_date, category, recurring, priority, paid, created_at`

func scanReminder(scanner interface{ Scan(...any) error }) (*model.Reminder, error) {
	var r model.Reminder
	err := scanner.Scan(
		&r.ID, &r.UserID, &r.Title, &r.Amount, &r.DueDate,
		&r.Category, &r.Recurring, &r.Priority, &r.Paid, &r.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func (s *ReminderStore) Create(userID, title string, amount decimal.Decimal, dueDate time.Time, category string, recurring bool, priority string) (*model.Reminder, error) {
	id := uuid.NewString()
	_, err := s.db.Exec(
		`INSERT INTO reminders (id, user_id, title, amount, due_date, category, recurring, priority) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		id, userID, title, amount, dueDate.UTC(), category, recurring, priority,
	)
	if err != nil {
		return nil, fmt.Errorf("insert reminder: %w", err)
	}
	return s.GetByID(id)
}

func (s *ReminderStore) GetByID(id string) (*model.Reminder, error) {
	row := s.db.QueryRow(`SELECT `+reminderCols+` FROM reminders WHERE id = ?`, id)
	r, err := scanReminder(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get reminder: %w", err)
	}
	return r, nil
}

func (s *ReminderStore) ListByUser(userID string) ([]model.Reminder, error) {
	rows, err := s.db.Query(
		`SELECT `+reminderCols+` FROM reminders WHERE user_id = ? ORDER BY due_date ASC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list reminders: %w", err)
	}
	defer rows.Close()

	var reminders []model.Reminder
	for rows.Next() {
		r, err := scanReminder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan reminder: %w", err)
		}
		reminders = append(reminders, *r)
	}
	return reminders, rows.Err()
}

// ListDueBetween returns unpaid reminders with a due date in [start, end]
// inclusive, across all owners. The batch dispatcher uses this.
func (s *ReminderStore) ListDueBetween(start, end time.Time) ([]model.Reminder, error) {
	rows, err := s.db.Query(
		`SELECT `+reminderCols+` FROM reminders WHERE paid = 0 AND due_date >= ? AND due_date <= ? ORDER BY due_date ASC`,
		start.UTC(), end.UTC(),
	)
	if err != nil {
		return nil, fmt.Errorf("list due reminders: %w", err)
	}
	defer rows.Close()

	var reminders []model.Reminder
	for rows.Next() {
		r, err := scanReminder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan reminder: %w", err)
		}
		reminders = append(reminders, *r)
	}
	return reminders, rows.Err()
}

// MarkPaid flips the paid flag. The flag is one-way; there is no un-pay path.
func (s *ReminderStore) MarkPaid(id string) (*model.Reminder, error) {
	_, err := s.db.Exec(`UPDATE reminders SET paid = 1 WHERE id = ?`, id)
	if err != nil {
		return nil, fmt.Errorf("mark reminder paid: %w", err)
	}
	return s.GetByID(id)
}

// Snooze advances the due date by exactly one day.
func (s *ReminderStore) Snooze(id string) (*model.Reminder, error) {
	existing, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, nil
	}
	_, err = s.db.Exec(`UPDATE reminders SET due_date = ? WHERE id = ?`, existing.DueDate.AddDate(0, 0, 1).UTC(), id)
	if err != nil {
		return nil, fmt.Errorf("snooze reminder: %w", err)
	}
	return s.GetByID(id)
}
