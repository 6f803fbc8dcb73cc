package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/dukerupert/fintrack/internal/model"
	"github.com/google/uuid"
)

type NotificationStore struct {
	db *sql.DB
}

func NewNotificationStore(db *sql.DB) *NotificationStore {
	return &NotificationStore{db: db}
}

const notificationCols = `id, user_id, reminder_id, subscription_id, notification_type, window_date, sent_at, status`

func scanNotification(scanner interface{ Scan(...any) error }) (*model.EmailNotification, error) {
	var n model.EmailNotification
	var reminderID, subscriptionID sql.NullString
	err := scanner.Scan(
		&n.ID, &n.UserID, &reminderID, &subscriptionID,
		&n.NotificationType, &n.WindowDate, &n.SentAt, &n.Status,
	)
	if err != nil {
		return nil, err
	}
	if reminderID.Valid {
		n.ReminderID = &reminderID.String
	}
	if subscriptionID.Valid {
		n.SubscriptionID = &subscriptionID.String
	}
	return &n, nil
}

// Record inserts a notification log entry. It reports whether a row was
// actually inserted: a false return means the partial unique index on
// (item, type, window) already held an entry, which is how concurrent
// batches are kept from double-recording the same send.
func (s *NotificationStore) Record(userID string, reminderID, subscriptionID *string, notifType, windowDate string, sentAt time.Time) (bool, error) {
	var rID, sID sql.NullString
	if reminderID != nil {
		rID = sql.NullString{String: *reminderID, Valid: true}
	}
	if subscriptionID != nil {
		sID = sql.NullString{String: *subscriptionID, Valid: true}
	}

	result, err := s.db.Exec(
		`INSERT OR IGNORE INTO email_notifications (id, user_id, reminder_id, subscription_id, notification_type, window_date, sent_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		uuid.NewString(), userID, rID, sID, notifType, windowDate, sentAt.UTC(),
	)
	if err != nil {
		return false, fmt.Errorf("record notification: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return affected > 0, nil
}

// ListForReminder returns log entries for a reminder and notification type
// within the given due window.
func (s *NotificationStore) ListForReminder(reminderID, notifType, windowDate string) ([]model.EmailNotification, error) {
	rows, err := s.db.Query(
		`SELECT `+notificationCols+` FROM email_notifications
		 WHERE reminder_id = ? AND notification_type = ? AND window_date = ?`,
		reminderID, notifType, windowDate,
	)
	if err != nil {
		return nil, fmt.Errorf("list reminder notifications: %w", err)
	}
	defer rows.Close()
	return collectNotifications(rows)
}

// ListForSubscription returns log entries for a subscription and notification
// type within the given due window.
func (s *NotificationStore) ListForSubscription(subscriptionID, notifType, windowDate string) ([]model.EmailNotification, error) {
	rows, err := s.db.Query(
		`SELECT `+notificationCols+` FROM email_notifications
		 WHERE subscription_id = ? AND notification_type = ? AND window_date = ?`,
		subscriptionID, notifType, windowDate,
	)
	if err != nil {
		return nil, fmt.Errorf("list subscription notifications: %w", err)
	}
	defer rows.Close()
	return collectNotifications(rows)
}

func (s *NotificationStore) ListByUser(userID string) ([]model.EmailNotification, error) {
	rows, err := s.db.Query(
		`SELECT `+notificationCols+` FROM email_notifications WHERE user_id = ? ORDER BY sent_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list notifications by user: %w", err)
	}
	defer rows.Close()
	return collectNotifications(rows)
}

// CleanupBefore deletes log entries sent before the given time.
func (s *NotificationStore) CleanupBefore(before time.Time) error {
	_, err := s.db.Exec(`DELETE FROM email_notifications WHERE sent_at < ?`, before.UTC())
	if err != nil {
		return fmt.Errorf("cleanup notifications: %w", err)
	}
	return nil
}

func collectNotifications(rows *sql.Rows) ([]model.EmailNotification, error) {
	var entries []model.EmailNotification
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, fmt.Errorf("scan notification: %w", err)
		}
		entries = append(entries, *n)
	}
	return entries, rows.Err()
}
