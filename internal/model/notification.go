package model

import "time"

// Notification type constants
const (
	NotifTypeReminderDueTomorrow     = "reminder_due_tomorrow"
	NotifTypeSubscriptionDueTomorrow = "subscription_due_tomorrow"
	NotifTypeReminderManual          = "reminder_manual"
	NotifTypeSubscriptionManual      = "subscription_manual"
)

// EmailNotification is one entry in the notification log. Exactly one of
// ReminderID and SubscriptionID is set. WindowDate identifies the due window
// the notification covered (calendar day, "2006-01-02"); together with the
// item reference and type it forms the deduplication key.
type EmailNotification struct {
	ID               string    `json:"id"`
	UserID           string    `json:"user_id"`
	ReminderID       *string   `json:"reminder_id"`
	SubscriptionID   *string   `json:"subscription_id"`
	NotificationType string    `json:"notification_type"`
	WindowDate       string    `json:"window_date"`
	SentAt           time.Time `json:"sent_at"`
	Status           string    `json:"status"`
}
