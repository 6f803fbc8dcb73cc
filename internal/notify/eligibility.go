package notify

import (
	"time"

	"github.com/dukerupert/fintrack/internal/model"
)

// DueWindow returns the day-ahead notification window for a run at now:
// the full calendar day after now, in UTC. The end bound is the last
// millisecond of that day so boundary comparisons stay inclusive.
func DueWindow(now time.Time) (start, end time.Time, windowDate string) {
	t := now.UTC().AddDate(0, 0, 1)
	start = time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	end = start.Add(24*time.Hour - time.Millisecond)
	return start, end, start.Format("2006-01-02")
}

// ReminderEligible reports whether a reminder should be notified for the
// given window. A reminder qualifies when it is unpaid, due inside the
// window, and has no prior due-tomorrow log entry for the same window.
func ReminderEligible(r *model.Reminder, start, end time.Time, prior []model.EmailNotification) bool {
	if r.Paid {
		return false
	}
	if r.DueDate.Before(start) || r.DueDate.After(end) {
		return false
	}
	windowDate := start.Format("2006-01-02")
	for _, n := range prior {
		if n.NotificationType == model.NotifTypeReminderDueTomorrow && n.WindowDate == windowDate {
			return false
		}
	}
	return true
}

// SubscriptionEligible reports whether a subscription should be notified
// for the given window.
func SubscriptionEligible(s *model.Subscription, start, end time.Time, prior []model.EmailNotification) bool {
	if !s.Active {
		return false
	}
	if s.NextBillingDate.Before(start) || s.NextBillingDate.After(end) {
		return false
	}
	windowDate := start.Format("2006-01-02")
	for _, n := range prior {
		if n.NotificationType == model.NotifTypeSubscriptionDueTomorrow && n.WindowDate == windowDate {
			return false
		}
	}
	return true
}
