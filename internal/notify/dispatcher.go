package notify

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/dukerupert/fintrack/internal/billing"
	"github.com/dukerupert/fintrack/internal/model"
	"github.com/dukerupert/fintrack/internal/store"
)

// Sender delivers a single email. Satisfied by email.Client.
type Sender interface {
	Configured() bool
	Send(to, subject, htmlBody string) error
}

// Summary reports the outcome of one notification batch.
type Summary struct {
	ReminderCount     int `json:"reminders_notified"`
	SubscriptionCount int `json:"subscriptions_notified"`
	Sent              int `json:"sent"`
	Skipped           int `json:"skipped"`
	Failed            int `json:"failed"`
}

// Dispatcher runs the day-ahead notification batch: it finds reminders and
// subscriptions due in the next calendar day, emails their owners, and logs
// each send so repeat runs for the same window are no-ops.
type Dispatcher struct {
	reminders     *store.ReminderStore
	subscriptions *store.SubscriptionStore
	notifications *store.NotificationStore
	users         *store.UserStore
	sender        Sender
	logger        *slog.Logger
}

func NewDispatcher(rs *store.ReminderStore, ss *store.SubscriptionStore, ns *store.NotificationStore, us *store.UserStore, sender Sender, logger *slog.Logger) *Dispatcher {
	return &Dispatcher{
		reminders:     rs,
		subscriptions: ss,
		notifications: ns,
		users:         us,
		sender:        sender,
		logger:        logger.With("component", "notify"),
	}
}

// RunBatch processes the due window for a run at now. Query failures abort
// the batch; failures on a single item are counted and the batch continues.
func (d *Dispatcher) RunBatch(now time.Time) (Summary, error) {
	var sum Summary

	if !d.sender.Configured() {
		return sum, fmt.Errorf("notification batch: email sender not configured")
	}

	start, end, windowDate := DueWindow(now)
	d.logger.Info("starting notification batch", "window_start", start, "window_end", end)

	dueReminders, err := d.reminders.ListDueBetween(start, end)
	if err != nil {
		return sum, fmt.Errorf("list due reminders: %w", err)
	}

	dueSubs, err := d.subscriptions.ListDueBetween(start, end)
	if err != nil {
		return sum, fmt.Errorf("list due subscriptions: %w", err)
	}

	for i := range dueReminders {
		r := &dueReminders[i]

		prior, err := d.notifications.ListForReminder(r.ID, model.NotifTypeReminderDueTomorrow, windowDate)
		if err != nil {
			d.logger.Error("check notification log", "reminder_id", r.ID, "error", err)
			sum.Failed++
			continue
		}
		if !ReminderEligible(r, start, end, prior) {
			sum.Skipped++
			continue
		}

		user, err := d.users.GetByID(r.UserID)
		if err != nil {
			d.logger.Error("resolve reminder owner", "reminder_id", r.ID, "error", err)
			sum.Failed++
			continue
		}
		if user == nil || user.Email == "" {
			d.logger.Warn("no email address for reminder owner", "reminder_id", r.ID, "user_id", r.UserID)
			sum.Skipped++
			continue
		}

		subject, body := renderReminderEmail(r)
		if err := d.sender.Send(user.Email, subject, body); err != nil {
			d.logger.Error("send reminder email", "reminder_id", r.ID, "error", err)
			sum.Failed++
			continue
		}

		if _, err := d.notifications.Record(r.UserID, &r.ID, nil, model.NotifTypeReminderDueTomorrow, windowDate, now.UTC()); err != nil {
			d.logger.Error("record reminder notification", "reminder_id", r.ID, "error", err)
		}
		sum.ReminderCount++
		sum.Sent++
	}

	for i := range dueSubs {
		s := &dueSubs[i]

		prior, err := d.notifications.ListForSubscription(s.ID, model.NotifTypeSubscriptionDueTomorrow, windowDate)
		if err != nil {
			d.logger.Error("check notification log", "subscription_id", s.ID, "error", err)
			sum.Failed++
			continue
		}
		if !SubscriptionEligible(s, start, end, prior) {
			sum.Skipped++
			continue
		}

		user, err := d.users.GetByID(s.UserID)
		if err != nil {
			d.logger.Error("resolve subscription owner", "subscription_id", s.ID, "error", err)
			sum.Failed++
			continue
		}
		if user == nil || user.Email == "" {
			d.logger.Warn("no email address for subscription owner", "subscription_id", s.ID, "user_id", s.UserID)
			sum.Skipped++
			continue
		}

		subject, body := renderSubscriptionEmail(s)
		if err := d.sender.Send(user.Email, subject, body); err != nil {
			d.logger.Error("send subscription email", "subscription_id", s.ID, "error", err)
			sum.Failed++
			continue
		}

		if _, err := d.notifications.Record(s.UserID, nil, &s.ID, model.NotifTypeSubscriptionDueTomorrow, windowDate, now.UTC()); err != nil {
			d.logger.Error("record subscription notification", "subscription_id", s.ID, "error", err)
		}

		// Roll the subscription forward so the next cycle gets its own
		// reminder instead of re-matching this window.
		next := billing.NextBillingDate(s.NextBillingDate, s.BillingCycle)
		if err := d.subscriptions.AdvanceBillingDate(s.ID, next); err != nil {
			d.logger.Error("advance billing date", "subscription_id", s.ID, "error", err)
		}

		sum.SubscriptionCount++
		sum.Sent++
	}

	d.logger.Info("notification batch complete",
		"reminders", sum.ReminderCount,
		"subscriptions", sum.SubscriptionCount,
		"sent", sum.Sent,
		"skipped", sum.Skipped,
		"failed", sum.Failed)

	return sum, nil
}

// SendReminderNow emails a single reminder immediately, bypassing the
// due-window check. Used for user-triggered re-sends.
func (d *Dispatcher) SendReminderNow(id string, now time.Time) error {
	r, err := d.reminders.GetByID(id)
	if err != nil {
		return fmt.Errorf("get reminder: %w", err)
	}
	if r == nil {
		return fmt.Errorf("reminder %s not found", id)
	}

	user, err := d.users.GetByID(r.UserID)
	if err != nil {
		return fmt.Errorf("resolve owner: %w", err)
	}
	if user == nil || user.Email == "" {
		return fmt.Errorf("no email address for user %s", r.UserID)
	}

	subject, body := renderReminderEmail(r)
	if err := d.sender.Send(user.Email, subject, body); err != nil {
		return fmt.Errorf("send email: %w", err)
	}

	windowDate := now.UTC().Format("2006-01-02")
	if _, err := d.notifications.Record(r.UserID, &r.ID, nil, model.NotifTypeReminderManual, windowDate, now.UTC()); err != nil {
		d.logger.Error("record manual notification", "reminder_id", r.ID, "error", err)
	}
	return nil
}

// SendSubscriptionNow emails a single subscription renewal immediately.
func (d *Dispatcher) SendSubscriptionNow(id string, now time.Time) error {
	s, err := d.subscriptions.GetByID(id)
	if err != nil {
		return fmt.Errorf("get subscription: %w", err)
	}
	if s == nil {
		return fmt.Errorf("subscription %s not found", id)
	}

	user, err := d.users.GetByID(s.UserID)
	if err != nil {
		return fmt.Errorf("resolve owner: %w", err)
	}
	if user == nil || user.Email == "" {
		return fmt.Errorf("no email address for user %s", s.UserID)
	}

	subject, body := renderSubscriptionEmail(s)
	if err := d.sender.Send(user.Email, subject, body); err != nil {
		return fmt.Errorf("send email: %w", err)
	}

	windowDate := now.UTC().Format("2006-01-02")
	if _, err := d.notifications.Record(s.UserID, nil, &s.ID, model.NotifTypeSubscriptionManual, windowDate, now.UTC()); err != nil {
		d.logger.Error("record manual notification", "subscription_id", s.ID, "error", err)
	}
	return nil
}

func renderReminderEmail(r *model.Reminder) (subject, body string) {
	subject = fmt.Sprintf("Payment Reminder: %s Due Tomorrow", r.Title)
	body = fmt.Sprintf(`<h2>Payment Due Tomorrow</h2>
<p>Your payment <strong>%s</strong> is due on %s.</p>
<ul>
<li>Amount: $%s</li>
<li>Category: %s</li>
<li>Priority: %s</li>
</ul>
<p>Log in to FinTrack to mark it paid or snooze the reminder.</p>`,
		r.Title,
		r.DueDate.Format("January 2, 2006"),
		billing.FormatAmount(r.Amount),
		billing.CategoryLabel(r.Category),
		billing.PriorityLabel(r.Priority))
	return subject, body
}

func renderSubscriptionEmail(s *model.Subscription) (subject, body string) {
	subject = fmt.Sprintf("Subscription Renewal: %s Due Tomorrow", s.Name)
	body = fmt.Sprintf(`<h2>Subscription Renews Tomorrow</h2>
<p>Your <strong>%s</strong> subscription renews on %s.</p>
<ul>
<li>Amount: $%s</li>
<li>Billing cycle: %s</li>
<li>Monthly equivalent: $%s</li>
</ul>
<p>Cancel in FinTrack before the renewal date if you no longer need it.</p>`,
		s.Name,
		s.NextBillingDate.Format("January 2, 2006"),
		billing.FormatAmount(s.Amount),
		billing.FormatCycle(s.BillingCycle),
		billing.FormatAmount(billing.MonthlyEquivalent(s.Amount, s.BillingCycle)))
	return subject, body
}
