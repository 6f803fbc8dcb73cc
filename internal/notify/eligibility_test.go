package notify

import (
	"testing"
	"time"

	"github.com/dukerupert/fintrack/internal/model"
)

func TestDueWindow(t *testing.T) {
	now := time.Date(2026, 3, 15, 14, 30, 0, 0, time.UTC)
	start, end, windowDate := DueWindow(now)

	wantStart := time.Date(2026, 3, 16, 0, 0, 0, 0, time.UTC)
	if !start.Equal(wantStart) {
		t.Errorf("start = %v, want %v", start, wantStart)
	}
	wantEnd := time.Date(2026, 3, 16, 23, 59, 59, 999000000, time.UTC)
	if !end.Equal(wantEnd) {
		t.Errorf("end = %v, want %v", end, wantEnd)
	}
	if windowDate != "2026-03-16" {
		t.Errorf("windowDate = %q, want 2026-03-16", windowDate)
	}
}

func TestDueWindowMonthBoundary(t *testing.T) {
	now := time.Date(2026, 1, 31, 9, 0, 0, 0, time.UTC)
	start, _, windowDate := DueWindow(now)
	if windowDate != "2026-02-01" {
		t.Errorf("windowDate = %q, want 2026-02-01", windowDate)
	}
	if start.Month() != time.February || start.Day() != 1 {
		t.Errorf("start = %v, want Feb 1", start)
	}
}

func TestReminderEligible(t *testing.T) {
	start := time.Date(2026, 3, 16, 0, 0, 0, 0, time.UTC)
	end := start.Add(24*time.Hour - time.Millisecond)

	base := model.Reminder{
		ID:      "r1",
		UserID:  "u1",
		Title:   "Rent",
		DueDate: start.Add(10 * time.Hour),
	}

	tests := []struct {
		name  string
		mod   func(r *model.Reminder)
		prior []model.EmailNotification
		want  bool
	}{
		{name: "due inside window", want: true},
		{name: "paid", mod: func(r *model.Reminder) { r.Paid = true }, want: false},
		{name: "due at window start", mod: func(r *model.Reminder) { r.DueDate = start }, want: true},
		{name: "due at window end", mod: func(r *model.Reminder) { r.DueDate = end }, want: true},
		{name: "due before window", mod: func(r *model.Reminder) { r.DueDate = start.Add(-time.Millisecond) }, want: false},
		{name: "due after window", mod: func(r *model.Reminder) { r.DueDate = end.Add(time.Millisecond) }, want: false},
		{
			name: "already notified for window",
			prior: []model.EmailNotification{
				{NotificationType: model.NotifTypeReminderDueTomorrow, WindowDate: "2026-03-16"},
			},
			want: false,
		},
		{
			name: "notified for earlier window",
			prior: []model.EmailNotification{
				{NotificationType: model.NotifTypeReminderDueTomorrow, WindowDate: "2026-03-15"},
			},
			want: true,
		},
		{
			name: "manual send does not block",
			prior: []model.EmailNotification{
				{NotificationType: model.NotifTypeReminderManual, WindowDate: "2026-03-16"},
			},
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := base
			if tt.mod != nil {
				tt.mod(&r)
			}
			if got := ReminderEligible(&r, start, end, tt.prior); got != tt.want {
				t.Errorf("ReminderEligible = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSubscriptionEligible(t *testing.T) {
	start := time.Date(2026, 3, 16, 0, 0, 0, 0, time.UTC)
	end := start.Add(24*time.Hour - time.Millisecond)

	base := model.Subscription{
		ID:              "s1",
		UserID:          "u1",
		Name:            "Netflix",
		Active:          true,
		NextBillingDate: start.Add(8 * time.Hour),
	}

	t.Run("active inside window", func(t *testing.T) {
		s := base
		if !SubscriptionEligible(&s, start, end, nil) {
			t.Error("want eligible")
		}
	})

	t.Run("cancelled", func(t *testing.T) {
		s := base
		s.Active = false
		if SubscriptionEligible(&s, start, end, nil) {
			t.Error("want not eligible")
		}
	})

	t.Run("billing date outside window", func(t *testing.T) {
		s := base
		s.NextBillingDate = end.AddDate(0, 0, 2)
		if SubscriptionEligible(&s, start, end, nil) {
			t.Error("want not eligible")
		}
	})

	t.Run("already notified", func(t *testing.T) {
		s := base
		prior := []model.EmailNotification{
			{NotificationType: model.NotifTypeSubscriptionDueTomorrow, WindowDate: "2026-03-16"},
		}
		if SubscriptionEligible(&s, start, end, prior) {
			t.Error("want not eligible")
		}
	})

	t.Run("reminder entry does not block subscription", func(t *testing.T) {
		s := base
		prior := []model.EmailNotification{
			{NotificationType: model.NotifTypeReminderDueTomorrow, WindowDate: "2026-03-16"},
		}
		if !SubscriptionEligible(&s, start, end, prior) {
			t.Error("want eligible")
		}
	})
}
