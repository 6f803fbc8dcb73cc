package notify

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// DefaultSchedule runs the batch every morning at 08:00.
const DefaultSchedule = "0 8 * * *"

// Scheduler runs the notification batch on a cron schedule.
type Scheduler struct {
	cron   *cron.Cron
	logger *slog.Logger
}

func NewScheduler(d *Dispatcher, schedule string, logger *slog.Logger) (*Scheduler, error) {
	if schedule == "" {
		schedule = DefaultSchedule
	}

	s := &Scheduler{
		cron:   cron.New(),
		logger: logger.With("component", "scheduler"),
	}

	_, err := s.cron.AddFunc(schedule, func() {
		sum, err := d.RunBatch(time.Now())
		if err != nil {
			s.logger.Error("scheduled notification batch failed", "error", err)
			return
		}
		s.logger.Info("scheduled notification batch finished",
			"reminders", sum.ReminderCount,
			"subscriptions", sum.SubscriptionCount,
			"failed", sum.Failed)
	})
	if err != nil {
		return nil, fmt.Errorf("parse schedule %q: %w", schedule, err)
	}

	return s, nil
}

// Start begins the schedule loop in its own goroutine.
func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info("notification scheduler started")
}

// Stop halts the schedule and waits for a running job to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("notification scheduler stopped")
}
