package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/dukerupert/fintrack/internal/model"
	"github.com/dukerupert/fintrack/internal/notify"
	"github.com/dukerupert/fintrack/internal/store"
)

type NotificationHandler struct {
	notifications *store.NotificationStore
	dispatcher    *notify.Dispatcher
	logger        *slog.Logger
}

func NewNotificationHandler(ns *store.NotificationStore, d *notify.Dispatcher, logger *slog.Logger) *NotificationHandler {
	return &NotificationHandler{notifications: ns, dispatcher: d, logger: logger}
}

// List returns the owner's notification log, newest first.
func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	user := owner(w, r)
	if user == nil {
		return
	}

	entries, err := h.notifications.ListByUser(user.ID)
	if err != nil {
		h.logger.Error("list notifications", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list notifications")
		return
	}
	if entries == nil {
		entries = []model.EmailNotification{}
	}
	writeJSON(w, http.StatusOK, entries)
}

// Run triggers a notification batch immediately. The same batch the cron
// schedule runs; exposed for ops and for testing a deployment's email setup.
func (h *NotificationHandler) Run(w http.ResponseWriter, r *http.Request) {
	sum, err := h.dispatcher.RunBatch(time.Now())
	if err != nil {
		h.logger.Error("run notification batch", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]any{
			"success": false,
			"error":   err.Error(),
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":       true,
		"reminders":     sum.ReminderCount,
		"subscriptions": sum.SubscriptionCount,
		"sent":          sum.Sent,
		"skipped":       sum.Skipped,
		"failed":        sum.Failed,
	})
}
