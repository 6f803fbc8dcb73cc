package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dukerupert/fintrack/internal/billing"
	"github.com/dukerupert/fintrack/internal/model"
	"github.com/dukerupert/fintrack/internal/notify"
	"github.com/dukerupert/fintrack/internal/store"
)

type ReminderHandler struct {
	reminders  *store.ReminderStore
	dispatcher *notify.Dispatcher
	logger     *slog.Logger
}

func NewReminderHandler(rs *store.ReminderStore, d *notify.Dispatcher, logger *slog.Logger) *ReminderHandler {
	return &ReminderHandler{reminders: rs, dispatcher: d, logger: logger}
}

type reminderRequest struct {
	Title     string          `json:"title"`
	Amount    decimal.Decimal `json:"amount"`
	DueDate   time.Time       `json:"due_date"`
	Category  string          `json:"category"`
	Recurring bool            `json:"recurring"`
	Priority  string          `json:"priority"`
}

// reminderResponse adds the human-readable due label to a reminder.
type reminderResponse struct {
	model.Reminder
	TimeRemaining string `json:"time_remaining"`
}

func (h *ReminderHandler) Create(w http.ResponseWriter, r *http.Request) {
	user := owner(w, r)
	if user == nil {
		return
	}

	var req reminderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		writeError(w, http.StatusBadRequest, "title is required")
		return
	}
	if req.DueDate.IsZero() {
		writeError(w, http.StatusBadRequest, "due_date is required")
		return
	}
	if req.Amount.IsNegative() {
		writeError(w, http.StatusBadRequest, "amount must not be negative")
		return
	}
	if req.Category == "" {
		req.Category = model.CategoryOther
	}
	if !model.ValidCategory(req.Category) {
		writeError(w, http.StatusBadRequest, "unknown category")
		return
	}
	if req.Priority == "" {
		req.Priority = model.PriorityMedium
	}
	if !model.ValidPriority(req.Priority) {
		writeError(w, http.StatusBadRequest, "unknown priority")
		return
	}

	reminder, err := h.reminders.Create(user.ID, req.Title, req.Amount, req.DueDate, req.Category, req.Recurring, req.Priority)
	if err != nil {
		h.logger.Error("create reminder", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create reminder")
		return
	}

	writeJSON(w, http.StatusCreated, reminder)
}

func (h *ReminderHandler) List(w http.ResponseWriter, r *http.Request) {
	user := owner(w, r)
	if user == nil {
		return
	}

	reminders, err := h.reminders.ListByUser(user.ID)
	if err != nil {
		h.logger.Error("list reminders", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list reminders")
		return
	}

	now := time.Now().UTC()
	out := make([]reminderResponse, 0, len(reminders))
	for _, rem := range reminders {
		out = append(out, reminderResponse{
			Reminder:      rem,
			TimeRemaining: billing.TimeRemaining(rem.DueDate, now),
		})
	}
	writeJSON(w, http.StatusOK, out)
}

// Pay marks a reminder paid. Paying is one-way.
func (h *ReminderHandler) Pay(w http.ResponseWriter, r *http.Request) {
	user := owner(w, r)
	if user == nil {
		return
	}

	reminder := h.ownedReminder(w, r, user)
	if reminder == nil {
		return
	}

	updated, err := h.reminders.MarkPaid(reminder.ID)
	if err != nil {
		h.logger.Error("mark reminder paid", "reminder_id", reminder.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to mark reminder paid")
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// Snooze pushes the due date out by one day.
func (h *ReminderHandler) Snooze(w http.ResponseWriter, r *http.Request) {
	user := owner(w, r)
	if user == nil {
		return
	}

	reminder := h.ownedReminder(w, r, user)
	if reminder == nil {
		return
	}

	updated, err := h.reminders.Snooze(reminder.ID)
	if err != nil {
		h.logger.Error("snooze reminder", "reminder_id", reminder.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to snooze reminder")
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// Notify sends the reminder email immediately, bypassing the due window.
func (h *ReminderHandler) Notify(w http.ResponseWriter, r *http.Request) {
	user := owner(w, r)
	if user == nil {
		return
	}

	reminder := h.ownedReminder(w, r, user)
	if reminder == nil {
		return
	}

	if err := h.dispatcher.SendReminderNow(reminder.ID, time.Now()); err != nil {
		h.logger.Error("send reminder notification", "reminder_id", reminder.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to send notification")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// ownedReminder loads the path reminder and enforces ownership.
func (h *ReminderHandler) ownedReminder(w http.ResponseWriter, r *http.Request, user *model.User) *model.Reminder {
	id := r.PathValue("id")
	reminder, err := h.reminders.GetByID(id)
	if err != nil {
		h.logger.Error("get reminder", "reminder_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to get reminder")
		return nil
	}
	if reminder == nil || reminder.UserID != user.ID {
		writeError(w, http.StatusNotFound, "reminder not found")
		return nil
	}
	return reminder
}
