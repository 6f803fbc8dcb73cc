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

type SubscriptionHandler struct {
	subscriptions *store.SubscriptionStore
	dispatcher    *notify.Dispatcher
	logger        *slog.Logger
}

func NewSubscriptionHandler(ss *store.SubscriptionStore, d *notify.Dispatcher, logger *slog.Logger) *SubscriptionHandler {
	return &SubscriptionHandler{subscriptions: ss, dispatcher: d, logger: logger}
}

type subscriptionRequest struct {
	Name            string          `json:"name"`
	Amount          decimal.Decimal `json:"amount"`
	BillingCycle    string          `json:"billing_cycle"`
	Category        string          `json:"category"`
	StartDate       time.Time       `json:"start_date"`
	NextBillingDate time.Time       `json:"next_billing_date"`
	Website         string          `json:"website"`
}

// subscriptionResponse adds the derived cost fields to a subscription.
type subscriptionResponse struct {
	model.Subscription
	BillingCycleLabel string          `json:"billing_cycle_label"`
	MonthlyEquivalent decimal.Decimal `json:"monthly_equivalent"`
	TimeRemaining     string          `json:"time_remaining"`
}

func (h *SubscriptionHandler) Create(w http.ResponseWriter, r *http.Request) {
	user := owner(w, r)
	if user == nil {
		return
	}

	var req subscriptionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}
	if !model.ValidCycle(req.BillingCycle) {
		writeError(w, http.StatusBadRequest, "unknown billing cycle")
		return
	}
	if req.NextBillingDate.IsZero() {
		writeError(w, http.StatusBadRequest, "next_billing_date is required")
		return
	}
	if req.Amount.IsNegative() {
		writeError(w, http.StatusBadRequest, "amount must not be negative")
		return
	}
	if req.Category == "" {
		req.Category = model.CategorySubscription
	}
	if req.StartDate.IsZero() {
		req.StartDate = req.NextBillingDate
	}

	sub, err := h.subscriptions.Create(user.ID, req.Name, req.Amount, req.BillingCycle, req.Category, req.StartDate, req.NextBillingDate, req.Website)
	if err != nil {
		h.logger.Error("create subscription", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create subscription")
		return
	}

	writeJSON(w, http.StatusCreated, sub)
}

func (h *SubscriptionHandler) List(w http.ResponseWriter, r *http.Request) {
	user := owner(w, r)
	if user == nil {
		return
	}

	subs, err := h.subscriptions.ListByUser(user.ID)
	if err != nil {
		h.logger.Error("list subscriptions", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list subscriptions")
		return
	}

	now := time.Now().UTC()
	out := make([]subscriptionResponse, 0, len(subs))
	for _, s := range subs {
		out = append(out, subscriptionResponse{
			Subscription:      s,
			BillingCycleLabel: billing.FormatCycle(s.BillingCycle),
			MonthlyEquivalent: billing.MonthlyEquivalent(s.Amount, s.BillingCycle),
			TimeRemaining:     billing.TimeRemaining(s.NextBillingDate, now),
		})
	}
	writeJSON(w, http.StatusOK, out)
}

// MonthlyCost sums the monthly-equivalent cost of the owner's active
// subscriptions.
func (h *SubscriptionHandler) MonthlyCost(w http.ResponseWriter, r *http.Request) {
	user := owner(w, r)
	if user == nil {
		return
	}

	subs, err := h.subscriptions.ListActiveByUser(user.ID)
	if err != nil {
		h.logger.Error("list active subscriptions", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list subscriptions")
		return
	}

	total := decimal.Zero
	for _, s := range subs {
		total = total.Add(billing.MonthlyEquivalent(s.Amount, s.BillingCycle))
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"active_count": len(subs),
		"monthly_cost": total,
	})
}

// Cancel deactivates a subscription. Cancelled subscriptions are excluded
// from notification batches but stay listed.
func (h *SubscriptionHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	user := owner(w, r)
	if user == nil {
		return
	}

	sub := h.ownedSubscription(w, r, user)
	if sub == nil {
		return
	}

	updated, err := h.subscriptions.Cancel(sub.ID)
	if err != nil {
		h.logger.Error("cancel subscription", "subscription_id", sub.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to cancel subscription")
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// Notify sends the renewal email immediately, bypassing the due window.
func (h *SubscriptionHandler) Notify(w http.ResponseWriter, r *http.Request) {
	user := owner(w, r)
	if user == nil {
		return
	}

	sub := h.ownedSubscription(w, r, user)
	if sub == nil {
		return
	}

	if err := h.dispatcher.SendSubscriptionNow(sub.ID, time.Now()); err != nil {
		h.logger.Error("send subscription notification", "subscription_id", sub.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to send notification")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *SubscriptionHandler) ownedSubscription(w http.ResponseWriter, r *http.Request, user *model.User) *model.Subscription {
	id := r.PathValue("id")
	sub, err := h.subscriptions.GetByID(id)
	if err != nil {
		h.logger.Error("get subscription", "subscription_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to get subscription")
		return nil
	}
	if sub == nil || sub.UserID != user.ID {
		writeError(w, http.StatusNotFound, "subscription not found")
		return nil
	}
	return sub
}
