package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dukerupert/fintrack/internal/model"
	"github.com/dukerupert/fintrack/internal/store"
)

type ExpenseHandler struct {
	expenses *store.ExpenseStore
	logger   *slog.Logger
}

func NewExpenseHandler(es *store.ExpenseStore, logger *slog.Logger) *ExpenseHandler {
	return &ExpenseHandler{expenses: es, logger: logger}
}

type expenseRequest struct {
	Title         string          `json:"title"`
	Amount        decimal.Decimal `json:"amount"`
	Date          time.Time       `json:"date"`
	Category      string          `json:"category"`
	PaymentMethod string          `json:"payment_method"`
	Notes         string          `json:"notes"`
}

func (req *expenseRequest) validate() string {
	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		return "title is required"
	}
	if req.Date.IsZero() {
		return "date is required"
	}
	if req.Amount.IsNegative() {
		return "amount must not be negative"
	}
	return ""
}

func (h *ExpenseHandler) Create(w http.ResponseWriter, r *http.Request) {
	user := owner(w, r)
	if user == nil {
		return
	}

	var req expenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if msg := req.validate(); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	expense, err := h.expenses.Create(user.ID, req.Title, req.Amount, req.Date, req.Category, req.PaymentMethod, req.Notes)
	if err != nil {
		h.logger.Error("create expense", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create expense")
		return
	}
	writeJSON(w, http.StatusCreated, expense)
}

func (h *ExpenseHandler) List(w http.ResponseWriter, r *http.Request) {
	user := owner(w, r)
	if user == nil {
		return
	}

	expenses, err := h.expenses.ListByUser(user.ID)
	if err != nil {
		h.logger.Error("list expenses", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list expenses")
		return
	}
	if expenses == nil {
		expenses = []model.Expense{}
	}
	writeJSON(w, http.StatusOK, expenses)
}

func (h *ExpenseHandler) Update(w http.ResponseWriter, r *http.Request) {
	user := owner(w, r)
	if user == nil {
		return
	}

	existing := h.ownedExpense(w, r, user)
	if existing == nil {
		return
	}

	var req expenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if msg := req.validate(); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	updated, err := h.expenses.Update(existing.ID, req.Title, req.Amount, req.Date, req.Category, req.PaymentMethod, req.Notes)
	if err != nil {
		h.logger.Error("update expense", "expense_id", existing.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to update expense")
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (h *ExpenseHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user := owner(w, r)
	if user == nil {
		return
	}

	existing := h.ownedExpense(w, r, user)
	if existing == nil {
		return
	}

	if err := h.expenses.Delete(existing.ID); err != nil {
		h.logger.Error("delete expense", "expense_id", existing.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to delete expense")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Summary returns per-category totals for one calendar month. The month
// query parameter is "2006-01" and defaults to the current month.
func (h *ExpenseHandler) Summary(w http.ResponseWriter, r *http.Request) {
	user := owner(w, r)
	if user == nil {
		return
	}

	month := r.URL.Query().Get("month")
	var start time.Time
	if month == "" {
		now := time.Now().UTC()
		start = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	} else {
		var err error
		start, err = time.Parse("2006-01", month)
		if err != nil {
			writeError(w, http.StatusBadRequest, "month must be formatted as 2006-01")
			return
		}
	}
	end := start.AddDate(0, 1, 0)

	totals, err := h.expenses.SummarizeByCategory(user.ID, start, end)
	if err != nil {
		h.logger.Error("summarize expenses", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to summarize expenses")
		return
	}
	if totals == nil {
		totals = []model.CategoryTotal{}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"month":      start.Format("2006-01"),
		"categories": totals,
	})
}

func (h *ExpenseHandler) ownedExpense(w http.ResponseWriter, r *http.Request, user *model.User) *model.Expense {
	id := r.PathValue("id")
	expense, err := h.expenses.GetByID(id)
	if err != nil {
		h.logger.Error("get expense", "expense_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to get expense")
		return nil
	}
	if expense == nil || expense.UserID != user.ID {
		writeError(w, http.StatusNotFound, "expense not found")
		return nil
	}
	return expense
}
