package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Reminder categories.
const (
	CategoryCreditCard   = "credit-card"
	CategorySubscription = "subscription"
	CategoryEMI          = "emi"
	CategoryRent         = "rent"
	CategoryUtility      = "utility"
	CategoryOther        = "other"
)

// Reminder priorities.
const (
	PriorityHigh   = "high"
	PriorityMedium = "medium"
	PriorityLow    = "low"
)

type Reminder struct {
	ID        string          `json:"id"`
	UserID    string          `json:"user_id"`
	Title     string          `json:"title"`
	Amount    decimal.Decimal `json:"amount"`
	DueDate   time.Time       `json:"due_date"`
	Category  string          `json:"category"`
	Recurring bool            `json:"recurring"`
	Priority  string          `json:"priority"`
	Paid      bool            `json:"paid"`
	CreatedAt time.Time       `json:"created_at"`
}

// ValidCategory reports whether c is one of the closed reminder categories.
func ValidCategory(c string) bool {
	switch c {
	case CategoryCreditCard, CategorySubscription, CategoryEMI, CategoryRent, CategoryUtility, CategoryOther:
		return true
	}
	return false
}

// ValidPriority reports whether p is one of the closed priorities.
func ValidPriority(p string) bool {
	switch p {
	case PriorityHigh, PriorityMedium, PriorityLow:
		return true
	}
	return false
}
