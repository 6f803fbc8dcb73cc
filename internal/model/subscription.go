package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Billing cycle tags.
const (
	CycleWeekly     = "weekly"
	CycleMonthly    = "monthly"
	CycleQuarterly  = "quarterly"
	CycleBiannually = "biannually"
	CycleYearly     = "yearly"
)

type Subscription struct {
	ID              string          `json:"id"`
	UserID          string          `json:"user_id"`
	Name            string          `json:"name"`
	Amount          decimal.Decimal `json:"amount"`
	BillingCycle    string          `json:"billing_cycle"`
	Category        string          `json:"category"`
	StartDate       time.Time       `json:"start_date"`
	NextBillingDate time.Time       `json:"next_billing_date"`
	Website         string          `json:"website,omitempty"`
	Active          bool            `json:"active"`
	CreatedAt       time.Time       `json:"created_at"`
}

// ValidCycle reports whether c is one of the five known billing cycles.
func ValidCycle(c string) bool {
	switch c {
	case CycleWeekly, CycleMonthly, CycleQuarterly, CycleBiannually, CycleYearly:
		return true
	}
	return false
}
