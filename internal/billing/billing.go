// Package billing holds the pure billing-cycle math: normalizing
// heterogeneous cycles to a monthly-equivalent cost and turning due dates
// into day counts and display labels.
package billing

import (
	"fmt"
	"math"
	"time"

	"github.com/dukerupert/fintrack/internal/model"
	"github.com/shopspring/decimal"
)

// weeksPerMonth approximates the average number of weeks in a month
// (365.25 / 12 / 7).
var weeksPerMonth = decimal.NewFromFloat(4.33)

// MonthlyEquivalent converts an (amount, cycle) pair into a monthly cost so
// that all subscriptions can be compared and summed on a common basis.
// An unknown cycle tag returns the amount unchanged.
func MonthlyEquivalent(amount decimal.Decimal, cycle string) decimal.Decimal {
	switch cycle {
	case model.CycleWeekly:
		return amount.Mul(weeksPerMonth)
	case model.CycleMonthly:
		return amount
	case model.CycleQuarterly:
		return amount.Div(decimal.NewFromInt(3))
	case model.CycleBiannually:
		return amount.Div(decimal.NewFromInt(6))
	case model.CycleYearly:
		return amount.Div(decimal.NewFromInt(12))
	default:
		return amount
	}
}

// FormatCycle maps a billing cycle tag to its display text. Unknown tags are
// passed through verbatim.
func FormatCycle(cycle string) string {
	switch cycle {
	case model.CycleWeekly:
		return "Weekly"
	case model.CycleMonthly:
		return "Monthly"
	case model.CycleQuarterly:
		return "Quarterly"
	case model.CycleBiannually:
		return "Bi-annually"
	case model.CycleYearly:
		return "Yearly"
	default:
		return cycle
	}
}

// DaysUntil returns the number of days until due, as the ceiling of the raw
// duration. Negative when overdue.
func DaysUntil(due, now time.Time) int {
	return int(math.Ceil(due.Sub(now).Hours() / 24))
}

// TimeRemaining renders a human label for the time until due.
func TimeRemaining(due, now time.Time) string {
	days := DaysUntil(due, now)
	switch {
	case days < 0:
		return "Overdue"
	case days == 0:
		return "Today"
	case days == 1:
		return "Tomorrow"
	case days < 7:
		return fmt.Sprintf("In %d days", days)
	case days < 14:
		return "Next week"
	default:
		return fmt.Sprintf("In %d days", days)
	}
}

// NextBillingDate advances a billing date by one cycle. An unknown cycle tag
// returns the date unchanged.
func NextBillingDate(current time.Time, cycle string) time.Time {
	switch cycle {
	case model.CycleWeekly:
		return current.AddDate(0, 0, 7)
	case model.CycleMonthly:
		return current.AddDate(0, 1, 0)
	case model.CycleQuarterly:
		return current.AddDate(0, 3, 0)
	case model.CycleBiannually:
		return current.AddDate(0, 6, 0)
	case model.CycleYearly:
		return current.AddDate(1, 0, 0)
	default:
		return current
	}
}

// CategoryLabel maps a reminder category tag to its display text.
func CategoryLabel(category string) string {
	switch category {
	case model.CategoryCreditCard:
		return "Credit Card"
	case model.CategorySubscription:
		return "Subscription"
	case model.CategoryEMI:
		return "EMI"
	case model.CategoryRent:
		return "Rent"
	case model.CategoryUtility:
		return "Utility"
	case model.CategoryOther:
		return "Other"
	default:
		return category
	}
}

// PriorityLabel maps a reminder priority tag to its display text.
func PriorityLabel(priority string) string {
	switch priority {
	case model.PriorityHigh:
		return "High"
	case model.PriorityMedium:
		return "Medium"
	case model.PriorityLow:
		return "Low"
	default:
		return priority
	}
}

// FormatAmount renders a monetary amount with two decimal places, e.g. "433.00".
func FormatAmount(amount decimal.Decimal) string {
	return amount.StringFixed(2)
}
