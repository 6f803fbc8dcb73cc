package billing

import (
	"testing"
	"time"

	"github.com/dukerupert/fintrack/internal/model"
	"github.com/shopspring/decimal"
)

func TestMonthlyEquivalentWeekly(t *testing.T) {
	got := MonthlyEquivalent(decimal.NewFromInt(100), model.CycleWeekly)
	want := decimal.NewFromInt(433)
	if !got.Equal(want) {
		t.Errorf("MonthlyEquivalent(100, weekly) = %s, want %s", got, want)
	}
}

func TestMonthlyEquivalentMonthly(t *testing.T) {
	amount := decimal.NewFromFloat(59.99)
	got := MonthlyEquivalent(amount, model.CycleMonthly)
	if !got.Equal(amount) {
		t.Errorf("MonthlyEquivalent(monthly) = %s, want %s", got, amount)
	}
}

func TestMonthlyEquivalentUnknownCycle(t *testing.T) {
	amount := decimal.NewFromInt(42)
	got := MonthlyEquivalent(amount, "fortnightly")
	if !got.Equal(amount) {
		t.Errorf("unknown cycle should pass amount through, got %s", got)
	}
}

func TestMonthlyEquivalentRoundTrip(t *testing.T) {
	tolerance := decimal.NewFromFloat(0.0001)
	tests := []struct {
		cycle  string
		factor decimal.Decimal
	}{
		{model.CycleQuarterly, decimal.NewFromInt(3)},
		{model.CycleBiannually, decimal.NewFromInt(6)},
		{model.CycleYearly, decimal.NewFromInt(12)},
	}
	original := decimal.NewFromInt(100)
	for _, tt := range tests {
		back := MonthlyEquivalent(original, tt.cycle).Mul(tt.factor)
		if back.Sub(original).Abs().GreaterThan(tolerance) {
			t.Errorf("%s: round trip = %s, want ~%s", tt.cycle, back, original)
		}
	}
}

func TestFormatCycle(t *testing.T) {
	tests := []struct {
		cycle string
		want  string
	}{
		{model.CycleWeekly, "Weekly"},
		{model.CycleMonthly, "Monthly"},
		{model.CycleQuarterly, "Quarterly"},
		{model.CycleBiannually, "Bi-annually"},
		{model.CycleYearly, "Yearly"},
		{"lunar", "lunar"},
	}
	for _, tt := range tests {
		if got := FormatCycle(tt.cycle); got != tt.want {
			t.Errorf("FormatCycle(%q) = %q, want %q", tt.cycle, got, tt.want)
		}
	}
}

func TestDaysUntil(t *testing.T) {
	now := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

	if got := DaysUntil(now.AddDate(0, 0, 1), now); got != 1 {
		t.Errorf("DaysUntil(+1 day) = %d, want 1", got)
	}
	if got := DaysUntil(now.AddDate(0, 0, -1), now); got != -1 {
		t.Errorf("DaysUntil(-1 day) = %d, want -1", got)
	}
	if got := DaysUntil(now, now); got != 0 {
		t.Errorf("DaysUntil(now) = %d, want 0", got)
	}
	// Partial days round up.
	if got := DaysUntil(now.Add(36*time.Hour), now); got != 2 {
		t.Errorf("DaysUntil(+36h) = %d, want 2", got)
	}
}

func TestTimeRemaining(t *testing.T) {
	now := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		days int
		want string
	}{
		{-3, "Overdue"},
		{0, "Today"},
		{1, "Tomorrow"},
		{3, "In 3 days"},
		{6, "In 6 days"},
		{7, "Next week"},
		{13, "Next week"},
		{14, "In 14 days"},
		{45, "In 45 days"},
	}
	for _, tt := range tests {
		due := now.AddDate(0, 0, tt.days)
		if got := TimeRemaining(due, now); got != tt.want {
			t.Errorf("TimeRemaining(+%d days) = %q, want %q", tt.days, got, tt.want)
		}
	}
}

func TestNextBillingDate(t *testing.T) {
	current := time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		cycle string
		want  time.Time
	}{
		{model.CycleWeekly, time.Date(2026, 2, 7, 0, 0, 0, 0, time.UTC)},
		{model.CycleQuarterly, time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)}, // Jan 31 + 3mo normalizes past Apr 30
		{model.CycleBiannually, time.Date(2026, 7, 31, 0, 0, 0, 0, time.UTC)},
		{model.CycleYearly, time.Date(2027, 1, 31, 0, 0, 0, 0, time.UTC)},
		{"unknown", current},
	}
	for _, tt := range tests {
		if got := NextBillingDate(current, tt.cycle); !got.Equal(tt.want) {
			t.Errorf("NextBillingDate(%q) = %v, want %v", tt.cycle, got, tt.want)
		}
	}
}

func TestCategoryLabel(t *testing.T) {
	if got := CategoryLabel(model.CategoryCreditCard); got != "Credit Card" {
		t.Errorf("CategoryLabel(credit-card) = %q", got)
	}
	if got := CategoryLabel("custom"); got != "custom" {
		t.Errorf("unknown category should pass through, got %q", got)
	}
}

func TestFormatAmount(t *testing.T) {
	if got := FormatAmount(decimal.NewFromFloat(433)); got != "433.00" {
		t.Errorf("FormatAmount(433) = %q, want %q", got, "433.00")
	}
	if got := FormatAmount(decimal.NewFromFloat(59.9)); got != "59.90" {
		t.Errorf("FormatAmount(59.9) = %q, want %q", got, "59.90")
	}
}
