package outreach

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/resolvepay/resolvepay-platform/internal/customer"
)

func utcTime(month time.Month, day, hour int) time.Time {
	return time.Date(2026, month, day, hour, 0, 0, 0, time.UTC)
}

func expiringCardSnapshot(cat customer.ServiceCategory, year int, month time.Month) customer.RiskSnapshot {
	return customer.RiskSnapshot{
		ID:              "cust-1",
		Name:            "Ana Souza",
		Provider:        "test provider",
		ServiceCategory: cat,
		RiskCategory:    customer.RiskExpiringCard,
		CardExpiryYear:  year,
		CardExpiryMonth: month,
	}
}

func TestShouldTriggerExpiringCard(t *testing.T) {
	tests := []struct {
		name     string
		category customer.ServiceCategory
		now      time.Time
		want     bool
	}{
		{"telecom 4 days out", customer.CategoryTelecom, utcTime(time.June, 27, 12), true},
		{"telecom 6 days out", customer.CategoryTelecom, utcTime(time.June, 25, 12), false},
		{"utilities 6 days out", customer.CategoryUtilities, utcTime(time.June, 25, 12), true},
		{"utilities 8 days out", customer.CategoryUtilities, utcTime(time.June, 23, 12), false},
		{"already expired", customer.CategoryTelecom, utcTime(time.July, 10, 12), false},
		{"expiry day itself", customer.CategoryTelecom, utcTime(time.July, 1, 0), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snap := expiringCardSnapshot(tt.category, 2026, time.July)
			assert.Equal(t, tt.want, ShouldTrigger(snap, tt.now))
		})
	}
}

func TestShouldTriggerFailedPayment(t *testing.T) {
	now := utcTime(time.June, 15, 12)

	snap := customer.RiskSnapshot{
		ID:              "cust-2",
		ServiceCategory: customer.CategoryTelecom,
		RiskCategory:    customer.RiskFailedPayment,
	}

	t.Run("no failure timestamp fails open", func(t *testing.T) {
		assert.True(t, ShouldTrigger(snap, now))
	})

	t.Run("telecom within 24h", func(t *testing.T) {
		at := now.Add(-20 * time.Hour)
		s := snap
		s.LastFailureAt = &at
		assert.True(t, ShouldTrigger(s, now))
	})

	t.Run("telecom beyond 24h", func(t *testing.T) {
		at := now.Add(-30 * time.Hour)
		s := snap
		s.LastFailureAt = &at
		assert.False(t, ShouldTrigger(s, now))
	})

	t.Run("utilities window is 4h", func(t *testing.T) {
		s := snap
		s.ServiceCategory = customer.CategoryUtilities
		at := now.Add(-3 * time.Hour)
		s.LastFailureAt = &at
		assert.True(t, ShouldTrigger(s, now))

		at = now.Add(-5 * time.Hour)
		s.LastFailureAt = &at
		assert.False(t, ShouldTrigger(s, now))
	})

	t.Run("multiple failures uses same windows", func(t *testing.T) {
		s := snap
		s.RiskCategory = customer.RiskMultipleFailures
		at := now.Add(-20 * time.Hour)
		s.LastFailureAt = &at
		assert.True(t, ShouldTrigger(s, now))
	})
}

func TestShouldTriggerUnknownCategoryNeverFires(t *testing.T) {
	now := utcTime(time.June, 15, 12)
	snap := customer.RiskSnapshot{ID: "cust-3", RiskCategory: "churn-risk"}
	assert.False(t, ShouldTrigger(snap, now))
}

func TestPriorityScenario(t *testing.T) {
	// Utilities base 40, multiple-failures x2.0, value band +20, failures +15:
	// 115 clamps to 100.
	now := utcTime(time.June, 15, 12)
	snap := customer.RiskSnapshot{
		ID:                "cust-4",
		ServiceCategory:   customer.CategoryUtilities,
		RiskCategory:      customer.RiskMultipleFailures,
		AccountValueCents: 60000,
		FailureCount:      4,
	}
	assert.Equal(t, 100, Priority(snap, now))
}

func TestPriorityBands(t *testing.T) {
	now := utcTime(time.June, 15, 12)

	tests := []struct {
		name string
		snap customer.RiskSnapshot
		want int
	}{
		{
			"telecom failed payment mid value",
			customer.RiskSnapshot{
				ServiceCategory:   customer.CategoryTelecom,
				RiskCategory:      customer.RiskFailedPayment,
				AccountValueCents: 15000,
			},
			35, // 20*1.5 + 5
		},
		{
			"education plain category",
			customer.RiskSnapshot{
				ServiceCategory: customer.CategoryEducation,
				RiskCategory:    "other",
			},
			30,
		},
		{
			"value band boundary is exclusive",
			customer.RiskSnapshot{
				ServiceCategory:   customer.CategoryTelecom,
				RiskCategory:      "other",
				AccountValueCents: 20000,
			},
			25, // 20 + 5, not +10
		},
		{
			"two failures bonus",
			customer.RiskSnapshot{
				ServiceCategory: customer.CategoryTelecom,
				RiskCategory:    "other",
				FailureCount:    2,
			},
			30, // 20 + 10
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Priority(tt.snap, now))
		})
	}
}

func TestPriorityExpiryUrgencyBonus(t *testing.T) {
	// Card expires July 1st; two days before, the close-expiry bonus applies.
	now := utcTime(time.June, 29, 0)
	snap := expiringCardSnapshot(customer.CategoryEducation, 2026, time.July)
	// 30*1.2 + 15 = 51
	assert.Equal(t, 51, Priority(snap, now))

	// Five days out only the wider band applies: 30*1.2 + 10 = 46.
	now = utcTime(time.June, 26, 0)
	assert.Equal(t, 46, Priority(snap, now))
}

func TestPriorityIsPureAndBounded(t *testing.T) {
	now := utcTime(time.June, 15, 12)
	snaps := []customer.RiskSnapshot{
		{ServiceCategory: customer.CategoryUtilities, RiskCategory: customer.RiskMultipleFailures, AccountValueCents: 999999, FailureCount: 10},
		{ServiceCategory: customer.CategoryTelecom, RiskCategory: "other", AccountValueCents: -5},
		{},
	}
	for _, snap := range snaps {
		first := Priority(snap, now)
		for i := 0; i < 5; i++ {
			assert.Equal(t, first, Priority(snap, now))
		}
		assert.GreaterOrEqual(t, first, 0)
		assert.LessOrEqual(t, first, 100)
	}
}

func TestUrgencyScore(t *testing.T) {
	now := utcTime(time.June, 15, 12)

	high := customer.RiskSnapshot{RiskSeverity: "high", FailureCount: 2}
	assert.Equal(t, 85, UrgencyScore(high, now))

	low := customer.RiskSnapshot{RiskSeverity: "low"}
	assert.Equal(t, 25, UrgencyScore(low, now))

	capped := customer.RiskSnapshot{RiskSeverity: "high", FailureCount: 20}
	assert.Equal(t, 100, UrgencyScore(capped, now))
}
