package outreach

import (
	"math"
	"time"

	"github.com/resolvepay/resolvepay-platform/internal/customer"
)

// Trigger windows per service category. Utilities customers are contacted
// earlier: an expiring card or a fresh failure matters more when the service
// being cut off is power or water.
const (
	expiryWindowDaysUtilities   = 7
	expiryWindowDaysDefault     = 5
	failureWindowHoursUtilities = 4
	failureWindowHoursDefault   = 24
)

// ShouldTrigger decides whether a customer's snapshot warrants an intervention
// right now. Unrecognized risk categories never trigger.
func ShouldTrigger(snap customer.RiskSnapshot, now time.Time) bool {
	switch snap.RiskCategory {
	case customer.RiskExpiringCard:
		days := snap.DaysUntilCardExpiry(now)
		window := expiryWindowDaysDefault
		if serviceCategory(snap) == customer.CategoryUtilities {
			window = expiryWindowDaysUtilities
		}
		// An already expired card is handled by the failed-payment flow once
		// a charge actually bounces.
		return days > 0 && days <= window
	case customer.RiskFailedPayment, customer.RiskMultipleFailures:
		if snap.LastFailureAt == nil {
			// No failure timestamp recorded: fail open and contact now.
			return true
		}
		window := float64(failureWindowHoursDefault)
		if serviceCategory(snap) == customer.CategoryUtilities {
			window = failureWindowHoursUtilities
		}
		return now.Sub(*snap.LastFailureAt).Hours() <= window
	default:
		return false
	}
}

// Priority computes a deterministic 0-100 contact priority for a snapshot.
// It is recomputed fresh on every refresh and never persisted.
func Priority(snap customer.RiskSnapshot, now time.Time) int {
	var base float64
	switch serviceCategory(snap) {
	case customer.CategoryUtilities:
		base = 40
	case customer.CategoryEducation:
		base = 30
	default:
		base = 20
	}

	switch snap.RiskCategory {
	case customer.RiskMultipleFailures:
		base *= 2.0
	case customer.RiskFailedPayment:
		base *= 1.5
	case customer.RiskExpiringCard:
		base *= 1.2
	}

	switch {
	case snap.AccountValueCents > 50000:
		base += 20
	case snap.AccountValueCents > 20000:
		base += 10
	case snap.AccountValueCents > 10000:
		base += 5
	}

	switch {
	case snap.FailureCount >= 3:
		base += 15
	case snap.FailureCount >= 2:
		base += 10
	}

	if snap.RiskCategory == customer.RiskExpiringCard {
		switch days := snap.DaysUntilCardExpiry(now); {
		case days <= 3:
			base += 15
		case days <= 7:
			base += 10
		}
	}

	return int(math.Round(math.Max(0, math.Min(100, base))))
}

// UrgencyScore is a secondary signal kept as queue metadata. It never affects
// queue ordering.
func UrgencyScore(snap customer.RiskSnapshot, now time.Time) int {
	score := 0
	switch snap.RiskSeverity {
	case "high":
		score = 75
	case "medium":
		score = 50
	case "low":
		score = 25
	default:
		score = 50
	}
	score += snap.FailureCount * 5
	if snap.RiskCategory == customer.RiskExpiringCard {
		if days := snap.DaysUntilCardExpiry(now); days > 0 && days <= 3 {
			score += 10
		}
	}
	if score > 100 {
		score = 100
	}
	return score
}

func serviceCategory(snap customer.RiskSnapshot) customer.ServiceCategory {
	if snap.ServiceCategory != "" {
		return snap.ServiceCategory
	}
	return customer.ResolveServiceCategory(snap.Provider)
}
