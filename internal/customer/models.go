package customer

import (
	"errors"
	"time"
)

// RiskCategory classifies why a customer is considered at risk of churning.
type RiskCategory string

const (
	RiskExpiringCard     RiskCategory = "expiring-card"
	RiskFailedPayment    RiskCategory = "failed-payment"
	RiskMultipleFailures RiskCategory = "multiple-failures"
)

// InterventionOutcome records how a past outreach attempt ended.
type InterventionOutcome string

const (
	OutcomeResolved InterventionOutcome = "resolved"
	OutcomeFailed   InterventionOutcome = "failed"
	OutcomeNoAnswer InterventionOutcome = "no_answer"
)

// Intervention is one entry in a customer's outreach history, oldest first.
type Intervention struct {
	OccurredAt time.Time           `json:"occurred_at"`
	Outcome    InterventionOutcome `json:"outcome"`
}

// RiskSnapshot is a read-only projection of a customer at refresh time.
// The scheduler never mutates it; it replaces it wholesale on every refresh.
type RiskSnapshot struct {
	ID                string          `json:"id"`
	Name              string          `json:"name"`
	Provider          string          `json:"provider"`
	ServiceCategory   ServiceCategory `json:"service_category"`
	AccountValueCents int64           `json:"account_value_cents"`
	RiskCategory      RiskCategory    `json:"risk_category"`
	RiskSeverity      string          `json:"risk_severity"`
	LastBillingAt     *time.Time      `json:"last_billing_at,omitempty"`
	NextBillingAt     *time.Time      `json:"next_billing_at,omitempty"`
	FailureCount      int             `json:"failure_count"`
	LastFailureAt     *time.Time      `json:"last_failure_at,omitempty"`
	CardExpiryYear    int             `json:"card_expiry_year,omitempty"`
	CardExpiryMonth   time.Month      `json:"card_expiry_month,omitempty"`
	History           []Intervention  `json:"history,omitempty"`
}

var (
	// ErrMissingID marks a snapshot that cannot be keyed into the queue.
	ErrMissingID = errors.New("customer: snapshot missing id")
	// ErrMissingRiskCategory marks a snapshot the policy cannot evaluate.
	ErrMissingRiskCategory = errors.New("customer: snapshot missing risk category")
)

// Validate reports whether the snapshot carries the fields the scheduler requires.
func (s RiskSnapshot) Validate() error {
	if s.ID == "" {
		return ErrMissingID
	}
	if s.RiskCategory == "" {
		return ErrMissingRiskCategory
	}
	return nil
}

// DaysUntilCardExpiry returns the ceiling of the time from now until the first
// day of the card's expiry month, in days. Returns 0 when no expiry is recorded.
func (s RiskSnapshot) DaysUntilCardExpiry(now time.Time) int {
	if s.CardExpiryYear == 0 || s.CardExpiryMonth == 0 {
		return 0
	}
	expiry := time.Date(s.CardExpiryYear, s.CardExpiryMonth, 1, 0, 0, 0, 0, now.Location())
	delta := expiry.Sub(now)
	days := int(delta / (24 * time.Hour))
	if delta%(24*time.Hour) > 0 {
		days++
	}
	return days
}

// LastIntervention returns the most recent history entry, or false when empty.
func (s RiskSnapshot) LastIntervention() (Intervention, bool) {
	if len(s.History) == 0 {
		return Intervention{}, false
	}
	return s.History[len(s.History)-1], true
}
