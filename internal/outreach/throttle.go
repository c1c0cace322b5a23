package outreach

import (
	"time"

	"github.com/resolvepay/resolvepay-platform/internal/customer"
)

// Denial reasons reported by CanContact.
const (
	DenyTriggerLapsed   = "trigger-no-longer-holds"
	DenyContactCap      = "contact-cap-reached"
	DenyMinGap          = "min-gap-not-elapsed"
	DenySessionActive   = "session-already-active"
	DenyRecentBadResult = "recent-negative-outcome"
)

// Decision is the outcome of a throttle evaluation.
type Decision struct {
	Allowed bool
	Reason  string
}

func allow() Decision             { return Decision{Allowed: true} }
func deny(reason string) Decision { return Decision{Reason: reason} }

// outcomeCooldown is the extra wait after a failed or unanswered attempt,
// beyond the generic minimum-gap rule.
const outcomeCooldown = 24 * time.Hour

// CanContact decides whether a queued customer may be contacted right now.
// Checks run in a fixed order and the first failure short-circuits. The
// contact-attempt cap is deliberately a lifetime-since-enqueue counter, not a
// calendar-day counter; it only resets when the entry leaves the queue.
func CanContact(entry QueueEntry, cfg Config, sessionActive bool, now time.Time) Decision {
	if !ShouldTrigger(entry.Snapshot, now) {
		return deny(DenyTriggerLapsed)
	}

	if entry.ContactAttempts >= cfg.MaxContactsPerDay {
		return deny(DenyContactCap)
	}

	if entry.LastContactedAt != nil {
		elapsed := now.Sub(*entry.LastContactedAt).Hours()
		if elapsed < float64(cfg.MinHoursBetweenContacts) {
			return deny(DenyMinGap)
		}
	}

	if sessionActive {
		return deny(DenySessionActive)
	}

	if last, ok := entry.Snapshot.LastIntervention(); ok {
		bad := last.Outcome == customer.OutcomeFailed || last.Outcome == customer.OutcomeNoAnswer
		if bad && now.Sub(last.OccurredAt) < outcomeCooldown {
			return deny(DenyRecentBadResult)
		}
	}

	return allow()
}

// InQuietHours reports whether now falls inside the configured quiet window.
// The window is evaluated once per tick, not per customer; while quiet, no
// admissions happen at all. A window whose start equals its end is disabled.
func InQuietHours(cfg Config, now time.Time) bool {
	loc := cfg.Location
	if loc == nil {
		loc = time.UTC
	}
	h := now.In(loc).Hour()
	if cfg.QuietHoursStart == cfg.QuietHoursEnd {
		return false
	}
	if cfg.QuietHoursStart < cfg.QuietHoursEnd {
		return h >= cfg.QuietHoursStart && h < cfg.QuietHoursEnd
	}
	// Window wraps past midnight, e.g. start=22 end=8.
	return h >= cfg.QuietHoursStart || h < cfg.QuietHoursEnd
}
