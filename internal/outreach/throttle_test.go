package outreach

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/resolvepay/resolvepay-platform/internal/customer"
)

func throttleConfig() Config {
	return Config{
		Enabled:                 true,
		TickIntervalMs:          30000,
		MaxConcurrentSessions:   3,
		MaxContactsPerDay:       2,
		MinHoursBetweenContacts: 4,
		QuietHoursStart:         22,
		QuietHoursEnd:           8,
	}
}

func triggeringEntry(now time.Time) QueueEntry {
	failedAt := now.Add(-1 * time.Hour)
	return QueueEntry{
		Snapshot: customer.RiskSnapshot{
			ID:              "cust-1",
			Name:            "Ana Souza",
			ServiceCategory: customer.CategoryTelecom,
			RiskCategory:    customer.RiskFailedPayment,
			LastFailureAt:   &failedAt,
		},
		Priority: 50,
		QueuedAt: now.Add(-time.Hour),
	}
}

func TestCanContactAllows(t *testing.T) {
	now := utcTime(time.June, 15, 12)
	d := CanContact(triggeringEntry(now), throttleConfig(), false, now)
	assert.True(t, d.Allowed)
	assert.Empty(t, d.Reason)
}

func TestCanContactDeniesWhenTriggerLapsed(t *testing.T) {
	now := utcTime(time.June, 15, 12)
	entry := triggeringEntry(now)
	staleFailure := now.Add(-48 * time.Hour)
	entry.Snapshot.LastFailureAt = &staleFailure

	d := CanContact(entry, throttleConfig(), false, now)
	assert.False(t, d.Allowed)
	assert.Equal(t, DenyTriggerLapsed, d.Reason)
}

func TestCanContactContactCapNeverAutoResets(t *testing.T) {
	now := utcTime(time.June, 15, 12)
	entry := triggeringEntry(now)
	entry.ContactAttempts = 2

	// Once the cap is hit it stays hit, even days later: the counter is
	// lifetime-since-enqueue and only removal from the queue resets it.
	for _, at := range []time.Time{now, now.Add(24 * time.Hour), now.Add(96 * time.Hour)} {
		failedAt := at.Add(-time.Hour)
		entry.Snapshot.LastFailureAt = &failedAt
		d := CanContact(entry, throttleConfig(), false, at)
		assert.False(t, d.Allowed)
		assert.Equal(t, DenyContactCap, d.Reason)
	}
}

func TestCanContactMinGap(t *testing.T) {
	now := utcTime(time.June, 15, 12)
	entry := triggeringEntry(now)

	recent := now.Add(-2 * time.Hour)
	entry.LastContactedAt = &recent
	d := CanContact(entry, throttleConfig(), false, now)
	assert.Equal(t, DenyMinGap, d.Reason)

	longAgo := now.Add(-5 * time.Hour)
	entry.LastContactedAt = &longAgo
	d = CanContact(entry, throttleConfig(), false, now)
	assert.True(t, d.Allowed)
}

func TestCanContactDeniesActiveSession(t *testing.T) {
	now := utcTime(time.June, 15, 12)
	d := CanContact(triggeringEntry(now), throttleConfig(), true, now)
	assert.False(t, d.Allowed)
	assert.Equal(t, DenySessionActive, d.Reason)
}

func TestCanContactRecentNegativeOutcome(t *testing.T) {
	now := utcTime(time.June, 15, 12)

	tests := []struct {
		name    string
		outcome customer.InterventionOutcome
		ago     time.Duration
		allowed bool
	}{
		{"failed 6h ago", customer.OutcomeFailed, 6 * time.Hour, false},
		{"no answer 6h ago", customer.OutcomeNoAnswer, 6 * time.Hour, false},
		{"failed 30h ago", customer.OutcomeFailed, 30 * time.Hour, true},
		{"resolved 1h ago", customer.OutcomeResolved, time.Hour, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entry := triggeringEntry(now)
			entry.Snapshot.History = []customer.Intervention{
				{OccurredAt: now.Add(-tt.ago), Outcome: tt.outcome},
			}
			d := CanContact(entry, throttleConfig(), false, now)
			assert.Equal(t, tt.allowed, d.Allowed)
		})
	}
}

func TestCanContactCheckOrder(t *testing.T) {
	// The cap check fires before the min-gap check.
	now := utcTime(time.June, 15, 12)
	entry := triggeringEntry(now)
	entry.ContactAttempts = 5
	recent := now.Add(-time.Minute)
	entry.LastContactedAt = &recent

	d := CanContact(entry, throttleConfig(), true, now)
	assert.Equal(t, DenyContactCap, d.Reason)
}

func TestInQuietHours(t *testing.T) {
	cfg := throttleConfig() // 22 -> 8, wraps midnight

	tests := []struct {
		hour  int
		quiet bool
	}{
		{23, true},
		{2, true},
		{7, true},
		{8, false},
		{12, false},
		{21, false},
		{22, true},
	}
	for _, tt := range tests {
		now := utcTime(time.June, 15, tt.hour)
		assert.Equal(t, tt.quiet, InQuietHours(cfg, now), "hour %d", tt.hour)
	}
}

func TestInQuietHoursSameDayWindow(t *testing.T) {
	cfg := throttleConfig()
	cfg.QuietHoursStart = 9
	cfg.QuietHoursEnd = 17

	assert.True(t, InQuietHours(cfg, utcTime(time.June, 15, 12)))
	assert.False(t, InQuietHours(cfg, utcTime(time.June, 15, 18)))
}

func TestInQuietHoursDisabledWindow(t *testing.T) {
	cfg := throttleConfig()
	cfg.QuietHoursStart = 0
	cfg.QuietHoursEnd = 0
	for h := 0; h < 24; h++ {
		assert.False(t, InQuietHours(cfg, utcTime(time.June, 15, h)))
	}
}

func TestInQuietHoursRespectsLocation(t *testing.T) {
	loc := time.FixedZone("UTC-5", -5*60*60)
	cfg := throttleConfig()
	cfg.Location = loc

	// 03:00 UTC is 22:00 local, inside the window.
	assert.True(t, InQuietHours(cfg, utcTime(time.June, 15, 3)))
	// 17:00 UTC is noon local.
	assert.False(t, InQuietHours(cfg, utcTime(time.June, 15, 17)))
}
