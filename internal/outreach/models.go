package outreach

import (
	"fmt"
	"time"

	"github.com/resolvepay/resolvepay-platform/internal/customer"
)

// QueueEntry tracks one customer awaiting contact. Priority, urgency and the
// snapshot are replaced on every refresh; queuedAt, lastContactedAt and
// contactAttempts survive until the entry is removed from the queue.
type QueueEntry struct {
	Snapshot        customer.RiskSnapshot `json:"snapshot"`
	Priority        int                   `json:"priority"`
	UrgencyScore    int                   `json:"urgency_score"`
	QueuedAt        time.Time             `json:"queued_at"`
	LastContactedAt *time.Time            `json:"last_contacted_at,omitempty"`
	ContactAttempts int                   `json:"contact_attempts"`
}

// SessionStatus tracks the lifecycle of an active conversation.
type SessionStatus string

const (
	SessionActive    SessionStatus = "active"
	SessionCompleted SessionStatus = "completed"
)

// ActiveSession is one in-flight conversation. At most one per customer.
type ActiveSession struct {
	SessionID    string        `json:"session_id"`
	CustomerID   string        `json:"customer_id"`
	CustomerName string        `json:"customer_name"`
	StartedAt    time.Time     `json:"started_at"`
	Status       SessionStatus `json:"status"`
}

// Config is the scheduler's hot-swappable configuration. Updates are
// whole-struct merges applied between ticks.
type Config struct {
	Enabled                 bool `json:"enabled"`
	TickIntervalMs          int  `json:"tick_interval_ms"`
	MaxConcurrentSessions   int  `json:"max_concurrent_sessions"`
	MaxContactsPerDay       int  `json:"max_contacts_per_day"`
	MinHoursBetweenContacts int  `json:"min_hours_between_contacts"`
	QuietHoursStart         int  `json:"quiet_hours_start"`
	QuietHoursEnd           int  `json:"quiet_hours_end"`

	// Location anchors the quiet-hours clock. Nil means UTC.
	Location *time.Location `json:"-"`
}

// TickInterval returns the tick period as a duration.
func (c Config) TickInterval() time.Duration {
	return time.Duration(c.TickIntervalMs) * time.Millisecond
}

// Validate rejects configurations the scheduler cannot run with.
func (c Config) Validate() error {
	if c.TickIntervalMs <= 0 {
		return fmt.Errorf("outreach: tick interval must be positive, got %dms", c.TickIntervalMs)
	}
	if c.MaxConcurrentSessions <= 0 {
		return fmt.Errorf("outreach: max concurrent sessions must be positive, got %d", c.MaxConcurrentSessions)
	}
	if c.MaxContactsPerDay <= 0 {
		return fmt.Errorf("outreach: max contacts per day must be positive, got %d", c.MaxContactsPerDay)
	}
	if c.MinHoursBetweenContacts < 0 {
		return fmt.Errorf("outreach: min hours between contacts must not be negative, got %d", c.MinHoursBetweenContacts)
	}
	if c.QuietHoursStart < 0 || c.QuietHoursStart > 23 {
		return fmt.Errorf("outreach: quiet hours start must be an hour of day, got %d", c.QuietHoursStart)
	}
	if c.QuietHoursEnd < 0 || c.QuietHoursEnd > 23 {
		return fmt.Errorf("outreach: quiet hours end must be an hour of day, got %d", c.QuietHoursEnd)
	}
	return nil
}

// ConfigPatch is a partial configuration update. Nil fields keep their
// current values.
type ConfigPatch struct {
	Enabled                 *bool `json:"enabled,omitempty"`
	TickIntervalMs          *int  `json:"tick_interval_ms,omitempty"`
	MaxConcurrentSessions   *int  `json:"max_concurrent_sessions,omitempty"`
	MaxContactsPerDay       *int  `json:"max_contacts_per_day,omitempty"`
	MinHoursBetweenContacts *int  `json:"min_hours_between_contacts,omitempty"`
	QuietHoursStart         *int  `json:"quiet_hours_start,omitempty"`
	QuietHoursEnd           *int  `json:"quiet_hours_end,omitempty"`
}

// Apply merges the patch onto cfg and returns the result.
func (p ConfigPatch) Apply(cfg Config) Config {
	if p.Enabled != nil {
		cfg.Enabled = *p.Enabled
	}
	if p.TickIntervalMs != nil {
		cfg.TickIntervalMs = *p.TickIntervalMs
	}
	if p.MaxConcurrentSessions != nil {
		cfg.MaxConcurrentSessions = *p.MaxConcurrentSessions
	}
	if p.MaxContactsPerDay != nil {
		cfg.MaxContactsPerDay = *p.MaxContactsPerDay
	}
	if p.MinHoursBetweenContacts != nil {
		cfg.MinHoursBetweenContacts = *p.MinHoursBetweenContacts
	}
	if p.QuietHoursStart != nil {
		cfg.QuietHoursStart = *p.QuietHoursStart
	}
	if p.QuietHoursEnd != nil {
		cfg.QuietHoursEnd = *p.QuietHoursEnd
	}
	return cfg
}

// Status is a read-only view of the engine for status reporting.
type Status struct {
	Queue               []QueueEntry    `json:"queue"`
	ActiveSessions      []ActiveSession `json:"active_sessions"`
	Config              Config          `json:"config"`
	QueueLength         int             `json:"queue_length"`
	ActiveSessionsCount int             `json:"active_sessions_count"`
	AvailableSlots      int             `json:"available_slots"`
	IsProcessingActive  bool            `json:"is_processing_active"`
}
