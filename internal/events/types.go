package events

import "time"

// Event names emitted by the outreach engine.
const (
	ContactInitiated = "contact-initiated"
	ModeStarted      = "autonomous-mode-started"
	ModeStopped      = "autonomous-mode-stopped"
	ConfigUpdated    = "config-updated"
)

// ContactInitiatedV1 announces a newly opened recovery conversation.
type ContactInitiatedV1 struct {
	EventID         string    `json:"event_id"`
	SessionID       string    `json:"session_id"`
	CustomerID      string    `json:"customer_id"`
	CustomerName    string    `json:"customer_name"`
	Provider        string    `json:"provider"`
	PaymentIssue    string    `json:"payment_issue"`
	Priority        int       `json:"priority"`
	UrgencyScore    int       `json:"urgency_score"`
	ContactAttempts int       `json:"contact_attempts"`
	OpeningMessage  string    `json:"opening_message"`
	FallbackUsed    bool      `json:"fallback_used"`
	InitiatedAt     time.Time `json:"initiated_at"`
}

// ModeChangedV1 announces the scheduling loop starting or stopping.
type ModeChangedV1 struct {
	EventID   string    `json:"event_id"`
	Running   bool      `json:"running"`
	ChangedAt time.Time `json:"changed_at"`
}

// ConfigUpdatedV1 carries the configuration now in effect.
type ConfigUpdatedV1 struct {
	EventID                 string    `json:"event_id"`
	Enabled                 bool      `json:"enabled"`
	TickIntervalMs          int       `json:"tick_interval_ms"`
	MaxConcurrentSessions   int       `json:"max_concurrent_sessions"`
	MaxContactsPerDay       int       `json:"max_contacts_per_day"`
	MinHoursBetweenContacts int       `json:"min_hours_between_contacts"`
	QuietHoursStart         int       `json:"quiet_hours_start"`
	QuietHoursEnd           int       `json:"quiet_hours_end"`
	UpdatedAt               time.Time `json:"updated_at"`
}

// Envelope is the wire form shared by all transport sinks.
type Envelope struct {
	Event     string    `json:"event"`
	EmittedAt time.Time `json:"emitted_at"`
	Payload   any       `json:"payload"`
}
