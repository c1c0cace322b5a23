package session

import "time"

// Status tracks a conversation's lifecycle in the store.
type Status string

const (
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
)

// Session is one persisted recovery conversation.
type Session struct {
	ID           string     `json:"id"`
	CustomerID   string     `json:"customer_id"`
	CustomerName string     `json:"customer_name"`
	Provider     string     `json:"provider"`
	PaymentIssue string     `json:"payment_issue"`
	Status       Status     `json:"status"`
	StartedAt    time.Time  `json:"started_at"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"`
}

// Role identifies who authored a message.
const (
	RoleAssistant = "assistant"
	RoleCustomer  = "customer"
)

// Message is one persisted chat message within a session.
type Message struct {
	ID           string    `json:"id"`
	SessionID    string    `json:"session_id"`
	Role         string    `json:"role"`
	Body         string    `json:"body"`
	FallbackUsed bool      `json:"fallback_used"`
	CreatedAt    time.Time `json:"created_at"`
}
