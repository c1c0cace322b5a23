package outreach

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/resolvepay/resolvepay-platform/internal/customer"
	"github.com/resolvepay/resolvepay-platform/internal/observability/metrics"
	"github.com/resolvepay/resolvepay-platform/internal/session"
	"github.com/resolvepay/resolvepay-platform/pkg/logging"
)

// MessageGenerator produces the opening message for a new session. It may
// fail; the initiator degrades to a template greeting rather than aborting
// the contact.
type MessageGenerator interface {
	OpeningMessage(ctx context.Context, sess session.Session, snap customer.RiskSnapshot) (string, error)
}

// SessionStore persists sessions and their messages.
type SessionStore interface {
	CreateSession(ctx context.Context, sess session.Session) error
	AppendMessage(ctx context.Context, sessionID string, msg session.Message) error
	MarkCompleted(ctx context.Context, sessionID string) error
}

// PaymentIssueLabel maps a risk category to the issue label carried by
// sessions and prompts.
func PaymentIssueLabel(cat customer.RiskCategory) string {
	switch cat {
	case customer.RiskExpiringCard:
		return "card-expiring-soon"
	case customer.RiskMultipleFailures:
		return "multiple-payment-failures"
	default:
		return "payment-failure"
	}
}

// FallbackGreeting is the deterministic opening used when generation fails.
func FallbackGreeting(name, provider string) string {
	return fmt.Sprintf("Hello %s! This is %s. We had a problem with your payment — let's resolve it together?", name, provider)
}

// Initiator opens sessions: it synthesizes the session, requests an opening
// message, and persists both.
type Initiator struct {
	generator MessageGenerator
	store     SessionStore
	logger    *logging.Logger
	metrics   *metrics.OutreachMetrics
}

// NewInitiator creates a session initiator.
func NewInitiator(generator MessageGenerator, store SessionStore, logger *logging.Logger, m *metrics.OutreachMetrics) *Initiator {
	if logger == nil {
		logger = logging.Default()
	}
	return &Initiator{generator: generator, store: store, logger: logger, metrics: m}
}

// Open creates and persists a session with its opening message. Generation
// failures degrade to the fallback greeting; only a session-persistence
// failure aborts the contact.
func (i *Initiator) Open(ctx context.Context, snap customer.RiskSnapshot, now time.Time) (session.Session, session.Message, error) {
	started := time.Now()
	sess := session.Session{
		ID:           fmt.Sprintf("session-%s-%d", snap.ID, now.UnixMilli()),
		CustomerID:   snap.ID,
		CustomerName: snap.Name,
		Provider:     snap.Provider,
		PaymentIssue: PaymentIssueLabel(snap.RiskCategory),
		Status:       session.StatusActive,
		StartedAt:    now,
	}

	body, err := i.generator.OpeningMessage(ctx, sess, snap)
	fallbackUsed := false
	if err != nil || body == "" {
		if err != nil {
			i.logger.Warn("outreach: opening message generation failed, using fallback",
				"session_id", sess.ID, "customer_id", snap.ID, "error", err)
		}
		body = FallbackGreeting(snap.Name, snap.Provider)
		fallbackUsed = true
		i.metrics.ObserveFallback()
	}

	if err := i.store.CreateSession(ctx, sess); err != nil {
		return session.Session{}, session.Message{}, fmt.Errorf("outreach: persist session: %w", err)
	}

	msg := session.Message{
		ID:           uuid.NewString(),
		SessionID:    sess.ID,
		Role:         session.RoleAssistant,
		Body:         body,
		FallbackUsed: fallbackUsed,
		CreatedAt:    now,
	}
	if err := i.store.AppendMessage(ctx, sess.ID, msg); err != nil {
		// The session row exists and the customer will be greeted on their
		// next inbound; losing the stored copy of the opener is preferable to
		// re-contacting them on the next tick.
		i.logger.Error("outreach: persist opening message failed",
			"session_id", sess.ID, "customer_id", snap.ID, "error", err)
	}

	i.metrics.ObserveInitiation(time.Since(started).Seconds())
	return sess, msg, nil
}
