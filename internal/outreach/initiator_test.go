package outreach

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/resolvepay/resolvepay-platform/internal/customer"
	"github.com/resolvepay/resolvepay-platform/internal/session"
)

func TestPaymentIssueLabel(t *testing.T) {
	assert.Equal(t, "card-expiring-soon", PaymentIssueLabel(customer.RiskExpiringCard))
	assert.Equal(t, "multiple-payment-failures", PaymentIssueLabel(customer.RiskMultipleFailures))
	assert.Equal(t, "payment-failure", PaymentIssueLabel(customer.RiskFailedPayment))
	assert.Equal(t, "payment-failure", PaymentIssueLabel("anything-else"))
}

func TestInitiatorOpen(t *testing.T) {
	store := &fakeSessionStore{}
	gen := &fakeGenerator{body: "Hi Ana, about your payment."}
	init := NewInitiator(gen, store, nil, nil)
	now := utcTime(time.June, 15, 12)

	snap := failedPaymentSnapshot("cust-1", 0)
	sess, msg, err := init.Open(context.Background(), snap, now)
	require.NoError(t, err)

	assert.Equal(t, "cust-1", sess.CustomerID)
	assert.Equal(t, "payment-failure", sess.PaymentIssue)
	assert.Equal(t, session.StatusActive, sess.Status)
	assert.Equal(t, now, sess.StartedAt)

	assert.Equal(t, sess.ID, msg.SessionID)
	assert.Equal(t, session.RoleAssistant, msg.Role)
	assert.Equal(t, "Hi Ana, about your payment.", msg.Body)
	assert.False(t, msg.FallbackUsed)
	assert.NotEmpty(t, msg.ID)

	require.Len(t, store.sessions, 1)
	require.Len(t, store.messages, 1)
}

func TestInitiatorOpenFallbackOnGeneratorError(t *testing.T) {
	store := &fakeSessionStore{}
	gen := &fakeGenerator{err: errors.New("timeout")}
	init := NewInitiator(gen, store, nil, nil)

	snap := failedPaymentSnapshot("cust-1", 0)
	_, msg, err := init.Open(context.Background(), snap, utcTime(time.June, 15, 12))
	require.NoError(t, err)

	assert.True(t, msg.FallbackUsed)
	assert.Equal(t, FallbackGreeting(snap.Name, snap.Provider), msg.Body)
}

func TestInitiatorOpenFallbackOnEmptyBody(t *testing.T) {
	store := &fakeSessionStore{}
	init := NewInitiator(&fakeGenerator{body: ""}, store, nil, nil)

	snap := failedPaymentSnapshot("cust-1", 0)
	_, msg, err := init.Open(context.Background(), snap, utcTime(time.June, 15, 12))
	require.NoError(t, err)
	assert.True(t, msg.FallbackUsed)
	assert.NotEmpty(t, msg.Body)
}

func TestInitiatorOpenSessionPersistFailureAborts(t *testing.T) {
	store := &fakeSessionStore{createErr: errors.New("db down")}
	init := NewInitiator(&fakeGenerator{body: "hi"}, store, nil, nil)

	_, _, err := init.Open(context.Background(), failedPaymentSnapshot("cust-1", 0), utcTime(time.June, 15, 12))
	assert.Error(t, err)
	assert.Empty(t, store.messages)
}

func TestInitiatorOpenMessagePersistFailureContinues(t *testing.T) {
	store := &fakeSessionStore{appendErr: errors.New("db down")}
	init := NewInitiator(&fakeGenerator{body: "hi"}, store, nil, nil)

	sess, msg, err := init.Open(context.Background(), failedPaymentSnapshot("cust-1", 0), utcTime(time.June, 15, 12))
	require.NoError(t, err)
	assert.NotEmpty(t, sess.ID)
	assert.Equal(t, "hi", msg.Body)
	require.Len(t, store.sessions, 1)
}
