package outreach

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/resolvepay/resolvepay-platform/internal/customer"
	"github.com/resolvepay/resolvepay-platform/internal/events"
	"github.com/resolvepay/resolvepay-platform/internal/observability/metrics"
	"github.com/resolvepay/resolvepay-platform/pkg/logging"
)

// CustomerSource is the system of record for customers requiring attention.
type CustomerSource interface {
	ListAtRisk(ctx context.Context) ([]customer.RiskSnapshot, error)
}

// EventSink receives engine lifecycle events, fire-and-forget.
type EventSink interface {
	Emit(event string, payload any)
}

// Deps wires an Engine's collaborators.
type Deps struct {
	Customers CustomerSource
	Generator MessageGenerator
	Sessions  SessionStore
	Sink      EventSink
	Logger    *logging.Logger
	Metrics   *metrics.OutreachMetrics
	Config    Config

	// Clock overrides time.Now, for tests.
	Clock func() time.Time
}

// Engine is the outreach scheduling engine: a periodic driver over the queue,
// throttle and session capacity. One mutex guards queue, active sessions and
// config as a single unit; every tick and every exposed operation serializes
// through it.
type Engine struct {
	mu       sync.Mutex
	queue    *Queue
	sessions map[string]ActiveSession
	cfg      Config
	running  bool
	stopCh   chan struct{}

	customers CustomerSource
	initiator *Initiator
	sink      EventSink
	logger    *logging.Logger
	metrics   *metrics.OutreachMetrics
	clock     func() time.Time
}

// NewEngine creates a stopped engine with the given dependencies.
func NewEngine(deps Deps) (*Engine, error) {
	if deps.Customers == nil {
		return nil, errors.New("outreach: customer source is required")
	}
	if deps.Generator == nil {
		return nil, errors.New("outreach: message generator is required")
	}
	if deps.Sessions == nil {
		return nil, errors.New("outreach: session store is required")
	}
	if err := deps.Config.Validate(); err != nil {
		return nil, err
	}
	logger := deps.Logger
	if logger == nil {
		logger = logging.Default()
	}
	sink := deps.Sink
	if sink == nil {
		sink = events.NewLogSink(logger)
	}
	clock := deps.Clock
	if clock == nil {
		clock = time.Now
	}
	return &Engine{
		queue:     NewQueue(),
		sessions:  make(map[string]ActiveSession),
		cfg:       deps.Config,
		customers: deps.Customers,
		initiator: NewInitiator(deps.Generator, deps.Sessions, logger, deps.Metrics),
		sink:      sink,
		logger:    logger,
		metrics:   deps.Metrics,
		clock:     clock,
	}, nil
}

// Start transitions the engine to Running and begins ticking on the
// configured interval. Calling Start while already running replaces the
// previous ticker; there is never more than one.
func (e *Engine) Start() {
	e.mu.Lock()
	if e.running {
		close(e.stopCh)
	}
	e.cfg.Enabled = true
	e.running = true
	stopCh := make(chan struct{})
	e.stopCh = stopCh
	interval := e.cfg.TickInterval()
	now := e.clock()
	e.mu.Unlock()

	go e.loop(interval, stopCh)

	e.logger.Info("outreach: autonomous mode started", "tick_interval", interval)
	e.sink.Emit(events.ModeStarted, events.ModeChangedV1{
		EventID:   uuid.NewString(),
		Running:   true,
		ChangedAt: now,
	})
}

// Stop cancels the ticker. A tick already in progress runs to completion;
// only future ticks are prevented.
func (e *Engine) Stop() {
	e.mu.Lock()
	if !e.running {
		e.mu.Unlock()
		return
	}
	close(e.stopCh)
	e.stopCh = nil
	e.running = false
	e.cfg.Enabled = false
	now := e.clock()
	e.mu.Unlock()

	e.logger.Info("outreach: autonomous mode stopped")
	e.sink.Emit(events.ModeStopped, events.ModeChangedV1{
		EventID:   uuid.NewString(),
		Running:   false,
		ChangedAt: now,
	})
}

func (e *Engine) loop(interval time.Duration, stopCh chan struct{}) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-stopCh:
			return
		case <-ticker.C:
			e.Tick(context.Background())
		}
	}
}

// Tick runs one pass of the scheduling loop: capacity check, ordered queue
// walk, throttle evaluation, sequential session initiation. Ticks never
// overlap; the loop goroutine runs them one at a time and every entry point
// shares the engine mutex.
func (e *Engine) Tick(ctx context.Context) {
	e.mu.Lock()
	defer e.mu.Unlock()

	now := e.clock()
	e.metrics.SetQueueDepth(e.queue.Len())
	e.metrics.SetActiveSessions(len(e.sessions))

	if !e.cfg.Enabled {
		e.metrics.ObserveTick("disabled")
		return
	}
	if InQuietHours(e.cfg, now) {
		e.metrics.ObserveTick("quiet-hours")
		e.logger.Debug("outreach: tick skipped, quiet hours")
		return
	}

	slots := e.cfg.MaxConcurrentSessions - len(e.sessions)
	if slots <= 0 {
		e.metrics.ObserveTick("no-capacity")
		e.logger.Debug("outreach: tick skipped, no session capacity",
			"active_sessions", len(e.sessions))
		return
	}

	admitted := 0
	for _, entry := range e.queue.ordered() {
		if admitted >= slots {
			break
		}
		_, sessionActive := e.sessions[entry.Snapshot.ID]
		decision := CanContact(*entry, e.cfg, sessionActive, now)
		if !decision.Allowed {
			e.metrics.ObserveDenial(decision.Reason)
			continue
		}
		if err := e.initiate(ctx, entry, now); err != nil {
			// One candidate failing must not block the rest of the tick.
			e.logger.Error("outreach: initiation failed",
				"customer_id", entry.Snapshot.ID, "error", err)
			continue
		}
		admitted++
	}

	e.metrics.ObserveTick("ok")
	e.metrics.SetActiveSessions(len(e.sessions))
	if admitted > 0 {
		e.logger.Info("outreach: tick admitted sessions", "admitted", admitted, "slots", slots)
	}
}

// initiate opens a session for an approved entry, registers it and updates
// queue bookkeeping. Caller holds the mutex.
func (e *Engine) initiate(ctx context.Context, entry *QueueEntry, now time.Time) error {
	sess, msg, err := e.initiator.Open(ctx, entry.Snapshot, now)
	if err != nil {
		return err
	}

	e.sessions[sess.CustomerID] = ActiveSession{
		SessionID:    sess.ID,
		CustomerID:   sess.CustomerID,
		CustomerName: sess.CustomerName,
		StartedAt:    now,
		Status:       SessionActive,
	}

	// Bookkeeping is identical on both message paths: a failed generation
	// must not cause the customer to be retried on the very next tick.
	entry.ContactAttempts++
	contactedAt := now
	entry.LastContactedAt = &contactedAt

	e.metrics.ObserveAdmission()
	e.logger.Info("outreach: contact initiated",
		"session_id", sess.ID,
		"customer_id", sess.CustomerID,
		"priority", entry.Priority,
		"attempt", entry.ContactAttempts,
		"fallback", msg.FallbackUsed,
	)
	e.sink.Emit(events.ContactInitiated, events.ContactInitiatedV1{
		EventID:         uuid.NewString(),
		SessionID:       sess.ID,
		CustomerID:      sess.CustomerID,
		CustomerName:    sess.CustomerName,
		Provider:        sess.Provider,
		PaymentIssue:    sess.PaymentIssue,
		Priority:        entry.Priority,
		UrgencyScore:    entry.UrgencyScore,
		ContactAttempts: entry.ContactAttempts,
		OpeningMessage:  msg.Body,
		FallbackUsed:    msg.FallbackUsed,
		InitiatedAt:     now,
	})
	return nil
}

// Refresh reconciles the queue. When snaps is nil the customer source of
// truth is consulted.
func (e *Engine) Refresh(ctx context.Context, snaps []customer.RiskSnapshot) (ReconcileResult, error) {
	if snaps == nil {
		var err error
		snaps, err = e.customers.ListAtRisk(ctx)
		if err != nil {
			return ReconcileResult{}, fmt.Errorf("outreach: refresh: %w", err)
		}
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	result := e.queue.Reconcile(snaps, e.clock())
	e.metrics.SetQueueDepth(e.queue.Len())
	e.logger.Info("outreach: queue reconciled",
		"added", result.Added, "updated", result.Updated,
		"removed", result.Removed, "skipped", result.Skipped,
		"queue_length", e.queue.Len(),
	)
	return result, nil
}

// UpdateConfig merges a partial update into the scheduler config. Invalid
// values are rejected and the prior config is retained.
func (e *Engine) UpdateConfig(patch ConfigPatch) (Config, error) {
	e.mu.Lock()
	next := patch.Apply(e.cfg)
	if err := next.Validate(); err != nil {
		e.mu.Unlock()
		return Config{}, err
	}
	e.cfg = next
	cfg := e.cfg
	now := e.clock()
	e.mu.Unlock()

	e.logger.Info("outreach: config updated",
		"enabled", cfg.Enabled,
		"tick_interval_ms", cfg.TickIntervalMs,
		"max_concurrent_sessions", cfg.MaxConcurrentSessions,
	)
	e.sink.Emit(events.ConfigUpdated, events.ConfigUpdatedV1{
		EventID:                 uuid.NewString(),
		Enabled:                 cfg.Enabled,
		TickIntervalMs:          cfg.TickIntervalMs,
		MaxConcurrentSessions:   cfg.MaxConcurrentSessions,
		MaxContactsPerDay:       cfg.MaxContactsPerDay,
		MinHoursBetweenContacts: cfg.MinHoursBetweenContacts,
		QuietHoursStart:         cfg.QuietHoursStart,
		QuietHoursEnd:           cfg.QuietHoursEnd,
		UpdatedAt:               now,
	})
	return cfg, nil
}

// RemoveCustomer force-drops a queue entry, e.g. a manual operator override.
func (e *Engine) RemoveCustomer(customerID string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	removed := e.queue.Remove(customerID)
	if removed {
		e.metrics.SetQueueDepth(e.queue.Len())
		e.logger.Info("outreach: customer removed from queue", "customer_id", customerID)
	}
	return removed
}

// CompleteSession signals a session's end, releasing its admission slot. The
// store update is best effort; the in-memory release always happens.
func (e *Engine) CompleteSession(ctx context.Context, sessionID string) bool {
	e.mu.Lock()
	var found bool
	for customerID, sess := range e.sessions {
		if sess.SessionID == sessionID {
			delete(e.sessions, customerID)
			found = true
			break
		}
	}
	e.metrics.SetActiveSessions(len(e.sessions))
	e.mu.Unlock()

	if !found {
		return false
	}
	if err := e.initiator.store.MarkCompleted(ctx, sessionID); err != nil {
		e.logger.Warn("outreach: session completion not persisted",
			"session_id", sessionID, "error", err)
	}
	e.logger.Info("outreach: session completed", "session_id", sessionID)
	return true
}

// Status returns a read-only view of the engine.
func (e *Engine) Status() Status {
	e.mu.Lock()
	defer e.mu.Unlock()

	now := e.clock()
	sessions := make([]ActiveSession, 0, len(e.sessions))
	for _, sess := range e.sessions {
		sessions = append(sessions, sess)
	}
	sort.Slice(sessions, func(i, j int) bool {
		if !sessions[i].StartedAt.Equal(sessions[j].StartedAt) {
			return sessions[i].StartedAt.Before(sessions[j].StartedAt)
		}
		return sessions[i].SessionID < sessions[j].SessionID
	})

	slots := e.cfg.MaxConcurrentSessions - len(sessions)
	if slots < 0 {
		slots = 0
	}
	return Status{
		Queue:               e.queue.Snapshot(),
		ActiveSessions:      sessions,
		Config:              e.cfg,
		QueueLength:         e.queue.Len(),
		ActiveSessionsCount: len(sessions),
		AvailableSlots:      slots,
		IsProcessingActive:  e.cfg.Enabled && !InQuietHours(e.cfg, now),
	}
}

// Running reports whether the scheduling loop is active.
func (e *Engine) Running() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.running
}
