package outreach

import (
	"sort"
	"time"

	"github.com/resolvepay/resolvepay-platform/internal/customer"
)

// Queue is the ordered in-memory collection of customers awaiting contact.
// It is not safe for concurrent use; the engine serializes access behind its
// own mutex.
type Queue struct {
	entries map[string]*QueueEntry
}

// NewQueue creates an empty outreach queue.
func NewQueue() *Queue {
	return &Queue{entries: make(map[string]*QueueEntry)}
}

// Len returns the number of queued customers.
func (q *Queue) Len() int {
	return len(q.entries)
}

// Get returns the entry for a customer, or nil when absent.
func (q *Queue) Get(customerID string) *QueueEntry {
	return q.entries[customerID]
}

// Upsert inserts a new entry for the snapshot or refreshes the existing one.
// Priority, urgency and the snapshot are always recomputed; queuedAt,
// lastContactedAt and contactAttempts are preserved on update.
func (q *Queue) Upsert(snap customer.RiskSnapshot, now time.Time) *QueueEntry {
	if entry, ok := q.entries[snap.ID]; ok {
		entry.Snapshot = snap
		entry.Priority = Priority(snap, now)
		entry.UrgencyScore = UrgencyScore(snap, now)
		return entry
	}
	entry := &QueueEntry{
		Snapshot:     snap,
		Priority:     Priority(snap, now),
		UrgencyScore: UrgencyScore(snap, now),
		QueuedAt:     now,
	}
	q.entries[snap.ID] = entry
	return entry
}

// Remove drops a customer's entry, resetting all of its contact bookkeeping.
func (q *Queue) Remove(customerID string) bool {
	if _, ok := q.entries[customerID]; !ok {
		return false
	}
	delete(q.entries, customerID)
	return true
}

// ReconcileResult summarizes a bulk refresh.
type ReconcileResult struct {
	Added   int `json:"added"`
	Updated int `json:"updated"`
	Removed int `json:"removed"`
	Skipped int `json:"skipped"`
}

// Reconcile diffs the queue against a full read of at-risk customers: entries
// whose customer no longer satisfies the trigger predicate are dropped, and
// every customer that does satisfy it is upserted. Malformed snapshots are
// skipped, never fatal.
func (q *Queue) Reconcile(snaps []customer.RiskSnapshot, now time.Time) ReconcileResult {
	var result ReconcileResult

	triggering := make(map[string]customer.RiskSnapshot, len(snaps))
	for _, snap := range snaps {
		if err := snap.Validate(); err != nil {
			result.Skipped++
			continue
		}
		if ShouldTrigger(snap, now) {
			triggering[snap.ID] = snap
		}
	}

	for id := range q.entries {
		if _, ok := triggering[id]; !ok {
			delete(q.entries, id)
			result.Removed++
		}
	}

	for _, snap := range triggering {
		if _, exists := q.entries[snap.ID]; exists {
			result.Updated++
		} else {
			result.Added++
		}
		q.Upsert(snap, now)
	}

	return result
}

// ordered returns live entry references sorted by descending priority, with
// older enqueue times winning ties. The engine walks this during a tick.
func (q *Queue) ordered() []*QueueEntry {
	entries := make([]*QueueEntry, 0, len(q.entries))
	for _, entry := range q.entries {
		entries = append(entries, entry)
	}
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Priority != entries[j].Priority {
			return entries[i].Priority > entries[j].Priority
		}
		return entries[i].QueuedAt.Before(entries[j].QueuedAt)
	})
	return entries
}

// Snapshot returns an ordered copy of the queue for status reporting.
func (q *Queue) Snapshot() []QueueEntry {
	ordered := q.ordered()
	out := make([]QueueEntry, len(ordered))
	for i, entry := range ordered {
		out[i] = *entry
	}
	return out
}
