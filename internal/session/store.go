package session

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DB abstracts the pgx query interface for testing.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Store persists outreach sessions and their messages.
type Store struct {
	db DB
}

// NewStore creates a session store.
func NewStore(db DB) *Store {
	return &Store{db: db}
}

// CreateSession inserts a new session row.
func (s *Store) CreateSession(ctx context.Context, sess Session) error {
	if sess.Status == "" {
		sess.Status = StatusActive
	}
	_, err := s.db.Exec(ctx, `
		INSERT INTO outreach_sessions (id, customer_id, customer_name, provider, payment_issue, status, started_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		sess.ID, sess.CustomerID, sess.CustomerName, sess.Provider,
		sess.PaymentIssue, string(sess.Status), sess.StartedAt,
	)
	if err != nil {
		return fmt.Errorf("session: create: %w", err)
	}
	return nil
}

// AppendMessage inserts a message for a session, assigning an ID when absent.
func (s *Store) AppendMessage(ctx context.Context, sessionID string, msg Message) error {
	if msg.ID == "" {
		msg.ID = uuid.NewString()
	}
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now().UTC()
	}
	_, err := s.db.Exec(ctx, `
		INSERT INTO outreach_messages (id, session_id, role, body, fallback_used, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		msg.ID, sessionID, msg.Role, msg.Body, msg.FallbackUsed, msg.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("session: append message: %w", err)
	}
	return nil
}

// MarkCompleted transitions a session to completed.
func (s *Store) MarkCompleted(ctx context.Context, sessionID string) error {
	now := time.Now().UTC()
	tag, err := s.db.Exec(ctx, `
		UPDATE outreach_sessions SET status = $1, completed_at = $2 WHERE id = $3`,
		string(StatusCompleted), now, sessionID,
	)
	if err != nil {
		return fmt.Errorf("session: mark completed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("session: mark completed: %s not found", sessionID)
	}
	return nil
}
