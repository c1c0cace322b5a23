package customer

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DB abstracts the pgx query interface for testing.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Store reads customer risk data from the system of record.
type Store struct {
	db DB
}

// NewStore creates a customer store.
func NewStore(db DB) *Store {
	return &Store{db: db}
}

// ListAtRisk returns snapshots for all customers currently flagged as requiring
// attention, the bulk read consumed by queue reconciliation.
func (s *Store) ListAtRisk(ctx context.Context) ([]RiskSnapshot, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, name, provider, account_value_cents, risk_category, risk_severity,
		       last_billing_at, next_billing_at, failure_count, last_failure_at,
		       card_expiry_year, card_expiry_month, intervention_history
		FROM customers
		WHERE requires_attention = TRUE
		ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("customer: list at risk: %w", err)
	}
	defer rows.Close()
	return scanSnapshots(rows)
}

func scanSnapshots(rows pgx.Rows) ([]RiskSnapshot, error) {
	var snapshots []RiskSnapshot
	for rows.Next() {
		var (
			snap        RiskSnapshot
			expiryMonth int
			history     []byte
		)
		if err := rows.Scan(
			&snap.ID, &snap.Name, &snap.Provider, &snap.AccountValueCents,
			&snap.RiskCategory, &snap.RiskSeverity, &snap.LastBillingAt,
			&snap.NextBillingAt, &snap.FailureCount, &snap.LastFailureAt,
			&snap.CardExpiryYear, &expiryMonth, &history,
		); err != nil {
			return nil, fmt.Errorf("customer: scan snapshot: %w", err)
		}
		snap.CardExpiryMonth = time.Month(expiryMonth)
		if len(history) > 0 {
			if err := json.Unmarshal(history, &snap.History); err != nil {
				return nil, fmt.Errorf("customer: decode history for %s: %w", snap.ID, err)
			}
		}
		snap.ServiceCategory = ResolveServiceCategory(snap.Provider)
		snapshots = append(snapshots, snap)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("customer: iterate snapshots: %w", err)
	}
	return snapshots, nil
}
