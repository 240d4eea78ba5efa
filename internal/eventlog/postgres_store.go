package eventlog

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// PostgresStore persists event log entries in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore creates a PostgreSQL-backed event store.
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Migrate creates the gate_events table if it doesn't exist.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS gate_events (
			id       VARCHAR(36) PRIMARY KEY,
			outcome  VARCHAR(10) NOT NULL CHECK (outcome IN ('connect', 'submit', 'discard', 'confirm', 'reject', 'error')),
			message  TEXT NOT NULL,
			at       TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);

		CREATE INDEX IF NOT EXISTS idx_gate_events_recent
			ON gate_events (at DESC);
	`)
	return err
}

func (s *PostgresStore) Append(ctx context.Context, entry *Entry) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO gate_events (id, outcome, message, at)
		VALUES ($1, $2, $3, $4)
	`,
		entry.ID,
		string(entry.Outcome),
		entry.Message,
		entry.At,
	)
	if err != nil {
		return fmt.Errorf("failed to append gate event: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListRecent(ctx context.Context, limit int) ([]*Entry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, outcome, message, at
		FROM gate_events
		ORDER BY at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list gate events: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var result []*Entry
	for rows.Next() {
		var e Entry
		var at time.Time
		if err := rows.Scan(&e.ID, &e.Outcome, &e.Message, &at); err != nil {
			continue
		}
		e.At = at
		result = append(result, &e)
	}
	return result, nil
}
