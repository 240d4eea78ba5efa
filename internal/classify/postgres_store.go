package classify

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

// PostgresStore persists classification records in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore creates a PostgreSQL-backed classification audit store.
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Migrate creates the classifications table if it doesn't exist.
// Production deployments run cmd/migrate instead; this keeps tests and
// single-binary setups working.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS classifications (
			id            VARCHAR(36) PRIMARY KEY,
			category      VARCHAR(20) NOT NULL,
			tone          VARCHAR(5) NOT NULL CHECK (tone IN ('warn', 'safe', 'info')),
			detail        TEXT NOT NULL DEFAULT '',
			request       JSONB NOT NULL DEFAULT '{}',
			classified_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);

		CREATE INDEX IF NOT EXISTS idx_classifications_recent
			ON classifications (classified_at DESC);
	`)
	return err
}

func (s *PostgresStore) Record(ctx context.Context, rec *Record) error {
	reqJSON, err := json.Marshal(rec.Request)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO classifications (id, category, tone, detail, request, classified_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`,
		rec.ID,
		string(rec.Classification.Category),
		string(rec.Classification.Tone),
		rec.Classification.Detail,
		reqJSON,
		rec.ClassifiedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to record classification: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListRecent(ctx context.Context, limit int) ([]*Record, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, category, tone, detail, request, classified_at
		FROM classifications
		ORDER BY classified_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list classifications: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var result []*Record
	for rows.Next() {
		var r Record
		var reqJSON []byte
		var classifiedAt time.Time

		if err := rows.Scan(&r.ID, &r.Classification.Category, &r.Classification.Tone, &r.Classification.Detail, &reqJSON, &classifiedAt); err != nil {
			continue
		}
		r.ClassifiedAt = classifiedAt
		_ = json.Unmarshal(reqJSON, &r.Request)
		result = append(result, &r)
	}
	return result, nil
}
