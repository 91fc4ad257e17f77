package audit

import (
	"context"
	"database/sql"
	"fmt"
)

// PostgresStore persists audit events next to the deletion requests.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Schema is applied by deploy tooling and by integration tests.
const Schema = `
CREATE TABLE IF NOT EXISTS deletion_audit_events (
	id         UUID PRIMARY KEY,
	action     TEXT NOT NULL,
	identifier TEXT NOT NULL,
	channel    TEXT NOT NULL DEFAULT '',
	device     TEXT NOT NULL DEFAULT '',
	detail     TEXT NOT NULL DEFAULT '',
	ts         TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_deletion_audit_identifier
	ON deletion_audit_events (identifier, ts DESC);
`

func (s *PostgresStore) Append(ctx context.Context, event Event) error {
	query := `
		INSERT INTO deletion_audit_events (id, action, identifier, channel, device, detail, ts)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := s.db.ExecContext(ctx, query,
		event.ID,
		event.Action,
		event.Identifier,
		event.Channel,
		event.Device,
		event.Detail,
		event.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("append audit event: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListByIdentifier(ctx context.Context, identifier string) ([]Event, error) {
	query := `
		SELECT id, action, identifier, channel, device, detail, ts
		FROM deletion_audit_events
		WHERE identifier = $1
		ORDER BY ts DESC
	`
	rows, err := s.db.QueryContext(ctx, query, identifier)
	if err != nil {
		return nil, fmt.Errorf("list audit events: %w", err)
	}
	defer rows.Close()

	var out []Event
	for rows.Next() {
		var e Event
		if err := rows.Scan(&e.ID, &e.Action, &e.Identifier, &e.Channel, &e.Device, &e.Detail, &e.Timestamp); err != nil {
			return nil, fmt.Errorf("scan audit event: %w", err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate audit events: %w", err)
	}
	return out, nil
}
