package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/BikashBaishnab/horibol-website-sub000/internal/account/models"
	"github.com/BikashBaishnab/horibol-website-sub000/pkg/platform/sentinel"
)

// PostgresStore persists deletion requests in PostgreSQL. Rows are
// append-plus-status-transition only; nothing is ever deleted.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Schema is applied by deploy tooling and by integration tests.
const Schema = `
CREATE TABLE IF NOT EXISTS deletion_requests (
	id             UUID PRIMARY KEY,
	identifier     TEXT NOT NULL,
	reason         TEXT NOT NULL DEFAULT '',
	otp_hash       TEXT NOT NULL,
	otp_expires_at TIMESTAMPTZ NOT NULL,
	status         TEXT NOT NULL DEFAULT 'pending',
	channel        TEXT NOT NULL,
	device         TEXT NOT NULL DEFAULT '',
	created_at     TIMESTAMPTZ NOT NULL,
	verified_at    TIMESTAMPTZ
);
CREATE INDEX IF NOT EXISTS idx_deletion_requests_identifier
	ON deletion_requests (identifier, status, created_at DESC);
`

func (s *PostgresStore) Create(ctx context.Context, req *models.DeletionRequest) error {
	query := `
		INSERT INTO deletion_requests
			(id, identifier, reason, otp_hash, otp_expires_at, status, channel, device, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := s.db.ExecContext(ctx, query,
		req.ID,
		req.Identifier,
		req.Reason,
		req.OTPHash,
		req.OTPExpiresAt,
		req.Status,
		req.Channel,
		req.Device,
		req.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create deletion request: %w", err)
	}
	return nil
}

func (s *PostgresStore) LatestEligible(ctx context.Context, identifier string, now time.Time) (*models.DeletionRequest, error) {
	query := `
		SELECT id, identifier, reason, otp_hash, otp_expires_at, status, channel, device, created_at, verified_at
		FROM deletion_requests
		WHERE identifier = $1 AND status = 'pending' AND otp_expires_at >= $2
		ORDER BY created_at DESC
		LIMIT 1
	`
	req, err := scanDeletionRequest(s.db.QueryRowContext(ctx, query, identifier, now))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("latest eligible deletion request: %w", err)
	}
	return req, nil
}

func (s *PostgresStore) MarkSuperseded(ctx context.Context, identifier string) (int, error) {
	query := `
		UPDATE deletion_requests
		SET status = 'superseded'
		WHERE identifier = $1 AND status = 'pending'
	`
	result, err := s.db.ExecContext(ctx, query, identifier)
	if err != nil {
		return 0, fmt.Errorf("mark superseded: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("mark superseded rows affected: %w", err)
	}
	return int(rows), nil
}

// MarkCompleted is deliberately idempotent: a second confirm racing on the
// same row matches zero rows and still returns nil.
func (s *PostgresStore) MarkCompleted(ctx context.Context, id uuid.UUID, verifiedAt time.Time) error {
	query := `
		UPDATE deletion_requests
		SET status = 'completed', verified_at = $2
		WHERE id = $1 AND status = 'pending'
	`
	if _, err := s.db.ExecContext(ctx, query, id, verifiedAt); err != nil {
		return fmt.Errorf("mark completed: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListByIdentifier(ctx context.Context, identifier string) ([]*models.DeletionRequest, error) {
	query := `
		SELECT id, identifier, reason, otp_hash, otp_expires_at, status, channel, device, created_at, verified_at
		FROM deletion_requests
		WHERE identifier = $1
		ORDER BY created_at DESC
	`
	rows, err := s.db.QueryContext(ctx, query, identifier)
	if err != nil {
		return nil, fmt.Errorf("list deletion requests: %w", err)
	}
	defer rows.Close()

	var out []*models.DeletionRequest
	for rows.Next() {
		req, err := scanDeletionRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("scan deletion request: %w", err)
		}
		out = append(out, req)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate deletion requests: %w", err)
	}
	return out, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDeletionRequest(row rowScanner) (*models.DeletionRequest, error) {
	var req models.DeletionRequest
	var verifiedAt sql.NullTime
	err := row.Scan(
		&req.ID,
		&req.Identifier,
		&req.Reason,
		&req.OTPHash,
		&req.OTPExpiresAt,
		&req.Status,
		&req.Channel,
		&req.Device,
		&req.CreatedAt,
		&verifiedAt,
	)
	if err != nil {
		return nil, err
	}
	if verifiedAt.Valid {
		req.VerifiedAt = &verifiedAt.Time
	}
	return &req, nil
}
