// Package store persists deletion requests. Stores are interface-driven so
// the orchestrator can run against in-memory state in tests and PostgreSQL
// in production without rewiring.
package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/BikashBaishnab/horibol-website-sub000/internal/account/models"
)

// Store is pure I/O over deletion request rows. Eligibility rules live in
// the service; the store only answers "most recent pending, non-expired".
type Store interface {
	// Create persists a new pending request.
	Create(ctx context.Context, req *models.DeletionRequest) error

	// LatestEligible returns the row with the greatest CreatedAt among rows
	// for identifier with status=pending and OTPExpiresAt >= now.
	// Returns sentinel.ErrNotFound (possibly wrapped) when no row qualifies.
	LatestEligible(ctx context.Context, identifier string, now time.Time) (*models.DeletionRequest, error)

	// MarkSuperseded transitions all pending rows for identifier to
	// superseded and reports how many rows changed. Called at issuance time
	// so only the newest code is ever confirmable.
	MarkSuperseded(ctx context.Context, identifier string) (int, error)

	// MarkCompleted transitions a row to completed and stamps VerifiedAt.
	// Completing an already-completed row is a no-op, which keeps concurrent
	// confirms of the same code convergent.
	MarkCompleted(ctx context.Context, id uuid.UUID, verifiedAt time.Time) error

	// ListByIdentifier returns the full issuance history for an identifier,
	// newest first. Used by the admin surface.
	ListByIdentifier(ctx context.Context, identifier string) ([]*models.DeletionRequest, error)
}
