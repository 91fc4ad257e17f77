// Package models defines the account-deletion domain records.
package models

import (
	"time"

	"github.com/google/uuid"
)

// Status is the lifecycle of a deletion request. A request starts pending;
// issuing a newer code for the same identifier supersedes it; a successful
// verification completes it. Rows are never deleted, so the full history
// doubles as an audit trail.
type Status string

const (
	StatusPending    Status = "pending"
	StatusSuperseded Status = "superseded"
	StatusCompleted  Status = "completed"
)

// Channel is the delivery route for the one-time code.
type Channel string

const (
	ChannelChat  Channel = "chat"
	ChannelEmail Channel = "email"
)

// DeletionRequest is one issuance attempt. The plaintext code is never
// stored; only its digest.
type DeletionRequest struct {
	ID           uuid.UUID
	Identifier   string // normalized email or country-coded phone
	Reason       string // optional free text, informational only
	OTPHash      string
	OTPExpiresAt time.Time
	Status       Status
	Channel      Channel
	Device       string // requesting device description, informational
	CreatedAt    time.Time
	VerifiedAt   *time.Time
}

// Expired reports whether the code window has closed at the given instant.
func (r *DeletionRequest) Expired(now time.Time) bool {
	return r.OTPExpiresAt.Before(now)
}

// Eligible reports whether confirm may bind to this row: still pending and
// inside the expiry window.
func (r *DeletionRequest) Eligible(now time.Time) bool {
	return r.Status == StatusPending && !r.Expired(now)
}
