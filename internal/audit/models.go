// Package audit records the deletion flow's lifecycle events. Events are
// append-only; the admin surface reads them back per identifier, and an
// optional Kafka publisher mirrors them onto the platform audit stream.
package audit

import (
	"time"

	"github.com/google/uuid"
)

// Action names a lifecycle event.
type Action string

const (
	ActionDeletionRequested Action = "deletion_requested"
	ActionOTPDispatched     Action = "otp_dispatched"
	ActionOTPDispatchFailed Action = "otp_dispatch_failed"
	ActionOTPVerifyFailed   Action = "otp_verify_failed"
	ActionAccountDeleted    Action = "account_deleted"
)

// Event is one audit record.
type Event struct {
	ID         uuid.UUID
	Action     Action
	Identifier string
	Channel    string // delivery channel when relevant, empty otherwise
	Device     string // requesting device description, may be empty
	Detail     string // short free-text context (failure reason etc.)
	Timestamp  time.Time
}
