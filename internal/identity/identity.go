// Package identity fronts the identity directory that owns the principal
// records. The deletion flow only needs four narrow operations; everything
// else about the directory (replication, referential cascade rules) stays
// behind this interface.
package identity

import "context"

// Principal is the directory's identity record, opaque to the deletion flow
// beyond its ID and contact points.
type Principal struct {
	ID    string
	Email string
	Phone string
}

// Directory is the collaborator interface consumed by the deletion core.
// DeletePrincipal must be idempotent: deleting an absent principal is not an
// error, which is what makes concurrent confirms safe.
type Directory interface {
	// Exists reports whether any principal matches the normalized identifier.
	Exists(ctx context.Context, identifier string) (bool, error)

	// Resolve maps a normalized identifier onto the owning principal.
	// Returns sentinel.ErrNotFound when no principal matches.
	Resolve(ctx context.Context, identifier string) (*Principal, error)

	// Anonymize scrubs contact details from compliance-retained records
	// (order history and the like) that survive the principal's deletion.
	Anonymize(ctx context.Context, principalID string) error

	// DeletePrincipal removes the authentication record. Dependent rows
	// cascade at the storage layer. Idempotent.
	DeletePrincipal(ctx context.Context, principalID string) error
}
