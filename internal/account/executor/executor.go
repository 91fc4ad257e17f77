// Package executor removes a verified identity and its dependents. The
// orchestrator treats Run as one logical unit; internally it re-resolves the
// principal, anonymizes compliance-retained records, then deletes the
// authentication record and lets storage-level cascade do the rest.
package executor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/BikashBaishnab/horibol-website-sub000/internal/identity"
	"github.com/BikashBaishnab/horibol-website-sub000/pkg/platform/sentinel"
)

// Executor drives the cascading deletion through the identity directory.
type Executor struct {
	directory identity.Directory
	logger    *slog.Logger
	tracer    trace.Tracer
}

func New(directory identity.Directory, logger *slog.Logger, tracer trace.Tracer) *Executor {
	return &Executor{directory: directory, logger: logger, tracer: tracer}
}

// Run deletes the principal owning the identifier. The identifier is
// re-resolved here rather than reusing the lookup from issuance time, so the
// cascade never acts on stale state. An unresolvable principal means someone
// else already finished the job: idempotent success.
func (e *Executor) Run(ctx context.Context, normalized string) error {
	ctx, span := e.tracer.Start(ctx, "deletion.cascade")
	defer span.End()

	principal, err := e.directory.Resolve(ctx, normalized)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			e.logger.InfoContext(ctx, "principal already deleted, treating cascade as complete",
				"identifier", normalized,
			)
			span.SetAttributes(attribute.Bool("deletion.already_complete", true))
			return nil
		}
		return fmt.Errorf("resolve principal: %w", err)
	}

	// Anonymize before deleting: retained records must lose their contact
	// details while the principal id still resolves.
	if err := e.directory.Anonymize(ctx, principal.ID); err != nil {
		return fmt.Errorf("anonymize retained records: %w", err)
	}

	if err := e.directory.DeletePrincipal(ctx, principal.ID); err != nil {
		return fmt.Errorf("delete principal: %w", err)
	}

	e.logger.InfoContext(ctx, "principal deleted",
		"identifier", normalized,
		"principal_id", principal.ID,
	)
	return nil
}
