package executor

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"

	"github.com/BikashBaishnab/horibol-website-sub000/internal/identity"
)

func newExecutor(dir identity.Directory) *Executor {
	return New(dir, slog.New(slog.DiscardHandler), otel.Tracer("test"))
}

func TestRunDeletesPrincipal(t *testing.T) {
	ctx := context.Background()
	dir := identity.NewMemoryDirectory()
	dir.Add(identity.Principal{ID: "u-1", Email: "user@example.com", Phone: "919876543210"})

	err := newExecutor(dir).Run(ctx, "user@example.com")
	require.NoError(t, err)

	// Retained records were anonymized before the principal went away.
	assert.True(t, dir.Anonymized("u-1"))

	exists, err := dir.Exists(ctx, "user@example.com")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestRunIsIdempotent(t *testing.T) {
	ctx := context.Background()
	dir := identity.NewMemoryDirectory()
	dir.Add(identity.Principal{ID: "u-1", Email: "user@example.com"})

	ex := newExecutor(dir)
	require.NoError(t, ex.Run(ctx, "user@example.com"))

	// Second run resolves nothing and still succeeds.
	require.NoError(t, ex.Run(ctx, "user@example.com"))
}

type failingDirectory struct {
	*identity.MemoryDirectory
	anonymizeErr error
	deleteErr    error
}

func (d *failingDirectory) Anonymize(ctx context.Context, principalID string) error {
	if d.anonymizeErr != nil {
		return d.anonymizeErr
	}
	return d.MemoryDirectory.Anonymize(ctx, principalID)
}

func (d *failingDirectory) DeletePrincipal(ctx context.Context, principalID string) error {
	if d.deleteErr != nil {
		return d.deleteErr
	}
	return d.MemoryDirectory.DeletePrincipal(ctx, principalID)
}

func TestRunPropagatesFailures(t *testing.T) {
	ctx := context.Background()

	t.Run("anonymize failure stops the cascade", func(t *testing.T) {
		mem := identity.NewMemoryDirectory()
		mem.Add(identity.Principal{ID: "u-1", Email: "user@example.com"})
		dir := &failingDirectory{MemoryDirectory: mem, anonymizeErr: errors.New("orders db down")}

		err := newExecutor(dir).Run(ctx, "user@example.com")
		require.Error(t, err)

		// Principal untouched, so a retried confirm can re-drive the cascade.
		exists, lookupErr := mem.Exists(ctx, "user@example.com")
		require.NoError(t, lookupErr)
		assert.True(t, exists)
	})

	t.Run("delete failure propagates", func(t *testing.T) {
		mem := identity.NewMemoryDirectory()
		mem.Add(identity.Principal{ID: "u-1", Email: "user@example.com"})
		dir := &failingDirectory{MemoryDirectory: mem, deleteErr: errors.New("write fail")}

		err := newExecutor(dir).Run(ctx, "user@example.com")
		require.Error(t, err)
	})
}
