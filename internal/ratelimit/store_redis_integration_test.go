//go:build integration

package ratelimit_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BikashBaishnab/horibol-website-sub000/internal/ratelimit"
	"github.com/BikashBaishnab/horibol-website-sub000/pkg/testutil/containers"
)

func TestRedisStore(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	rc := containers.NewRedisContainer(t)
	ctx := context.Background()
	store := ratelimit.NewRedisStore(rc.Client)

	t.Run("incr counts within window", func(t *testing.T) {
		require.NoError(t, rc.FlushAll(ctx))

		for want := 1; want <= 3; want++ {
			count, err := store.Incr(ctx, "issue:a", time.Minute)
			require.NoError(t, err)
			assert.Equal(t, want, count)
		}

		// Separate key counts independently.
		count, err := store.Incr(ctx, "issue:b", time.Minute)
		require.NoError(t, err)
		assert.Equal(t, 1, count)
	})

	t.Run("reset clears the counter", func(t *testing.T) {
		require.NoError(t, rc.FlushAll(ctx))

		_, err := store.Incr(ctx, "attempt:a", time.Minute)
		require.NoError(t, err)
		require.NoError(t, store.Reset(ctx, "attempt:a"))

		count, err := store.Incr(ctx, "attempt:a", time.Minute)
		require.NoError(t, err)
		assert.Equal(t, 1, count)
	})

	t.Run("window expiry drops the count", func(t *testing.T) {
		require.NoError(t, rc.FlushAll(ctx))

		_, err := store.Incr(ctx, "short", time.Second)
		require.NoError(t, err)

		time.Sleep(1500 * time.Millisecond)

		count, err := store.Incr(ctx, "short", time.Second)
		require.NoError(t, err)
		assert.Equal(t, 1, count)
	})
}
