package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() Config {
	return Config{
		IssuesPerWindow:   3,
		AttemptsPerWindow: 5,
		Window:            10 * time.Minute,
	}
}

func TestLimiterIssuanceThrottle(t *testing.T) {
	ctx := context.Background()
	l := New(NewMemoryStore(), testConfig())

	for i := 0; i < 3; i++ {
		ok, err := l.AllowIssue(ctx, "user@example.com")
		require.NoError(t, err)
		assert.True(t, ok, "issue %d should be allowed", i+1)
	}

	ok, err := l.AllowIssue(ctx, "user@example.com")
	require.NoError(t, err)
	assert.False(t, ok, "fourth issue in window should be throttled")

	// Another identifier is unaffected.
	ok, err = l.AllowIssue(ctx, "other@example.com")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestLimiterAttemptBound(t *testing.T) {
	ctx := context.Background()
	l := New(NewMemoryStore(), testConfig())

	for i := 0; i < 5; i++ {
		ok, err := l.AllowAttempt(ctx, "919876543210")
		require.NoError(t, err)
		assert.True(t, ok)
	}

	ok, err := l.AllowAttempt(ctx, "919876543210")
	require.NoError(t, err)
	assert.False(t, ok, "sixth attempt in window should be refused")

	require.NoError(t, l.ClearAttempts(ctx, "919876543210"))

	ok, err = l.AllowAttempt(ctx, "919876543210")
	require.NoError(t, err)
	assert.True(t, ok, "attempts allowed again after clear")
}

func TestMemoryStoreWindowExpiry(t *testing.T) {
	ctx := context.Background()
	now := time.Now()
	store := NewMemoryStore().WithClock(func() time.Time { return now })

	for i := 0; i < 3; i++ {
		_, err := store.Incr(ctx, "k", time.Minute)
		require.NoError(t, err)
	}

	count, err := store.Incr(ctx, "k", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, 4, count)

	// Advance past the window; old events fall out.
	now = now.Add(2 * time.Minute)
	count, err = store.Incr(ctx, "k", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}
