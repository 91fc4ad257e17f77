// Package ratelimit bounds OTP issuance and confirm attempts per identifier.
// It is a capability layered next to the deletion core, not folded into it:
// the orchestrator consults a Limiter and treats a denial as a
// too-many-requests failure.
package ratelimit

import (
	"context"
	"fmt"
	"time"
)

// Store counts events per key inside a rolling window. Implementations are
// pure I/O; thresholds live in the Limiter.
type Store interface {
	// Incr records one event and returns the count inside the current
	// window, including this event.
	Incr(ctx context.Context, key string, window time.Duration) (int, error)

	// Reset clears the counter for a key.
	Reset(ctx context.Context, key string) error
}

// Config carries the issuance and attempt thresholds.
type Config struct {
	IssuesPerWindow   int
	AttemptsPerWindow int
	Window            time.Duration
}

// Limiter enforces per-identifier issuance throttling and bounded confirm
// attempts.
type Limiter struct {
	store Store
	cfg   Config
}

func New(store Store, cfg Config) *Limiter {
	return &Limiter{store: store, cfg: cfg}
}

// AllowIssue reports whether another code may be issued for the identifier.
// The send counts toward the window whether or not it is allowed.
func (l *Limiter) AllowIssue(ctx context.Context, identifier string) (bool, error) {
	count, err := l.store.Incr(ctx, "otp:issue:"+identifier, l.cfg.Window)
	if err != nil {
		return false, fmt.Errorf("issuance throttle: %w", err)
	}
	return count <= l.cfg.IssuesPerWindow, nil
}

// AllowAttempt reports whether a confirm attempt may proceed. Every attempt
// counts, so a valid code presented after the bound is also refused until
// the window rolls over.
func (l *Limiter) AllowAttempt(ctx context.Context, identifier string) (bool, error) {
	count, err := l.store.Incr(ctx, "otp:attempt:"+identifier, l.cfg.Window)
	if err != nil {
		return false, fmt.Errorf("attempt counter: %w", err)
	}
	return count <= l.cfg.AttemptsPerWindow, nil
}

// ClearAttempts resets the attempt counter after a successful confirm.
func (l *Limiter) ClearAttempts(ctx context.Context, identifier string) error {
	return l.store.Reset(ctx, "otp:attempt:"+identifier)
}
