package audit

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// StreamPublisher mirrors events onto an external stream. Optional; nil
// means store-only auditing.
type StreamPublisher interface {
	Publish(ctx context.Context, event Event)
	Close() error
}

// Publisher appends events to the store and, when configured, mirrors them
// onto the stream. Store writes are fail-open: the deletion flow never
// aborts because auditing is degraded, it only logs.
type Publisher struct {
	store  Store
	stream StreamPublisher
	logger *slog.Logger
}

// Option configures the Publisher.
type Option func(*Publisher)

// WithStream mirrors events onto an external stream publisher.
func WithStream(stream StreamPublisher) Option {
	return func(p *Publisher) {
		p.stream = stream
	}
}

func NewPublisher(store Store, logger *slog.Logger, opts ...Option) *Publisher {
	p := &Publisher{store: store, logger: logger}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Emit records one event. Missing IDs and timestamps are filled in.
func (p *Publisher) Emit(ctx context.Context, event Event) {
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	if err := p.store.Append(ctx, event); err != nil {
		p.logger.ErrorContext(ctx, "audit append failed",
			"action", string(event.Action),
			"identifier", event.Identifier,
			"error", err,
		)
	}
	if p.stream != nil {
		p.stream.Publish(ctx, event)
	}
}

// List returns the audit history for an identifier, newest first where the
// store orders it so.
func (p *Publisher) List(ctx context.Context, identifier string) ([]Event, error) {
	return p.store.ListByIdentifier(ctx, identifier)
}
