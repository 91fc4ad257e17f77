// Package service implements the deletion request orchestrator: the
// two-phase exchange that issues a one-time code and, on verification,
// drives the cascading removal of the account.
package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/BikashBaishnab/horibol-website-sub000/internal/account/identifier"
	"github.com/BikashBaishnab/horibol-website-sub000/internal/account/metrics"
	"github.com/BikashBaishnab/horibol-website-sub000/internal/account/models"
	"github.com/BikashBaishnab/horibol-website-sub000/internal/account/otp"
	"github.com/BikashBaishnab/horibol-website-sub000/internal/account/store"
	"github.com/BikashBaishnab/horibol-website-sub000/internal/audit"
	dErrors "github.com/BikashBaishnab/horibol-website-sub000/pkg/domain-errors"
	"github.com/BikashBaishnab/horibol-website-sub000/pkg/platform/sentinel"
)

// DefaultOTPTTL is the issuance-to-expiry window for a code.
const DefaultOTPTTL = 10 * time.Minute

// ExistenceChecker is the slice of the identity directory the orchestrator
// needs before issuing a code.
type ExistenceChecker interface {
	Exists(ctx context.Context, identifier string) (bool, error)
}

// Dispatcher delivers a plaintext code and reports the channel used.
type Dispatcher interface {
	Dispatch(ctx context.Context, normalized, code string) (models.Channel, error)
}

// CascadeRunner removes the principal and its dependents. Must be
// idempotent; see the executor package.
type CascadeRunner interface {
	Run(ctx context.Context, normalized string) error
}

// AttemptLimiter bounds issuance and confirm attempts per identifier. The
// zero configuration (no limiter) leaves the flow unthrottled.
type AttemptLimiter interface {
	AllowIssue(ctx context.Context, identifier string) (bool, error)
	AllowAttempt(ctx context.Context, identifier string) (bool, error)
	ClearAttempts(ctx context.Context, identifier string) error
}

// Service is the stateless orchestrator. All durable state lives in the
// request store; concurrent calls coordinate only through it.
type Service struct {
	store     store.Store
	directory ExistenceChecker
	notifier  Dispatcher
	executor  CascadeRunner
	audit     *audit.Publisher
	logger    *slog.Logger

	limiter AttemptLimiter
	metrics *metrics.Metrics
	tracer  trace.Tracer
	clock   func() time.Time

	otpTTL      time.Duration
	countryCode string
}

// Option configures the Service.
type Option func(*Service)

// WithLimiter installs the rate-limiter capability.
func WithLimiter(l AttemptLimiter) Option {
	return func(s *Service) { s.limiter = l }
}

// WithMetrics installs Prometheus instruments.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithTracer sets the OpenTelemetry tracer.
func WithTracer(t trace.Tracer) Option {
	return func(s *Service) { s.tracer = t }
}

// WithClock overrides the time source for TTL logic. Test helper.
func WithClock(clock func() time.Time) Option {
	return func(s *Service) { s.clock = clock }
}

// WithOTPTTL overrides the code expiry window.
func WithOTPTTL(ttl time.Duration) Option {
	return func(s *Service) { s.otpTTL = ttl }
}

// WithCountryCode sets the prefix applied to bare local mobile numbers.
func WithCountryCode(code string) Option {
	return func(s *Service) { s.countryCode = code }
}

func New(
	st store.Store,
	directory ExistenceChecker,
	notifier Dispatcher,
	executor CascadeRunner,
	auditPub *audit.Publisher,
	logger *slog.Logger,
	opts ...Option,
) *Service {
	s := &Service{
		store:       st,
		directory:   directory,
		notifier:    notifier,
		executor:    executor,
		audit:       auditPub,
		logger:      logger,
		tracer:      noop.NewTracerProvider().Tracer("account/service"),
		clock:       time.Now,
		otpTTL:      DefaultOTPTTL,
		countryCode: "91",
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// InitiateInput is the first-phase request.
type InitiateInput struct {
	Identifier string
	Reason     string
	Device     string
}

// InitiateResult reports where the code went.
type InitiateResult struct {
	Identifier string
	Channel    models.Channel
}

// Initiate normalizes the identifier, verifies an account exists, issues a
// code and dispatches it. No row is created and nothing is sent for unknown
// identifiers.
func (s *Service) Initiate(ctx context.Context, in InitiateInput) (*InitiateResult, error) {
	ctx, span := s.tracer.Start(ctx, "deletion.initiate")
	defer span.End()

	normalized, err := identifier.Normalize(in.Identifier, s.countryCode)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.String("deletion.channel", string(identifier.ChannelFor(normalized))))

	if s.limiter != nil {
		allowed, err := s.limiter.AllowIssue(ctx, normalized)
		if err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "rate limiter unavailable")
		}
		if !allowed {
			if s.metrics != nil {
				s.metrics.Throttled.WithLabelValues("issue").Inc()
			}
			return nil, dErrors.New(dErrors.CodeTooManyRequests, "too many codes requested, try again later")
		}
	}

	exists, err := s.directory.Exists(ctx, normalized)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "identity lookup failed")
	}
	if !exists {
		return nil, dErrors.New(dErrors.CodeNotFound, "no account found for this identifier")
	}

	code, err := otp.Generate()
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "could not generate code")
	}
	digest, err := otp.Hash(code)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "could not digest code")
	}

	now := s.clock()
	req := &models.DeletionRequest{
		ID:           uuid.New(),
		Identifier:   normalized,
		Reason:       in.Reason,
		OTPHash:      digest,
		OTPExpiresAt: now.Add(s.otpTTL),
		Status:       models.StatusPending,
		Channel:      identifier.ChannelFor(normalized),
		Device:       in.Device,
		CreatedAt:    now,
	}

	// Earlier unconsumed codes become unreachable the moment a new one is
	// issued; mark them so instead of leaving it to read-time ordering.
	if _, err := s.store.MarkSuperseded(ctx, normalized); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "could not supersede earlier requests")
	}
	if err := s.store.Create(ctx, req); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "could not persist deletion request")
	}

	s.audit.Emit(ctx, audit.Event{
		Action:     audit.ActionDeletionRequested,
		Identifier: normalized,
		Channel:    string(req.Channel),
		Device:     in.Device,
	})

	channel, err := s.notifier.Dispatch(ctx, normalized, code)
	if err != nil {
		// The row stays valid: the code can still be resent out-of-band by
		// an operator before it expires.
		s.logger.ErrorContext(ctx, "otp dispatch failed",
			"identifier", normalized,
			"channel", string(channel),
			"error", err,
		)
		if s.metrics != nil {
			s.metrics.DispatchFailures.WithLabelValues(string(channel)).Inc()
		}
		s.audit.Emit(ctx, audit.Event{
			Action:     audit.ActionOTPDispatchFailed,
			Identifier: normalized,
			Channel:    string(channel),
			Detail:     err.Error(),
		})
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "could not deliver verification code")
	}

	if s.metrics != nil {
		s.metrics.OTPIssued.WithLabelValues(string(channel)).Inc()
	}
	s.audit.Emit(ctx, audit.Event{
		Action:     audit.ActionOTPDispatched,
		Identifier: normalized,
		Channel:    string(channel),
	})
	s.logger.InfoContext(ctx, "deletion code issued",
		"identifier", normalized,
		"channel", string(channel),
	)

	return &InitiateResult{Identifier: normalized, Channel: channel}, nil
}

// Confirm verifies the supplied code against the most recent pending,
// non-expired request and, on a match, removes the account.
func (s *Service) Confirm(ctx context.Context, rawIdentifier, code string) error {
	ctx, span := s.tracer.Start(ctx, "deletion.confirm")
	defer span.End()

	start := s.clock()
	normalized, err := identifier.Normalize(rawIdentifier, s.countryCode)
	if err != nil {
		return err
	}
	if !validCodeShape(code) {
		return dErrors.New(dErrors.CodeInvalidInput, "code must be 6 digits")
	}

	if s.limiter != nil {
		allowed, err := s.limiter.AllowAttempt(ctx, normalized)
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "rate limiter unavailable")
		}
		if !allowed {
			if s.metrics != nil {
				s.metrics.Throttled.WithLabelValues("confirm").Inc()
			}
			return dErrors.New(dErrors.CodeTooManyRequests, "too many attempts, try again later")
		}
	}

	now := s.clock()
	req, err := s.store.LatestEligible(ctx, normalized, now)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			// Deliberately indistinguishable from "never requested" so the
			// response does not leak which identifiers asked for deletion.
			return dErrors.New(dErrors.CodeExpiredOrMissing, "code expired or no deletion was requested")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "could not load deletion request")
	}

	if !otp.Verify(req.OTPHash, code) {
		if s.metrics != nil {
			s.metrics.OTPVerifyFailed.Inc()
		}
		s.audit.Emit(ctx, audit.Event{
			Action:     audit.ActionOTPVerifyFailed,
			Identifier: normalized,
		})
		// The row stays pending and reusable until its own expiry.
		return dErrors.New(dErrors.CodeInvalidCode, "incorrect code")
	}

	if err := s.executor.Run(ctx, normalized); err != nil {
		// Do not mark completed: the code stays consumable so a retried
		// confirm can re-drive the cascade. Partial deletions must not be
		// papered over.
		s.logger.ErrorContext(ctx, "cascading deletion failed",
			"identifier", normalized,
			"error", err,
		)
		return dErrors.Wrap(err, dErrors.CodeDeletionFailed, "account deletion failed, contact support")
	}

	if err := s.store.MarkCompleted(ctx, req.ID, s.clock()); err != nil {
		// The principal is gone; losing the status transition is a
		// bookkeeping defect, not a user-facing failure.
		s.logger.ErrorContext(ctx, "could not mark deletion request completed",
			"request_id", req.ID.String(),
			"error", err,
		)
	}
	if s.limiter != nil {
		if err := s.limiter.ClearAttempts(ctx, normalized); err != nil {
			s.logger.WarnContext(ctx, "could not clear attempt counter", "error", err)
		}
	}

	if s.metrics != nil {
		s.metrics.AccountsDeleted.Inc()
		s.metrics.ConfirmDuration.Observe(s.clock().Sub(start).Seconds())
	}
	s.audit.Emit(ctx, audit.Event{
		Action:     audit.ActionAccountDeleted,
		Identifier: normalized,
		Channel:    string(req.Channel),
		Device:     req.Device,
	})
	s.logger.InfoContext(ctx, "account deleted", "identifier", normalized)

	return nil
}

// History returns the full issuance history for an identifier. Admin
// surface only.
func (s *Service) History(ctx context.Context, rawIdentifier string) ([]*models.DeletionRequest, error) {
	normalized, err := identifier.Normalize(rawIdentifier, s.countryCode)
	if err != nil {
		return nil, err
	}
	rows, err := s.store.ListByIdentifier(ctx, normalized)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "could not list deletion requests")
	}
	return rows, nil
}

func validCodeShape(code string) bool {
	if len(code) != 6 {
		return false
	}
	for _, r := range code {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
