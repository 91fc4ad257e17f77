//go:build integration

package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"github.com/BikashBaishnab/horibol-website-sub000/internal/account/models"
	"github.com/BikashBaishnab/horibol-website-sub000/internal/account/store"
	"github.com/BikashBaishnab/horibol-website-sub000/pkg/platform/sentinel"
	"github.com/BikashBaishnab/horibol-website-sub000/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *store.PostgresStore
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	s.postgres = containers.NewPostgresContainer(s.T())
	_, err := s.postgres.DB.Exec(store.Schema)
	s.Require().NoError(err)
	s.store = store.NewPostgres(s.postgres.DB)
}

func (s *PostgresStoreSuite) SetupTest() {
	s.Require().NoError(s.postgres.TruncateTables(context.Background(), "deletion_requests"))
}

func (s *PostgresStoreSuite) newRequest(identifier string, createdAt time.Time) *models.DeletionRequest {
	return &models.DeletionRequest{
		ID:           uuid.New(),
		Identifier:   identifier,
		Reason:       "leaving",
		OTPHash:      "digest",
		OTPExpiresAt: createdAt.Add(10 * time.Minute),
		Status:       models.StatusPending,
		Channel:      models.ChannelEmail,
		CreatedAt:    createdAt,
	}
}

func (s *PostgresStoreSuite) TestCreateAndLatestEligible() {
	ctx := context.Background()
	now := time.Now().UTC()

	older := s.newRequest("user@example.com", now.Add(-2*time.Minute))
	newer := s.newRequest("user@example.com", now.Add(-time.Minute))
	s.Require().NoError(s.store.Create(ctx, older))
	s.Require().NoError(s.store.Create(ctx, newer))

	got, err := s.store.LatestEligible(ctx, "user@example.com", now)
	s.Require().NoError(err)
	s.Equal(newer.ID, got.ID)
	s.Equal(models.StatusPending, got.Status)
	s.Nil(got.VerifiedAt)
}

func (s *PostgresStoreSuite) TestLatestEligibleExcludesExpired() {
	ctx := context.Background()
	now := time.Now().UTC()

	expired := s.newRequest("user@example.com", now.Add(-30*time.Minute))
	s.Require().NoError(s.store.Create(ctx, expired))

	_, err := s.store.LatestEligible(ctx, "user@example.com", now)
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *PostgresStoreSuite) TestMarkSuperseded() {
	ctx := context.Background()
	now := time.Now().UTC()

	first := s.newRequest("919876543210", now.Add(-time.Minute))
	s.Require().NoError(s.store.Create(ctx, first))

	changed, err := s.store.MarkSuperseded(ctx, "919876543210")
	s.Require().NoError(err)
	s.Equal(1, changed)

	_, err = s.store.LatestEligible(ctx, "919876543210", now)
	s.ErrorIs(err, sentinel.ErrNotFound)

	history, err := s.store.ListByIdentifier(ctx, "919876543210")
	s.Require().NoError(err)
	s.Require().Len(history, 1)
	s.Equal(models.StatusSuperseded, history[0].Status)
}

func (s *PostgresStoreSuite) TestMarkCompletedIsIdempotent() {
	ctx := context.Background()
	now := time.Now().UTC()

	req := s.newRequest("user@example.com", now)
	s.Require().NoError(s.store.Create(ctx, req))

	s.Require().NoError(s.store.MarkCompleted(ctx, req.ID, now))
	s.Require().NoError(s.store.MarkCompleted(ctx, req.ID, now.Add(time.Second)))

	history, err := s.store.ListByIdentifier(ctx, "user@example.com")
	s.Require().NoError(err)
	s.Require().Len(history, 1)
	s.Equal(models.StatusCompleted, history[0].Status)
	s.Require().NotNil(history[0].VerifiedAt)
	s.WithinDuration(now, *history[0].VerifiedAt, time.Second)
}
