package admin_test

import (
	"context"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BikashBaishnab/horibol-website-sub000/internal/account/models"
	"github.com/BikashBaishnab/horibol-website-sub000/internal/admin"
	"github.com/BikashBaishnab/horibol-website-sub000/internal/audit"
	"github.com/BikashBaishnab/horibol-website-sub000/internal/jwttoken"
	dErrors "github.com/BikashBaishnab/horibol-website-sub000/pkg/domain-errors"
	"github.com/BikashBaishnab/horibol-website-sub000/pkg/testutil"
)

type fakeHistory struct {
	rows []*models.DeletionRequest
	err  error
}

func (f *fakeHistory) History(_ context.Context, _ string) ([]*models.DeletionRequest, error) {
	return f.rows, f.err
}

type fakeAudit struct {
	events []audit.Event
}

func (f *fakeAudit) List(_ context.Context, _ string) ([]audit.Event, error) {
	return f.events, nil
}

func setup(t *testing.T, history *fakeHistory) (chi.Router, *jwttoken.Service) {
	t.Helper()
	tokens, err := jwttoken.New("admin-test-key")
	require.NoError(t, err)

	h := admin.New(history, &fakeAudit{}, tokens, slog.New(slog.DiscardHandler))
	r := chi.NewRouter()
	h.Register(r)
	return r, tokens
}

func adminToken(t *testing.T, tokens *jwttoken.Service, role string) string {
	t.Helper()
	token, err := tokens.Generate("ops@storefront.example", role, time.Hour)
	require.NoError(t, err)
	return token
}

func TestListDeletionRequests(t *testing.T) {
	verified := time.Date(2025, 6, 1, 12, 5, 0, 0, time.UTC)
	history := &fakeHistory{rows: []*models.DeletionRequest{{
		ID:           uuid.New(),
		Identifier:   "shopper@example.com",
		Status:       models.StatusCompleted,
		Channel:      models.ChannelEmail,
		OTPHash:      "$2a$10$secretdigest",
		CreatedAt:    verified.Add(-5 * time.Minute),
		OTPExpiresAt: verified.Add(5 * time.Minute),
		VerifiedAt:   &verified,
	}}}
	router, tokens := setup(t, history)

	req := testutil.NewJSONRequest(t, http.MethodGet, "/admin/deletion-requests?identifier=shopper@example.com", nil)
	req.Header.Set("Authorization", "Bearer "+adminToken(t, tokens, "admin"))
	rr := testutil.DoRequest(router, req)

	testutil.AssertStatus(t, rr, http.StatusOK)
	assert.Contains(t, rr.Body.String(), `"status":"completed"`)
	assert.NotContains(t, rr.Body.String(), "secretdigest", "otp digest must never leave the service")
}

func TestListDeletionRequests_MissingIdentifier(t *testing.T) {
	router, tokens := setup(t, &fakeHistory{})

	req := testutil.NewJSONRequest(t, http.MethodGet, "/admin/deletion-requests", nil)
	req.Header.Set("Authorization", "Bearer "+adminToken(t, tokens, "admin"))
	rr := testutil.DoRequest(router, req)

	testutil.AssertStatusAndError(t, rr, http.StatusBadRequest, dErrors.CodeInvalidInput)
}

func TestListDeletionRequests_AuthRequired(t *testing.T) {
	router, tokens := setup(t, &fakeHistory{})

	req := testutil.NewJSONRequest(t, http.MethodGet, "/admin/deletion-requests?identifier=x@y.com", nil)
	rr := testutil.DoRequest(router, req)
	testutil.AssertStatusAndError(t, rr, http.StatusUnauthorized, dErrors.CodeUnauthorized)

	req = testutil.NewJSONRequest(t, http.MethodGet, "/admin/deletion-requests?identifier=x@y.com", nil)
	req.Header.Set("Authorization", "Bearer "+adminToken(t, tokens, "support"))
	rr = testutil.DoRequest(router, req)
	testutil.AssertStatusAndError(t, rr, http.StatusUnauthorized, dErrors.CodeUnauthorized)
}
