package middleware_test

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/BikashBaishnab/horibol-website-sub000/internal/platform/middleware"
	dErrors "github.com/BikashBaishnab/horibol-website-sub000/pkg/domain-errors"
	"github.com/BikashBaishnab/horibol-website-sub000/pkg/testutil"
)

func TestRequestID(t *testing.T) {
	var seen string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = middleware.GetRequestID(r.Context())
	})

	rr := httptest.NewRecorder()
	middleware.RequestID(next).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.NotEmpty(t, seen)
	assert.Equal(t, seen, rr.Header().Get("X-Request-Id"))
}

func TestRequestID_PreservesIncoming(t *testing.T) {
	var seen string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = middleware.GetRequestID(r.Context())
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-Id", "upstream-id")
	middleware.RequestID(next).ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, "upstream-id", seen)
}

func TestRecovery(t *testing.T) {
	next := http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	})

	rr := httptest.NewRecorder()
	middleware.Recovery(slog.New(slog.DiscardHandler))(next).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	testutil.AssertStatusAndError(t, rr, http.StatusInternalServerError, dErrors.CodeInternal)
}

func TestContentTypeJSON(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	wrapped := middleware.ContentTypeJSON(next)

	req := testutil.NewRequestWithBody(t, http.MethodPost, "/", `{}`)
	req.Header.Set("Content-Type", "text/plain")
	rr := httptest.NewRecorder()
	wrapped.ServeHTTP(rr, req)
	testutil.AssertStatusAndError(t, rr, http.StatusBadRequest, dErrors.CodeInvalidInput)

	req = testutil.NewRequestWithBody(t, http.MethodPost, "/", `{}`)
	rr = httptest.NewRecorder()
	wrapped.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusNoContent, rr.Code)
}
