package wizard_test

import (
	"context"
	"errors"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"log/slog"

	"github.com/go-chi/chi/v5"

	"github.com/BikashBaishnab/horibol-website-sub000/internal/account/executor"
	"github.com/BikashBaishnab/horibol-website-sub000/internal/account/handler"
	"github.com/BikashBaishnab/horibol-website-sub000/internal/account/identifier"
	"github.com/BikashBaishnab/horibol-website-sub000/internal/account/models"
	"github.com/BikashBaishnab/horibol-website-sub000/internal/account/service"
	"github.com/BikashBaishnab/horibol-website-sub000/internal/account/store"
	"github.com/BikashBaishnab/horibol-website-sub000/internal/audit"
	"github.com/BikashBaishnab/horibol-website-sub000/internal/identity"
	"github.com/BikashBaishnab/horibol-website-sub000/pkg/wizard"
	"go.opentelemetry.io/otel"
)

type fakeClient struct {
	mu        sync.Mutex
	sendRes   *wizard.SendResult
	sendErr   error
	verifyErr error

	sendCalls   int
	verifyCalls int
	lastCode    string
	block       chan struct{}
}

func (c *fakeClient) SendOTP(_ context.Context, identifier, _ string) (*wizard.SendResult, error) {
	c.mu.Lock()
	c.sendCalls++
	block := c.block
	c.mu.Unlock()
	if block != nil {
		<-block
	}
	if c.sendErr != nil {
		return nil, c.sendErr
	}
	if c.sendRes != nil {
		return c.sendRes, nil
	}
	return &wizard.SendResult{Identifier: identifier, Channel: "email"}, nil
}

func (c *fakeClient) VerifyOTP(_ context.Context, _, code string) error {
	c.mu.Lock()
	c.verifyCalls++
	c.lastCode = code
	c.mu.Unlock()
	return c.verifyErr
}

func TestWizardHappyPath(t *testing.T) {
	client := &fakeClient{sendRes: &wizard.SendResult{
		Identifier: "919876543210",
		Channel:    "chat",
		Message:    "Verification code sent to your chat number",
	}}
	w := wizard.New(client)
	ctx := context.Background()

	assert.Equal(t, wizard.StateInput, w.State())

	w.SetIdentifier("9876543210")
	assert.Equal(t, wizard.StateVerify, w.Submit(ctx))
	assert.Equal(t, "919876543210", w.Identifier())
	assert.Equal(t, "chat", w.Channel())
	assert.Empty(t, w.Err())

	w.SetCode("123456")
	assert.Equal(t, wizard.StateSuccess, w.Submit(ctx))
	assert.Equal(t, "123456", client.lastCode)

	// Terminal: further submits change nothing.
	assert.Equal(t, wizard.StateSuccess, w.Submit(ctx))
	assert.Equal(t, 1, client.verifyCalls)
}

func TestWizardInlineErrorRetainsStep(t *testing.T) {
	client := &fakeClient{sendErr: errors.New("no account found for this identifier")}
	w := wizard.New(client)
	ctx := context.Background()

	w.SetIdentifier("ghost@example.com")
	assert.Equal(t, wizard.StateInput, w.Submit(ctx))
	assert.Equal(t, "no account found for this identifier", w.Err())

	// Fixing the input clears the error on the next successful submit.
	client.sendErr = nil
	w.SetIdentifier("shopper@example.com")
	assert.Equal(t, wizard.StateVerify, w.Submit(ctx))
	assert.Empty(t, w.Err())
}

func TestWizardVerifyErrorKeepsVerifyStep(t *testing.T) {
	client := &fakeClient{verifyErr: errors.New("incorrect code")}
	w := wizard.New(client)
	ctx := context.Background()

	w.SetIdentifier("shopper@example.com")
	require.Equal(t, wizard.StateVerify, w.Submit(ctx))

	w.SetCode("000000")
	assert.Equal(t, wizard.StateVerify, w.Submit(ctx))
	assert.Equal(t, "incorrect code", w.Err())

	client.verifyErr = nil
	w.SetCode("123456")
	assert.Equal(t, wizard.StateSuccess, w.Submit(ctx))
}

func TestWizardChangeIdentifier(t *testing.T) {
	client := &fakeClient{verifyErr: errors.New("incorrect code")}
	w := wizard.New(client)
	ctx := context.Background()

	w.SetIdentifier("shopper@example.com")
	require.Equal(t, wizard.StateVerify, w.Submit(ctx))
	w.SetCode("000000")
	w.Submit(ctx)
	require.NotEmpty(t, w.Err())

	w.ChangeIdentifier()
	assert.Equal(t, wizard.StateInput, w.State())
	assert.Empty(t, w.Err(), "going back discards the inline error")
	assert.Equal(t, "shopper@example.com", w.Identifier(), "the field keeps its value for editing")

	// ChangeIdentifier outside the verify step is a no-op.
	w.ChangeIdentifier()
	assert.Equal(t, wizard.StateInput, w.State())
}

func TestWizardInFlightSubmitIsNoOp(t *testing.T) {
	client := &fakeClient{block: make(chan struct{})}
	w := wizard.New(client)
	ctx := context.Background()

	w.SetIdentifier("shopper@example.com")

	done := make(chan wizard.State, 1)
	go func() { done <- w.Submit(ctx) }()

	// Wait for the first submit to be inside the client call.
	for {
		client.mu.Lock()
		started := client.sendCalls == 1
		client.mu.Unlock()
		if started {
			break
		}
		time.Sleep(time.Millisecond)
	}

	assert.Equal(t, wizard.StateInput, w.Submit(ctx), "second submit returns without acting")

	close(client.block)
	assert.Equal(t, wizard.StateVerify, <-done)

	client.mu.Lock()
	defer client.mu.Unlock()
	assert.Equal(t, 1, client.sendCalls)
}

// TestWizardAgainstService drives the wizard's HTTP client through the real
// handler, service and stores.
func TestWizardAgainstService(t *testing.T) {
	logger := slog.New(slog.DiscardHandler)
	directory := identity.NewMemoryDirectory()
	directory.Add(identity.Principal{ID: "acct-1", Email: "shopper@example.com"})

	var issued string
	svc := service.New(
		store.NewMemoryStore(),
		directory,
		dispatcherFunc(func(_ context.Context, normalized, code string) (models.Channel, error) {
			issued = code
			return identifier.ChannelFor(normalized), nil
		}),
		executor.New(directory, logger, otel.Tracer("test")),
		audit.NewPublisher(audit.NewMemoryStore(), logger),
		logger,
	)

	router := chi.NewRouter()
	handler.New(svc, logger).Register(router)
	server := httptest.NewServer(router)
	defer server.Close()

	w := wizard.New(wizard.NewHTTPClient(server.URL))
	ctx := context.Background()

	w.SetIdentifier("Shopper@Example.com")
	require.Equal(t, wizard.StateVerify, w.Submit(ctx))
	assert.Equal(t, "shopper@example.com", w.Identifier())
	require.NotEmpty(t, issued)

	w.SetCode("999999")
	if issued == "999999" {
		t.Skip("generated code collided with the deliberate wrong guess")
	}
	require.Equal(t, wizard.StateVerify, w.Submit(ctx))
	assert.Equal(t, "incorrect code", w.Err())

	w.SetCode(issued)
	require.Equal(t, wizard.StateSuccess, w.Submit(ctx))

	exists, err := directory.Exists(ctx, "shopper@example.com")
	require.NoError(t, err)
	assert.False(t, exists)
}

type dispatcherFunc func(ctx context.Context, normalized, code string) (models.Channel, error)

func (f dispatcherFunc) Dispatch(ctx context.Context, normalized, code string) (models.Channel, error) {
	return f(ctx, normalized, code)
}
