// Package wizard implements the client-side deletion flow as a small
// state machine: collect an identifier, verify the delivered code, done.
// Embedders drive it from their own UI loop.
package wizard

import (
	"context"
	"sync"
)

// State is the wizard step currently shown to the user.
type State string

const (
	// StateInput collects the identifier and optional reason.
	StateInput State = "input"
	// StateVerify collects the one-time code.
	StateVerify State = "verify"
	// StateSuccess is terminal: the account is gone.
	StateSuccess State = "success"
)

// SendResult is the outcome of requesting a code.
type SendResult struct {
	Identifier string
	Channel    string
	Message    string
}

// Client is the transport the wizard drives. HTTPClient is the stock
// implementation.
type Client interface {
	SendOTP(ctx context.Context, identifier, reason string) (*SendResult, error)
	VerifyOTP(ctx context.Context, identifier, code string) error
}

// Wizard holds the flow state. Safe for concurrent use; a Submit while
// another Submit is in flight is a no-op.
type Wizard struct {
	client Client

	mu         sync.Mutex
	state      State
	identifier string
	reason     string
	code       string
	normalized string
	channel    string
	message    string
	errMsg     string
	busy       bool
}

func New(client Client) *Wizard {
	return &Wizard{client: client, state: StateInput}
}

// State returns the current step.
func (w *Wizard) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

// Err returns the inline error from the last failed submit, empty when the
// last submit succeeded.
func (w *Wizard) Err() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.errMsg
}

// Channel reports where the code was sent. Valid from StateVerify on.
func (w *Wizard) Channel() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.channel
}

// Identifier returns the normalized identifier once a code has been sent,
// the raw input before that.
func (w *Wizard) Identifier() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.normalized != "" {
		return w.normalized
	}
	return w.identifier
}

// Message returns the confirmation text from the last successful step.
func (w *Wizard) Message() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.message
}

// SetIdentifier records the identifier field. Only meaningful in
// StateInput.
func (w *Wizard) SetIdentifier(identifier string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.identifier = identifier
}

// SetReason records the optional deletion reason.
func (w *Wizard) SetReason(reason string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.reason = reason
}

// SetCode records the code field. Only meaningful in StateVerify.
func (w *Wizard) SetCode(code string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.code = code
}

// ChangeIdentifier abandons the verify step and returns to input. The
// entered code and any inline error are discarded; the identifier field
// keeps its value for editing.
func (w *Wizard) ChangeIdentifier() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.state != StateVerify {
		return
	}
	w.state = StateInput
	w.code = ""
	w.errMsg = ""
	w.normalized = ""
	w.channel = ""
}

// Submit advances the flow: in StateInput it requests a code, in
// StateVerify it confirms the deletion. Failures park an inline error and
// keep the current step. Returns the state after the attempt.
func (w *Wizard) Submit(ctx context.Context) State {
	w.mu.Lock()
	if w.busy || w.state == StateSuccess {
		state := w.state
		w.mu.Unlock()
		return state
	}
	w.busy = true
	state := w.state
	identifier := w.identifier
	normalized := w.normalized
	reason := w.reason
	code := w.code
	w.mu.Unlock()

	switch state {
	case StateInput:
		res, err := w.client.SendOTP(ctx, identifier, reason)
		w.mu.Lock()
		w.busy = false
		if err != nil {
			w.errMsg = err.Error()
		} else {
			w.state = StateVerify
			w.normalized = res.Identifier
			w.channel = res.Channel
			w.message = res.Message
			w.errMsg = ""
		}
	case StateVerify:
		target := normalized
		if target == "" {
			target = identifier
		}
		err := w.client.VerifyOTP(ctx, target, code)
		w.mu.Lock()
		w.busy = false
		if err != nil {
			w.errMsg = err.Error()
		} else {
			w.state = StateSuccess
			w.errMsg = ""
			w.code = ""
		}
	default:
		w.mu.Lock()
		w.busy = false
	}

	next := w.state
	w.mu.Unlock()
	return next
}
