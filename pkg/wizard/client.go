package wizard

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

const deletePath = "/api/account/delete"

// APIError is a non-2xx response from the deletion endpoint.
type APIError struct {
	Status      int
	Code        string
	Description string
}

func (e *APIError) Error() string {
	if e.Description != "" {
		return e.Description
	}
	if e.Code != "" {
		return e.Code
	}
	return fmt.Sprintf("request failed with status %d", e.Status)
}

// HTTPClient talks to the storefront deletion endpoint.
type HTTPClient struct {
	baseURL string
	http    *http.Client
}

// NewHTTPClient builds a client for the given base URL, e.g.
// "https://shop.example.com".
func NewHTTPClient(baseURL string) *HTTPClient {
	return &HTTPClient{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 15 * time.Second},
	}
}

type deletePayload struct {
	Action     string `json:"action"`
	Identifier string `json:"identifier"`
	Reason     string `json:"reason,omitempty"`
	OTP        string `json:"otp,omitempty"`
}

type sendOTPReply struct {
	Success    bool   `json:"success"`
	Message    string `json:"message"`
	Identifier string `json:"identifier"`
	Channel    string `json:"channel"`
}

type errorReply struct {
	Error       string `json:"error"`
	Description string `json:"error_description"`
}

// SendOTP implements Client.
func (c *HTTPClient) SendOTP(ctx context.Context, identifier, reason string) (*SendResult, error) {
	var reply sendOTPReply
	err := c.post(ctx, deletePayload{
		Action:     "send-otp",
		Identifier: identifier,
		Reason:     reason,
	}, &reply)
	if err != nil {
		return nil, err
	}
	return &SendResult{
		Identifier: reply.Identifier,
		Channel:    reply.Channel,
		Message:    reply.Message,
	}, nil
}

// VerifyOTP implements Client.
func (c *HTTPClient) VerifyOTP(ctx context.Context, identifier, code string) error {
	return c.post(ctx, deletePayload{
		Action:     "verify-otp",
		Identifier: identifier,
		OTP:        code,
	}, nil)
}

func (c *HTTPClient) post(ctx context.Context, payload deletePayload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+deletePath, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("call deletion endpoint: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Status: resp.StatusCode}
		var reply errorReply
		if err := json.NewDecoder(resp.Body).Decode(&reply); err == nil {
			apiErr.Code = reply.Error
			apiErr.Description = reply.Description
		}
		return apiErr
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}
