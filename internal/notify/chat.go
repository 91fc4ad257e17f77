package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/BikashBaishnab/horibol-website-sub000/internal/account/models"
	"github.com/BikashBaishnab/horibol-website-sub000/internal/platform/config"
)

// ChatSender delivers codes to a phone number through the chat-message
// gateway's HTTP API.
type ChatSender struct {
	cfg    config.ChatConfig
	client *http.Client
}

func NewChatSender(cfg config.ChatConfig) *ChatSender {
	return &ChatSender{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
	}
}

func (s *ChatSender) Channel() models.Channel { return models.ChannelChat }

type chatMessage struct {
	To   string `json:"to"`
	Body string `json:"body"`
}

type chatResponse struct {
	Delivered bool   `json:"delivered"`
	Error     string `json:"error,omitempty"`
}

func (s *ChatSender) Send(ctx context.Context, destination, code string) error {
	payload, err := json.Marshal(chatMessage{
		To: destination,
		Body: fmt.Sprintf(
			"Your account deletion verification code is %s. It expires in 10 minutes. "+
				"If you did not request this, ignore this message.", code),
	})
	if err != nil {
		return fmt.Errorf("marshal chat message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.cfg.GatewayURL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build chat request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if s.cfg.APIToken != "" {
		req.Header.Set("Authorization", "Bearer "+s.cfg.APIToken)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("send chat message: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("chat gateway status %d: %s", resp.StatusCode, bytes.TrimSpace(body))
	}

	var cr chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&cr); err != nil {
		return fmt.Errorf("decode chat response: %w", err)
	}
	if !cr.Delivered {
		return fmt.Errorf("chat gateway refused delivery: %s", cr.Error)
	}
	return nil
}
