package notify

import (
	"context"
	"log/slog"

	"github.com/BikashBaishnab/horibol-website-sub000/internal/account/models"
)

// LogSender writes the code to the log instead of delivering it. Used in
// development when no SMTP or chat gateway credentials are configured.
type LogSender struct {
	channel models.Channel
	logger  *slog.Logger
}

func NewLogSender(channel models.Channel, logger *slog.Logger) *LogSender {
	return &LogSender{channel: channel, logger: logger}
}

func (s *LogSender) Channel() models.Channel { return s.channel }

func (s *LogSender) Send(ctx context.Context, destination, code string) error {
	s.logger.WarnContext(ctx, "delivery channel not configured, logging code instead",
		"channel", string(s.channel),
		"destination", destination,
		"code", code,
	)
	return nil
}
