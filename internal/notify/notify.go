// Package notify delivers one-time codes. Two adapters implement Sender,
// a chat gateway and SMTP email, and the Notifier picks one purely from the
// identifier's shape. There is no fallback between channels: a failed
// dispatch surfaces to the caller as-is.
package notify

import (
	"context"
	"fmt"

	"github.com/BikashBaishnab/horibol-website-sub000/internal/account/identifier"
	"github.com/BikashBaishnab/horibol-website-sub000/internal/account/models"
)

// Sender delivers a plaintext code to one destination over one channel.
type Sender interface {
	Channel() models.Channel
	Send(ctx context.Context, destination, code string) error
}

// Notifier routes a code to the sender matching the identifier's channel.
type Notifier struct {
	senders map[models.Channel]Sender
}

func NewNotifier(senders ...Sender) *Notifier {
	m := make(map[models.Channel]Sender, len(senders))
	for _, s := range senders {
		m[s.Channel()] = s
	}
	return &Notifier{senders: m}
}

// Dispatch sends the code and reports which channel carried it.
func (n *Notifier) Dispatch(ctx context.Context, normalized, code string) (models.Channel, error) {
	ch := identifier.ChannelFor(normalized)
	sender, ok := n.senders[ch]
	if !ok {
		return ch, fmt.Errorf("no sender configured for channel %q", ch)
	}
	if err := sender.Send(ctx, normalized, code); err != nil {
		return ch, fmt.Errorf("dispatch via %s: %w", ch, err)
	}
	return ch, nil
}
