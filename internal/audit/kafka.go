package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/twmb/franz-go/pkg/kgo"
)

// KafkaPublisher mirrors audit events onto a Kafka topic, keyed by
// identifier so one account's events stay ordered within a partition.
// Publishing is fire-and-forget: a failed produce is logged, never
// propagated into the deletion flow.
type KafkaPublisher struct {
	client *kgo.Client
	topic  string
	logger *slog.Logger
}

// NewKafkaPublisher connects a producer to the given brokers. Returns nil
// if no brokers are configured.
func NewKafkaPublisher(brokers []string, topic string, logger *slog.Logger) (*KafkaPublisher, error) {
	if len(brokers) == 0 {
		return nil, nil
	}

	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.DefaultProduceTopic(topic),
		kgo.ProducerBatchMaxBytes(1<<20),
		kgo.ProduceRequestTimeout(10*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("create kafka client: %w", err)
	}

	return &KafkaPublisher{client: client, topic: topic, logger: logger}, nil
}

type wireEvent struct {
	ID         string `json:"id"`
	Action     string `json:"action"`
	Identifier string `json:"identifier"`
	Channel    string `json:"channel,omitempty"`
	Device     string `json:"device,omitempty"`
	Detail     string `json:"detail,omitempty"`
	Timestamp  string `json:"timestamp"`
}

func (p *KafkaPublisher) Publish(ctx context.Context, event Event) {
	value, err := json.Marshal(wireEvent{
		ID:         event.ID.String(),
		Action:     string(event.Action),
		Identifier: event.Identifier,
		Channel:    event.Channel,
		Device:     event.Device,
		Detail:     event.Detail,
		Timestamp:  event.Timestamp.UTC().Format(time.RFC3339Nano),
	})
	if err != nil {
		p.logger.ErrorContext(ctx, "marshal audit event for kafka", "error", err)
		return
	}

	record := &kgo.Record{
		Topic: p.topic,
		Key:   []byte(event.Identifier),
		Value: value,
	}
	p.client.Produce(ctx, record, func(_ *kgo.Record, err error) {
		if err != nil {
			p.logger.Error("kafka audit produce failed",
				"action", string(event.Action),
				"error", err,
			)
		}
	})
}

// Close flushes buffered records and releases the client.
func (p *KafkaPublisher) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := p.client.Flush(ctx); err != nil {
		return fmt.Errorf("flush kafka producer: %w", err)
	}
	p.client.Close()
	return nil
}
