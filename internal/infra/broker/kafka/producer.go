// Package kafka publishes domain events to Kafka. Delivery is best effort:
// a failed send is logged and dropped, never surfaced to the request path.
package kafka

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/IBM/sarama"

	"rentradar/internal/app/events"
)

type Producer struct {
	sync        sarama.SyncProducer
	topicPrefix string
	logger      *slog.Logger
}

func NewProducer(brokers []string, topicPrefix string, cfg *sarama.Config, logger *slog.Logger) (*Producer, error) {
	if cfg == nil {
		cfg = sarama.NewConfig()
	}
	cfg.Producer.RequiredAcks = sarama.WaitForAll
	cfg.Producer.Idempotent = true
	cfg.Producer.Return.Successes = true
	sync, err := sarama.NewSyncProducer(brokers, cfg)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Producer{sync: sync, topicPrefix: topicPrefix, logger: logger}, nil
}

func (p *Producer) Publish(ctx context.Context, event events.Event) {
	payload, err := json.Marshal(event)
	if err != nil {
		p.logger.Error("event marshal failed", "event", event.Name(), "error", err)
		return
	}
	msg := &sarama.ProducerMessage{
		Topic: p.topicPrefix + event.Name(),
		Key:   sarama.StringEncoder(event.Key()),
		Value: sarama.ByteEncoder(payload),
	}
	if _, _, err := p.sync.SendMessage(msg); err != nil {
		p.logger.Error("event publish failed", "event", event.Name(), "error", err)
	}
}

func (p *Producer) Close() error {
	if p.sync == nil {
		return nil
	}
	return p.sync.Close()
}

var _ events.Publisher = (*Producer)(nil)
