package kafka

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/IBM/sarama"

	"stayhub/internal/adapters/observability"
	"stayhub/internal/domain"
)

// Publisher hands domain events to Kafka, keyed so that every event of one
// reservation (or one host's ratings) lands on the same partition.
type Publisher struct {
	sync  sarama.SyncProducer
	topic string
}

func NewPublisher(brokers []string, topic string, cfg *sarama.Config) (*Publisher, error) {
	if cfg == nil {
		cfg = sarama.NewConfig()
	}
	cfg.Producer.RequiredAcks = sarama.WaitForAll
	cfg.Producer.Idempotent = true
	cfg.Producer.Return.Successes = true
	cfg.Net.MaxOpenRequests = 1
	sync, err := sarama.NewSyncProducer(brokers, cfg)
	if err != nil {
		return nil, err
	}
	return NewWithProducer(sync, topic), nil
}

func NewWithProducer(p sarama.SyncProducer, topic string) *Publisher {
	return &Publisher{sync: p, topic: topic}
}

func (p *Publisher) Publish(ctx context.Context, e domain.Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	payload, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("encode %s: %w", e.Type, err)
	}
	msg := &sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(e.Key),
		Value: sarama.ByteEncoder(payload),
		Headers: []sarama.RecordHeader{
			{Key: []byte("event-type"), Value: []byte(e.Type)},
		},
	}
	_, _, err = p.sync.SendMessage(msg)
	observability.ObserveEvent(string(e.Type), err)
	if err != nil {
		return fmt.Errorf("publish %s: %w", e.Type, err)
	}
	return nil
}

func (p *Publisher) Close() error {
	if p.sync == nil {
		return nil
	}
	return p.sync.Close()
}
