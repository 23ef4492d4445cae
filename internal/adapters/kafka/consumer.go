package kafka

import (
	"context"
	"encoding/json"

	"github.com/IBM/sarama"
	"github.com/rs/zerolog/log"

	"stayhub/internal/domain"
)

// EventHandler receives decoded domain events.
type EventHandler interface {
	Handle(ctx context.Context, e domain.Event) error
}

type Consumer struct {
	group   sarama.ConsumerGroup
	handler EventHandler
}

func NewConsumer(brokers []string, groupID string, cfg *sarama.Config, h EventHandler) (*Consumer, error) {
	if cfg == nil {
		cfg = sarama.NewConfig()
	}
	cfg.Version = sarama.V2_5_0_0
	cfg.Consumer.Offsets.Initial = sarama.OffsetOldest
	g, err := sarama.NewConsumerGroup(brokers, groupID, cfg)
	if err != nil {
		return nil, err
	}
	return &Consumer{group: g, handler: h}, nil
}

// Run consumes until ctx is cancelled.
func (c *Consumer) Run(ctx context.Context, topics []string) error {
	for {
		if err := c.group.Consume(ctx, topics, groupHandler{handler: c.handler}); err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
}

func (c *Consumer) Close() error { return c.group.Close() }

type groupHandler struct {
	handler EventHandler
}

func (h groupHandler) Setup(sarama.ConsumerGroupSession) error   { return nil }
func (h groupHandler) Cleanup(sarama.ConsumerGroupSession) error { return nil }

func (h groupHandler) ConsumeClaim(sess sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for msg := range claim.Messages() {
		if HandleMessage(sess.Context(), h.handler, msg) {
			sess.MarkMessage(msg, "")
		}
	}
	return nil
}

// HandleMessage decodes one record and passes it on. Undecodable records are
// logged and marked so they do not block the partition; handler failures are
// left unmarked for redelivery.
func HandleMessage(ctx context.Context, h EventHandler, msg *sarama.ConsumerMessage) bool {
	var e domain.Event
	if err := json.Unmarshal(msg.Value, &e); err != nil {
		log.Warn().Err(err).Str("topic", msg.Topic).Int64("offset", msg.Offset).Msg("dropping undecodable event")
		return true
	}
	if err := h.Handle(ctx, e); err != nil {
		log.Error().Err(err).Str("event", string(e.Type)).Str("key", e.Key).Msg("event handler failed")
		return false
	}
	return true
}
