package main

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	"stayhub/internal/adapters/kafka"
	"stayhub/internal/adapters/observability"
	"stayhub/internal/app"
	"stayhub/internal/shared"
)

func main() {
	cfg := shared.Load()

	log.Logger = observability.NewLogger(cfg.AppEnv, "notifier")

	if len(cfg.KafkaBrokers) == 0 {
		log.Fatal().Msg("KAFKA_BROKERS is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	c, err := kafka.NewConsumer(cfg.KafkaBrokers, cfg.KafkaGroup, nil, app.NewNotifier(app.LogSink{}))
	if err != nil {
		log.Fatal().Err(err).Msg("kafka consumer init failed")
	}
	defer c.Close()

	log.Info().Str("topic", cfg.KafkaTopic).Str("group", cfg.KafkaGroup).Msg("notifier consuming")
	if err := c.Run(ctx, []string{cfg.KafkaTopic}); err != nil && !errors.Is(err, context.Canceled) {
		log.Error().Err(err).Msg("consumer stopped")
	}
}
