package app

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"stayhub/internal/domain"
)

// Clock is injected so "now" is explicit in every temporal decision.
type Clock func() time.Time

func wallClock() time.Time { return time.Now().UTC() }

// NopPublisher drops events; used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, domain.Event) error { return nil }

// publish is best-effort: the write it reports on has already happened.
func publish(ctx context.Context, p domain.EventPublisher, e domain.Event) {
	if p == nil {
		return
	}
	if err := p.Publish(ctx, e); err != nil {
		log.Warn().Err(err).
			Str("event", string(e.Type)).
			Str("key", e.Key).
			Msg("event publish failed")
	}
}
