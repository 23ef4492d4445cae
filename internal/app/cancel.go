package app

import (
	"context"

	"github.com/rs/zerolog/log"

	"stayhub/internal/domain"
)

// Cancellation deletes one of the caller's active reservations.
type Cancellation struct {
	classifier   *Classifier
	reservations domain.ReservationStore
	events       domain.EventPublisher
	now          Clock
}

func NewCancellation(c *Classifier, r domain.ReservationStore, ev domain.EventPublisher) *Cancellation {
	if ev == nil {
		ev = NopPublisher{}
	}
	return &Cancellation{classifier: c, reservations: r, events: ev, now: wallClock}
}

func (c *Cancellation) WithClock(clk Clock) *Cancellation {
	c.now = clk
	return c
}

func (c *Cancellation) Cancel(ctx context.Context, caller domain.Caller, reservationID string) error {
	const op = "cancel"
	now := c.now().UTC()
	classified, err := c.classifier.Classify(ctx, caller, now)
	if err != nil {
		return err
	}
	stay, part, ok := classified.Find(reservationID)
	if !ok {
		return domain.Errorf(domain.KindNotFound, op, "reservation %s not found", reservationID)
	}
	if part == PartitionHistory {
		return domain.Errorf(domain.KindNotEligible, op, "reservation %s has already ended", reservationID)
	}
	if err := c.reservations.DeleteReservation(ctx, reservationID); err != nil {
		return domain.Submission(op, err)
	}
	publish(ctx, c.events, domain.ReservationEvent(domain.EventReservationCancelled, stay.Reservation, now))
	log.Info().Str("reservation_id", reservationID).Str("guest_id", caller.UserID).Msg("reservation cancelled")
	return nil
}
