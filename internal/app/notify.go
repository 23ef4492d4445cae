package app

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"stayhub/internal/domain"
)

// Notification is a message for a host or guest derived from a domain event.
type Notification struct {
	Recipient string    `json:"recipient"`
	Subject   string    `json:"subject"`
	Body      string    `json:"body"`
	At        time.Time `json:"at"`
}

type NotificationSink interface {
	Deliver(ctx context.Context, n Notification) error
}

// LogSink writes notifications to the structured log.
type LogSink struct{}

func (LogSink) Deliver(_ context.Context, n Notification) error {
	log.Info().
		Str("recipient", n.Recipient).
		Str("subject", n.Subject).
		Time("at", n.At).
		Msg(n.Body)
	return nil
}

// Notifier turns booking and rating events into host notifications.
type Notifier struct{ sink NotificationSink }

func NewNotifier(s NotificationSink) *Notifier {
	if s == nil {
		s = LogSink{}
	}
	return &Notifier{sink: s}
}

func (n *Notifier) Handle(ctx context.Context, e domain.Event) error {
	note, ok := Notify(e)
	if !ok {
		return nil
	}
	return n.sink.Deliver(ctx, note)
}

// Notify maps an event to the notification its host should receive.
func Notify(e domain.Event) (Notification, bool) {
	switch e.Type {
	case domain.EventReservationCreated, domain.EventReservationCancelled:
		r := e.Reservation
		if r == nil || r.HostID == "" {
			return Notification{}, false
		}
		verb := "booked"
		if e.Type == domain.EventReservationCancelled {
			verb = "cancelled"
		}
		return Notification{
			Recipient: r.HostID,
			Subject:   "Reservation " + verb,
			Body: fmt.Sprintf("Guest %s %s listing %s from %s to %s",
				r.GuestID, verb, r.ListingID, r.Start.UTC().Format(domain.DayLayout), r.End.UTC().Format(domain.DayLayout)),
			At: e.At,
		}, true
	case domain.EventHostRated, domain.EventListingRated:
		r := e.Rating
		if r == nil || r.HostID == "" {
			return Notification{}, false
		}
		what := "you"
		if e.Type == domain.EventListingRated {
			what = "listing " + r.ListingID
		}
		return Notification{
			Recipient: r.HostID,
			Subject:   "New rating",
			Body:      fmt.Sprintf("Guest %s rated %s %d/%d", r.GuestID, what, r.Score, domain.MaxScore),
			At:        e.At,
		}, true
	}
	return Notification{}, false
}
