package domain

import "time"

type EventType string

const (
	EventReservationCreated   EventType = "reservation.created"
	EventReservationCancelled EventType = "reservation.cancelled"
	EventHostRated            EventType = "rating.host.created"
	EventListingRated         EventType = "rating.listing.created"
)

// Event is handed to the notification channel after a successful write.
type Event struct {
	Type        EventType    `json:"type"`
	Key         string       `json:"key"`
	At          time.Time    `json:"at"`
	Reservation *Reservation `json:"reservation,omitempty"`
	Rating      *Rating      `json:"rating,omitempty"`
}

func ReservationEvent(t EventType, r Reservation, at time.Time) Event {
	return Event{Type: t, Key: r.ID, At: at.UTC(), Reservation: &r}
}

func RatingEvent(t EventType, r Rating) Event {
	return Event{Type: t, Key: r.HostID, At: r.Time.UTC(), Rating: &r}
}
