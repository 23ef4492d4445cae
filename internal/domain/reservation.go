package domain

import (
	"strings"
	"time"
)

type Reservation struct {
	ID                   string    `json:"id"`
	AvailabilityWindowID string    `json:"availabilityWindowId"`
	ListingID            string    `json:"listingId"`
	HostID               string    `json:"hostId"`
	GuestID              string    `json:"guestId"`
	Start                time.Time `json:"start"`
	End                  time.Time `json:"end"`
	GuestCount           int       `json:"guestCount"`
	Price                float64   `json:"price"`
}

func (r Reservation) Range() DateRange { return NewDateRange(r.Start, r.End) }

// Completed reports whether the stay has ended strictly before now.
func (r Reservation) Completed(now time.Time) bool { return r.End.UTC().Before(now.UTC()) }

// Normalized returns r with UTC instants and the guest count defaulted.
func (r Reservation) Normalized() Reservation {
	r.Start = r.Start.UTC()
	r.End = r.End.UTC()
	if r.GuestCount == 0 {
		r.GuestCount = 1
	}
	return r
}

func (r Reservation) Validate() error {
	const op = "reservation"
	switch {
	case strings.TrimSpace(r.AvailabilityWindowID) == "":
		return Errorf(KindValidation, op, "availabilityWindowId is required")
	case strings.TrimSpace(r.ListingID) == "":
		return Errorf(KindValidation, op, "listingId is required")
	case strings.TrimSpace(r.GuestID) == "":
		return Errorf(KindValidation, op, "guestId is required")
	case strings.TrimSpace(r.HostID) == "":
		return Errorf(KindValidation, op, "hostId is required")
	case !r.Start.Before(r.End):
		return Errorf(KindInvalidRange, op, "start must be before end")
	case r.GuestCount < 1:
		return Errorf(KindCapacity, op, "guestCount must be at least 1")
	}
	return nil
}
