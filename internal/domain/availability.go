package domain

import (
	"strings"
	"time"
)

// AvailabilityWindow is a host-published range during which a listing can be
// booked. Price is per stay, or per guest when IsPricePerGuest is set.
type AvailabilityWindow struct {
	ID              string    `json:"id"`
	ListingID       string    `json:"listingId"`
	HostID          string    `json:"hostId"`
	Start           time.Time `json:"start"`
	End             time.Time `json:"end"`
	Price           float64   `json:"price"`
	IsPricePerGuest bool      `json:"isPricePerGuest"`
}

func (w AvailabilityWindow) Range() DateRange { return NewDateRange(w.Start, w.End) }

func (w AvailabilityWindow) Validate() error {
	const op = "availability"
	switch {
	case strings.TrimSpace(w.ListingID) == "":
		return Errorf(KindValidation, op, "listingId is required")
	case strings.TrimSpace(w.HostID) == "":
		return Errorf(KindValidation, op, "hostId is required")
	case w.Start.IsZero() || w.End.IsZero():
		return Errorf(KindValidation, op, "start and end are required")
	case !w.Start.Before(w.End):
		return Errorf(KindValidation, op, "start must be before end")
	case w.Price < 0:
		return Errorf(KindValidation, op, "price must be non-negative")
	}
	return nil
}

// Quote prices a stay of r for guests under this window's terms.
func (w AvailabilityWindow) Quote(r DateRange, guests int) float64 {
	total := float64(r.Nights()) * w.Price
	if w.IsPricePerGuest {
		total *= float64(guests)
	}
	return total
}
