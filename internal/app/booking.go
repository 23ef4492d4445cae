package app

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"stayhub/internal/domain"
)

// BookingRequest asks for [Start, End) out of one availability window.
// GuestCount 0 means unspecified and defaults to 1.
type BookingRequest struct {
	ListingID  string    `json:"listingId"`
	WindowID   string    `json:"availabilityWindowId"`
	Start      time.Time `json:"start"`
	End        time.Time `json:"end"`
	GuestCount int       `json:"guestCount"`
}

type BookingEngine struct {
	catalog      domain.Catalog
	avail        domain.AvailabilityStore
	reservations domain.ReservationStore
	events       domain.EventPublisher
	now          Clock
}

func NewBookingEngine(c domain.Catalog, a domain.AvailabilityStore, r domain.ReservationStore, ev domain.EventPublisher) *BookingEngine {
	if ev == nil {
		ev = NopPublisher{}
	}
	return &BookingEngine{catalog: c, avail: a, reservations: r, events: ev, now: wallClock}
}

func (e *BookingEngine) WithClock(c Clock) *BookingEngine {
	e.now = c
	return e
}

// Book validates req against its window and records a reservation.
// Checks run in order and the first violation wins: window exists, start
// before end, stay inside the window, guest count within listing bounds.
// Overlap with other reservations is left to the store.
func (e *BookingEngine) Book(ctx context.Context, caller domain.Caller, req BookingRequest) (domain.Reservation, error) {
	const op = "book"
	if err := caller.Validate(op); err != nil {
		return domain.Reservation{}, err
	}
	if strings.TrimSpace(req.ListingID) == "" || strings.TrimSpace(req.WindowID) == "" {
		return domain.Reservation{}, domain.Errorf(domain.KindValidation, op, "listingId and availabilityWindowId are required")
	}

	// 1) window exists
	window, err := e.findWindow(ctx, req.ListingID, req.WindowID)
	if err != nil {
		return domain.Reservation{}, err
	}

	// 2) range
	stay := domain.NewDateRange(req.Start, req.End)
	if !stay.Valid() {
		return domain.Reservation{}, domain.Errorf(domain.KindInvalidRange, op, "start must be before end")
	}

	// 3) bounds
	if !window.Range().Contains(stay) {
		return domain.Reservation{}, domain.Errorf(domain.KindOutOfBounds, op,
			"requested %s..%s is outside window %s..%s",
			stay.Start.Format(time.RFC3339), stay.End.Format(time.RFC3339),
			window.Start.UTC().Format(time.RFC3339), window.End.UTC().Format(time.RFC3339))
	}

	// 4) capacity
	guests := req.GuestCount
	if guests == 0 {
		guests = 1
	}
	if guests < 1 {
		return domain.Reservation{}, domain.Errorf(domain.KindCapacity, op, "guest count must be at least 1")
	}
	if l, ok := e.listingBounds(ctx, req.ListingID); ok && !l.Hosts(guests) {
		return domain.Reservation{}, domain.Errorf(domain.KindCapacity, op,
			"listing hosts %d to %d guests, requested %d", l.MinGuestNum, l.MaxGuestNum, guests)
	}

	r := domain.Reservation{
		AvailabilityWindowID: window.ID,
		ListingID:            req.ListingID,
		HostID:               window.HostID,
		GuestID:              caller.UserID,
		Start:                stay.Start,
		End:                  stay.End,
		GuestCount:           guests,
		Price:                window.Quote(stay, guests),
	}
	created, err := e.reservations.CreateReservation(ctx, r)
	if err != nil {
		return domain.Reservation{}, &domain.Error{Kind: domain.KindSubmission, Op: op, Msg: "reservation submission failed", Err: err}
	}
	created = created.Normalized()

	publish(ctx, e.events, domain.ReservationEvent(domain.EventReservationCreated, created, e.now()))
	log.Info().
		Str("reservation_id", created.ID).
		Str("listing_id", created.ListingID).
		Str("guest_id", created.GuestID).
		Msg("reservation created")
	return created, nil
}

func (e *BookingEngine) findWindow(ctx context.Context, listingID, windowID string) (domain.AvailabilityWindow, error) {
	const op = "book"
	ws, err := e.avail.ListAvailability(ctx, listingID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return domain.AvailabilityWindow{}, domain.Submission(op, err)
	}
	for _, w := range ws {
		if w.ID == windowID {
			return w, nil
		}
	}
	return domain.AvailabilityWindow{}, domain.Errorf(domain.KindNotFound, op, "availability window %s not found for listing %s", windowID, listingID)
}

// listingBounds returns the listing when its capacity bounds can be read.
// A failed lookup skips the capacity bound check rather than failing the booking.
func (e *BookingEngine) listingBounds(ctx context.Context, listingID string) (domain.Listing, bool) {
	if e.catalog == nil {
		return domain.Listing{}, false
	}
	l, err := e.catalog.GetListing(ctx, listingID)
	if err != nil {
		log.Warn().Err(err).Str("listing_id", listingID).Msg("listing bounds unavailable; capacity bounds not checked")
		return domain.Listing{}, false
	}
	return l, true
}
