// Package memory is an in-process domain.Store for local runs and tests.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"

	"stayhub/internal/domain"
)

type Store struct {
	mu           sync.RWMutex
	listings     []domain.Listing
	windows      map[string]domain.AvailabilityWindow
	reservations map[string]domain.Reservation
	hostRatings  []domain.Rating
	lstRatings   []domain.Rating
}

func New() *Store {
	return &Store{
		windows:      map[string]domain.AvailabilityWindow{},
		reservations: map[string]domain.Reservation{},
	}
}

var _ domain.Store = (*Store)(nil)

func (s *Store) ListListings(ctx context.Context) ([]domain.Listing, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.Listing(nil), s.listings...), nil
}

func (s *Store) GetListing(ctx context.Context, id string) (domain.Listing, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, l := range s.listings {
		if l.ID == id {
			return l, nil
		}
	}
	return domain.Listing{}, domain.Errorf(domain.KindNotFound, "get listing", "listing %s not found", id)
}

func (s *Store) CreateListing(ctx context.Context, l domain.Listing) (domain.Listing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	l.ID = uuid.NewString()
	s.listings = append(s.listings, l)
	return l, nil
}

func (s *Store) ListAvailability(ctx context.Context, listingID string) ([]domain.AvailabilityWindow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.AvailabilityWindow
	for _, w := range s.windows {
		if w.ListingID == listingID {
			out = append(out, w)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Start.Before(out[j].Start) })
	return out, nil
}

func (s *Store) CreateAvailability(ctx context.Context, w domain.AvailabilityWindow) (domain.AvailabilityWindow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.hasListing(w.ListingID) {
		return domain.AvailabilityWindow{}, domain.Errorf(domain.KindValidation, "create availability", "listing %s does not exist", w.ListingID)
	}
	w.ID = uuid.NewString()
	w.Start, w.End = w.Start.UTC(), w.End.UTC()
	s.windows[w.ID] = w
	return w, nil
}

func (s *Store) hasListing(id string) bool {
	for _, l := range s.listings {
		if l.ID == id {
			return true
		}
	}
	return false
}

// CreateReservation rejects stays overlapping another reservation of the
// same window with domain.ErrOverlap.
func (s *Store) CreateReservation(ctx context.Context, r domain.Reservation) (domain.Reservation, error) {
	const op = "create reservation"
	s.mu.Lock()
	defer s.mu.Unlock()
	w, ok := s.windows[r.AvailabilityWindowID]
	if !ok {
		return domain.Reservation{}, domain.Errorf(domain.KindNotFound, op, "availability window %s not found", r.AvailabilityWindowID)
	}
	r = r.Normalized()
	if w.ListingID != r.ListingID {
		return domain.Reservation{}, domain.Errorf(domain.KindValidation, op, "window %s does not belong to listing %s", w.ID, r.ListingID)
	}
	if !w.Range().Contains(r.Range()) {
		return domain.Reservation{}, domain.Errorf(domain.KindOutOfBounds, op, "reservation is outside its availability window")
	}
	for _, other := range s.reservations {
		if other.AvailabilityWindowID == r.AvailabilityWindowID && other.Range().Overlaps(r.Range()) {
			return domain.Reservation{}, fmt.Errorf("%s: conflicts with %s: %w", op, other.ID, domain.ErrOverlap)
		}
	}
	r.ID = uuid.NewString()
	s.reservations[r.ID] = r
	return r, nil
}

func (s *Store) ListReservationsByGuest(ctx context.Context, guestID string) ([]domain.Reservation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.Reservation
	for _, r := range s.reservations {
		if r.GuestID == guestID {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Start.Before(out[j].Start) })
	return out, nil
}

func (s *Store) DeleteReservation(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.reservations[id]; !ok {
		return domain.Errorf(domain.KindNotFound, "delete reservation", "reservation %s not found", id)
	}
	delete(s.reservations, id)
	return nil
}

func (s *Store) CreateListingRating(ctx context.Context, r domain.Rating) (domain.Rating, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r.ID = uuid.NewString()
	r.Time = r.Time.UTC()
	s.lstRatings = append(s.lstRatings, r)
	return r, nil
}

func (s *Store) CreateHostRating(ctx context.Context, r domain.Rating) (domain.Rating, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r.ID = uuid.NewString()
	r.Time = r.Time.UTC()
	r.ListingID = ""
	s.hostRatings = append(s.hostRatings, r)
	return r, nil
}

func (s *Store) ListHostRatings(ctx context.Context, hostID string) (domain.HostRatings, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := domain.HostRatings{HostID: hostID}
	for _, r := range s.hostRatings {
		if r.HostID == hostID {
			out.HostRatings = append(out.HostRatings, r)
		}
	}
	for _, r := range s.lstRatings {
		if r.HostID == hostID {
			out.ListingRatings = append(out.ListingRatings, r)
		}
	}
	return out, nil
}
