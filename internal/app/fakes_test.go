package app_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"stayhub/internal/domain"
)

// ---- fakes ----

type fakeStore struct {
	mu           sync.Mutex
	listings     []domain.Listing
	windows      map[string][]domain.AvailabilityWindow
	reservations []domain.Reservation
	hostRatings  []domain.Rating
	lstRatings   []domain.Rating

	listErr    error
	getErr     map[string]error
	availErr   error
	createErr  error
	listResErr error
	deleteErr  error
	ratingErr  error
	getCalls   map[string]int
	availCalls map[string]int
	nextID     int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		windows:    map[string][]domain.AvailabilityWindow{},
		getErr:     map[string]error{},
		getCalls:   map[string]int{},
		availCalls: map[string]int{},
	}
}

func (f *fakeStore) id(prefix string) string {
	f.nextID++
	return fmt.Sprintf("%s-%d", prefix, f.nextID)
}

func (f *fakeStore) ListListings(ctx context.Context) ([]domain.Listing, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return append([]domain.Listing(nil), f.listings...), nil
}

func (f *fakeStore) GetListing(ctx context.Context, id string) (domain.Listing, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.getCalls[id]++
	if err := f.getErr[id]; err != nil {
		return domain.Listing{}, err
	}
	for _, l := range f.listings {
		if l.ID == id {
			return l, nil
		}
	}
	return domain.Listing{}, domain.Errorf(domain.KindNotFound, "get listing", "listing %s not found", id)
}

func (f *fakeStore) ListAvailability(ctx context.Context, listingID string) ([]domain.AvailabilityWindow, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.availCalls[listingID]++
	if f.availErr != nil {
		return nil, f.availErr
	}
	return append([]domain.AvailabilityWindow(nil), f.windows[listingID]...), nil
}

func (f *fakeStore) CreateReservation(ctx context.Context, r domain.Reservation) (domain.Reservation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return domain.Reservation{}, f.createErr
	}
	r.ID = f.id("res")
	f.reservations = append(f.reservations, r)
	return r, nil
}

func (f *fakeStore) ListReservationsByGuest(ctx context.Context, guestID string) ([]domain.Reservation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listResErr != nil {
		return nil, f.listResErr
	}
	var out []domain.Reservation
	for _, r := range f.reservations {
		if r.GuestID == guestID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeStore) DeleteReservation(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteErr != nil {
		return f.deleteErr
	}
	for i, r := range f.reservations {
		if r.ID == id {
			f.reservations = append(f.reservations[:i], f.reservations[i+1:]...)
			return nil
		}
	}
	return domain.Errorf(domain.KindNotFound, "delete", "reservation %s not found", id)
}

func (f *fakeStore) CreateListingRating(ctx context.Context, r domain.Rating) (domain.Rating, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.ratingErr != nil {
		return domain.Rating{}, f.ratingErr
	}
	r.ID = f.id("lr")
	f.lstRatings = append(f.lstRatings, r)
	return r, nil
}

func (f *fakeStore) CreateHostRating(ctx context.Context, r domain.Rating) (domain.Rating, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.ratingErr != nil {
		return domain.Rating{}, f.ratingErr
	}
	r.ID = f.id("hr")
	f.hostRatings = append(f.hostRatings, r)
	return r, nil
}

func (f *fakeStore) ListHostRatings(ctx context.Context, hostID string) (domain.HostRatings, error) {
	out := domain.HostRatings{HostID: hostID}
	for _, r := range f.hostRatings {
		if r.HostID == hostID {
			out.HostRatings = append(out.HostRatings, r)
		}
	}
	for _, r := range f.lstRatings {
		if r.HostID == hostID {
			out.ListingRatings = append(out.ListingRatings, r)
		}
	}
	return out, nil
}

func (f *fakeStore) CreateListing(ctx context.Context, l domain.Listing) (domain.Listing, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	l.ID = f.id("lst")
	f.listings = append(f.listings, l)
	return l, nil
}

func (f *fakeStore) CreateAvailability(ctx context.Context, w domain.AvailabilityWindow) (domain.AvailabilityWindow, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.availErr != nil {
		return domain.AvailabilityWindow{}, f.availErr
	}
	w.ID = f.id("win")
	f.windows[w.ListingID] = append(f.windows[w.ListingID], w)
	return w, nil
}

type fakeImages struct {
	store map[string][]string
	err   error
}

func (f *fakeImages) ListingImages(ctx context.Context, id string) ([]string, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.store[id], nil
}

func (f *fakeImages) PutListingImages(ctx context.Context, id string, urls []string) error {
	if f.err != nil {
		return f.err
	}
	if f.store == nil {
		f.store = map[string][]string{}
	}
	f.store[id] = urls
	return nil
}

type fakePublisher struct {
	mu     sync.Mutex
	events []domain.Event
	err    error
}

func (p *fakePublisher) Publish(ctx context.Context, e domain.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, e)
	return nil
}

var errRemote = errors.New("remote 503")

// ---- helpers ----

func day(s string) time.Time {
	t, err := time.ParseInLocation(domain.DayLayout, s, time.UTC)
	if err != nil {
		panic(err)
	}
	return t
}

func fixed(t time.Time) func() time.Time { return func() time.Time { return t } }

