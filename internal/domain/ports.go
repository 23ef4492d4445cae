package domain

import "context"

type Catalog interface {
	ListListings(ctx context.Context) ([]Listing, error)
	GetListing(ctx context.Context, id string) (Listing, error)
}

type AvailabilityStore interface {
	ListAvailability(ctx context.Context, listingID string) ([]AvailabilityWindow, error)
}

type ReservationStore interface {
	CreateReservation(ctx context.Context, r Reservation) (Reservation, error)
	ListReservationsByGuest(ctx context.Context, guestID string) ([]Reservation, error)
	DeleteReservation(ctx context.Context, id string) error
}

type RatingStore interface {
	CreateListingRating(ctx context.Context, r Rating) (Rating, error)
	CreateHostRating(ctx context.Context, r Rating) (Rating, error)
	ListHostRatings(ctx context.Context, hostID string) (HostRatings, error)
}

// ListingPublisher is the host-facing write side of the catalog.
type ListingPublisher interface {
	CreateListing(ctx context.Context, l Listing) (Listing, error)
	CreateAvailability(ctx context.Context, w AvailabilityWindow) (AvailabilityWindow, error)
}

// Store is everything the remote collaborator serves.
type Store interface {
	Catalog
	AvailabilityStore
	ReservationStore
	RatingStore
	ListingPublisher
}

type ImageCache interface {
	ListingImages(ctx context.Context, listingID string) ([]string, error)
	PutListingImages(ctx context.Context, listingID string, urls []string) error
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
}

type EventPublisher interface {
	Publish(ctx context.Context, e Event) error
}
