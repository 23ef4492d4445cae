package app

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"stayhub/internal/domain"
)

type Partition string

const (
	PartitionActive  Partition = "active"
	PartitionHistory Partition = "history"
)

// Stay is a reservation enriched with its listing and cached images. Listing
// is nil when the lookup failed.
type Stay struct {
	domain.Reservation
	Listing *domain.Listing `json:"listing,omitempty"`
	Images  []string        `json:"images,omitempty"`
}

type Classified struct {
	Active  []Stay `json:"active"`
	History []Stay `json:"history"`
}

// Find locates a reservation in either partition.
func (c Classified) Find(reservationID string) (Stay, Partition, bool) {
	for _, s := range c.History {
		if s.ID == reservationID {
			return s, PartitionHistory, true
		}
	}
	for _, s := range c.Active {
		if s.ID == reservationID {
			return s, PartitionActive, true
		}
	}
	return Stay{}, "", false
}

type Classifier struct {
	reservations domain.ReservationStore
	catalog      domain.Catalog
	images       domain.ImageCache
	workers      int
	now          Clock
}

func NewClassifier(r domain.ReservationStore, c domain.Catalog, img domain.ImageCache, workers int) *Classifier {
	if workers <= 0 {
		workers = 8
	}
	return &Classifier{reservations: r, catalog: c, images: img, workers: workers, now: wallClock}
}

func (c *Classifier) WithClock(clk Clock) *Classifier {
	c.now = clk
	return c
}

// Classify splits the caller's reservations into history (End < now) and
// active (End >= now). A zero now means the wall clock at call time. Nothing
// is cached between calls.
func (c *Classifier) Classify(ctx context.Context, caller domain.Caller, now time.Time) (Classified, error) {
	const op = "classify"
	if err := caller.Validate(op); err != nil {
		return Classified{}, err
	}
	if now.IsZero() {
		now = c.now()
	}
	now = now.UTC()

	rs, err := c.reservations.ListReservationsByGuest(ctx, caller.UserID)
	if err != nil {
		return Classified{}, domain.Submission(op, err)
	}

	enriched := c.enrich(ctx, caller, rs)
	out := Classified{Active: []Stay{}, History: []Stay{}}
	for _, s := range enriched {
		if s.Completed(now) {
			out.History = append(out.History, s)
		} else {
			out.Active = append(out.Active, s)
		}
	}
	return out, nil
}

type listingInfo struct {
	listing *domain.Listing
	images  []string
}

// enrich looks up each distinct listing once, concurrently, and joins before
// returning. Lookup failures are logged and leave the fields empty.
func (c *Classifier) enrich(ctx context.Context, caller domain.Caller, rs []domain.Reservation) []Stay {
	ids := make([]string, 0, len(rs))
	seen := make(map[string]struct{}, len(rs))
	for _, r := range rs {
		if _, ok := seen[r.ListingID]; ok {
			continue
		}
		seen[r.ListingID] = struct{}{}
		ids = append(ids, r.ListingID)
	}

	var (
		mu   sync.Mutex
		info = make(map[string]listingInfo, len(ids))
		g    errgroup.Group
	)
	g.SetLimit(c.workers)
	for _, id := range ids {
		g.Go(func() error {
			li := c.lookup(ctx, caller, id)
			mu.Lock()
			info[id] = li
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	out := make([]Stay, 0, len(rs))
	for _, r := range rs {
		li := info[r.ListingID]
		out = append(out, Stay{Reservation: r.Normalized(), Listing: li.listing, Images: li.images})
	}
	return out
}

func (c *Classifier) lookup(ctx context.Context, caller domain.Caller, listingID string) listingInfo {
	var li listingInfo
	if c.catalog != nil {
		l, err := c.catalog.GetListing(ctx, listingID)
		if err != nil {
			log.Error().Err(err).
				Str("guest_id", caller.UserID).
				Str("listing_id", listingID).
				Msg("listing enrichment failed")
		} else {
			li.listing = &l
		}
	}
	if c.images != nil {
		imgs, err := c.images.ListingImages(ctx, listingID)
		if err != nil {
			log.Warn().Err(err).Str("listing_id", listingID).Msg("listing images unavailable")
		} else {
			li.images = imgs
		}
	}
	return li
}
