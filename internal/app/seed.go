package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"stayhub/internal/domain"
)

// SeedListing is one entry of a seed file: a listing, its availability
// windows and the image URLs to cache for it.
type SeedListing struct {
	Listing domain.Listing              `json:"listing"`
	Windows []domain.AvailabilityWindow `json:"windows"`
	Images  []string                    `json:"images"`
}

type SeedResult struct {
	Listing        domain.Listing
	Windows        int
	SkippedWindows int
}

// SeedService publishes listings on behalf of hosts.
type SeedService struct {
	store  domain.ListingPublisher
	images domain.ImageCache
}

func NewSeedService(s domain.ListingPublisher, img domain.ImageCache) *SeedService {
	return &SeedService{store: s, images: img}
}

func (s *SeedService) Seed(ctx context.Context, in SeedListing) (SeedResult, error) {
	// 1) Listing first; windows reference it.
	if err := in.Listing.Validate(); err != nil {
		return SeedResult{}, err
	}
	l, err := s.store.CreateListing(ctx, in.Listing)
	if err != nil {
		return SeedResult{}, fmt.Errorf("create listing %q: %w", in.Listing.Name, err)
	}
	res := SeedResult{Listing: l}

	// 2) Windows: invalid ones are skipped and logged; remote failures stop the entry.
	for _, w := range in.Windows {
		w.ListingID = l.ID
		w.HostID = l.HostID
		if err := w.Validate(); err != nil {
			log.Warn().Err(err).Str("listing_id", l.ID).Msg("skipping availability window")
			res.SkippedWindows++
			continue
		}
		if _, err := s.store.CreateAvailability(ctx, w); err != nil {
			if errors.Is(err, domain.ErrValidation) {
				log.Warn().Err(err).Str("listing_id", l.ID).Msg("store rejected availability window")
				res.SkippedWindows++
				continue
			}
			return res, fmt.Errorf("create availability for %s: %w", l.ID, err)
		}
		res.Windows++
	}

	// 3) Images: best-effort.
	if s.images != nil && len(in.Images) > 0 {
		if err := s.images.PutListingImages(ctx, l.ID, in.Images); err != nil {
			log.Warn().Err(err).Str("listing_id", l.ID).Msg("caching listing images failed")
		}
	}
	return res, nil
}
