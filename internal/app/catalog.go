package app

import (
	"context"
	"fmt"
	"time"

	"stayhub/internal/domain"
)

// CachedCatalog serves single-listing lookups from the cache. Listing scans
// always go to the store so search sees fresh data.
type CachedCatalog struct {
	next     domain.Catalog
	cache    domain.Cache
	cacheTTL time.Duration
}

func NewCachedCatalog(next domain.Catalog, c domain.Cache, ttl time.Duration) *CachedCatalog {
	return &CachedCatalog{next: next, cache: c, cacheTTL: ttl}
}

func listingKey(id string) string { return fmt.Sprintf("listing:%s", id) }

func (c *CachedCatalog) ListListings(ctx context.Context) ([]domain.Listing, error) {
	return c.next.ListListings(ctx)
}

func (c *CachedCatalog) GetListing(ctx context.Context, id string) (domain.Listing, error) {
	key := listingKey(id)
	var l domain.Listing
	if ok, _ := c.cache.Get(ctx, key, &l); ok {
		return l, nil
	}
	l, err := c.next.GetListing(ctx, id)
	if err != nil {
		return domain.Listing{}, err
	}
	// copy amenities so callers cannot mutate what the cache holds
	l = copyListing(l)
	_ = c.cache.Set(ctx, key, l, int(c.cacheTTL.Seconds()))
	return copyListing(l), nil
}

func (c *CachedCatalog) Invalidate(ctx context.Context, id string) error {
	return c.cache.Del(ctx, listingKey(id))
}

func copyListing(in domain.Listing) domain.Listing {
	out := in
	if n := len(in.Amenities); n > 0 {
		out.Amenities = make([]string, n)
		copy(out.Amenities, in.Amenities)
	}
	return out
}
