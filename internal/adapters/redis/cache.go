package redisad

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"stayhub/internal/adapters/observability"
)

// Cache is the JSON value cache behind the listing catalog and the image
// store. Image sets are kept without expiry; they are written by hosts.
type Cache struct{ c *redis.Client }

func New(addr, pass string, db int) *Cache {
	return NewWithClient(redis.NewClient(&redis.Options{Addr: addr, Password: pass, DB: db}))
}

func NewWithClient(c *redis.Client) *Cache { return &Cache{c: c} }

func (r *Cache) Ping(ctx context.Context) error { return r.c.Ping(ctx).Err() }

func (r *Cache) Close() error { return r.c.Close() }

func (r *Cache) Get(ctx context.Context, key string, dst any) (bool, error) {
	v, err := r.c.Get(ctx, key).Bytes()
	if err == redis.Nil {
		observability.ObserveCache("redis", "miss")
		return false, nil
	}
	if err != nil {
		return false, err
	}
	observability.ObserveCache("redis", "hit")
	return true, json.Unmarshal(v, dst)
}

func (r *Cache) Set(ctx context.Context, key string, v any, ttlSec int) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	observability.ObserveCache("redis", "set")
	return r.c.Set(ctx, key, b, time.Duration(ttlSec)*time.Second).Err()
}

func (r *Cache) Del(ctx context.Context, key string) error {
	observability.ObserveCache("redis", "del")
	return r.c.Del(ctx, key).Err()
}

func imagesKey(listingID string) string { return fmt.Sprintf("listing:%s:images", listingID) }

// ListingImages returns the cached image URLs of a listing, or nil when none
// were stored.
func (r *Cache) ListingImages(ctx context.Context, listingID string) ([]string, error) {
	var urls []string
	if _, err := r.Get(ctx, imagesKey(listingID), &urls); err != nil {
		return nil, err
	}
	return urls, nil
}

func (r *Cache) PutListingImages(ctx context.Context, listingID string, urls []string) error {
	return r.Set(ctx, imagesKey(listingID), urls, 0)
}
