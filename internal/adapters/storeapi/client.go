// internal/adapters/storeapi/client.go
package storeapi

import (
	"bytes"
	"context"
	crand "crypto/rand"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"stayhub/internal/adapters/observability"
	"stayhub/internal/app"
	"stayhub/internal/domain"
)

const service = "store"

// Client talks to the store service. It implements domain.Store.
type Client struct {
	base  string
	hc    *http.Client
	token string
	rl    *rate.Limiter
}

func New(base, token string, rps int) (*Client, error) {
	if base == "" {
		return nil, fmt.Errorf("store base URL is required")
	}
	if rps <= 0 {
		rps = 20
	}
	return &Client{
		base:  strings.TrimRight(base, "/"),
		hc:    &http.Client{Timeout: 10 * time.Second},
		token: token,
		rl:    rate.NewLimiter(rate.Limit(rps), rps),
	}, nil
}

var _ domain.Store = (*Client)(nil)

// ---- Listings ----

func (c *Client) ListListings(ctx context.Context) ([]domain.Listing, error) {
	var out []domain.Listing
	return out, c.do(ctx, http.MethodGet, "listings", "/listings", nil, &out)
}

func (c *Client) GetListing(ctx context.Context, id string) (domain.Listing, error) {
	var out domain.Listing
	return out, c.do(ctx, http.MethodGet, "listing", "/listings/"+url.PathEscape(id), nil, &out)
}

// SearchListings runs the match on the store side.
func (c *Client) SearchListings(ctx context.Context, q app.SearchQuery) ([]domain.Listing, error) {
	var out []domain.Listing
	return out, c.do(ctx, http.MethodPost, "listings_search", "/listings/search", q, &out)
}

func (c *Client) CreateListing(ctx context.Context, l domain.Listing) (domain.Listing, error) {
	var out domain.Listing
	return out, c.do(ctx, http.MethodPost, "listing_create", "/listings", l, &out)
}

// ---- Availability ----

func (c *Client) ListAvailability(ctx context.Context, listingID string) ([]domain.AvailabilityWindow, error) {
	var out []domain.AvailabilityWindow
	return out, c.do(ctx, http.MethodGet, "availability", "/availability/"+url.PathEscape(listingID), nil, &out)
}

func (c *Client) CreateAvailability(ctx context.Context, w domain.AvailabilityWindow) (domain.AvailabilityWindow, error) {
	var out domain.AvailabilityWindow
	return out, c.do(ctx, http.MethodPost, "availability_create", "/availability", w, &out)
}

// ---- Reservations ----

func (c *Client) CreateReservation(ctx context.Context, r domain.Reservation) (domain.Reservation, error) {
	var out domain.Reservation
	return out, c.do(ctx, http.MethodPost, "reservation_create", "/reservations", r, &out)
}

func (c *Client) ListReservationsByGuest(ctx context.Context, guestID string) ([]domain.Reservation, error) {
	var out []domain.Reservation
	path := "/reservations?" + url.Values{"guestId": {guestID}}.Encode()
	return out, c.do(ctx, http.MethodGet, "reservations", path, nil, &out)
}

func (c *Client) DeleteReservation(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "reservation_delete", "/reservations/"+url.PathEscape(id), nil, nil)
}

// ---- Ratings ----

func (c *Client) CreateListingRating(ctx context.Context, r domain.Rating) (domain.Rating, error) {
	var out domain.Rating
	return out, c.do(ctx, http.MethodPost, "rating_listing", "/ratings/listing", r, &out)
}

func (c *Client) CreateHostRating(ctx context.Context, r domain.Rating) (domain.Rating, error) {
	var out domain.Rating
	return out, c.do(ctx, http.MethodPost, "rating_host", "/ratings/host", r, &out)
}

func (c *Client) ListHostRatings(ctx context.Context, hostID string) (domain.HostRatings, error) {
	var out domain.HostRatings
	return out, c.do(ctx, http.MethodGet, "ratings_host", "/ratings/host/"+url.PathEscape(hostID), nil, &out)
}

// ---- Internals ----

const maxAttempts = 4

type problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

// do performs one call with client-side rate limiting and strict JSON decode
// into out. Only GETs are retried (429 and transient 5xx, honoring
// Retry-After); writes are attempted once so a lost response never books twice.
func (c *Client) do(ctx context.Context, method, endpoint, path string, in, out any) error {
	if err := c.rl.Wait(ctx); err != nil {
		return err
	}

	var body []byte
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode %s: %w", endpoint, err)
		}
		body = b
	}
	attempts := 1
	if method == http.MethodGet {
		attempts = maxAttempts
	}

	var lastErr error
	for i := 0; i < attempts; i++ {
		// build a fresh request each attempt
		req, err := http.NewRequestWithContext(ctx, method, c.base+path, bytes.NewReader(body))
		if err != nil {
			return err
		}
		if in != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		if c.token != "" {
			req.Header.Set("Authorization", "Bearer "+c.token)
		}
		req.Header.Set("Accept", "application/json")
		req.Header.Set("User-Agent", "stayhub/1.0")

		start := time.Now()
		resp, err := c.hc.Do(req)
		if err != nil {
			observability.ObserveExternal(service, endpoint, 0, time.Since(start))
			if ctx.Err() != nil {
				return ctx.Err()
			}
			lastErr = err
			if i < attempts-1 && sleepCtx(ctx, backoff(i)) {
				continue
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return lastErr
		}
		observability.ObserveExternal(service, endpoint, resp.StatusCode, time.Since(start))

		switch {
		case resp.StatusCode == http.StatusNoContent:
			_, _ = io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
			return nil

		case resp.StatusCode >= 200 && resp.StatusCode < 300:
			defer resp.Body.Close()
			if out == nil {
				_, _ = io.Copy(io.Discard, resp.Body)
				return nil
			}
			dec := json.NewDecoder(resp.Body)
			dec.DisallowUnknownFields()
			if err := dec.Decode(out); err != nil {
				return fmt.Errorf("decode %s: %w", endpoint, err)
			}
			return nil

		case retryable(resp.StatusCode):
			// Prefer server-provided Retry-After; otherwise exponential backoff.
			wait := retryAfter(resp)
			lastErr = statusError(resp)
			if wait == 0 {
				wait = backoff(i)
			}
			if i < attempts-1 && sleepCtx(ctx, wait) {
				continue
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return lastErr

		default:
			return statusError(resp)
		}
	}
	return lastErr
}

func retryable(status int) bool {
	switch status {
	case http.StatusTooManyRequests, http.StatusInternalServerError,
		http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return true
	}
	return false
}

// statusError maps a non-2xx store response onto the domain taxonomy and
// closes the body.
func statusError(resp *http.Response) error {
	defer resp.Body.Close()
	b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	detail := strings.TrimSpace(string(b))
	var p problem
	if json.Unmarshal(b, &p) == nil && (p.Detail != "" || p.Title != "") {
		detail = p.Detail
		if detail == "" {
			detail = p.Title
		}
	}

	switch resp.StatusCode {
	case http.StatusBadRequest:
		return &domain.Error{Kind: domain.KindValidation, Op: service, Msg: detail}
	case http.StatusNotFound:
		return &domain.Error{Kind: domain.KindNotFound, Op: service, Msg: detail}
	case http.StatusConflict:
		return fmt.Errorf("%s: %s: %w", service, detail, domain.ErrOverlap)
	default:
		return fmt.Errorf("%s: bad status %d: %s", service, resp.StatusCode, detail)
	}
}

// sleepCtx waits for d or returns early if ctx is done.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

// retryAfter parses Retry-After header (seconds or HTTP-date). Returns 0 if absent/invalid.
func retryAfter(resp *http.Response) time.Duration {
	h := resp.Header.Get("Retry-After")
	if h == "" {
		return 0
	}
	if secs, err := strconv.Atoi(strings.TrimSpace(h)); err == nil && secs >= 0 {
		return time.Duration(secs) * time.Second
	}
	if t, err := http.ParseTime(h); err == nil {
		if d := time.Until(t); d > 0 {
			return d
		}
	}
	return 0
}

// backoff doubles from 100ms per attempt with up to +50% jitter.
func backoff(i int) time.Duration {
	base := time.Duration(1<<i) * 100 * time.Millisecond
	var b [1]byte
	if _, err := crand.Read(b[:]); err != nil {
		return base
	}
	f := float64(b[0]) / 255.0
	return base + time.Duration(0.5*f*float64(base))
}
