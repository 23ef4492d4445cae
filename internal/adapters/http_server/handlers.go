// internal/adapters/http_server/handlers.go
package httpserver

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"stayhub/internal/adapters/observability"
	"stayhub/internal/app"
	"stayhub/internal/domain"
)

// Handlers serve the guest-facing API.
type Handlers struct {
	Search   *app.Matcher
	Booking  *app.BookingEngine
	Classify *app.Classifier
	Ratings  *app.RatingGate
	Cancel   *app.Cancellation
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/v1/listings/search", h.searchListings)
	s.mux.Get("/v1/hosts/{id}/ratings", h.hostRatings)
	s.mux.Group(func(r chi.Router) {
		r.Use(WithCaller)
		r.Post("/v1/reservations", h.book)
		r.Get("/v1/reservations", h.listReservations)
		r.Delete("/v1/reservations/{id}", h.cancel)
		r.Post("/v1/reservations/{id}/ratings/listing", h.rateListing)
		r.Post("/v1/reservations/{id}/ratings/host", h.rateHost)
	})
}

// calcETagAndBody marshals once and hashes once, returning both ETag and body.
func calcETagAndBody(v any) (string, []byte) {
	body, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal object for ETag/body")
		return "", nil
	}
	sum := sha1.Sum(body)
	etag := `W/"` + hex.EncodeToString(sum[:]) + `"`
	return etag, body
}

// writeCacheable writes v with a weak ETag and honours If-None-Match.
func writeCacheable(w http.ResponseWriter, r *http.Request, v any) {
	etag, body := calcETagAndBody(v)
	if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
		w.Header().Set("ETag", etag)
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("ETag", etag)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Msg("failed to write response body")
	}
}

func (h *Handlers) searchListings(w http.ResponseWriter, r *http.Request) {
	qs := r.URL.Query()
	q, err := app.ParseSearchQuery(qs.Get("q"), qs.Get("guests"), qs.Get("start"), qs.Get("end"))
	if err != nil {
		writeError(w, guestStatus(err), err)
		return
	}
	out, err := h.Search.Search(r.Context(), q)
	if err != nil {
		writeError(w, guestStatus(err), err)
		return
	}
	writeCacheable(w, r, out)
}

type bookingBody struct {
	ListingID            string `json:"listingId"`
	AvailabilityWindowID string `json:"availabilityWindowId"`
	Start                string `json:"start"`
	End                  string `json:"end"`
	GuestCount           int    `json:"guestCount"`
}

func (b bookingBody) request() (app.BookingRequest, error) {
	start, err := domain.ParseDate(b.Start)
	if err != nil {
		return app.BookingRequest{}, err
	}
	end, err := domain.ParseDate(b.End)
	if err != nil {
		return app.BookingRequest{}, err
	}
	return app.BookingRequest{
		ListingID:  b.ListingID,
		WindowID:   b.AvailabilityWindowID,
		Start:      start,
		End:        end,
		GuestCount: b.GuestCount,
	}, nil
}

func (h *Handlers) book(w http.ResponseWriter, r *http.Request) {
	var body bookingBody
	err := domain.DecodeJSON(r.Body, &body)
	var req app.BookingRequest
	if err == nil {
		req, err = body.request()
	}
	var res domain.Reservation
	if err == nil {
		res, err = h.Booking.Book(r.Context(), CallerFrom(r.Context()), req)
	}
	observability.ObserveBooking(err)
	if err != nil {
		writeError(w, guestStatus(err), err)
		return
	}
	w.Header().Set("Location", "/v1/reservations/"+res.ID)
	writeJSON(w, http.StatusCreated, res)
}

func (h *Handlers) listReservations(w http.ResponseWriter, r *http.Request) {
	now, err := domain.ParseOptionalDate(r.URL.Query().Get("at"))
	if err != nil {
		writeError(w, guestStatus(err), err)
		return
	}
	var at time.Time
	if now != nil {
		at = *now
	}
	out, err := h.Classify.Classify(r.Context(), CallerFrom(r.Context()), at)
	if err != nil {
		writeError(w, guestStatus(err), err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handlers) cancel(w http.ResponseWriter, r *http.Request) {
	if err := h.Cancel.Cancel(r.Context(), CallerFrom(r.Context()), chi.URLParam(r, "id")); err != nil {
		writeError(w, guestStatus(err), err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type ratingBody struct {
	Rating int `json:"rating"`
}

func (h *Handlers) rateListing(w http.ResponseWriter, r *http.Request) {
	h.rate(w, r, "listing", h.Ratings.RateListingByID)
}

func (h *Handlers) rateHost(w http.ResponseWriter, r *http.Request) {
	h.rate(w, r, "host", h.Ratings.RateHostByID)
}

type rateFunc func(ctx context.Context, caller domain.Caller, reservationID string, score int) (domain.Rating, error)

func (h *Handlers) rate(w http.ResponseWriter, r *http.Request, kind string, fn rateFunc) {
	var body ratingBody
	err := domain.DecodeJSON(r.Body, &body)
	var out domain.Rating
	if err == nil {
		out, err = fn(r.Context(), CallerFrom(r.Context()), chi.URLParam(r, "id"), body.Rating)
	}
	observability.ObserveRating(kind, err)
	if err != nil {
		writeError(w, guestStatus(err), err)
		return
	}
	writeJSON(w, http.StatusCreated, out)
}

func (h *Handlers) hostRatings(w http.ResponseWriter, r *http.Request) {
	out, err := h.Ratings.HostSummary(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, guestStatus(err), err)
		return
	}
	writeCacheable(w, r, out)
}
