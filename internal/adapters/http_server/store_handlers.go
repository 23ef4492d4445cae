package httpserver

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"stayhub/internal/app"
	"stayhub/internal/domain"
)

// StoreHandlers expose a domain.Store over REST. This is the surface the
// guest API's storeapi client talks to.
type StoreHandlers struct {
	Store   domain.Store
	Search  *app.Matcher
	Catalog *app.CachedCatalog // optional read-through cache for single listings
}

func (s *Server) MountStore(h *StoreHandlers) {
	s.mux.Route("/listings", func(r chi.Router) {
		r.Get("/", h.listListings)
		r.Post("/", h.createListing)
		r.Post("/search", h.searchListings)
		r.Get("/{id}", h.getListing)
	})
	s.mux.Get("/availability/{listingId}", h.listAvailability)
	s.mux.Post("/availability", h.createAvailability)
	s.mux.Post("/reservations", h.createReservation)
	s.mux.Get("/reservations", h.listReservations)
	s.mux.Delete("/reservations/{id}", h.deleteReservation)
	s.mux.Post("/ratings/listing", h.createListingRating)
	s.mux.Post("/ratings/host", h.createHostRating)
	s.mux.Get("/ratings/host/{hostId}", h.listHostRatings)
}

func storeFail(w http.ResponseWriter, err error) { writeError(w, storeStatus(err), err) }

func (h *StoreHandlers) listListings(w http.ResponseWriter, r *http.Request) {
	out, err := h.Store.ListListings(r.Context())
	if err != nil {
		storeFail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(out))
}

func (h *StoreHandlers) getListing(w http.ResponseWriter, r *http.Request) {
	var cat domain.Catalog = h.Store
	if h.Catalog != nil {
		cat = h.Catalog
	}
	out, err := cat.GetListing(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		storeFail(w, err)
		return
	}
	writeCacheable(w, r, out)
}

func (h *StoreHandlers) createListing(w http.ResponseWriter, r *http.Request) {
	var in domain.Listing
	if err := domain.DecodeJSON(r.Body, &in); err != nil {
		storeFail(w, err)
		return
	}
	if err := in.Validate(); err != nil {
		storeFail(w, err)
		return
	}
	out, err := h.Store.CreateListing(r.Context(), in)
	if err != nil {
		storeFail(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, out)
}

func (h *StoreHandlers) searchListings(w http.ResponseWriter, r *http.Request) {
	var q app.SearchQuery
	if err := domain.DecodeJSON(r.Body, &q); err != nil {
		storeFail(w, err)
		return
	}
	out, err := h.Search.Search(r.Context(), q)
	if err != nil {
		storeFail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(out))
}

func (h *StoreHandlers) listAvailability(w http.ResponseWriter, r *http.Request) {
	out, err := h.Store.ListAvailability(r.Context(), chi.URLParam(r, "listingId"))
	if err != nil {
		storeFail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(out))
}

func (h *StoreHandlers) createAvailability(w http.ResponseWriter, r *http.Request) {
	var in domain.AvailabilityWindow
	if err := domain.DecodeJSON(r.Body, &in); err != nil {
		storeFail(w, err)
		return
	}
	if err := in.Validate(); err != nil {
		storeFail(w, err)
		return
	}
	out, err := h.Store.CreateAvailability(r.Context(), in)
	if err != nil {
		storeFail(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, out)
}

func (h *StoreHandlers) createReservation(w http.ResponseWriter, r *http.Request) {
	var in domain.Reservation
	if err := domain.DecodeJSON(r.Body, &in); err != nil {
		storeFail(w, err)
		return
	}
	if err := in.Validate(); err != nil {
		storeFail(w, err)
		return
	}
	out, err := h.Store.CreateReservation(r.Context(), in)
	if err != nil {
		storeFail(w, err)
		return
	}
	log.Info().Str("reservation_id", out.ID).Str("window_id", out.AvailabilityWindowID).Msg("reservation stored")
	writeJSON(w, http.StatusCreated, out)
}

func (h *StoreHandlers) listReservations(w http.ResponseWriter, r *http.Request) {
	guestID := strings.TrimSpace(r.URL.Query().Get("guestId"))
	if guestID == "" {
		writeProblem(w, http.StatusBadRequest, "Invalid query", "guestId is required")
		return
	}
	out, err := h.Store.ListReservationsByGuest(r.Context(), guestID)
	if err != nil {
		storeFail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(out))
}

func (h *StoreHandlers) deleteReservation(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.DeleteReservation(r.Context(), chi.URLParam(r, "id")); err != nil {
		storeFail(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *StoreHandlers) createListingRating(w http.ResponseWriter, r *http.Request) {
	var in domain.Rating
	if err := domain.DecodeJSON(r.Body, &in); err != nil {
		storeFail(w, err)
		return
	}
	if strings.TrimSpace(in.ListingID) == "" {
		writeProblem(w, http.StatusBadRequest, "Invalid rating", "listingId is required")
		return
	}
	if err := in.Validate(); err != nil {
		storeFail(w, err)
		return
	}
	out, err := h.Store.CreateListingRating(r.Context(), in)
	if err != nil {
		storeFail(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, out)
}

func (h *StoreHandlers) createHostRating(w http.ResponseWriter, r *http.Request) {
	var in domain.Rating
	if err := domain.DecodeJSON(r.Body, &in); err != nil {
		storeFail(w, err)
		return
	}
	in.ListingID = ""
	if err := in.Validate(); err != nil {
		storeFail(w, err)
		return
	}
	out, err := h.Store.CreateHostRating(r.Context(), in)
	if err != nil {
		storeFail(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, out)
}

func (h *StoreHandlers) listHostRatings(w http.ResponseWriter, r *http.Request) {
	out, err := h.Store.ListHostRatings(r.Context(), chi.URLParam(r, "hostId"))
	if err != nil {
		storeFail(w, err)
		return
	}
	if out.HostRatings == nil {
		out.HostRatings = []domain.Rating{}
	}
	if out.ListingRatings == nil {
		out.ListingRatings = []domain.Rating{}
	}
	writeJSON(w, http.StatusOK, out)
}

// nonNil keeps empty collections encoded as [] rather than null.
func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
