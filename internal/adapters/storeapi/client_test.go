package storeapi_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"stayhub/internal/adapters/storeapi"
	"stayhub/internal/app"
	"stayhub/internal/domain"
)

func newClient(t *testing.T, h http.Handler) *storeapi.Client {
	t.Helper()
	ts := httptest.NewServer(h)
	t.Cleanup(ts.Close)
	cl, err := storeapi.New(ts.URL, "", 100) // high RPS for tests
	require.NoError(t, err)
	return cl
}

func ctxT(t *testing.T) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	t.Cleanup(cancel)
	return ctx
}

func TestNew_RequiresBase(t *testing.T) {
	_, err := storeapi.New("", "", 1)
	require.Error(t, err)
}

func TestClient_ListAvailability_RetriesThenSuccess(t *testing.T) {
	var hits int32
	cl := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/availability/l1", r.URL.Path)
		switch atomic.AddInt32(&hits, 1) {
		case 1, 2:
			w.WriteHeader(http.StatusServiceUnavailable)
		default:
			_ = json.NewEncoder(w).Encode([]domain.AvailabilityWindow{{
				ID: "w1", ListingID: "l1", HostID: "h1",
				Start: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), End: time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC),
				Price: 100,
			}})
		}
	}))

	ws, err := cl.ListAvailability(ctxT(t), "l1")
	require.NoError(t, err)
	require.Len(t, ws, 1)
	require.Equal(t, "w1", ws[0].ID)
	require.EqualValues(t, 3, atomic.LoadInt32(&hits))
}

func TestClient_WritesAreNotRetried(t *testing.T) {
	var hits int32
	cl := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))

	_, err := cl.CreateReservation(ctxT(t), domain.Reservation{ListingID: "l1"})
	require.Error(t, err)
	require.Equal(t, domain.KindUnknown, domain.KindOf(err))
	require.EqualValues(t, 1, atomic.LoadInt32(&hits))
}

func TestClient_StatusMapping(t *testing.T) {
	cases := []struct {
		status int
		check  func(error) bool
	}{
		{http.StatusNotFound, func(err error) bool { return errors.Is(err, domain.ErrNotFound) }},
		{http.StatusBadRequest, func(err error) bool { return errors.Is(err, domain.ErrValidation) }},
		{http.StatusConflict, func(err error) bool { return errors.Is(err, domain.ErrOverlap) }},
		{http.StatusTeapot, func(err error) bool { return err != nil && domain.KindOf(err) == domain.KindUnknown }},
	}
	for _, tc := range cases {
		t.Run(http.StatusText(tc.status), func(t *testing.T) {
			cl := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/problem+json")
				w.WriteHeader(tc.status)
				_ = json.NewEncoder(w).Encode(map[string]any{"type": "about:blank", "title": "x", "status": tc.status, "detail": "from store"})
			}))
			_, err := cl.CreateReservation(ctxT(t), domain.Reservation{})
			require.True(t, tc.check(err), "unexpected error: %v", err)
			require.Contains(t, err.Error(), "from store")
		})
	}
}

func TestClient_RejectsUnknownFields(t *testing.T) {
	cl := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"id":"l1","hostId":"h1","name":"Loft","location":"Lisbon","minGuestNum":1,"maxGuestNum":2,"amenities":[],"surprise":true}`))
	}))
	_, err := cl.GetListing(ctxT(t), "l1")
	require.Error(t, err)
}

func TestClient_ListReservationsByGuest_Query(t *testing.T) {
	cl := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodGet, r.Method)
		require.Equal(t, "/reservations", r.URL.Path)
		require.Equal(t, "guest 1", r.URL.Query().Get("guestId"))
		_, _ = w.Write([]byte(`[]`))
	}))
	rs, err := cl.ListReservationsByGuest(ctxT(t), "guest 1")
	require.NoError(t, err)
	require.Empty(t, rs)
}

func TestClient_CreateHostRating_SendsBody(t *testing.T) {
	cl := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/ratings/host", r.URL.Path)
		var in domain.Rating
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		in.ID = "hr-1"
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(in)
	}))
	got, err := cl.CreateHostRating(ctxT(t), domain.Rating{HostID: "h1", GuestID: "g1", Score: 5, Time: time.Now().UTC()})
	require.NoError(t, err)
	require.Equal(t, "hr-1", got.ID)
	require.Equal(t, 5, got.Score)
}

func TestClient_DeleteReservation_NoContent(t *testing.T) {
	cl := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodDelete, r.Method)
		require.Equal(t, "/reservations/r1", r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	}))
	require.NoError(t, cl.DeleteReservation(ctxT(t), "r1"))
}

func TestClient_SearchListings(t *testing.T) {
	cl := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/listings/search", r.URL.Path)
		var q app.SearchQuery
		require.NoError(t, json.NewDecoder(r.Body).Decode(&q))
		require.Equal(t, "loft", q.Term)
		require.Equal(t, 2, q.Guests)
		_, _ = w.Write([]byte(`[{"id":"l1","hostId":"h1","name":"Loft","location":"Lisbon","minGuestNum":1,"maxGuestNum":2,"amenities":null}]`))
	}))
	got, err := cl.SearchListings(ctxT(t), app.SearchQuery{Term: "loft", Guests: 2})
	require.NoError(t, err)
	require.Len(t, got, 1)
}
