package app_test

import (
	"context"
	"errors"
	"testing"

	"stayhub/internal/app"
	"stayhub/internal/domain"
)

func TestSeed_ListingWindowsImages(t *testing.T) {
	st := newFakeStore()
	img := &fakeImages{}
	svc := app.NewSeedService(st, img)

	res, err := svc.Seed(context.Background(), app.SeedListing{
		Listing: domain.Listing{HostID: "h1", Name: "Seaside Loft", Location: "Lisbon", MinGuestNum: 1, MaxGuestNum: 4},
		Windows: []domain.AvailabilityWindow{
			{Start: day("2024-06-01"), End: day("2024-06-30"), Price: 100},
			{Start: day("2024-07-10"), End: day("2024-07-01"), Price: 100}, // inverted, skipped
		},
		Images: []string{"https://img/a.jpg"},
	})
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if res.Listing.ID == "" || res.Windows != 1 || res.SkippedWindows != 1 {
		t.Fatalf("unexpected result: %+v", res)
	}
	ws := st.windows[res.Listing.ID]
	if len(ws) != 1 || ws[0].HostID != "h1" || ws[0].ListingID != res.Listing.ID {
		t.Fatalf("window not attached to listing: %+v", ws)
	}
	if got := img.store[res.Listing.ID]; len(got) != 1 {
		t.Fatalf("images not cached: %v", img.store)
	}
}

func TestSeed_InvalidListing(t *testing.T) {
	st := newFakeStore()
	_, err := app.NewSeedService(st, nil).Seed(context.Background(), app.SeedListing{
		Listing: domain.Listing{HostID: "h1", Name: "x", Location: "y", MinGuestNum: 5, MaxGuestNum: 2},
	})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("want validation, got %v", err)
	}
	if len(st.listings) != 0 {
		t.Fatalf("invalid listing should not be published")
	}
}

func TestSeed_RemoteFailureStopsEntry(t *testing.T) {
	st := newFakeStore()
	st.availErr = errRemote
	res, err := app.NewSeedService(st, &fakeImages{err: errRemote}).Seed(context.Background(), app.SeedListing{
		Listing: domain.Listing{HostID: "h1", Name: "Seaside Loft", Location: "Lisbon", MinGuestNum: 1, MaxGuestNum: 4},
		Windows: []domain.AvailabilityWindow{{Start: day("2024-06-01"), End: day("2024-06-30"), Price: 100}},
	})
	if !errors.Is(err, errRemote) {
		t.Fatalf("want remote error, got %v", err)
	}
	if res.Listing.ID == "" || res.Windows != 0 {
		t.Fatalf("unexpected result: %+v", res)
	}
}
