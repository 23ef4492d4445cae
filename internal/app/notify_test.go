package app_test

import (
	"context"
	"strings"
	"testing"

	"stayhub/internal/app"
	"stayhub/internal/domain"
)

type sinkRecorder struct{ got []app.Notification }

func (s *sinkRecorder) Deliver(_ context.Context, n app.Notification) error {
	s.got = append(s.got, n)
	return nil
}

func TestNotifier_HostNotifications(t *testing.T) {
	sink := &sinkRecorder{}
	n := app.NewNotifier(sink)
	ctx := context.Background()

	r := domain.Reservation{ID: "r1", ListingID: "l1", HostID: "h1", GuestID: "g1", Start: day("2024-06-05"), End: day("2024-06-10")}
	events := []domain.Event{
		domain.ReservationEvent(domain.EventReservationCreated, r, day("2024-05-01")),
		domain.RatingEvent(domain.EventListingRated, domain.Rating{HostID: "h1", GuestID: "g1", ListingID: "l1", Score: 4}),
		{Type: "unknown.thing", Key: "x"},
		{Type: domain.EventHostRated}, // no payload
	}
	for _, e := range events {
		if err := n.Handle(ctx, e); err != nil {
			t.Fatalf("err: %v", err)
		}
	}
	if len(sink.got) != 2 {
		t.Fatalf("expected 2 notifications, got %d", len(sink.got))
	}
	if sink.got[0].Recipient != "h1" || !strings.Contains(sink.got[0].Body, "2024-06-05") {
		t.Fatalf("unexpected booking notification: %+v", sink.got[0])
	}
	if !strings.Contains(sink.got[1].Body, "listing l1 4/5") {
		t.Fatalf("unexpected rating notification: %+v", sink.got[1])
	}
}
