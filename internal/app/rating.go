package app

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"stayhub/internal/domain"
)

// RatingGate lets a guest rate a host or a listing for a completed stay.
// Repeated calls for the same stay each create a rating; duplicate
// suppression is not done here.
type RatingGate struct {
	ratings    domain.RatingStore
	classifier *Classifier
	events     domain.EventPublisher
	now        Clock
}

func NewRatingGate(r domain.RatingStore, c *Classifier, ev domain.EventPublisher) *RatingGate {
	if ev == nil {
		ev = NopPublisher{}
	}
	return &RatingGate{ratings: r, classifier: c, events: ev, now: wallClock}
}

func (g *RatingGate) WithClock(c Clock) *RatingGate {
	g.now = c
	return g
}

func (g *RatingGate) RateListing(ctx context.Context, caller domain.Caller, stay Stay, score int) (domain.Rating, error) {
	const op = "rate listing"
	now, err := g.admit(op, caller, stay, score)
	if err != nil {
		return domain.Rating{}, err
	}
	if stay.Listing == nil {
		return domain.Rating{}, domain.Errorf(domain.KindValidation, op, "listing record missing for reservation %s", stay.ID)
	}
	r := domain.Rating{
		HostID:    stay.Listing.HostID,
		GuestID:   caller.UserID,
		ListingID: stay.Listing.ID,
		Time:      now,
		Score:     score,
	}
	created, err := g.ratings.CreateListingRating(ctx, r)
	if err != nil {
		return domain.Rating{}, &domain.Error{Kind: domain.KindSubmission, Op: op, Msg: "rating submission failed", Err: err}
	}
	publish(ctx, g.events, domain.RatingEvent(domain.EventListingRated, created))
	log.Info().Str("reservation_id", stay.ID).Str("listing_id", created.ListingID).Int("rating", score).Msg("listing rated")
	return created, nil
}

func (g *RatingGate) RateHost(ctx context.Context, caller domain.Caller, stay Stay, score int) (domain.Rating, error) {
	const op = "rate host"
	now, err := g.admit(op, caller, stay, score)
	if err != nil {
		return domain.Rating{}, err
	}
	r := domain.Rating{
		HostID:  stay.HostID,
		GuestID: caller.UserID,
		Time:    now,
		Score:   score,
	}
	created, err := g.ratings.CreateHostRating(ctx, r)
	if err != nil {
		return domain.Rating{}, &domain.Error{Kind: domain.KindSubmission, Op: op, Msg: "rating submission failed", Err: err}
	}
	publish(ctx, g.events, domain.RatingEvent(domain.EventHostRated, created))
	log.Info().Str("reservation_id", stay.ID).Str("host_id", created.HostID).Int("rating", score).Msg("host rated")
	return created, nil
}

// admit checks the stay is the caller's and completed, then the score.
func (g *RatingGate) admit(op string, caller domain.Caller, stay Stay, score int) (now time.Time, err error) {
	if err := caller.Validate(op); err != nil {
		return now, err
	}
	now = g.now().UTC()
	if stay.GuestID != caller.UserID {
		return now, domain.Errorf(domain.KindNotEligible, op, "reservation %s does not belong to caller", stay.ID)
	}
	if !stay.Completed(now) {
		return now, domain.Errorf(domain.KindNotEligible, op, "reservation %s has not ended yet", stay.ID)
	}
	if !domain.ValidScore(score) {
		return now, domain.Errorf(domain.KindValidation, op, "rating must be between %d and %d", domain.MinScore, domain.MaxScore)
	}
	return now, nil
}

func (g *RatingGate) RateListingByID(ctx context.Context, caller domain.Caller, reservationID string, score int) (domain.Rating, error) {
	stay, err := g.resolve(ctx, caller, reservationID)
	if err != nil {
		return domain.Rating{}, err
	}
	return g.RateListing(ctx, caller, stay, score)
}

func (g *RatingGate) RateHostByID(ctx context.Context, caller domain.Caller, reservationID string, score int) (domain.Rating, error) {
	stay, err := g.resolve(ctx, caller, reservationID)
	if err != nil {
		return domain.Rating{}, err
	}
	return g.RateHost(ctx, caller, stay, score)
}

// resolve finds the reservation among the caller's classified stays; the
// gate itself then rejects anything outside the history partition.
func (g *RatingGate) resolve(ctx context.Context, caller domain.Caller, reservationID string) (Stay, error) {
	classified, err := g.classifier.Classify(ctx, caller, g.now())
	if err != nil {
		return Stay{}, err
	}
	stay, _, ok := classified.Find(reservationID)
	if !ok {
		return Stay{}, domain.Errorf(domain.KindNotFound, "rate", "reservation %s not found", reservationID)
	}
	return stay, nil
}

type HostSummary struct {
	domain.HostRatings
	HostAverage    float64 `json:"hostAverage"`
	ListingAverage float64 `json:"listingAverage"`
}

func (g *RatingGate) HostSummary(ctx context.Context, hostID string) (HostSummary, error) {
	if hostID == "" {
		return HostSummary{}, domain.Errorf(domain.KindValidation, "host ratings", "host id is required")
	}
	hr, err := g.ratings.ListHostRatings(ctx, hostID)
	if err != nil {
		return HostSummary{}, domain.Submission("host ratings", err)
	}
	return HostSummary{HostRatings: hr, HostAverage: hr.HostAverage(), ListingAverage: hr.ListingAverage()}, nil
}
