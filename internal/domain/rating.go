package domain

import (
	"strings"
	"time"
)

const (
	MinScore = 1
	MaxScore = 5
)

// Rating is a guest's score for a host, or for a listing when ListingID is set.
type Rating struct {
	ID        string    `json:"id"`
	HostID    string    `json:"hostId"`
	GuestID   string    `json:"guestId"`
	ListingID string    `json:"listingId,omitempty"`
	Time      time.Time `json:"time"`
	Score     int       `json:"rating"`
}

func ValidScore(score int) bool { return score >= MinScore && score <= MaxScore }

func (r Rating) Validate() error {
	const op = "rating"
	switch {
	case strings.TrimSpace(r.HostID) == "":
		return Errorf(KindValidation, op, "hostId is required")
	case strings.TrimSpace(r.GuestID) == "":
		return Errorf(KindValidation, op, "guestId is required")
	case r.Time.IsZero():
		return Errorf(KindValidation, op, "time is required")
	case !ValidScore(r.Score):
		return Errorf(KindValidation, op, "rating must be between %d and %d", MinScore, MaxScore)
	}
	return nil
}

// HostRatings holds both rating flavours received by one host.
type HostRatings struct {
	HostID         string   `json:"hostId"`
	HostRatings    []Rating `json:"hostRatings"`
	ListingRatings []Rating `json:"listingRatings"`
}

func (h HostRatings) HostAverage() float64    { return average(h.HostRatings) }
func (h HostRatings) ListingAverage() float64 { return average(h.ListingRatings) }

func average(rs []Rating) float64 {
	if len(rs) == 0 {
		return 0
	}
	sum := 0
	for _, r := range rs {
		sum += r.Score
	}
	return float64(sum) / float64(len(rs))
}
