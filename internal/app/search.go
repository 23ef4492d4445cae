package app

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"stayhub/internal/domain"
)

// SearchQuery filters the catalog. Guests == 0 means no capacity filter;
// Start and End are independently optional.
type SearchQuery struct {
	Term   string     `json:"term"`
	Guests int        `json:"minGuests"`
	Start  *time.Time `json:"startDate,omitempty"`
	End    *time.Time `json:"endDate,omitempty"`
}

// ParseSearchQuery builds a query from raw request values.
func ParseSearchQuery(term, guests, start, end string) (SearchQuery, error) {
	q := SearchQuery{Term: strings.TrimSpace(term)}
	if g := strings.TrimSpace(guests); g != "" {
		n, err := strconv.Atoi(g)
		if err != nil {
			return SearchQuery{}, domain.Errorf(domain.KindValidation, "search", "guests must be an integer")
		}
		q.Guests = n
	}
	var err error
	if q.Start, err = domain.ParseOptionalDate(start); err != nil {
		return SearchQuery{}, err
	}
	if q.End, err = domain.ParseOptionalDate(end); err != nil {
		return SearchQuery{}, err
	}
	return q, q.Validate()
}

func (q SearchQuery) Validate() error {
	if q.Guests < 0 {
		return domain.Errorf(domain.KindValidation, "search", "guests must not be negative")
	}
	if q.Start != nil && q.End != nil && q.Start.After(*q.End) {
		return domain.Errorf(domain.KindValidation, "search", "start must not be after end")
	}
	return nil
}

// window returns the requested stay. A missing bound collapses onto the
// supplied one, so the covering window must contain that instant.
func (q SearchQuery) window() (domain.DateRange, bool) {
	switch {
	case q.Start == nil && q.End == nil:
		return domain.DateRange{}, false
	case q.Start == nil:
		return domain.NewDateRange(*q.End, *q.End), true
	case q.End == nil:
		return domain.NewDateRange(*q.Start, *q.Start), true
	default:
		return domain.NewDateRange(*q.Start, *q.End), true
	}
}

func MatchText(l domain.Listing, term string) bool {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return true
	}
	return strings.Contains(strings.ToLower(l.Name), term) ||
		strings.Contains(strings.ToLower(l.Location), term)
}

func MatchCapacity(l domain.Listing, guests int) bool {
	return guests <= 0 || l.Hosts(guests)
}

// Covered reports whether some window fully contains the requested stay.
func Covered(windows []domain.AvailabilityWindow, stay domain.DateRange) bool {
	for _, w := range windows {
		if w.Range().Contains(stay) {
			return true
		}
	}
	return false
}

// MatchListing applies every predicate of q to one listing and its windows.
func MatchListing(l domain.Listing, windows []domain.AvailabilityWindow, q SearchQuery) bool {
	if !MatchText(l, q.Term) || !MatchCapacity(l, q.Guests) {
		return false
	}
	if stay, ok := q.window(); ok {
		return Covered(windows, stay)
	}
	return true
}

type Matcher struct {
	catalog domain.Catalog
	avail   domain.AvailabilityStore
	workers int
}

func NewMatcher(c domain.Catalog, a domain.AvailabilityStore, workers int) *Matcher {
	if workers <= 0 {
		workers = 8
	}
	return &Matcher{catalog: c, avail: a, workers: workers}
}

// Search is a pure read. Availability is fetched only for listings that pass
// the text and capacity predicates, concurrently, and joined before return.
func (m *Matcher) Search(ctx context.Context, q SearchQuery) ([]domain.Listing, error) {
	const op = "search"
	if err := q.Validate(); err != nil {
		return nil, err
	}
	all, err := m.catalog.ListListings(ctx)
	if err != nil {
		return nil, domain.Submission(op, err)
	}

	candidates := make([]domain.Listing, 0, len(all))
	for _, l := range all {
		if MatchText(l, q.Term) && MatchCapacity(l, q.Guests) {
			candidates = append(candidates, l)
		}
	}
	stay, dated := q.window()
	if !dated || len(candidates) == 0 {
		return candidates, nil
	}

	covered := make([]bool, len(candidates))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(m.workers)
	for i, l := range candidates {
		g.Go(func() error {
			ws, err := m.avail.ListAvailability(gctx, l.ID)
			if errors.Is(err, domain.ErrNotFound) {
				return nil
			}
			if err != nil {
				return err
			}
			covered[i] = Covered(ws, stay)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, domain.Submission(op, err)
	}

	out := make([]domain.Listing, 0, len(candidates))
	for i, l := range candidates {
		if covered[i] {
			out = append(out, l)
		}
	}
	return out, nil
}
