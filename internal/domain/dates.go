package domain

import (
	"strings"
	"time"
)

// DayLayout is used when only a calendar day is meaningful; such days are
// interpreted as midnight UTC.
const DayLayout = "2006-01-02"

// ParseDate accepts an RFC3339 instant or a YYYY-MM-DD day.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, Errorf(KindValidation, "parse date", "empty date")
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t.UTC(), nil
	}
	if t, err := time.ParseInLocation(DayLayout, s, time.UTC); err == nil {
		return t, nil
	}
	return time.Time{}, Errorf(KindValidation, "parse date", "malformed date %q", s)
}

// ParseOptionalDate returns nil for an empty string.
func ParseOptionalDate(s string) (*time.Time, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	t, err := ParseDate(s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// DateRange is the closed interval [Start, End] used for containment checks.
type DateRange struct {
	Start time.Time
	End   time.Time
}

func NewDateRange(start, end time.Time) DateRange {
	return DateRange{Start: start.UTC(), End: end.UTC()}
}

func (r DateRange) Valid() bool { return r.Start.Before(r.End) }

// Contains reports r.Start <= o.Start and o.End <= r.End.
func (r DateRange) Contains(o DateRange) bool {
	return !o.Start.Before(r.Start) && !o.End.After(r.End)
}

func (r DateRange) ContainsPoint(t time.Time) bool {
	return !t.Before(r.Start) && !t.After(r.End)
}

// Overlaps treats both ranges as half-open, so back-to-back stays do not clash.
func (r DateRange) Overlaps(o DateRange) bool {
	return r.Start.Before(o.End) && o.Start.Before(r.End)
}

// Nights rounds partial days up.
func (r DateRange) Nights() int {
	if !r.Valid() {
		return 0
	}
	d := r.End.Sub(r.Start)
	n := int(d / (24 * time.Hour))
	if d%(24*time.Hour) != 0 {
		n++
	}
	return n
}
