package domain_test

import (
	"errors"
	"testing"
	"time"

	"stayhub/internal/domain"
)

func day(s string) time.Time {
	t, err := time.ParseInLocation(domain.DayLayout, s, time.UTC)
	if err != nil {
		panic(err)
	}
	return t
}

func TestParseDate_DayAndInstant(t *testing.T) {
	d, err := domain.ParseDate("2024-06-01")
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if !d.Equal(day("2024-06-01")) || d.Location() != time.UTC {
		t.Fatalf("unexpected day: %v", d)
	}

	i, err := domain.ParseDate("2024-06-01T10:00:00+02:00")
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if i.Hour() != 8 || i.Location() != time.UTC {
		t.Fatalf("expected UTC normalisation, got %v", i)
	}
}

func TestParseDate_Malformed(t *testing.T) {
	for _, in := range []string{"", "06/01/2024", "2024-13-01", "yesterday"} {
		_, err := domain.ParseDate(in)
		if !errors.Is(err, domain.ErrValidation) {
			t.Fatalf("%q: expected validation error, got %v", in, err)
		}
	}
}

func TestParseOptionalDate_Empty(t *testing.T) {
	p, err := domain.ParseOptionalDate("  ")
	if err != nil || p != nil {
		t.Fatalf("expected nil, nil; got %v, %v", p, err)
	}
}

func TestDateRange_Contains(t *testing.T) {
	w := domain.NewDateRange(day("2024-06-01"), day("2024-06-30"))
	cases := []struct {
		s, e string
		want bool
	}{
		{"2024-06-05", "2024-06-10", true},
		{"2024-06-01", "2024-06-30", true},
		{"2024-05-25", "2024-06-10", false},
		{"2024-06-25", "2024-07-02", false},
	}
	for _, c := range cases {
		if got := w.Contains(domain.NewDateRange(day(c.s), day(c.e))); got != c.want {
			t.Fatalf("%s..%s: got %v want %v", c.s, c.e, got, c.want)
		}
	}
}

func TestDateRange_OverlapsIsHalfOpen(t *testing.T) {
	a := domain.NewDateRange(day("2024-06-01"), day("2024-06-05"))
	b := domain.NewDateRange(day("2024-06-05"), day("2024-06-08"))
	c := domain.NewDateRange(day("2024-06-04"), day("2024-06-06"))
	if a.Overlaps(b) {
		t.Fatalf("back-to-back ranges must not overlap")
	}
	if !a.Overlaps(c) || !c.Overlaps(b) {
		t.Fatalf("expected overlap")
	}
}

func TestDateRange_Nights(t *testing.T) {
	r := domain.NewDateRange(day("2024-06-05"), day("2024-06-10"))
	if r.Nights() != 5 {
		t.Fatalf("nights: %d", r.Nights())
	}
	partial := domain.NewDateRange(day("2024-06-05"), day("2024-06-05").Add(30*time.Hour))
	if partial.Nights() != 2 {
		t.Fatalf("partial nights: %d", partial.Nights())
	}
}
