package domain

import "strings"

type Listing struct {
	ID          string   `json:"id"`
	HostID      string   `json:"hostId"`
	Name        string   `json:"name"`
	Location    string   `json:"location"`
	MinGuestNum int      `json:"minGuestNum"`
	MaxGuestNum int      `json:"maxGuestNum"`
	Amenities   []string `json:"amenities"`
}

// Validate checks a listing as published by a host. ID may be empty on
// creation; the store assigns it.
func (l Listing) Validate() error {
	const op = "listing"
	switch {
	case strings.TrimSpace(l.HostID) == "":
		return Errorf(KindValidation, op, "hostId is required")
	case strings.TrimSpace(l.Name) == "":
		return Errorf(KindValidation, op, "name is required")
	case strings.TrimSpace(l.Location) == "":
		return Errorf(KindValidation, op, "location is required")
	case l.MinGuestNum < 0 || l.MaxGuestNum < 1:
		return Errorf(KindValidation, op, "guest bounds must be positive")
	case l.MinGuestNum > l.MaxGuestNum:
		return Errorf(KindValidation, op, "minGuestNum %d exceeds maxGuestNum %d", l.MinGuestNum, l.MaxGuestNum)
	}
	return nil
}

func (l Listing) Hosts(guests int) bool {
	return l.MinGuestNum <= guests && guests <= l.MaxGuestNum
}
