package domain

import "strings"

// Caller is the identity on whose behalf a core operation runs. It is always
// passed in explicitly; nothing in the core reads a "current user".
type Caller struct {
	UserID string
}

func (c Caller) Validate(op string) error {
	if strings.TrimSpace(c.UserID) == "" {
		return Errorf(KindValidation, op, "caller identity is required")
	}
	return nil
}
