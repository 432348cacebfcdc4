package newsletter

import (
	"errors"
	"strings"
	"time"
)

// Domain errors
var (
	ErrEmptyEmail   = errors.New("email is required")
	ErrInvalidEmail = errors.New("email must contain '@'")
	ErrEmailTooLong = errors.New("email cannot exceed 254 characters")
)

// Subscription is one newsletter sign-up.
type Subscription struct {
	ID           int64      `json:"id,omitempty"`
	Email        string     `json:"email"`
	SubscribedAt *time.Time `json:"subscribed_at,omitempty"`
}

// NormalizeEmail trims and lowercases an address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Validate checks the subscription email.
// PRE: Email is normalized
// POST: Returns nil if the email is present and plausible
func (s Subscription) Validate() error {
	if s.Email == "" {
		return ErrEmptyEmail
	}
	if len(s.Email) > 254 {
		return ErrEmailTooLong
	}
	at := strings.Index(s.Email, "@")
	if at <= 0 || at == len(s.Email)-1 {
		return ErrInvalidEmail
	}
	return nil
}
