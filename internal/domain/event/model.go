package event

import (
	"errors"
	"strings"
	"time"
)

// Status constants
const (
	StatusDraft     = "draft"
	StatusPublished = "published"
	StatusEnded     = "ended"
)

// ValidStatuses contains all valid event statuses.
var ValidStatuses = []string{StatusDraft, StatusPublished, StatusEnded}

// Max length constants for user-editable fields.
const (
	MaxTitleLength       = 200
	MaxDescriptionLength = 10000
)

// Domain errors
var (
	ErrEmptyTitle      = errors.New("event title cannot be empty")
	ErrTitleTooLong    = errors.New("event title cannot exceed 200 characters")
	ErrMissingDate     = errors.New("event date is required")
	ErrInvalidStatus   = errors.New("event status must be one of: draft, published, ended")
	ErrInvalidCapacity = errors.New("event capacity cannot be negative")
	ErrInvalidPrice    = errors.New("event price cannot be negative")
)

// Event is a public workshop or networking event.
type Event struct {
	ID                 int64      `json:"id,omitempty"`
	Title              string     `json:"title"`
	Description        string     `json:"description"`
	EventDate          time.Time  `json:"event_date"`
	Location           string     `json:"location"`
	Capacity           int        `json:"capacity"`
	Price              float64    `json:"price"`
	Status             string     `json:"status"`
	RegistrationFields []string   `json:"registration_fields"`
	ImageURL           string     `json:"image_url"`
	CreatedAt          *time.Time `json:"created_at,omitempty"`
}

// Validate checks if the Event has valid data.
// PRE: Event struct is populated
// POST: Returns nil if valid, error otherwise
func (e Event) Validate() error {
	if strings.TrimSpace(e.Title) == "" {
		return ErrEmptyTitle
	}
	if len(e.Title) > MaxTitleLength {
		return ErrTitleTooLong
	}
	if len(e.Description) > MaxDescriptionLength {
		return errors.New("event description cannot exceed 10000 characters")
	}
	if e.EventDate.IsZero() {
		return ErrMissingDate
	}
	if e.Capacity < 0 {
		return ErrInvalidCapacity
	}
	if e.Price < 0 {
		return ErrInvalidPrice
	}
	if e.Status != "" && !isValidStatus(e.Status) {
		return ErrInvalidStatus
	}
	return nil
}

// IsPublished reports whether the event is visible on public pages.
func (e Event) IsPublished() bool {
	return e.Status == StatusPublished
}

// IsFree reports whether registration needs no payment.
func (e Event) IsFree() bool {
	return e.Price <= 0
}

// IsUpcoming reports whether the event starts at or after now.
// PRE: now is a valid time
// POST: Returns true if EventDate >= now
func (e Event) IsUpcoming(now time.Time) bool {
	return !e.EventDate.Before(now)
}

// Fields returns the registration form fields, defaulting to name and email.
// INVARIANT: Event is not mutated
func (e Event) Fields() []string {
	if len(e.RegistrationFields) == 0 {
		return []string{"name", "email"}
	}
	return e.RegistrationFields
}

func isValidStatus(s string) bool {
	for _, v := range ValidStatuses {
		if v == s {
			return true
		}
	}
	return false
}
