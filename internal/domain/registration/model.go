package registration

import (
	"errors"
	"strings"
	"time"
)

// Status constants
const (
	StatusConfirmed = "confirmed"
	StatusPending   = "pending"
	StatusCancelled = "cancelled"
)

// Domain errors
var (
	ErrNoTarget      = errors.New("registration must reference an event or a training")
	ErrBothTargets   = errors.New("registration cannot reference both an event and a training")
	ErrMissingField  = errors.New("registration is missing a required field")
	ErrInvalidStatus = errors.New("registration status must be one of: confirmed, pending, cancelled")
	ErrInvalidEmail  = errors.New("email must contain '@'")
	ErrFieldTooLong  = errors.New("registration field cannot exceed 1000 characters")
)

// MaxFieldValueSize bounds each submitted form value.
const MaxFieldValueSize = 1000

// Registration is a public sign-up for an event or a training session.
type Registration struct {
	ID               int64             `json:"id,omitempty"`
	EventID          *int64            `json:"event_id,omitempty"`
	TrainingID       *int64            `json:"training_id,omitempty"`
	RegistrationData map[string]string `json:"registration_data"`
	Status           string            `json:"status"`
	CreatedAt        *time.Time        `json:"created_at,omitempty"`
}

// ForEvent builds a registration for an event. Free events are confirmed immediately.
// PRE: eventID > 0
// POST: Returns a registration with Status confirmed (free) or pending (paid)
func ForEvent(eventID int64, free bool, data map[string]string) Registration {
	id := eventID
	status := StatusPending
	if free {
		status = StatusConfirmed
	}
	return Registration{EventID: &id, RegistrationData: data, Status: status}
}

// Validate checks the registration against the required fields.
// PRE: required lists the field names the form asked for
// POST: Returns nil if a target is set and every required field is non-empty
func (r Registration) Validate(required []string) error {
	if r.EventID == nil && r.TrainingID == nil {
		return ErrNoTarget
	}
	if r.EventID != nil && r.TrainingID != nil {
		return ErrBothTargets
	}
	switch r.Status {
	case StatusConfirmed, StatusPending, StatusCancelled:
	default:
		return ErrInvalidStatus
	}
	for _, field := range required {
		if strings.TrimSpace(r.RegistrationData[field]) == "" {
			return ErrMissingField
		}
	}
	for _, v := range r.RegistrationData {
		if len(v) > MaxFieldValueSize {
			return ErrFieldTooLong
		}
	}
	if email, ok := r.RegistrationData["email"]; ok && !strings.Contains(email, "@") {
		return ErrInvalidEmail
	}
	return nil
}
