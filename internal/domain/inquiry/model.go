package inquiry

import (
	"errors"
	"strings"
	"time"
)

// Max length constants for user-editable fields.
const (
	MaxNameLength    = 200
	MaxSubjectLength = 200
	MaxMessageLength = 5000
)

// Domain errors
var (
	ErrEmptyName      = errors.New("name is required")
	ErrEmptyEmail     = errors.New("email is required")
	ErrInvalidEmail   = errors.New("email must contain '@'")
	ErrEmptySubject   = errors.New("subject is required")
	ErrEmptyMessage   = errors.New("message is required")
	ErrMessageTooLong = errors.New("message cannot exceed 5000 characters")
	ErrFieldTooLong   = errors.New("name and subject cannot exceed 200 characters")
)

// Inquiry is a contact form submission.
type Inquiry struct {
	ID        int64      `json:"id,omitempty"`
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	Phone     string     `json:"phone"`
	Subject   string     `json:"subject"`
	Message   string     `json:"message"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
}

// Validate checks the required contact form fields.
// PRE: Inquiry struct is populated from the form
// POST: Returns nil if name, email, subject and message are present and well-formed
func (i Inquiry) Validate() error {
	if strings.TrimSpace(i.Name) == "" {
		return ErrEmptyName
	}
	if strings.TrimSpace(i.Email) == "" {
		return ErrEmptyEmail
	}
	if !strings.Contains(i.Email, "@") {
		return ErrInvalidEmail
	}
	if strings.TrimSpace(i.Subject) == "" {
		return ErrEmptySubject
	}
	if strings.TrimSpace(i.Message) == "" {
		return ErrEmptyMessage
	}
	if len(i.Name) > MaxNameLength || len(i.Subject) > MaxSubjectLength {
		return ErrFieldTooLong
	}
	if len(i.Message) > MaxMessageLength {
		return ErrMessageTooLong
	}
	return nil
}

// Trimmed returns a copy with surrounding whitespace removed from every field.
func (i Inquiry) Trimmed() Inquiry {
	i.Name = strings.TrimSpace(i.Name)
	i.Email = strings.TrimSpace(i.Email)
	i.Phone = strings.TrimSpace(i.Phone)
	i.Subject = strings.TrimSpace(i.Subject)
	i.Message = strings.TrimSpace(i.Message)
	return i
}
