package training

import (
	"errors"
	"strings"
	"time"
)

// Level constants
const (
	LevelBeginner     = "beginner"
	LevelIntermediate = "intermediate"
	LevelAdvanced     = "advanced"
)

// ValidLevels contains all valid training levels.
var ValidLevels = []string{LevelBeginner, LevelIntermediate, LevelAdvanced}

// Status constants
const (
	StatusDraft     = "draft"
	StatusPublished = "published"
	StatusEnded     = "ended"
)

// Domain errors
var (
	ErrEmptyTitle        = errors.New("training title cannot be empty")
	ErrInvalidLevel      = errors.New("training level must be one of: beginner, intermediate, advanced")
	ErrInvalidCapacity   = errors.New("training capacity cannot be negative")
	ErrEnrollmentOverCap = errors.New("current enrollment cannot exceed capacity")
	ErrInvalidPrice      = errors.New("training price cannot be negative")
)

// Session is one training program offering.
type Session struct {
	ID                int64      `json:"id,omitempty"`
	Title             string     `json:"title"`
	Instructor        string     `json:"instructor"`
	Level             string     `json:"level"`
	Schedule          string     `json:"schedule"`
	Capacity          int        `json:"capacity"`
	CurrentEnrollment int        `json:"current_enrollment"`
	Price             float64    `json:"price"`
	Status            string     `json:"status"`
	ImageURL          string     `json:"image_url"`
	CreatedAt         *time.Time `json:"created_at,omitempty"`
}

// Validate checks if the Session has valid data.
// PRE: Session struct is populated
// POST: Returns nil if valid, error otherwise
func (s Session) Validate() error {
	if strings.TrimSpace(s.Title) == "" {
		return ErrEmptyTitle
	}
	if s.Level != "" && !IsValidLevel(s.Level) {
		return ErrInvalidLevel
	}
	if s.Capacity < 0 {
		return ErrInvalidCapacity
	}
	if s.Capacity > 0 && s.CurrentEnrollment > s.Capacity {
		return ErrEnrollmentOverCap
	}
	if s.Price < 0 {
		return ErrInvalidPrice
	}
	return nil
}

// SpotsLeft returns remaining capacity; zero capacity means unlimited (-1).
func (s Session) SpotsLeft() int {
	if s.Capacity == 0 {
		return -1
	}
	left := s.Capacity - s.CurrentEnrollment
	if left < 0 {
		return 0
	}
	return left
}

// IsFull reports whether enrollment has reached capacity.
func (s Session) IsFull() bool {
	return s.SpotsLeft() == 0
}

// IsValidLevel reports whether level is a known training level.
func IsValidLevel(level string) bool {
	for _, l := range ValidLevels {
		if l == level {
			return true
		}
	}
	return false
}
