package audit

import (
	"errors"
	"strings"
	"time"
)

// Action is what an admin did in the back-office.
type Action string

const (
	ActionLogin         Action = "login"
	ActionLogout        Action = "logout"
	ActionPasswordReset Action = "password_reset"
	ActionCreate        Action = "create"
	ActionUpdate        Action = "update"
	ActionDelete        Action = "delete"
	ActionExport        Action = "export"
	ActionUpload        Action = "upload"
	ActionRemoveImage   Action = "remove_image"
)

var validActions = map[Action]bool{
	ActionLogin:         true,
	ActionLogout:        true,
	ActionPasswordReset: true,
	ActionCreate:        true,
	ActionUpdate:        true,
	ActionDelete:        true,
	ActionExport:        true,
	ActionUpload:        true,
	ActionRemoveImage:   true,
}

// MaxDetailLength caps the free-text detail stored with an event.
const MaxDetailLength = 500

// Domain errors
var (
	ErrEmptyActor    = errors.New("audit event needs an actor")
	ErrUnknownAction = errors.New("unknown audit action")
)

// Event is one entry of the back-office activity trail.
type Event struct {
	ID         int64     `json:"id,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
	Actor      string    `json:"actor"`
	Action     Action    `json:"action"`
	Resource   string    `json:"resource"`
	ResourceID string    `json:"resource_id"`
	Detail     string    `json:"detail"`
	RemoteAddr string    `json:"remote_addr"`
}

// NewEvent starts an event for actor at now.
// PRE: actor is the signed-in admin's email
// POST: Returns an Event with OccurredAt in UTC
func NewEvent(actor string, action Action, now time.Time) Event {
	return Event{
		OccurredAt: now.UTC(),
		Actor:      strings.ToLower(strings.TrimSpace(actor)),
		Action:     action,
	}
}

// WithResource names the table or object path acted on and its ids.
func (e Event) WithResource(resource string, ids ...string) Event {
	e.Resource = resource
	e.ResourceID = strings.Join(ids, ",")
	return e
}

// WithDetail attaches a short description, truncated to MaxDetailLength.
func (e Event) WithDetail(detail string) Event {
	if len(detail) > MaxDetailLength {
		detail = detail[:MaxDetailLength]
	}
	e.Detail = detail
	return e
}

// WithRemoteAddr records the client address of the request.
func (e Event) WithRemoteAddr(addr string) Event {
	e.RemoteAddr = addr
	return e
}

// Validate checks the event can be stored.
// PRE: none
// POST: Returns nil if Actor is set and Action is known
func (e Event) Validate() error {
	if e.Actor == "" {
		return ErrEmptyActor
	}
	if !validActions[e.Action] {
		return ErrUnknownAction
	}
	return nil
}

// Summary is a one-line description for the dashboard.
func (e Event) Summary() string {
	var b strings.Builder
	b.WriteString(string(e.Action))
	if e.Resource != "" {
		b.WriteString(" ")
		b.WriteString(e.Resource)
	}
	if e.ResourceID != "" {
		b.WriteString(" #")
		b.WriteString(strings.ReplaceAll(e.ResourceID, ",", ", #"))
	}
	if e.Detail != "" {
		b.WriteString(" (")
		b.WriteString(e.Detail)
		b.WriteString(")")
	}
	return b.String()
}
