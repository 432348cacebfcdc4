package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"ascend/internal/adapters/notify"
	"ascend/internal/domain/event"
	"ascend/internal/domain/registration"
)

// EventStoreForRegister defines the store interface needed by RegisterForEvent.
type EventStoreForRegister interface {
	GetByID(ctx context.Context, id int64) (event.Event, error)
}

// RegistrationStoreForRegister defines the store interface needed by RegisterForEvent.
type RegistrationStoreForRegister interface {
	Create(ctx context.Context, r registration.Registration) (registration.Registration, error)
}

// RegisterForEventInput carries a public event sign-up.
type RegisterForEventInput struct {
	EventID int64
	Fields  map[string]string
}

// RegisterForEventDeps holds dependencies for RegisterForEvent.
// Notifier is optional.
type RegisterForEventDeps struct {
	EventStore        EventStoreForRegister
	RegistrationStore RegistrationStoreForRegister
	Notifier          notify.Notifier
}

var ErrEventNotOpen = errors.New("this event is not open for registration")

// ExecuteRegisterForEvent records a registration for a published event.
// Only the event's registration fields are kept from the submitted form.
// PRE: EventID > 0
// POST: Returns the stored registration, confirmed when the event is free and pending otherwise
func ExecuteRegisterForEvent(ctx context.Context, input RegisterForEventInput, deps RegisterForEventDeps) (registration.Registration, error) {
	ev, err := deps.EventStore.GetByID(ctx, input.EventID)
	if err != nil {
		return registration.Registration{}, err
	}
	if !ev.IsPublished() {
		return registration.Registration{}, ErrEventNotOpen
	}

	fields := ev.Fields()
	data := make(map[string]string, len(fields))
	for _, f := range fields {
		data[f] = strings.TrimSpace(input.Fields[f])
	}

	reg := registration.ForEvent(ev.ID, ev.IsFree(), data)
	if err := reg.Validate(fields); err != nil {
		return registration.Registration{}, err
	}

	created, err := deps.RegistrationStore.Create(ctx, reg)
	if err != nil {
		return registration.Registration{}, err
	}
	slog.Info("registration_event", "event", "registered", "event_id", ev.ID, "registration_id", created.ID, "status", created.Status)

	if deps.Notifier != nil {
		text := fmt.Sprintf("New %s registration for %s (%s)", created.Status, ev.Title, ev.EventDate.Format("2 Jan 2006"))
		if err := deps.Notifier.Notify(ctx, text); err != nil {
			slog.Error("registration_event", "event", "chat_notify_failed", "error", err)
		}
	}
	return created, nil
}
