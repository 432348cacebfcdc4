package projections

import (
	"context"
	"fmt"
	"time"

	"ascend/internal/adapters/remote"
	"ascend/internal/adapters/storage/event"
	domainEvent "ascend/internal/domain/event"
)

// GetEventsQuery carries query parameters.
type GetEventsQuery struct {
	Now time.Time
}

// GetEventsDeps holds dependencies for the event projections.
type GetEventsDeps struct {
	EventStore EventStore
}

// GetEventsResult carries the public event listing.
type GetEventsResult struct {
	Events []domainEvent.Event
}

// QueryGetEvents lists upcoming published events, soonest first.
// PRE: Now is set
// POST: Every returned event is published and starts at or after Now
func QueryGetEvents(ctx context.Context, query GetEventsQuery, deps GetEventsDeps) (GetEventsResult, error) {
	events, err := deps.EventStore.List(ctx, event.ListFilter{Status: domainEvent.StatusPublished, From: query.Now})
	if err != nil {
		return GetEventsResult{}, err
	}
	return GetEventsResult{Events: events}, nil
}

// GetEventQuery identifies one event.
type GetEventQuery struct {
	ID int64
}

// GetEventResult carries an event page with its registration form fields.
type GetEventResult struct {
	Event  domainEvent.Event
	Fields []string
}

// QueryGetEvent loads a published event for its detail page.
// PRE: ID > 0
// POST: Returns the event, or an error wrapping remote.ErrNotFound when it is missing or unpublished
func QueryGetEvent(ctx context.Context, query GetEventQuery, deps GetEventsDeps) (GetEventResult, error) {
	ev, err := deps.EventStore.GetByID(ctx, query.ID)
	if err != nil {
		return GetEventResult{}, err
	}
	if !ev.IsPublished() {
		return GetEventResult{}, fmt.Errorf("event %d: %w", query.ID, remote.ErrNotFound)
	}
	return GetEventResult{Event: ev, Fields: ev.Fields()}, nil
}
