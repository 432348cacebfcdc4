package event

import (
	"context"

	"ascend/internal/adapters/remote"
	domain "ascend/internal/domain/event"
	"ascend/internal/domain/table"
)

// RemoteStore implements Store over the remote data client.
type RemoteStore struct {
	table remote.Table[domain.Event]
}

// NewRemoteStore creates a new EventStore scoped to the events table.
func NewRemoteStore(backend remote.Backend) *RemoteStore {
	return &RemoteStore{table: remote.NewTable[domain.Event](backend, table.Events)}
}

// List retrieves events, soonest first when a lower date bound is set, else newest first.
// PRE: filter has valid parameters
// POST: Returns matching entities
func (s *RemoteStore) List(ctx context.Context, filter ListFilter) ([]domain.Event, error) {
	q := remote.Query{OrderBy: "id", Descending: true, Limit: filter.Limit}
	if filter.Status != "" {
		q.Filters = append(q.Filters, remote.Eq("status", filter.Status))
	}
	if !filter.From.IsZero() {
		q.Filters = append(q.Filters, remote.Gte("event_date", filter.From))
		q.OrderBy, q.Descending = "event_date", false
	}
	return s.table.List(ctx, q)
}

// GetByID retrieves an Event by its ID.
// PRE: id > 0
// POST: Returns the entity or an error wrapping remote.ErrNotFound
func (s *RemoteStore) GetByID(ctx context.Context, id int64) (domain.Event, error) {
	return s.table.Get(ctx, id)
}

// Create persists a new Event.
// PRE: e has been validated
// POST: Returns the stored entity with its assigned ID
func (s *RemoteStore) Create(ctx context.Context, e domain.Event) (domain.Event, error) {
	return s.table.Insert(ctx, e)
}

// Update overwrites an existing Event.
// PRE: e.ID > 0, e has been validated
// POST: Returns the stored entity
func (s *RemoteStore) Update(ctx context.Context, e domain.Event) (domain.Event, error) {
	return s.table.Update(ctx, e.ID, e, "created_at")
}

// Delete removes an Event.
// PRE: id > 0
// POST: Entity with given id is removed
func (s *RemoteStore) Delete(ctx context.Context, id int64) error {
	return s.table.Delete(ctx, id)
}
