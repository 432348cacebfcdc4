package registration

import (
	"context"

	"ascend/internal/adapters/remote"
	domain "ascend/internal/domain/registration"
	"ascend/internal/domain/table"
)

// RemoteStore implements Store over the remote data client.
type RemoteStore struct {
	table remote.Table[domain.Registration]
}

// NewRemoteStore creates a new registration store scoped to the registrations table.
func NewRemoteStore(backend remote.Backend) *RemoteStore {
	return &RemoteStore{table: remote.NewTable[domain.Registration](backend, table.Registrations)}
}

// Create persists a new Registration.
// PRE: r has been validated
// POST: Returns the stored entity with its assigned ID
func (s *RemoteStore) Create(ctx context.Context, r domain.Registration) (domain.Registration, error) {
	return s.table.Insert(ctx, r)
}

// ListByEvent retrieves every registration for an event, oldest first.
func (s *RemoteStore) ListByEvent(ctx context.Context, eventID int64) ([]domain.Registration, error) {
	return s.table.List(ctx, remote.Query{
		Filters: []remote.Filter{remote.Eq("event_id", eventID)},
		OrderBy: "id",
	})
}
