package audit

import (
	"context"

	"ascend/internal/adapters/remote"
	domain "ascend/internal/domain/audit"
	"ascend/internal/domain/table"
)

// RemoteStore implements Store over the remote data client.
type RemoteStore struct {
	table remote.Table[domain.Event]
}

// NewRemoteStore creates a new audit store scoped to the admin_activity table.
func NewRemoteStore(backend remote.Backend) *RemoteStore {
	return &RemoteStore{table: remote.NewTable[domain.Event](backend, table.AdminActivity)}
}

// Save persists an audit event.
func (s *RemoteStore) Save(ctx context.Context, event domain.Event) error {
	_, err := s.table.Insert(ctx, event)
	return err
}

// ListRecent returns the newest events first.
func (s *RemoteStore) ListRecent(ctx context.Context, limit int) ([]domain.Event, error) {
	return s.table.List(ctx, remote.Query{OrderBy: "id", Descending: true, Limit: limit})
}
