package training

import (
	"context"

	"ascend/internal/adapters/remote"
	"ascend/internal/domain/table"
	domain "ascend/internal/domain/training"
)

// RemoteStore implements Store over the remote data client.
type RemoteStore struct {
	table remote.Table[domain.Session]
}

// NewRemoteStore creates a new training store scoped to the training_sessions table.
func NewRemoteStore(backend remote.Backend) *RemoteStore {
	return &RemoteStore{table: remote.NewTable[domain.Session](backend, table.TrainingSessions)}
}

// List retrieves training sessions, newest first.
// PRE: filter has valid parameters
// POST: Returns matching entities
func (s *RemoteStore) List(ctx context.Context, filter ListFilter) ([]domain.Session, error) {
	q := remote.Query{OrderBy: "id", Descending: true, Limit: filter.Limit}
	if filter.Status != "" {
		q.Filters = append(q.Filters, remote.Eq("status", filter.Status))
	}
	if filter.Level != "" {
		q.Filters = append(q.Filters, remote.Eq("level", filter.Level))
	}
	return s.table.List(ctx, q)
}

// GetByID retrieves a Session by its ID.
// PRE: id > 0
// POST: Returns the entity or an error wrapping remote.ErrNotFound
func (s *RemoteStore) GetByID(ctx context.Context, id int64) (domain.Session, error) {
	return s.table.Get(ctx, id)
}

// Create persists a new Session.
func (s *RemoteStore) Create(ctx context.Context, sess domain.Session) (domain.Session, error) {
	return s.table.Insert(ctx, sess)
}

// Update overwrites an existing Session.
func (s *RemoteStore) Update(ctx context.Context, sess domain.Session) (domain.Session, error) {
	return s.table.Update(ctx, sess.ID, sess, "created_at")
}

// Delete removes a Session.
func (s *RemoteStore) Delete(ctx context.Context, id int64) error {
	return s.table.Delete(ctx, id)
}
