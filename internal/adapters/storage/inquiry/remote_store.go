package inquiry

import (
	"context"

	"ascend/internal/adapters/remote"
	domain "ascend/internal/domain/inquiry"
	"ascend/internal/domain/table"
)

// RemoteStore implements Store over the remote data client.
type RemoteStore struct {
	table remote.Table[domain.Inquiry]
}

// NewRemoteStore creates a new inquiry store scoped to the contact_inquiries table.
func NewRemoteStore(backend remote.Backend) *RemoteStore {
	return &RemoteStore{table: remote.NewTable[domain.Inquiry](backend, table.ContactInquiries)}
}

// Create persists a new Inquiry.
func (s *RemoteStore) Create(ctx context.Context, i domain.Inquiry) (domain.Inquiry, error) {
	return s.table.Insert(ctx, i)
}

// List retrieves the most recent inquiries. limit <= 0 means all.
func (s *RemoteStore) List(ctx context.Context, limit int) ([]domain.Inquiry, error) {
	return s.table.List(ctx, remote.Query{OrderBy: "id", Descending: true, Limit: limit})
}
