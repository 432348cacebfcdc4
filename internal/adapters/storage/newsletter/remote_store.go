package newsletter

import (
	"context"

	"ascend/internal/adapters/remote"
	domain "ascend/internal/domain/newsletter"
	"ascend/internal/domain/table"
)

// RemoteStore implements Store over the remote data client.
type RemoteStore struct {
	table remote.Table[domain.Subscription]
}

// NewRemoteStore creates a new newsletter store scoped to the newsletter_subscriptions table.
func NewRemoteStore(backend remote.Backend) *RemoteStore {
	return &RemoteStore{table: remote.NewTable[domain.Subscription](backend, table.NewsletterSubscriptions)}
}

// Create persists a new Subscription.
func (s *RemoteStore) Create(ctx context.Context, sub domain.Subscription) (domain.Subscription, error) {
	return s.table.Insert(ctx, sub)
}

// GetByEmail retrieves a Subscription by address.
// PRE: email is normalized
// POST: Returns the entity or an error wrapping remote.ErrNotFound
func (s *RemoteStore) GetByEmail(ctx context.Context, email string) (domain.Subscription, error) {
	return s.table.First(ctx, remote.Eq("email", email))
}
