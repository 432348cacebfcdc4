package pricing

import (
	"context"

	"ascend/internal/adapters/remote"
	domain "ascend/internal/domain/pricing"
	"ascend/internal/domain/table"
)

// RemoteStore implements Store over the remote data client.
type RemoteStore struct {
	table remote.Table[domain.Plan]
}

// NewRemoteStore creates a new pricing store scoped to the pricing_plans table.
func NewRemoteStore(backend remote.Backend) *RemoteStore {
	return &RemoteStore{table: remote.NewTable[domain.Plan](backend, table.PricingPlans)}
}

// List retrieves the catalog, cheapest first.
// PRE: none
// POST: Returns all plans ordered by price
func (s *RemoteStore) List(ctx context.Context) ([]domain.Plan, error) {
	return s.table.List(ctx, remote.Query{OrderBy: "price"})
}

// GetByID retrieves a Plan by its ID.
func (s *RemoteStore) GetByID(ctx context.Context, id int64) (domain.Plan, error) {
	return s.table.Get(ctx, id)
}

// Create persists a new Plan.
func (s *RemoteStore) Create(ctx context.Context, p domain.Plan) (domain.Plan, error) {
	return s.table.Insert(ctx, p)
}

// Update overwrites an existing Plan.
func (s *RemoteStore) Update(ctx context.Context, p domain.Plan) (domain.Plan, error) {
	return s.table.Update(ctx, p.ID, p)
}

// Delete removes a Plan.
func (s *RemoteStore) Delete(ctx context.Context, id int64) error {
	return s.table.Delete(ctx, id)
}
