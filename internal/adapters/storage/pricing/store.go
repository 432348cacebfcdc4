package pricing

import (
	"context"

	domain "ascend/internal/domain/pricing"
)

// Store persists pricing Plan state.
type Store interface {
	List(ctx context.Context) ([]domain.Plan, error)
	GetByID(ctx context.Context, id int64) (domain.Plan, error)
	Create(ctx context.Context, p domain.Plan) (domain.Plan, error)
	Update(ctx context.Context, p domain.Plan) (domain.Plan, error)
	Delete(ctx context.Context, id int64) error
}
