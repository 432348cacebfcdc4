package newsletter

import (
	"context"

	domain "ascend/internal/domain/newsletter"
)

// Store persists newsletter Subscription state.
type Store interface {
	Create(ctx context.Context, s domain.Subscription) (domain.Subscription, error)
	GetByEmail(ctx context.Context, email string) (domain.Subscription, error)
}
