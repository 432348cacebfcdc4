package registration

import (
	"context"

	domain "ascend/internal/domain/registration"
)

// Store persists Registration state.
type Store interface {
	Create(ctx context.Context, r domain.Registration) (domain.Registration, error)
	ListByEvent(ctx context.Context, eventID int64) ([]domain.Registration, error)
}
