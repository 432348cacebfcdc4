package inquiry

import (
	"context"

	domain "ascend/internal/domain/inquiry"
)

// Store persists contact Inquiry state.
type Store interface {
	Create(ctx context.Context, i domain.Inquiry) (domain.Inquiry, error)
	List(ctx context.Context, limit int) ([]domain.Inquiry, error)
}
