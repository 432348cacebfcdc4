package admin

import (
	"context"

	domain "ascend/internal/domain/admin"
)

// Store persists admin User state.
type Store interface {
	GetByEmail(ctx context.Context, email string) (domain.User, error)
	Save(ctx context.Context, u domain.User) error
	List(ctx context.Context) ([]domain.User, error)
}
