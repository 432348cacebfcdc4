package training

import (
	"context"

	domain "ascend/internal/domain/training"
)

// ListFilter narrows a training listing.
type ListFilter struct {
	Status string
	Level  string
	Limit  int
}

// Store persists training Session state.
type Store interface {
	List(ctx context.Context, filter ListFilter) ([]domain.Session, error)
	GetByID(ctx context.Context, id int64) (domain.Session, error)
	Create(ctx context.Context, s domain.Session) (domain.Session, error)
	Update(ctx context.Context, s domain.Session) (domain.Session, error)
	Delete(ctx context.Context, id int64) error
}
