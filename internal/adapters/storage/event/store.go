package event

import (
	"context"
	"time"

	domain "ascend/internal/domain/event"
)

// ListFilter narrows an event listing.
type ListFilter struct {
	Status string    // exact status; empty means any
	From   time.Time // only events on or after From; zero means no bound
	Limit  int
}

// Store persists Event state.
type Store interface {
	List(ctx context.Context, filter ListFilter) ([]domain.Event, error)
	GetByID(ctx context.Context, id int64) (domain.Event, error)
	Create(ctx context.Context, e domain.Event) (domain.Event, error)
	Update(ctx context.Context, e domain.Event) (domain.Event, error)
	Delete(ctx context.Context, id int64) error
}
