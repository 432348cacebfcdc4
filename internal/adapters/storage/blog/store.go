package blog

import (
	"context"

	domain "ascend/internal/domain/blog"
)

// ListFilter narrows a post listing.
type ListFilter struct {
	PublishedOnly bool
	Category      string
	Limit         int
}

// Store persists blog Post state.
type Store interface {
	List(ctx context.Context, filter ListFilter) ([]domain.Post, error)
	GetByID(ctx context.Context, id int64) (domain.Post, error)
	GetBySlug(ctx context.Context, slug string) (domain.Post, error)
	Create(ctx context.Context, p domain.Post) (domain.Post, error)
	Update(ctx context.Context, p domain.Post) (domain.Post, error)
	Delete(ctx context.Context, id int64) error
}
