package projections

import (
	"context"

	"ascend/internal/adapters/storage/blog"
	"ascend/internal/adapters/storage/event"
	"ascend/internal/adapters/storage/training"
	domainAudit "ascend/internal/domain/audit"
	domainBlog "ascend/internal/domain/blog"
	domainEvent "ascend/internal/domain/event"
	domainPricing "ascend/internal/domain/pricing"
	domainTraining "ascend/internal/domain/training"
)

// TrainingStore interface for training session queries.
type TrainingStore interface {
	List(ctx context.Context, filter training.ListFilter) ([]domainTraining.Session, error)
}

// PlanStore interface for pricing plan queries.
type PlanStore interface {
	List(ctx context.Context) ([]domainPricing.Plan, error)
	GetByID(ctx context.Context, id int64) (domainPricing.Plan, error)
}

// EventStore interface for event queries.
type EventStore interface {
	List(ctx context.Context, filter event.ListFilter) ([]domainEvent.Event, error)
	GetByID(ctx context.Context, id int64) (domainEvent.Event, error)
}

// BlogStore interface for blog post queries.
type BlogStore interface {
	List(ctx context.Context, filter blog.ListFilter) ([]domainBlog.Post, error)
	GetBySlug(ctx context.Context, slug string) (domainBlog.Post, error)
}

// ActivityStore interface for the back-office activity trail.
type ActivityStore interface {
	ListRecent(ctx context.Context, limit int) ([]domainAudit.Event, error)
}
