package audit

import (
	"context"

	domain "ascend/internal/domain/audit"
)

// Store persists the back-office activity trail.
type Store interface {
	// Save persists an audit event.
	// PRE: event passed Validate
	// POST: Event is persisted
	Save(ctx context.Context, event domain.Event) error

	// ListRecent returns the newest events first.
	// PRE: limit > 0
	// POST: Returns at most limit events ordered by id desc
	ListRecent(ctx context.Context, limit int) ([]domain.Event, error)
}

// Ensure RemoteStore implements Store interface.
var _ Store = (*RemoteStore)(nil)
