package blog

import (
	"context"
	"time"

	"ascend/internal/adapters/remote"
	domain "ascend/internal/domain/blog"
	"ascend/internal/domain/table"
)

// RemoteStore implements Store over the remote data client.
type RemoteStore struct {
	table remote.Table[domain.Post]
	now   func() time.Time
}

// NewRemoteStore creates a new blog store scoped to the blog_posts table.
func NewRemoteStore(backend remote.Backend) *RemoteStore {
	return &RemoteStore{
		table: remote.NewTable[domain.Post](backend, table.BlogPosts),
		now:   time.Now,
	}
}

// SetClock overrides the time source used for updated_at.
func (s *RemoteStore) SetClock(now func() time.Time) {
	s.now = now
}

// List retrieves posts, newest first.
// PRE: filter has valid parameters
// POST: Returns matching entities
func (s *RemoteStore) List(ctx context.Context, filter ListFilter) ([]domain.Post, error) {
	q := remote.Query{OrderBy: "id", Descending: true, Limit: filter.Limit}
	if filter.PublishedOnly {
		q.Filters = append(q.Filters, remote.Eq("published", true))
	}
	if filter.Category != "" {
		q.Filters = append(q.Filters, remote.Eq("category", filter.Category))
	}
	return s.table.List(ctx, q)
}

// GetByID retrieves a Post by its ID.
func (s *RemoteStore) GetByID(ctx context.Context, id int64) (domain.Post, error) {
	return s.table.Get(ctx, id)
}

// GetBySlug retrieves a Post by its URL slug.
// PRE: slug is non-empty
// POST: Returns the entity or an error wrapping remote.ErrNotFound
func (s *RemoteStore) GetBySlug(ctx context.Context, slug string) (domain.Post, error) {
	return s.table.First(ctx, remote.Eq("slug", slug))
}

// Create persists a new Post, deriving slug and read time when missing.
// PRE: p has been validated
// POST: Returns the stored entity with its assigned ID
func (s *RemoteStore) Create(ctx context.Context, p domain.Post) (domain.Post, error) {
	p.Normalize()
	return s.table.Insert(ctx, p)
}

// Update overwrites an existing Post and bumps updated_at.
// PRE: p.ID > 0
// POST: Returns the stored entity
func (s *RemoteStore) Update(ctx context.Context, p domain.Post) (domain.Post, error) {
	p.Normalize()
	now := s.now().UTC()
	p.UpdatedAt = &now
	return s.table.Update(ctx, p.ID, p, "created_at")
}

// Delete removes a Post.
func (s *RemoteStore) Delete(ctx context.Context, id int64) error {
	return s.table.Delete(ctx, id)
}
