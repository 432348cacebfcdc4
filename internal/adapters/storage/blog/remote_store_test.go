package blog_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ascend/internal/adapters/remote"
	"ascend/internal/adapters/storage"
	"ascend/internal/adapters/storage/blog"
	domain "ascend/internal/domain/blog"
)

func newStore(t *testing.T) *blog.RemoteStore {
	t.Helper()
	db, err := storage.Open(storage.DialectSQLite, storage.SQLiteDSN(filepath.Join(t.TempDir(), "blog.db")))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, storage.Migrate(db, storage.DialectSQLite))
	return blog.NewRemoteStore(storage.NewSQLBackend(db, storage.DialectSQLite, nil))
}

func TestRemoteStore_CreateDerivesSlugAndReadTime(t *testing.T) {
	s := newStore(t)

	p, err := s.Create(context.Background(), domain.Post{
		Title:   "Pricing Your First Offer",
		Content: "Start with the outcome your client wants.",
	})
	require.NoError(t, err)
	assert.Equal(t, "pricing-your-first-offer", p.Slug)
	assert.Equal(t, 1, p.ReadTime)
	assert.False(t, p.Published)
}

func TestRemoteStore_GetBySlug(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	_, err := s.Create(ctx, domain.Post{Title: "Funding 101", Published: true})
	require.NoError(t, err)

	got, err := s.GetBySlug(ctx, "funding-101")
	require.NoError(t, err)
	assert.Equal(t, "Funding 101", got.Title)

	_, err = s.GetBySlug(ctx, "missing")
	assert.ErrorIs(t, err, remote.ErrNotFound)
}

func TestRemoteStore_ListPublishedByCategory(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	for _, p := range []domain.Post{
		{Title: "A", Category: "Funding", Published: true},
		{Title: "B", Category: "Funding", Published: false},
		{Title: "C", Category: "Marketing", Published: true},
		{Title: "D", Category: "Funding", Published: true},
	} {
		_, err := s.Create(ctx, p)
		require.NoError(t, err)
	}

	got, err := s.List(ctx, blog.ListFilter{PublishedOnly: true, Category: "Funding"})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "D", got[0].Title)
	assert.Equal(t, "A", got[1].Title)

	limited, err := s.List(ctx, blog.ListFilter{PublishedOnly: true, Limit: 1})
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestRemoteStore_UpdateSetsUpdatedAt(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	p, err := s.Create(ctx, domain.Post{Title: "Draft post"})
	require.NoError(t, err)
	s.SetClock(func() time.Time { return time.Date(2031, 1, 2, 3, 4, 5, 0, time.UTC) })

	p.Published = true
	updated, err := s.Update(ctx, p)
	require.NoError(t, err)
	assert.True(t, updated.Published)
	require.NotNil(t, updated.UpdatedAt)
	assert.True(t, updated.UpdatedAt.Equal(time.Date(2031, 1, 2, 3, 4, 5, 0, time.UTC)))
}
