package newsletter_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ascend/internal/adapters/remote"
	"ascend/internal/adapters/storage"
	"ascend/internal/adapters/storage/newsletter"
	domain "ascend/internal/domain/newsletter"
)

func TestRemoteStore_CreateAndGetByEmail(t *testing.T) {
	db, err := storage.Open(storage.DialectSQLite, storage.SQLiteDSN(filepath.Join(t.TempDir(), "newsletter.db")))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, storage.Migrate(db, storage.DialectSQLite))
	s := newsletter.NewRemoteStore(storage.NewSQLBackend(db, storage.DialectSQLite, nil))
	ctx := context.Background()

	created, err := s.Create(ctx, domain.Subscription{Email: "mere@kiri.example"})
	require.NoError(t, err)
	assert.NotZero(t, created.ID)
	require.NotNil(t, created.SubscribedAt, "subscribed_at comes from the column default")

	got, err := s.GetByEmail(ctx, "mere@kiri.example")
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)

	_, err = s.GetByEmail(ctx, "nobody@kiri.example")
	assert.ErrorIs(t, err, remote.ErrNotFound)

	_, err = s.Create(ctx, domain.Subscription{Email: "mere@kiri.example"})
	assert.Error(t, err, "email is unique")
}
