package upload

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"ascend/internal/adapters/remote"
	domain "ascend/internal/domain/upload"
)

// BucketStore implements Store over the remote client's object storage.
type BucketStore struct {
	storage remote.Storage
	now     func() time.Time
	suffix  func() string
}

// NewBucketStore creates an upload store writing to storage.
func NewBucketStore(storage remote.Storage) *BucketStore {
	return &BucketStore{
		storage: storage,
		now:     time.Now,
		suffix:  func() string { return strings.ReplaceAll(uuid.NewString(), "-", "")[:12] },
	}
}

// Put validates f and stores it under folder.
// PRE: none
// POST: Returns the stored object's public URL and path; invalid files never reach storage
func (s *BucketStore) Put(ctx context.Context, folder string, f domain.File) (domain.Object, error) {
	contentType, ext, err := f.Validate()
	if err != nil {
		return domain.Object{}, err
	}
	folder, err = domain.NormalizeFolder(folder)
	if err != nil {
		return domain.Object{}, err
	}
	name := domain.ObjectName(folder, s.now(), s.suffix(), ext)
	if err := s.storage.Upload(ctx, name, bytes.NewReader(f.Data), contentType); err != nil {
		return domain.Object{}, fmt.Errorf("upload %s: %w", name, err)
	}
	slog.Info("upload_event", "event", "stored", "path", name, "bytes", len(f.Data))
	return domain.Object{URL: s.storage.PublicURL(name), Path: name}, nil
}

// Delete removes a stored object.
// PRE: path was returned by Put
// POST: The object is gone from storage
func (s *BucketStore) Delete(ctx context.Context, path string) error {
	if err := domain.ValidatePath(path); err != nil {
		return err
	}
	if err := s.storage.Remove(ctx, path); err != nil {
		return fmt.Errorf("remove %s: %w", path, err)
	}
	slog.Info("upload_event", "event", "removed", "path", path)
	return nil
}
