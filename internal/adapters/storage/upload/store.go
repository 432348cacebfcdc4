package upload

import (
	"context"

	domain "ascend/internal/domain/upload"
)

// Store persists uploaded images in the object bucket.
type Store interface {
	Put(ctx context.Context, folder string, f domain.File) (domain.Object, error)
	Delete(ctx context.Context, path string) error
}
