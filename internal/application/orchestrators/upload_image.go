package orchestrators

import (
	"context"
	"log/slog"

	"ascend/internal/domain/upload"
)

// UploadStoreForImage defines the store interface needed by UploadImage.
type UploadStoreForImage interface {
	Put(ctx context.Context, folder string, f upload.File) (upload.Object, error)
	Delete(ctx context.Context, path string) error
}

// UploadImageInput carries one uploaded file.
type UploadImageInput struct {
	Folder   string
	Filename string
	Data     []byte
	Actor    string
}

// UploadImageDeps holds dependencies for UploadImage and DeleteImage.
type UploadImageDeps struct {
	UploadStore UploadStoreForImage
}

// ExecuteUploadImage validates and stores an image.
// PRE: Actor is an authenticated admin
// POST: Returns the public URL and storage path; invalid files never reach the bucket
func ExecuteUploadImage(ctx context.Context, input UploadImageInput, deps UploadImageDeps) (upload.Object, error) {
	f := upload.File{Name: input.Filename, Data: input.Data}
	if _, _, err := f.Validate(); err != nil {
		return upload.Object{}, err
	}
	obj, err := deps.UploadStore.Put(ctx, input.Folder, f)
	if err != nil {
		return upload.Object{}, err
	}
	slog.Info("admin_event", "event", "image_uploaded", "actor", input.Actor, "path", obj.Path)
	return obj, nil
}

// DeleteImageInput names a stored object to remove.
type DeleteImageInput struct {
	Path  string
	Actor string
}

// ExecuteDeleteImage removes a stored image.
// PRE: Actor is an authenticated admin
// POST: The object is removed from the bucket
func ExecuteDeleteImage(ctx context.Context, input DeleteImageInput, deps UploadImageDeps) error {
	if err := upload.ValidatePath(input.Path); err != nil {
		return err
	}
	if err := deps.UploadStore.Delete(ctx, input.Path); err != nil {
		return err
	}
	slog.Info("admin_event", "event", "image_deleted", "actor", input.Actor, "path", input.Path)
	return nil
}
