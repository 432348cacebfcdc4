package objectstore

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeS3 records calls made through s3API.
type fakeS3 struct {
	puts    map[string]string
	types   map[string]string
	deletes []string
	err     error
}

func (f *fakeS3) PutObject(ctx context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.puts[aws.ToString(in.Key)] = string(data)
	f.types[aws.ToString(in.Key)] = aws.ToString(in.ContentType)
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.deletes = append(f.deletes, aws.ToString(in.Key))
	return &s3.DeleteObjectOutput{}, nil
}

func TestS3Bucket_UploadAndRemove(t *testing.T) {
	fake := &fakeS3{puts: map[string]string{}, types: map[string]string{}}
	b := newS3Bucket(fake, "site-images", "https://cdn.example.com/")

	require.NoError(t, b.Upload(context.Background(), "blog/1-a.png", strings.NewReader("png"), "image/png"))
	assert.Equal(t, "png", fake.puts["blog/1-a.png"])
	assert.Equal(t, "image/png", fake.types["blog/1-a.png"])
	assert.Equal(t, "https://cdn.example.com/blog/1-a.png", b.PublicURL("blog/1-a.png"))

	require.NoError(t, b.Remove(context.Background(), "blog/1-a.png", "blog/2-b.png"))
	assert.Equal(t, []string{"blog/1-a.png", "blog/2-b.png"}, fake.deletes)
}

func TestS3Bucket_WrapsErrors(t *testing.T) {
	boom := errors.New("access denied")
	b := newS3Bucket(&fakeS3{err: boom}, "site-images", "")

	err := b.Upload(context.Background(), "x.png", strings.NewReader(""), "image/png")
	assert.ErrorIs(t, err, boom)
	assert.ErrorIs(t, b.Remove(context.Background(), "x.png"), boom)
	assert.Equal(t, "/x.png", b.PublicURL("x.png"))
}

func TestNewS3Bucket_RequiresCredentials(t *testing.T) {
	_, err := NewS3Bucket(context.Background(), S3Config{Bucket: "b"})
	assert.Error(t, err)
}

func TestLocalDir_UploadServeRemove(t *testing.T) {
	root := t.TempDir()
	d := NewLocalDir(root, "/uploads")
	ctx := context.Background()

	require.NoError(t, d.Upload(ctx, "events/1-a.png", strings.NewReader("image-bytes"), "image/png"))
	data, err := os.ReadFile(filepath.Join(root, "events", "1-a.png"))
	require.NoError(t, err)
	assert.Equal(t, "image-bytes", string(data))
	assert.Equal(t, "/uploads/events/1-a.png", d.PublicURL("events/1-a.png"))

	rec := httptest.NewRecorder()
	d.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/uploads/events/1-a.png", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image-bytes", rec.Body.String())

	rec = httptest.NewRecorder()
	d.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/uploads/events/", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	require.NoError(t, d.Remove(ctx, "events/1-a.png"))
	_, err = os.Stat(filepath.Join(root, "events", "1-a.png"))
	assert.True(t, os.IsNotExist(err))
	assert.NoError(t, d.Remove(ctx, "events/1-a.png"), "removing a missing object is a no-op")
}

func TestLocalDir_RejectsEscapingPaths(t *testing.T) {
	d := NewLocalDir(t.TempDir(), "/uploads/")
	ctx := context.Background()

	for _, p := range []string{"", "../outside.png", "/etc/passwd", "a/../../b.png"} {
		assert.ErrorIs(t, d.Upload(ctx, p, strings.NewReader("x"), "image/png"), ErrUnsafePath, p)
		assert.ErrorIs(t, d.Remove(ctx, p), ErrUnsafePath, p)
	}
}
