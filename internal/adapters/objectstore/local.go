package objectstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"ascend/internal/adapters/remote"
)

// ErrUnsafePath is returned for paths that would escape the root directory.
var ErrUnsafePath = errors.New("object path escapes storage root")

// LocalDir stores objects as files under a root directory, served at URLPrefix.
type LocalDir struct {
	root      string
	urlPrefix string
}

var _ remote.Storage = (*LocalDir)(nil)

// NewLocalDir creates a directory-backed store.
// PRE: root is writable; urlPrefix is the route the directory is served at (e.g. "/uploads/")
// POST: Returns a store; root is created lazily on first upload
func NewLocalDir(root, urlPrefix string) *LocalDir {
	if !strings.HasSuffix(urlPrefix, "/") {
		urlPrefix += "/"
	}
	return &LocalDir{root: root, urlPrefix: urlPrefix}
}

// URLPrefix returns the route objects are served under.
func (d *LocalDir) URLPrefix() string {
	return d.urlPrefix
}

// Handler serves stored files under URLPrefix without directory listings.
func (d *LocalDir) Handler() http.Handler {
	return http.StripPrefix(d.urlPrefix, http.FileServer(noListing{http.Dir(d.root)}))
}

// resolve maps an object path to a file path inside root.
func (d *LocalDir) resolve(path string) (string, error) {
	if path == "" || filepath.IsAbs(path) || !filepath.IsLocal(filepath.FromSlash(path)) {
		return "", fmt.Errorf("%w: %q", ErrUnsafePath, path)
	}
	return filepath.Join(d.root, filepath.FromSlash(path)), nil
}

// Upload writes body to root/path.
// PRE: path is relative and stays inside root
// POST: File created, replacing any previous object at path
func (d *LocalDir) Upload(ctx context.Context, path string, body io.Reader, contentType string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	fullPath, err := d.resolve(path)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(fullPath), 0o750); err != nil {
		return fmt.Errorf("mkdir: %w", err)
	}
	f, err := os.Create(fullPath)
	if err != nil {
		return fmt.Errorf("create: %w", err)
	}
	if _, err := io.Copy(f, body); err != nil {
		f.Close()
		return fmt.Errorf("write: %w", err)
	}
	return f.Close()
}

// PublicURL returns the served address of path.
func (d *LocalDir) PublicURL(path string) string {
	return d.urlPrefix + path
}

// Remove deletes each path. Missing files are not an error.
func (d *LocalDir) Remove(ctx context.Context, paths ...string) error {
	for _, p := range paths {
		fullPath, err := d.resolve(p)
		if err != nil {
			return err
		}
		if err := os.Remove(fullPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("remove %s: %w", p, err)
		}
	}
	return nil
}

// noListing hides directory indexes from http.FileServer.
type noListing struct {
	fs http.FileSystem
}

func (n noListing) Open(name string) (http.File, error) {
	f, err := n.fs.Open(name)
	if err != nil {
		return nil, err
	}
	stat, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	if stat.IsDir() {
		f.Close()
		return nil, fs.ErrNotExist
	}
	return f, nil
}
