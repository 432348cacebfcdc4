package upload

import (
	"errors"
	"fmt"
	"net/http"
	"path"
	"strings"
	"time"
)

// MaxSize is the largest accepted upload (5 MB).
const MaxSize = 5 << 20

// DefaultFolder is used when no folder is given.
const DefaultFolder = "images"

// allowedTypes maps sniffed image content types to file extensions.
var allowedTypes = map[string]string{
	"image/png":  "png",
	"image/jpeg": "jpg",
	"image/gif":  "gif",
	"image/webp": "webp",
}

// Domain errors
var (
	ErrEmpty         = errors.New("file is empty")
	ErrTooLarge      = errors.New("file exceeds 5 MB limit")
	ErrNotImage      = errors.New("file must be a PNG, JPEG, GIF or WebP image")
	ErrInvalidFolder = errors.New("folder may only contain letters, digits, hyphens and slashes")
	ErrInvalidPath   = errors.New("object path is invalid")
)

// File is an upload candidate held in memory.
type File struct {
	Name string
	Data []byte
}

// Object is a stored upload.
type Object struct {
	URL  string `json:"url"`
	Path string `json:"path"`
}

// Validate sniffs the content and enforces the size limit.
// PRE: none
// POST: Returns the content type and extension when the file is an accepted image
func (f File) Validate() (contentType, ext string, err error) {
	if len(f.Data) == 0 {
		return "", "", ErrEmpty
	}
	if len(f.Data) > MaxSize {
		return "", "", ErrTooLarge
	}
	contentType = http.DetectContentType(f.Data)
	ext, ok := allowedTypes[contentType]
	if !ok {
		return "", "", ErrNotImage
	}
	return contentType, ext, nil
}

// NormalizeFolder cleans a folder prefix; empty means DefaultFolder.
// PRE: none
// POST: Returns a folder without leading/trailing slashes, or ErrInvalidFolder
func NormalizeFolder(folder string) (string, error) {
	folder = strings.Trim(strings.TrimSpace(folder), "/")
	if folder == "" {
		return DefaultFolder, nil
	}
	for _, r := range folder {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_', r == '/':
		default:
			return "", ErrInvalidFolder
		}
	}
	if strings.Contains(folder, "//") {
		return "", ErrInvalidFolder
	}
	return folder, nil
}

// ObjectName builds the collision-resistant storage path <folder>/<unix-millis>-<suffix>.<ext>.
// PRE: folder is normalized, suffix is non-empty
// POST: Returns a path unique for distinct (now, suffix) pairs
func ObjectName(folder string, now time.Time, suffix, ext string) string {
	return fmt.Sprintf("%s/%d-%s.%s", folder, now.UnixMilli(), suffix, ext)
}

// ValidatePath rejects empty, absolute or traversing object paths.
func ValidatePath(p string) error {
	if p == "" || strings.HasPrefix(p, "/") || strings.Contains(p, "\\") {
		return ErrInvalidPath
	}
	if path.Clean(p) != p || strings.HasPrefix(p, "..") || strings.Contains(p, "/../") {
		return ErrInvalidPath
	}
	return nil
}
