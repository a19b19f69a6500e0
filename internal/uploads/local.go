// Package uploads stores image blobs on the local filesystem and hands out
// stable keys plus the public /uploads URLs they are served under.
package uploads

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// URLPrefix is the path the HTTP layer serves the root directory under.
const URLPrefix = "/uploads"

var mimeToExt = map[string]string{
	"image/jpeg":    "jpg",
	"image/jpg":     "jpg",
	"image/png":     "png",
	"image/gif":     "gif",
	"image/webp":    "webp",
	"image/svg+xml": "svg",
	"image/bmp":     "bmp",
	"image/tiff":    "tiff",
}

// Object is the handle returned for a stored file. Key is the filename and
// is what callers keep for later deletion; URL is the public serving path.
type Object struct {
	Key string `json:"key"`
	URL string `json:"url"`
}

type Store struct {
	root   string
	logger *zap.SugaredLogger
}

// NewStore creates the root directory if needed and returns the store.
func NewStore(root string, logger *zap.SugaredLogger) (*Store, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create upload directory %s: %w", root, err)
	}
	return &Store{root: root, logger: logger}, nil
}

// Root returns the absolute directory the store writes into, for wiring the
// static file server.
func (s *Store) Root() string {
	return s.root
}

// Put persists the bytes under a generated unique filename and returns its
// handle. Write errors propagate to the caller.
func (s *Store) Put(data []byte, mimeType, prefix string) (*Object, error) {
	if prefix == "" {
		prefix = "uploads"
	}

	filename := fmt.Sprintf("%s-%s.%s", prefix, uuid.NewString(), extFromMIME(mimeType))
	path := filepath.Join(s.root, filename)

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return nil, fmt.Errorf("write file %s: %w", path, err)
	}

	return &Object{Key: filename, URL: URLPrefix + "/" + filename}, nil
}

// Delete removes the file if present. A missing file returns false rather
// than an error; deleting twice is safe. I/O failures are logged, not
// propagated, since cleanup never blocks the caller's primary intent.
func (s *Store) Delete(key string) bool {
	path := filepath.Join(s.root, filepath.Base(key))

	if _, err := os.Stat(path); err != nil {
		return false
	}
	if err := os.Remove(path); err != nil {
		s.logger.Errorw("failed to delete file", "path", path, "error", err)
		return false
	}
	return true
}

func (s *Store) Exists(key string) bool {
	_, err := os.Stat(filepath.Join(s.root, filepath.Base(key)))
	return err == nil
}

// Copy duplicates an existing file under a new generated name. Returns nil
// when the source is missing.
func (s *Store) Copy(sourceKey, destPrefix string) (*Object, error) {
	if destPrefix == "" {
		destPrefix = "copy"
	}

	sourcePath := filepath.Join(s.root, filepath.Base(sourceKey))
	data, err := os.ReadFile(sourcePath)
	if err != nil {
		if os.IsNotExist(err) {
			s.logger.Warnw("copy source not found", "key", sourceKey)
			return nil, nil
		}
		return nil, fmt.Errorf("read source %s: %w", sourcePath, err)
	}

	ext := strings.TrimPrefix(filepath.Ext(sourceKey), ".")
	if ext == "" {
		ext = "jpg"
	}

	filename := fmt.Sprintf("%s-%s.%s", destPrefix, uuid.NewString(), ext)
	destPath := filepath.Join(s.root, filename)
	if err := os.WriteFile(destPath, data, 0o644); err != nil {
		return nil, fmt.Errorf("write copy %s: %w", destPath, err)
	}

	return &Object{Key: filename, URL: URLPrefix + "/" + filename}, nil
}

func extFromMIME(mimeType string) string {
	if ext, ok := mimeToExt[mimeType]; ok {
		return ext
	}
	if _, sub, found := strings.Cut(mimeType, "/"); found && sub != "" {
		return sub
	}
	return "jpg"
}
