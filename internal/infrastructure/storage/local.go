// Package storage persists uploaded profile images on the local filesystem
// and hands back the reference stored on the user record.
package storage

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

var ErrUnsupportedImage = errors.New("unsupported image type")

// allowedExtensions whitelists the accepted upload formats.
var allowedExtensions = map[string]struct{}{
	".jpg":  {},
	".jpeg": {},
	".png":  {},
	".webp": {},
}

// LocalImageStore writes profile images under a single directory. The stored
// reference is the public URL path the router serves the directory at.
type LocalImageStore struct {
	dir       string
	publicURL string
}

// NewLocalImageStore creates dir when missing.
func NewLocalImageStore(dir, publicURL string) (*LocalImageStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("image store: create dir: %w", err)
	}
	return &LocalImageStore{dir: dir, publicURL: strings.TrimSuffix(publicURL, "/")}, nil
}

// Save streams the upload to disk and returns its reference. Filenames are
// derived from the owner and the upload time, so a re-upload never collides
// with the previous image.
func (s *LocalImageStore) Save(userID, filename string, r io.Reader) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if _, ok := allowedExtensions[ext]; !ok {
		return "", ErrUnsupportedImage
	}

	name := fmt.Sprintf("%s_%d%s", userID, time.Now().UTC().UnixNano(), ext)
	path := filepath.Join(s.dir, name)

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("image store: create file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("image store: write file: %w", err)
	}

	return s.publicURL + "/" + name, nil
}

// Dir returns the directory uploads are written to.
func (s *LocalImageStore) Dir() string {
	return s.dir
}
