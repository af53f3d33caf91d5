package uploads

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// ErrInvalidName is returned for filenames that could escape the store
// directory.
var ErrInvalidName = errors.New("invalid filename")

var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// Store holds uploaded listing images in a single directory on disk.
type Store struct {
	dir string
}

// New creates the upload directory if needed and returns a Store over it.
func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}
	return &Store{dir: dir}, nil
}

// Save writes the uploaded file under a sanitized, uuid-prefixed name and
// returns the stored path.
func (s *Store) Save(src io.Reader, originalName string) (string, error) {
	base := unsafeChars.ReplaceAllString(filepath.Base(originalName), "_")
	base = strings.Trim(base, "._")
	if base == "" {
		base = "upload"
	}

	path := filepath.Join(s.dir, uuid.New().String()+"_"+base)

	dst, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create upload file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("failed to write upload file: %w", err)
	}
	return path, nil
}

// Remove deletes a stored file. A missing file is not an error; listings
// can outlive their images.
func (s *Store) Remove(path string) error {
	if path == "" {
		return nil
	}
	err := os.Remove(path)
	if errors.Is(err, fs.ErrNotExist) {
		log.Warn().Str("path", path).Msg("Upload file already gone, skipping")
		return nil
	}
	return err
}

// Resolve maps a bare filename to its path inside the store. Names with
// path separators or parent references are rejected.
func (s *Store) Resolve(filename string) (string, error) {
	if filename == "" ||
		filename != filepath.Base(filename) ||
		strings.Contains(filename, "..") ||
		strings.ContainsAny(filename, `/\`) {
		return "", ErrInvalidName
	}
	return filepath.Join(s.dir, filename), nil
}

// URL returns the public URL for a stored path, or nil when no image was
// uploaded.
func URL(path string) *string {
	if path == "" {
		return nil
	}
	u := "/static/uploads/" + filepath.Base(path)
	return &u
}
