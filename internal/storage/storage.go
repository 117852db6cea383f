// Package storage keeps image bytes on local disk. Each room owns
// <root>/<room_id>/images for live files and <root>/<room_id>/trash for
// deleted ones; metadata lives in the database.
package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

// timestampTZ controls the timezone of timestamped filenames.
const timestampTZ = "Europe/Berlin"

const (
	imagesDir = "images"
	trashDir  = "trash"
)

// unsafeChars matches everything that is not kept in a stored filename.
var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// Store is a per-room image file store rooted at a single directory.
type Store struct {
	root string
	loc  *time.Location
}

// New creates a Store rooted at dir, creating it if needed.
func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	loc, err := time.LoadLocation(timestampTZ)
	if err != nil {
		// No tzdata on the host; UTC filenames still sort correctly.
		loc = time.UTC
	}

	return &Store{root: dir, loc: loc}, nil
}

// Root returns the store's root directory.
func (s *Store) Root() string {
	return s.root
}

// Save writes an uploaded file under the room's images directory. The stored
// name is the upload timestamp (microsecond precision, to avoid collisions
// between same-named uploads) joined with a sanitized original name.
func (s *Store) Save(roomID, originalName string, r io.Reader) (storedName string, size int64, err error) {
	dir := filepath.Join(s.root, roomID, imagesDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", 0, fmt.Errorf("create room images dir: %w", err)
	}

	storedName = s.timestamp() + "_" + SanitizeName(originalName)

	f, err := os.OpenFile(filepath.Join(dir, storedName), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", 0, fmt.Errorf("create image file: %w", err)
	}

	size, err = io.Copy(f, r)
	if err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", 0, fmt.Errorf("write image file: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", 0, fmt.Errorf("close image file: %w", err)
	}

	return storedName, size, nil
}

// Open opens a stored image for reading.
func (s *Store) Open(roomID, storedName string) (*os.File, error) {
	path, err := s.imagePath(roomID, storedName)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open image file: %w", err)
	}
	return f, nil
}

// Trash moves a stored image into the room's trash directory instead of
// deleting it, so a host mistake is recoverable by hand.
func (s *Store) Trash(roomID, storedName string) error {
	path, err := s.imagePath(roomID, storedName)
	if err != nil {
		return err
	}

	dir := filepath.Join(s.root, roomID, trashDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create room trash dir: %w", err)
	}

	if err := os.Rename(path, filepath.Join(dir, storedName)); err != nil {
		return fmt.Errorf("move image to trash: %w", err)
	}

	return nil
}

// RemoveTrashed permanently deletes a file from the room's trash directory.
// A file already gone is not an error.
func (s *Store) RemoveTrashed(roomID, storedName string) error {
	if !validName(storedName) {
		return fmt.Errorf("invalid stored name %q", storedName)
	}

	err := os.Remove(filepath.Join(s.root, roomID, trashDir, storedName))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove trashed image: %w", err)
	}

	return nil
}

// imagePath resolves a stored name to its on-disk path, rejecting anything
// that could escape the room's images directory.
func (s *Store) imagePath(roomID, storedName string) (string, error) {
	if !validName(roomID) || !validName(storedName) {
		return "", fmt.Errorf("invalid image path %s/%s", roomID, storedName)
	}
	return filepath.Join(s.root, roomID, imagesDir, storedName), nil
}

// validName accepts only names SanitizeName can produce.
func validName(name string) bool {
	return name != "" && name != "." && name != ".." && unsafeChars.FindStringIndex(name) == nil
}

// SanitizeName strips any path components and replaces characters outside
// [A-Za-z0-9._-] with underscores.
func SanitizeName(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	name = unsafeChars.ReplaceAllString(name, "_")
	if name == "" || name == "." || name == ".." {
		name = "upload"
	}
	return name
}

// timestamp returns the current time formatted for filename prefixes,
// second precision plus microseconds.
func (s *Store) timestamp() string {
	now := time.Now().In(s.loc)
	return fmt.Sprintf("%s%06d", now.Format("20060102150405"), now.Nanosecond()/1000)
}
