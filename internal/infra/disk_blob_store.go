package infra

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/alagadnicaren/sharedmemories1/internal/ports"
	"github.com/google/uuid"
)

const (
	imagesDir     = "images"
	audioDir      = "audio"
	locatorPrefix = "/uploads/"
)

// DiskBlobStore keeps uploaded bytes in a flat directory per media
// kind under a single uploads root. Filenames are generated, never
// taken from user input beyond the extension.
type DiskBlobStore struct {
	root string
}

func NewDiskBlobStore(root string) (*DiskBlobStore, error) {
	for _, dir := range []string{imagesDir, audioDir} {
		if err := os.MkdirAll(filepath.Join(root, dir), 0o755); err != nil {
			return nil, fmt.Errorf("creating %s directory: %w", dir, err)
		}
	}
	return &DiskBlobStore{root: root}, nil
}

func (s *DiskBlobStore) Store(payload []byte, mimeType, originalName string) (string, error) {
	var dir string
	switch {
	case strings.HasPrefix(mimeType, "image/"):
		dir = imagesDir
	case strings.HasPrefix(mimeType, "audio/"):
		dir = audioDir
	default:
		return "", fmt.Errorf("%q: %w", mimeType, ports.ErrUnsupportedMediaKind)
	}

	name := uuid.NewString() + strings.ToLower(filepath.Ext(filepath.Base(originalName)))
	if err := os.WriteFile(filepath.Join(s.root, dir, name), payload, 0o644); err != nil {
		return "", fmt.Errorf("%w: %w", ports.ErrBlobWrite, err)
	}

	return locatorPrefix + dir + "/" + name, nil
}

func (s *DiskBlobStore) Delete(locator string) error {
	path, err := s.resolve(locator)
	if err != nil {
		return err
	}

	err = os.Remove(path)
	if errors.Is(err, fs.ErrNotExist) {
		// Already gone, the cascade is complete either way.
		return nil
	}
	if err != nil {
		return fmt.Errorf("deleting blob %s: %w", locator, err)
	}
	return nil
}

// resolve maps a locator back to a path inside one of the kind
// directories. Anything else is rejected; locators are the only handle
// the application ever hands out.
func (s *DiskBlobStore) resolve(locator string) (string, error) {
	rel, ok := strings.CutPrefix(locator, locatorPrefix)
	if !ok {
		return "", fmt.Errorf("invalid locator %q", locator)
	}

	dir, name, ok := strings.Cut(rel, "/")
	if !ok || (dir != imagesDir && dir != audioDir) {
		return "", fmt.Errorf("invalid locator %q", locator)
	}
	if name == "" || name != filepath.Base(name) || strings.Contains(name, "..") {
		return "", fmt.Errorf("invalid locator %q", locator)
	}

	return filepath.Join(s.root, dir, name), nil
}
