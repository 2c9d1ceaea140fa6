package storage

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
)

// Subdirectories under the media root, served as static assets at the
// matching public /media/... paths.
const (
	iconsDir       = "icons"
	backgroundsDir = "backgrounds"
)

// MediaStore saves uploaded files under a local media directory. Files
// keep their original (base) filename, so uploading the same name again
// silently overwrites the previous file.
type MediaStore struct {
	root string
}

// NewMediaStore creates the media root and its subdirectories.
func NewMediaStore(root string) (*MediaStore, error) {
	if root == "" {
		return nil, fmt.Errorf("media root is required")
	}
	for _, sub := range []string{iconsDir, backgroundsDir} {
		if err := os.MkdirAll(filepath.Join(root, sub), 0o755); err != nil {
			return nil, fmt.Errorf("create media dir %s: %w", sub, err)
		}
	}
	return &MediaStore{root: root}, nil
}

// SaveIcon stores an item icon and returns its public /media path.
func (s *MediaStore) SaveIcon(file *multipart.FileHeader) (string, error) {
	return s.save(iconsDir, file)
}

// SaveBackground stores a route background and returns its public /media path.
func (s *MediaStore) SaveBackground(file *multipart.FileHeader) (string, error) {
	return s.save(backgroundsDir, file)
}

func (s *MediaStore) save(sub string, file *multipart.FileHeader) (string, error) {
	name := filepath.Base(file.Filename)
	if name == "" || name == "." || name == string(filepath.Separator) {
		return "", fmt.Errorf("invalid upload filename %q", file.Filename)
	}

	src, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	dst, err := os.Create(filepath.Join(s.root, sub, name))
	if err != nil {
		return "", fmt.Errorf("create media file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", fmt.Errorf("write media file: %w", err)
	}

	return path.Join("/media", sub, name), nil
}
