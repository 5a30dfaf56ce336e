package storage

import (
	"context"
	"os"
	"path/filepath"
)

// LocalStore keeps the folder tree on a local or mounted file system
type LocalStore struct {
	root string
}

// Verify interface compliance
var _ FolderStore = (*LocalStore)(nil)

// NewLocalStore creates a store rooted at dir
func NewLocalStore(dir string) *LocalStore {
	return &LocalStore{root: dir}
}

// EnsureFolder creates the directory if needed; IDs are slash paths below the root
func (s *LocalStore) EnsureFolder(ctx context.Context, name, parentID string) (string, error) {
	id := joinID(parentID, name)
	if err := os.MkdirAll(s.path(id), 0o755); err != nil {
		return "", &Error{Op: "create folder", Target: s.path(id), Err: err}
	}
	return id, nil
}

// Upload writes the file and returns its absolute path
func (s *LocalStore) Upload(ctx context.Context, data []byte, filename, folderID string) (string, error) {
	target := s.path(joinID(folderID, filename))
	if err := os.WriteFile(target, data, 0o644); err != nil {
		return "", &Error{Op: "upload", Target: target, Err: err}
	}
	if abs, err := filepath.Abs(target); err == nil {
		return abs, nil
	}
	return target, nil
}

func (s *LocalStore) path(id string) string {
	return filepath.Join(s.root, filepath.FromSlash(id))
}
