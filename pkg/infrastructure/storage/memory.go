package storage

import (
	"context"
	"fmt"
	"sync"
)

// MemoryStore is an in-process FolderStore for tests and dry runs
type MemoryStore struct {
	mu      sync.Mutex
	folders map[string]int
	files   map[string][]byte

	// FailUpload, when set, is returned by every Upload
	FailUpload error
}

// Verify interface compliance
var _ FolderStore = (*MemoryStore)(nil)

// NewMemoryStore creates an empty store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		folders: make(map[string]int),
		files:   make(map[string][]byte),
	}
}

// EnsureFolder records the folder and counts how often it was requested
func (s *MemoryStore) EnsureFolder(ctx context.Context, name, parentID string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := joinID(parentID, name)
	s.folders[id]++
	return id, nil
}

// Upload stores a copy of data
func (s *MemoryStore) Upload(ctx context.Context, data []byte, filename, folderID string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	name := joinID(folderID, filename)
	if s.FailUpload != nil {
		return "", &Error{Op: "upload", Target: name, Err: s.FailUpload}
	}
	if _, ok := s.folders[folderID]; folderID != "" && !ok {
		return "", &Error{Op: "upload", Target: name, Err: fmt.Errorf("folder %q does not exist", folderID)}
	}
	s.files[name] = append([]byte(nil), data...)
	return "memory://" + name, nil
}

// File returns an uploaded file
func (s *MemoryStore) File(name string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.files[name]
	return data, ok
}

// Folders lists the known folder IDs
func (s *MemoryStore) Folders() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]string, 0, len(s.folders))
	for id := range s.folders {
		ids = append(ids, id)
	}
	return ids
}
