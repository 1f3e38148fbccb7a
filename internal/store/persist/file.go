// internal/store/persist/file.go
package persist

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// FileStore stores snapshots as JSON files in one directory
type FileStore struct {
	dir string
}

// NewFileStore creates a file-backed snapshot store rooted at dir
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create snapshot directory: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

func (s *FileStore) path(key string) string {
	return filepath.Join(s.dir, key+".json")
}

// Save writes a snapshot atomically via temp file and rename
func (s *FileStore) Save(key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode snapshot %s: %w", key, err)
	}

	tmp := s.path(key) + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write snapshot %s: %w", key, err)
	}

	if err := os.Rename(tmp, s.path(key)); err != nil {
		return fmt.Errorf("failed to commit snapshot %s: %w", key, err)
	}

	return nil
}

// Load reads a snapshot into dest, returning ErrNotFound when absent
func (s *FileStore) Load(key string, dest interface{}) error {
	data, err := os.ReadFile(s.path(key))
	if os.IsNotExist(err) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to read snapshot %s: %w", key, err)
	}

	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("failed to decode snapshot %s: %w", key, err)
	}

	return nil
}

// Delete removes a snapshot; missing snapshots are not an error
func (s *FileStore) Delete(key string) error {
	err := os.Remove(s.path(key))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete snapshot %s: %w", key, err)
	}
	return nil
}
