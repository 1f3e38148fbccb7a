// internal/store/persist/memory.go
package persist

import (
	"encoding/json"
	"sync"
)

// MemoryStore keeps snapshots in memory. Used in tests.
type MemoryStore struct {
	mu        sync.Mutex
	snapshots map[string][]byte
}

// NewMemoryStore creates an in-memory snapshot store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		snapshots: make(map[string][]byte),
	}
}

// Save stores the JSON encoding of value under key
func (s *MemoryStore) Save(key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshots[key] = data
	return nil
}

// Load reads a snapshot into dest, returning ErrNotFound when absent
func (s *MemoryStore) Load(key string, dest interface{}) error {
	s.mu.Lock()
	data, ok := s.snapshots[key]
	s.mu.Unlock()

	if !ok {
		return ErrNotFound
	}
	return json.Unmarshal(data, dest)
}

// Delete removes a snapshot
func (s *MemoryStore) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.snapshots, key)
	return nil
}
