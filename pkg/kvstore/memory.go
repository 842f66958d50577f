package kvstore

import (
	"fmt"
	"sync"
	"time"
)

type memEntry struct {
	data    []byte
	modTime time.Time
}

// MemoryStore is an in-memory Store used by tests.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]memEntry
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]memEntry)}
}

// Read returns the stored bytes for key.
func (s *MemoryStore) Read(key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[key]
	if !ok {
		return nil, fmt.Errorf("key %q not found", key)
	}
	return e.data, nil
}

// Write stores data under key with the current time as modification time.
func (s *MemoryStore) Write(key string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = memEntry{data: data, modTime: time.Now()}
	return nil
}

// Entries lists stored keys with their modification times.
func (s *MemoryStore) Entries() ([]EntryInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entries := make([]EntryInfo, 0, len(s.entries))
	for k, e := range s.entries {
		entries = append(entries, EntryInfo{Key: k, ModTime: e.modTime})
	}
	return entries, nil
}

// Delete removes the entry for key.
func (s *MemoryStore) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key)
	return nil
}

// SetModTime overrides the modification time of an entry. Test hook for
// sweep-threshold scenarios.
func (s *MemoryStore) SetModTime(key string, t time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.entries[key]; ok {
		e.modTime = t
		s.entries[key] = e
	}
}

// Len returns the number of stored entries.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
