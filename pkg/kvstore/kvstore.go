package kvstore

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// EntryInfo describes a stored entry for sweep-style scans.
type EntryInfo struct {
	Key     string
	ModTime time.Time
}

// Store is a minimal key-value capability backing the analysis cache.
// Freshness decisions belong to the caller; the store only exposes storage
// modification times via Entries.
type Store interface {
	Read(key string) ([]byte, error)
	Write(key string, data []byte) error
	Entries() ([]EntryInfo, error)
	Delete(key string) error
}

// FileStore persists entries as <key>.json files in a single directory.
type FileStore struct {
	dir string
}

// NewFileStore creates the backing directory if needed and returns a store.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating store dir: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

func (s *FileStore) path(key string) string {
	return filepath.Join(s.dir, key+".json")
}

// Read returns the stored bytes for key.
func (s *FileStore) Read(key string) ([]byte, error) {
	return os.ReadFile(s.path(key))
}

// Write stores data under key. The write goes through a temp file and a
// rename so a concurrent reader never observes a torn entry.
func (s *FileStore) Write(key string, data []byte) error {
	tmp, err := os.CreateTemp(s.dir, key+".tmp-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path(key)); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}

// Entries lists stored keys with their file modification times.
func (s *FileStore) Entries() ([]EntryInfo, error) {
	dirEntries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("reading store dir: %w", err)
	}

	var entries []EntryInfo
	for _, de := range dirEntries {
		if de.IsDir() || !strings.HasSuffix(de.Name(), ".json") {
			continue
		}
		info, err := de.Info()
		if err != nil {
			continue
		}
		entries = append(entries, EntryInfo{
			Key:     strings.TrimSuffix(de.Name(), ".json"),
			ModTime: info.ModTime(),
		})
	}
	return entries, nil
}

// Delete removes the entry for key.
func (s *FileStore) Delete(key string) error {
	return os.Remove(s.path(key))
}
