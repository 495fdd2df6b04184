package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"sync"
)

const DefaultFilePath = "./orderdesk_data.json"

// FileStore keeps every item in memory and rewrites one JSON object file on
// each mutation. A failed write restores the last persisted items.
type FileStore struct {
	path      string
	mu        sync.RWMutex
	items     map[string]string
	persisted map[string]string
}

func NewFileStore(path string) (*FileStore, error) {
	if path == "" {
		path = DefaultFilePath
	}

	store := &FileStore{
		path:      path,
		items:     map[string]string{},
		persisted: map[string]string{},
	}
	if err := store.load(); err != nil {
		return nil, err
	}

	return store, nil
}

func (s *FileStore) load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	content, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return s.persistLocked()
		}
		return err
	}

	if len(content) == 0 {
		return nil
	}

	if err := json.Unmarshal(content, &s.items); err != nil {
		return fmt.Errorf("decode store data: %w", err)
	}
	if s.items == nil {
		s.items = map[string]string{}
	}
	s.persisted = maps.Clone(s.items)
	return nil
}

func (s *FileStore) persistLocked() error {
	body, err := json.MarshalIndent(s.items, "", "  ")
	if err != nil {
		s.items = maps.Clone(s.persisted)
		return err
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		s.items = maps.Clone(s.persisted)
		return err
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, body, 0o600); err != nil {
		_ = os.Remove(tmp)
		s.items = maps.Clone(s.persisted)
		return err
	}

	if err := os.Rename(tmp, s.path); err != nil {
		_ = os.Remove(tmp)
		s.items = maps.Clone(s.persisted)
		return err
	}
	s.persisted = maps.Clone(s.items)

	return nil
}

func (s *FileStore) GetItem(ctx context.Context, key string) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	value, ok := s.items[key]
	return value, ok, nil
}

func (s *FileStore) SetItem(ctx context.Context, key, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items[key] = value
	return s.persistLocked()
}

// Close is a no-op; every mutation is already on disk.
func (s *FileStore) Close() error {
	return nil
}
