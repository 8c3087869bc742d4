package cache

import (
	"bytes"
	"context"
	"sync"
)

// MemoryStore is an in-process Store, mostly useful in tests and for
// single-shot builds that do not need persistence.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[ID][]byte
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[ID][]byte)}
}

// Get returns a copy of the stored bytes.
func (s *MemoryStore) Get(_ context.Context, id ID) ([]byte, bool, error) {
	if err := id.Validate(); err != nil {
		return nil, false, err
	}
	s.mu.RLock()
	data, ok := s.entries[id]
	s.mu.RUnlock()
	if !ok {
		return nil, false, nil
	}
	return bytes.Clone(data), true, nil
}

// Put stores a copy of data unless id is already present.
func (s *MemoryStore) Put(_ context.Context, id ID, data []byte) error {
	if err := id.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.entries[id]; !ok {
		s.entries[id] = append([]byte{}, data...)
	}
	return nil
}

// Sweep drops every entry whose key is not live.
func (s *MemoryStore) Sweep(_ context.Context, live KeySet) error {
	s.mu.Lock()
	for id := range s.entries {
		if !live.Has(id.Key) {
			delete(s.entries, id)
		}
	}
	s.mu.Unlock()
	return nil
}

// Len returns the number of stored entries.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

var _ Store = (*MemoryStore)(nil)
