package store

import (
	"bytes"
	"context"
	"slices"
	"sync"
)

// MemoryStore keeps saves in memory. Contents are lost on Close.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]Entry
	data    map[string][]byte
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]Entry),
		data:    make(map[string][]byte),
	}
}

func (s *MemoryStore) Put(ctx context.Context, e Entry, data []byte) (Entry, error) {
	e, err := prepare(e, data)
	if err != nil {
		return Entry{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[e.ID] = e
	s.data[e.ID] = bytes.Clone(data)
	return e, nil
}

func (s *MemoryStore) Get(ctx context.Context, id string) ([]byte, Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[id]
	if !ok {
		return nil, Entry{}, notFound(id)
	}
	return bytes.Clone(s.data[id]), e, nil
}

func (s *MemoryStore) List(ctx context.Context) ([]Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Entry, 0, len(s.entries))
	for _, e := range s.entries {
		out = append(out, e)
	}
	slices.SortFunc(out, newestFirst)
	return out, nil
}

func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.entries[id]; !ok {
		return notFound(id)
	}
	delete(s.entries, id)
	delete(s.data, id)
	return nil
}

func (s *MemoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	clear(s.entries)
	clear(s.data)
	return nil
}

var _ Store = (*MemoryStore)(nil)
