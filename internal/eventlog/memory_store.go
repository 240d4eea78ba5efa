package eventlog

import (
	"context"
	"sync"
)

// MemoryStore is an in-memory implementation of Store for demo/test use.
type MemoryStore struct {
	mu      sync.RWMutex
	entries []*Entry
}

// NewMemoryStore creates an in-memory event store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Append(ctx context.Context, entry *Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e := *entry
	s.entries = append(s.entries, &e)
	return nil
}

func (s *MemoryStore) ListRecent(ctx context.Context, limit int) ([]*Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.entries) == 0 {
		return nil, nil
	}

	start := len(s.entries) - limit
	if start < 0 {
		start = 0
	}

	result := make([]*Entry, 0, len(s.entries)-start)
	for i := len(s.entries) - 1; i >= start; i-- {
		e := *s.entries[i]
		result = append(result, &e)
	}
	return result, nil
}
