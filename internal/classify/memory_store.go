package classify

import (
	"context"
	"sync"
)

// MemoryStore is an in-memory implementation of Store for demo/test use.
type MemoryStore struct {
	mu      sync.RWMutex
	records []*Record
}

// NewMemoryStore creates an in-memory classification audit store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Record(ctx context.Context, rec *Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	r := *rec
	s.records = append(s.records, &r)
	return nil
}

func (s *MemoryStore) ListRecent(ctx context.Context, limit int) ([]*Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.records) == 0 {
		return nil, nil
	}

	// Most recent first, up to limit
	start := len(s.records) - limit
	if start < 0 {
		start = 0
	}

	result := make([]*Record, 0, len(s.records)-start)
	for i := len(s.records) - 1; i >= start; i-- {
		r := *s.records[i]
		result = append(result, &r)
	}
	return result, nil
}
