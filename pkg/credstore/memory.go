package credstore

import (
	"context"
	"sync"
)

// MemoryStore is an in-memory credential cache for tests and development.
type MemoryStore struct {
	mu     sync.RWMutex
	latest *Record
}

// NewMemoryStore creates an empty in-memory cache.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

var _ Store = (*MemoryStore)(nil)

func (s *MemoryStore) Save(_ context.Context, rec Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.latest = &rec
	return nil
}

func (s *MemoryStore) Latest(_ context.Context) (*Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.latest == nil {
		return nil, ErrNoCredentials
	}
	rec := *s.latest
	return &rec, nil
}
