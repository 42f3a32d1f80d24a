package state

import (
	"context"
	"sync"
)

// MemoryStore is a mutex-guarded in-memory Store for tests and local
// development. Records are copied on the way in and out so callers cannot
// mutate stored state behind the lock's back.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]Record
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string]Record)}
}

var _ Store = (*MemoryStore)(nil)

func (s *MemoryStore) Get(_ context.Context, id string) (*Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.records[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &rec, nil
}

func (s *MemoryStore) Put(_ context.Context, rec *Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records[rec.ID] = *rec
	return nil
}

func (s *MemoryStore) MarkUsed(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if rec, ok := s.records[id]; ok {
		rec.Used = true
		s.records[id] = rec
	}
	return nil
}

func (s *MemoryStore) TryConsume(_ context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[id]
	if !ok || rec.Used {
		return false, nil
	}
	rec.Used = true
	s.records[id] = rec
	return true, nil
}

func (s *MemoryStore) IsEmpty(_ context.Context) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.records) == 0, nil
}

func (s *MemoryStore) FindOneUnused(_ context.Context) (*Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, rec := range s.records {
		if !rec.Used {
			rec := rec
			return &rec, nil
		}
	}
	return nil, ErrNotFound
}
