package audit

import (
	"context"
	"sort"
	"sync"
)

// MemoryStorage keeps events in memory. It is intended for tests and local
// development.
type MemoryStorage struct {
	mu     sync.RWMutex
	events []Event
}

// NewMemoryStorage creates an empty in-memory storage.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{}
}

// Store appends the event.
func (s *MemoryStorage) Store(_ context.Context, event Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
	return nil
}

// Query returns matching events, newest first.
func (s *MemoryStorage) Query(_ context.Context, criteria Criteria) ([]Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var matched []Event
	for _, e := range s.events {
		if criteria.matches(e) {
			matched = append(matched, e)
		}
	}
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	if criteria.Offset > 0 {
		if criteria.Offset >= len(matched) {
			return nil, nil
		}
		matched = matched[criteria.Offset:]
	}
	if criteria.Limit > 0 && len(matched) > criteria.Limit {
		matched = matched[:criteria.Limit]
	}
	return matched, nil
}

// Count returns the number of matching events, ignoring Limit and Offset.
func (s *MemoryStorage) Count(_ context.Context, criteria Criteria) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var n int64
	for _, e := range s.events {
		if criteria.matches(e) {
			n++
		}
	}
	return n, nil
}
