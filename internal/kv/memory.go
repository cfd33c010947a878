package kv

import (
	"context"
	"sync"
)

// Memory is an in-process Store. Values do not survive the process.
type Memory struct {
	mu     sync.RWMutex
	m      map[string][]byte
	writes int

	// SetErr, when non-nil, is returned by every Set (error injection for tests).
	SetErr error
}

// NewMemory returns an empty Memory store.
func NewMemory() *Memory {
	return &Memory{m: make(map[string][]byte)}
}

// Get implements Store.
func (s *Memory) Get(ctx context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.m[key]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), v...), nil
}

// Set implements Store.
func (s *Memory) Set(ctx context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.SetErr != nil {
		return s.SetErr
	}
	s.m[key] = append([]byte(nil), value...)
	s.writes++
	return nil
}

// Close implements Store.
func (s *Memory) Close() error { return nil }

// Writes returns the number of successful Set calls.
func (s *Memory) Writes() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.writes
}
