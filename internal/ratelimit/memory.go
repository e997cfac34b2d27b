package ratelimit

import (
	"context"
	"sync"
	"time"
)

type memoryCounter struct {
	count     int64
	expiresAt time.Time
}

// MemoryStore is a process-local counter store for tests and
// single-process deployments. Multi-worker deployments need the Redis
// store (or the SQL fallback) for cross-process correctness.
type MemoryStore struct {
	mu       sync.Mutex
	counters map[string]*memoryCounter
	Now      func() time.Time
}

// NewMemoryStore initializes an empty in-memory counter store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		counters: map[string]*memoryCounter{},
		Now:      func() time.Time { return time.Now().UTC() },
	}
}

// Incr atomically increments the counter, creating it with the given TTL
// when absent or expired.
func (s *MemoryStore) Incr(_ context.Context, key string, ttl time.Duration) (int64, error) {
	now := s.Now()
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.counters[key]
	if !ok || !now.Before(c.expiresAt) {
		c = &memoryCounter{expiresAt: now.Add(ttl)}
		s.counters[key] = c
	}
	c.count++
	return c.count, nil
}
