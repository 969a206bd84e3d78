package cache

import (
	"sync"
	"time"
)

type entry struct {
	value    any
	storedAt time.Time
	ttl      time.Duration
}

func (e entry) expired(now time.Time) bool {
	return now.Sub(e.storedAt) > e.ttl
}

// Store is an in-memory TTL cache. Eviction is purely lazy: an expired
// entry is removed when it is next read, or when Clear wipes the map.
// There is no capacity bound; the key cardinality of this workload is a
// bounded set of pages, slugs and taxonomy queries.
//
// Safe for concurrent use. Two writers racing on the same key are not
// serialized beyond the mutex: the last Set wins.
type Store struct {
	mu    sync.RWMutex
	items map[string]entry
}

func NewStore() *Store {
	return &Store{
		items: make(map[string]entry),
	}
}

// Get returns the stored value if the key is present and fresh. An expired
// entry is treated as absent and evicted on the spot.
func (s *Store) Get(key string) (any, bool) {
	s.mu.RLock()
	e, ok := s.items[key]
	s.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if e.expired(time.Now()) {
		s.mu.Lock()
		// Re-check under the write lock: a fresh Set may have raced in.
		if cur, ok := s.items[key]; ok && cur.expired(time.Now()) {
			delete(s.items, key)
		}
		s.mu.Unlock()
		return nil, false
	}
	return e.value, true
}

// Set inserts or replaces the entry for key with the given lifetime.
func (s *Store) Set(key string, value any, ttl time.Duration) {
	s.mu.Lock()
	s.items[key] = entry{value: value, storedAt: time.Now(), ttl: ttl}
	s.mu.Unlock()
}

// Delete removes the entry for key if present.
func (s *Store) Delete(key string) {
	s.mu.Lock()
	delete(s.items, key)
	s.mu.Unlock()
}

// Clear removes every entry.
func (s *Store) Clear() {
	s.mu.Lock()
	s.items = make(map[string]entry)
	s.mu.Unlock()
}

// Len returns the current number of entries, expired ones included.
func (s *Store) Len() int {
	s.mu.RLock()
	n := len(s.items)
	s.mu.RUnlock()
	return n
}
