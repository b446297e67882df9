// Package cache provides a per-entity slot cache for derived relations,
// such as a page's memoized parent. There is no TTL and no background
// eviction: invalidation is entirely caller-driven, which keeps behavior
// predictable after moves and updates.
//
// Slots belong to one entity instance. Two local instances of the same
// remote entity have independent caches and may diverge; no cross-instance
// coherence is offered.
package cache

import "sync"

// Slots is a named-slot cache.
type Slots[V any] struct {
	mu sync.Mutex
	m  map[string]V
}

// NewSlots builds an empty slot cache.
func NewSlots[V any]() *Slots[V] {
	return &Slots[V]{}
}

// Get returns the cached value for key, if any.
func (s *Slots[V]) Get(key string) (V, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.m[key]
	return v, ok
}

// Set stores a value under key, replacing any previous one.
func (s *Slots[V]) Set(key string, v V) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.m == nil {
		s.m = make(map[string]V)
	}
	s.m[key] = v
}

// Delete invalidates a single slot.
func (s *Slots[V]) Delete(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.m, key)
}

// Clear invalidates every slot.
func (s *Slots[V]) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m = nil
}

// Len returns the number of populated slots.
func (s *Slots[V]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.m)
}
