/*
Copyright © 2024 Acronis International GmbH.

Released under MIT license.
*/

package lrucache

import "sync"

// Synchronized guards an LRUCache with a single mutex, so it may be shared between goroutines.
// Every call holds the lock for the whole operation, including the recency update done by Get.
type Synchronized[K comparable, V any] struct {
	mu    sync.Mutex
	cache *LRUCache[K, V]

	loadGroup singleFlightGroup[K, V]
}

// NewSynchronized wraps the cache. The cache must not be used directly afterwards.
func NewSynchronized[K comparable, V any](cache *LRUCache[K, V]) *Synchronized[K, V] {
	return &Synchronized[K, V]{cache: cache}
}

// Get returns a value from the cache by the provided key.
func (s *Synchronized[K, V]) Get(key K) (value V, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cache.Get(key)
}

// Peek returns a value from the cache by the provided key without updating its recency.
func (s *Synchronized[K, V]) Peek(key K) (value V, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cache.Peek(key)
}

// Set adds a value to the cache or overwrites the existing one.
func (s *Synchronized[K, V]) Set(key K, value V) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache.Set(key, value)
}

// Remove removes a value from the cache by the provided key.
func (s *Synchronized[K, V]) Remove(key K) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cache.Remove(key)
}

// Purge clears the cache.
func (s *Synchronized[K, V]) Purge() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache.Purge()
}

// Len returns the number of entries in the cache.
func (s *Synchronized[K, V]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cache.Len()
}

// Cap returns the maximum number of entries the cache can hold.
func (s *Synchronized[K, V]) Cap() int {
	return s.cache.Cap()
}

// Keys returns all keys ordered from the most recently used to the least recently used.
func (s *Synchronized[K, V]) Keys() []K {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cache.Keys()
}

// GetOrLoad returns a value from the cache by the provided key.
// On a miss it calls loadValue without holding the cache lock and stores the result.
// Concurrent calls for the same key share a single loadValue call.
// If loadValue returns an error, nothing is stored and the error is returned to all waiting callers.
// A panic in loadValue is propagated to the caller that runs it; other callers get *PanicError.
func (s *Synchronized[K, V]) GetOrLoad(key K, loadValue func(K) (V, error)) (value V, err error) {
	if value, ok := s.Get(key); ok {
		return value, nil
	}
	return s.loadGroup.Do(key, func() (V, error) {
		// Another call could have stored the value while this one was waiting for the group.
		if v, ok := s.Peek(key); ok {
			return v, nil
		}
		v, loadErr := loadValue(key)
		if loadErr != nil {
			return v, loadErr
		}
		s.Set(key, v)
		return v, nil
	})
}
