/*
Copyright © 2024 Acronis International GmbH.

Released under MIT license.
*/

package lrucache

import (
	"errors"
	"fmt"

	"github.com/acronis/go-lrucache/log"
)

// ErrInvalidCapacity is returned when the cache is created with a non-positive capacity.
var ErrInvalidCapacity = errors.New("capacity must be greater than 0")

// LRUCache represents a fixed-capacity cache with LRU eviction policy.
//
// LRUCache is not safe for concurrent use.
// Callers that share one instance between goroutines must serialize access, e.g. with Synchronized.
type LRUCache[K comparable, V any] struct {
	capacity int

	list  *recencyList[K, V]
	index map[K]int // key -> slot in list

	metricsCollector MetricsCollector
	logger           log.FieldLogger
}

// Options represents options for the cache.
type Options struct {
	// MetricsCollector is used to collect statistics about cache usage.
	// If nil, metrics are disabled.
	MetricsCollector MetricsCollector

	// Logger receives debug entries about hits, misses, overwrites, insertions and evictions.
	// If nil, nothing is logged.
	Logger log.FieldLogger
}

// New creates a new LRUCache with the provided capacity.
func New[K comparable, V any](capacity int) (*LRUCache[K, V], error) {
	return NewWithOpts[K, V](capacity, Options{})
}

// NewWithOpts creates a new LRUCache with the provided capacity and options.
func NewWithOpts[K comparable, V any](capacity int, opts Options) (*LRUCache[K, V], error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("%w, got %d", ErrInvalidCapacity, capacity)
	}
	if opts.MetricsCollector == nil {
		opts.MetricsCollector = disabledMetrics{}
	}
	if opts.Logger == nil {
		opts.Logger = log.NewDisabledLogger()
	}
	return &LRUCache[K, V]{
		capacity:         capacity,
		list:             newRecencyList[K, V](capacity),
		index:            make(map[K]int, preallocSize(capacity)),
		metricsCollector: opts.MetricsCollector,
		logger:           opts.Logger,
	}, nil
}

// Get returns a value from the cache by the provided key.
// A hit makes the entry the most recently used one.
func (c *LRUCache[K, V]) Get(key K) (value V, ok bool) {
	slot, hit := c.index[key]
	if !hit {
		c.metricsCollector.IncMisses()
		c.logger.Debug("cache miss", log.Any("key", key))
		return value, false
	}
	c.list.moveToHead(slot)
	c.metricsCollector.IncHits()
	value = c.list.entry(slot).value
	c.logger.Debug("cache hit", log.Any("key", key), log.Any("value", value))
	return value, true
}

// Peek returns a value from the cache by the provided key without updating its recency.
// Peek is not counted as a hit or a miss.
func (c *LRUCache[K, V]) Peek(key K) (value V, ok bool) {
	slot, hit := c.index[key]
	if !hit {
		return value, false
	}
	return c.list.entry(slot).value, true
}

// Set adds a value to the cache or overwrites the existing one.
// In both cases the entry becomes the most recently used.
// If the key is new and the cache is full, the least recently used entry is evicted first.
func (c *LRUCache[K, V]) Set(key K, value V) {
	if slot, ok := c.index[key]; ok {
		c.list.entry(slot).value = value
		c.list.moveToHead(slot)
		c.metricsCollector.IncOverwrites()
		c.logger.Debug("cache value overwritten", log.Any("key", key), log.Any("value", value))
		return
	}

	if c.list.len() == c.capacity {
		c.evictOldest()
	}
	slot := c.list.alloc(key, value)
	c.list.insertAtHead(slot)
	c.index[key] = slot
	c.metricsCollector.IncInsertions()
	c.metricsCollector.SetAmount(len(c.index))
	c.logger.Debug("cache entry added", log.Any("key", key), log.Any("value", value))
}

// Remove removes a value from the cache by the provided key.
// Removed entries are not counted as evictions.
func (c *LRUCache[K, V]) Remove(key K) bool {
	slot, ok := c.index[key]
	if !ok {
		return false
	}
	c.list.unlink(slot)
	c.list.free(slot)
	delete(c.index, key)
	c.metricsCollector.SetAmount(len(c.index))
	return true
}

// Purge clears the cache.
// Capacity stays the same and removed entries are not counted as evictions.
func (c *LRUCache[K, V]) Purge() {
	c.list.init()
	c.index = make(map[K]int, preallocSize(c.capacity))
	c.metricsCollector.SetAmount(0)
}

// Len returns the number of entries in the cache.
func (c *LRUCache[K, V]) Len() int {
	return len(c.index)
}

// Cap returns the maximum number of entries the cache can hold.
func (c *LRUCache[K, V]) Cap() int {
	return c.capacity
}

// Keys returns all keys ordered from the most recently used to the least recently used.
func (c *LRUCache[K, V]) Keys() []K {
	return c.list.keys()
}

func (c *LRUCache[K, V]) evictOldest() {
	slot, ok := c.list.evictTail()
	if !ok {
		panic(fmt.Sprintf("lrucache: recency list is empty while index holds %d entries", len(c.index)))
	}
	evictedKey := c.list.entry(slot).key
	delete(c.index, evictedKey)
	c.list.free(slot)
	c.metricsCollector.AddEvictions(1)
	c.logger.Debug("cache full, entry evicted", log.Any("key", evictedKey))
}
