/*
Copyright © 2024 Acronis International GmbH.

Released under MIT license.
*/

// Package lrucache provides a fixed-capacity in-memory cache with LRU eviction policy.
//
// Entries are kept in a doubly linked recency list backed by a single slice,
// and a map indexes keys to their slots in that list, so lookups, insertions, updates
// and evictions take O(1) time. Cache usage may be observed via Prometheus metrics
// and debug logging, neither of which affects cache behavior.
//
// LRUCache itself does no locking. Wrap it with Synchronized when it's shared between goroutines.
package lrucache
