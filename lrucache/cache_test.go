/*
Copyright © 2024 Acronis International GmbH.

Released under MIT license.
*/

package lrucache

import (
	"math"
	"math/rand"
	"strconv"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/acronis/go-lrucache/log"
	"github.com/acronis/go-lrucache/log/logtest"
)

func TestNew(t *testing.T) {
	for _, capacity := range []int{0, -1, -100} {
		cache, err := New[string, int](capacity)
		require.ErrorIs(t, err, ErrInvalidCapacity)
		require.Nil(t, cache)
	}

	cache, err := New[string, int](1)
	require.NoError(t, err)
	require.Equal(t, 1, cache.Cap())
	require.Equal(t, 0, cache.Len())
}

func TestNew_LargeCapacity(t *testing.T) {
	for _, capacity := range []int{math.MaxInt, math.MaxInt / 2, math.MaxInt32} {
		t.Run(strconv.Itoa(capacity), func(t *testing.T) {
			cache, err := New[int, int](capacity)
			require.NoError(t, err)
			require.Equal(t, capacity, cache.Cap())
			require.LessOrEqual(t, cap(cache.list.entries), firstEntrySlot+maxPreallocatedEntries)

			for i := 0; i < 3*maxPreallocatedEntries; i++ {
				cache.Set(i, i*10)
			}
			require.Equal(t, 3*maxPreallocatedEntries, cache.Len())
			for _, key := range []int{0, maxPreallocatedEntries, 3*maxPreallocatedEntries - 1} {
				val, found := cache.Get(key)
				require.True(t, found)
				require.Equal(t, key*10, val)
			}
			requireListConsistent(t, cache.list)
			requireIndexConsistent(t, cache)

			cache.Purge()
			require.Equal(t, 0, cache.Len())
			cache.Set(1, 1)
			require.Equal(t, []int{1}, cache.Keys())
		})
	}
}

func TestLRUCache(t *testing.T) {
	tests := []struct {
		name        string
		capacity    int
		fn          func(t *testing.T, cache *LRUCache[string, int])
		wantKeys    []string
		wantMetrics testMetrics
	}{
		{
			name:     "get not existing keys",
			capacity: 2,
			fn: func(t *testing.T, cache *LRUCache[string, int]) {
				for _, key := range []string{"a", "b", "c"} {
					_, found := cache.Get(key)
					require.False(t, found)
				}
			},
			wantKeys:    []string{},
			wantMetrics: testMetrics{Misses: 3},
		},
		{
			name:     "set then get",
			capacity: 3,
			fn: func(t *testing.T, cache *LRUCache[string, int]) {
				cache.Set("a", 1)
				cache.Set("b", 2)
				val, found := cache.Get("a")
				require.True(t, found)
				require.Equal(t, 1, val)
				val, found = cache.Get("b")
				require.True(t, found)
				require.Equal(t, 2, val)
			},
			wantKeys:    []string{"b", "a"},
			wantMetrics: testMetrics{Amount: 2, Hits: 2, Insertions: 2},
		},
		{
			name:     "inserting capacity+1 distinct keys evicts the first one",
			capacity: 3,
			fn: func(t *testing.T, cache *LRUCache[string, int]) {
				for i, key := range []string{"k1", "k2", "k3", "k4"} {
					cache.Set(key, i+1)
				}
				_, found := cache.Get("k1")
				require.False(t, found)
				for i, key := range []string{"k2", "k3", "k4"} {
					val, found := cache.Get(key)
					require.True(t, found)
					require.Equal(t, i+2, val)
				}
			},
			wantKeys:    []string{"k4", "k3", "k2"},
			wantMetrics: testMetrics{Amount: 3, Hits: 3, Misses: 1, Insertions: 4, Evictions: 1},
		},
		{
			name:     "get refreshes entry",
			capacity: 2,
			fn: func(t *testing.T, cache *LRUCache[string, int]) {
				cache.Set("a", 1)
				cache.Set("b", 2)
				_, found := cache.Get("a")
				require.True(t, found)
				cache.Set("c", 3)

				val, found := cache.Get("a")
				require.True(t, found)
				require.Equal(t, 1, val)
				_, found = cache.Get("b")
				require.False(t, found)
				val, found = cache.Get("c")
				require.True(t, found)
				require.Equal(t, 3, val)
			},
			wantKeys:    []string{"c", "a"},
			wantMetrics: testMetrics{Amount: 2, Hits: 3, Misses: 1, Insertions: 3, Evictions: 1},
		},
		{
			name:     "set of existing key updates value without eviction",
			capacity: 2,
			fn: func(t *testing.T, cache *LRUCache[string, int]) {
				cache.Set("a", 1)
				cache.Set("b", 2)
				cache.Set("a", 9)
				require.Equal(t, 2, cache.Len())

				val, found := cache.Get("a")
				require.True(t, found)
				require.Equal(t, 9, val)
				val, found = cache.Get("b")
				require.True(t, found)
				require.Equal(t, 2, val)
			},
			wantKeys:    []string{"b", "a"},
			wantMetrics: testMetrics{Amount: 2, Hits: 2, Insertions: 2, Overwrites: 1},
		},
		{
			name:     "set of most recently used key keeps order",
			capacity: 3,
			fn: func(t *testing.T, cache *LRUCache[string, int]) {
				cache.Set("a", 1)
				cache.Set("b", 2)
				cache.Set("b", 3)
				require.Equal(t, []string{"b", "a"}, cache.Keys())
				val, found := cache.Peek("b")
				require.True(t, found)
				require.Equal(t, 3, val)
			},
			wantKeys:    []string{"b", "a"},
			wantMetrics: testMetrics{Amount: 2, Insertions: 2, Overwrites: 1},
		},
		{
			name:     "capacity 1",
			capacity: 1,
			fn: func(t *testing.T, cache *LRUCache[string, int]) {
				cache.Set("a", 1)
				cache.Set("b", 2)
				_, found := cache.Get("a")
				require.False(t, found)
				val, found := cache.Get("b")
				require.True(t, found)
				require.Equal(t, 2, val)
			},
			wantKeys:    []string{"b"},
			wantMetrics: testMetrics{Amount: 1, Hits: 1, Misses: 1, Insertions: 2, Evictions: 1},
		},
		{
			name:     "repeated get returns the same value",
			capacity: 2,
			fn: func(t *testing.T, cache *LRUCache[string, int]) {
				cache.Set("a", 1)
				cache.Set("b", 2)
				for i := 0; i < 5; i++ {
					val, found := cache.Get("a")
					require.True(t, found)
					require.Equal(t, 1, val)
				}
			},
			wantKeys:    []string{"a", "b"},
			wantMetrics: testMetrics{Amount: 2, Hits: 5, Insertions: 2},
		},
		{
			name:     "peek does not refresh entry",
			capacity: 2,
			fn: func(t *testing.T, cache *LRUCache[string, int]) {
				cache.Set("a", 1)
				cache.Set("b", 2)
				val, found := cache.Peek("a")
				require.True(t, found)
				require.Equal(t, 1, val)
				_, found = cache.Peek("x")
				require.False(t, found)
				cache.Set("c", 3)
				_, found = cache.Peek("a")
				require.False(t, found)
			},
			wantKeys:    []string{"c", "b"},
			wantMetrics: testMetrics{Amount: 2, Insertions: 3, Evictions: 1},
		},
		{
			name:     "remove entries",
			capacity: 3,
			fn: func(t *testing.T, cache *LRUCache[string, int]) {
				cache.Set("a", 1)
				cache.Set("b", 2)
				cache.Set("c", 3)
				require.False(t, cache.Remove("x"))
				require.True(t, cache.Remove("b"))
				require.False(t, cache.Remove("b"))
				require.Equal(t, 2, cache.Len())

				cache.Set("d", 4)
				_, found := cache.Peek("a")
				require.True(t, found)
			},
			wantKeys:    []string{"d", "c", "a"},
			wantMetrics: testMetrics{Amount: 3, Insertions: 4},
		},
		{
			name:     "purge",
			capacity: 2,
			fn: func(t *testing.T, cache *LRUCache[string, int]) {
				cache.Set("a", 1)
				cache.Set("b", 2)
				cache.Purge()
				require.Equal(t, 0, cache.Len())
				require.Equal(t, 2, cache.Cap())
				_, found := cache.Get("a")
				require.False(t, found)

				cache.Set("c", 3)
				cache.Set("d", 4)
				cache.Set("e", 5)
			},
			wantKeys:    []string{"e", "d"},
			wantMetrics: testMetrics{Amount: 2, Misses: 1, Insertions: 5, Evictions: 1},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cache, metricsCollector := makeCache(t, tt.capacity)
			tt.fn(t, cache)
			require.Equal(t, tt.wantKeys, cache.Keys())
			requireListConsistent(t, cache.list)
			requireIndexConsistent(t, cache)
			assertMetrics(t, tt.wantMetrics, metricsCollector)
		})
	}
}

func TestLRUCache_RandomOperations(t *testing.T) {
	rnd := rand.New(rand.NewSource(42))
	for _, capacity := range []int{1, 2, 3, 10, 50} {
		t.Run("capacity "+strconv.Itoa(capacity), func(t *testing.T) {
			cache, err := New[int, int](capacity)
			require.NoError(t, err)

			// Model: keys ordered from the most to the least recently used.
			var model []int
			modelValues := map[int]int{}
			touch := func(key int) {
				for i, k := range model {
					if k == key {
						model = append(model[:i], model[i+1:]...)
						break
					}
				}
				model = append([]int{key}, model...)
			}

			for i := 0; i < 2000; i++ {
				key := rnd.Intn(capacity * 3)
				if rnd.Intn(2) == 0 {
					val := rnd.Int()
					cache.Set(key, val)
					if _, ok := modelValues[key]; !ok && len(model) == capacity {
						evicted := model[len(model)-1]
						model = model[:len(model)-1]
						delete(modelValues, evicted)
					}
					modelValues[key] = val
					touch(key)
				} else {
					val, found := cache.Get(key)
					wantVal, wantFound := modelValues[key]
					require.Equal(t, wantFound, found)
					require.Equal(t, wantVal, val)
					if found {
						touch(key)
					}
				}
				require.LessOrEqual(t, cache.Len(), capacity)
			}

			if len(model) == 0 {
				model = []int{}
			}
			require.Equal(t, model, cache.Keys())
			requireListConsistent(t, cache.list)
			requireIndexConsistent(t, cache)
		})
	}
}

func TestLRUCache_Logging(t *testing.T) {
	logRecorder := logtest.NewRecorder()
	cache, err := NewWithOpts[string, int](1, Options{Logger: logRecorder})
	require.NoError(t, err)

	cache.Set("a", 1)
	cache.Set("a", 2)
	_, _ = cache.Get("a")
	_, _ = cache.Get("b")
	cache.Set("b", 3)

	wantMessages := []string{
		"cache entry added",
		"cache value overwritten",
		"cache hit",
		"cache miss",
		"cache full, entry evicted",
		"cache entry added",
	}
	entries := logRecorder.Entries()
	require.Len(t, entries, len(wantMessages))
	for i, msg := range wantMessages {
		require.Equal(t, msg, entries[i].Text)
		require.Equal(t, log.LevelDebug, entries[i].Level)
	}

	evictedEntry, found := logRecorder.FindEntry("cache full, entry evicted")
	require.True(t, found)
	keyField, found := evictedEntry.FindField("key")
	require.True(t, found)
	require.Equal(t, log.Any("key", "a"), *keyField)
}

type testMetrics struct {
	Amount     int
	Hits       int
	Misses     int
	Insertions int
	Overwrites int
	Evictions  int
}

func assertMetrics(t *testing.T, want testMetrics, mc *PrometheusMetrics) {
	t.Helper()
	assert.Equal(t, want.Amount, int(testutil.ToFloat64(mc.EntriesAmount.With(nil))))
	assert.Equal(t, want.Hits, int(testutil.ToFloat64(mc.HitsTotal.With(nil))))
	assert.Equal(t, want.Misses, int(testutil.ToFloat64(mc.MissesTotal.With(nil))))
	assert.Equal(t, want.Insertions, int(testutil.ToFloat64(mc.InsertionsTotal.With(nil))))
	assert.Equal(t, want.Overwrites, int(testutil.ToFloat64(mc.OverwritesTotal.With(nil))))
	assert.Equal(t, want.Evictions, int(testutil.ToFloat64(mc.EvictionsTotal.With(nil))))
}

func requireIndexConsistent[K comparable, V any](t *testing.T, cache *LRUCache[K, V]) {
	t.Helper()
	keys := cache.Keys()
	require.Len(t, cache.index, len(keys))
	for _, key := range keys {
		slot, ok := cache.index[key]
		require.True(t, ok, "key %v is linked but not indexed", key)
		require.Equal(t, key, cache.list.entry(slot).key)
	}
}

func makeCache(t *testing.T, capacity int) (*LRUCache[string, int], *PrometheusMetrics) {
	t.Helper()
	mc := NewPrometheusMetrics()
	cache, err := NewWithOpts[string, int](capacity, Options{MetricsCollector: mc})
	require.NoError(t, err)
	return cache, mc
}
