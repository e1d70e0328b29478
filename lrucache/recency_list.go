/*
Copyright © 2024 Acronis International GmbH.

Released under MIT license.
*/

package lrucache

// Sentinel slots of the arena. Live entries occupy slots starting from firstEntrySlot.
const (
	headSlot int = iota
	tailSlot
	firstEntrySlot
)

// nilSlot marks the end of the free list.
const nilSlot int = -1

// maxPreallocatedEntries bounds the number of slots allocated up front, larger arenas grow on demand.
const maxPreallocatedEntries = 1024

func preallocSize(capacity int) int {
	return min(capacity, maxPreallocatedEntries)
}

type listEntry[K comparable, V any] struct {
	key   K
	value V
	prev  int
	next  int
}

// recencyList is a doubly linked list of entries ordered from the most recently used (right after head)
// to the least recently used (right before tail).
// Entries live in a single slice and reference their neighbours by slot index,
// so the list never holds pointers into itself.
type recencyList[K comparable, V any] struct {
	entries  []listEntry[K, V]
	freeHead int // first slot of the free list chained through next
	size     int
}

func newRecencyList[K comparable, V any](capacity int) *recencyList[K, V] {
	l := &recencyList[K, V]{entries: make([]listEntry[K, V], firstEntrySlot, firstEntrySlot+preallocSize(capacity))}
	l.init()
	return l
}

func (l *recencyList[K, V]) init() {
	clear(l.entries[firstEntrySlot:])
	l.entries = l.entries[:firstEntrySlot]
	l.entries[headSlot] = listEntry[K, V]{prev: nilSlot, next: tailSlot}
	l.entries[tailSlot] = listEntry[K, V]{prev: headSlot, next: nilSlot}
	l.freeHead = nilSlot
	l.size = 0
}

// alloc returns an unlinked slot holding the given key and value.
func (l *recencyList[K, V]) alloc(key K, value V) int {
	if l.freeHead != nilSlot {
		slot := l.freeHead
		l.freeHead = l.entries[slot].next
		l.entries[slot] = listEntry[K, V]{key: key, value: value, prev: nilSlot, next: nilSlot}
		return slot
	}
	l.entries = append(l.entries, listEntry[K, V]{key: key, value: value, prev: nilSlot, next: nilSlot})
	return len(l.entries) - 1
}

// free puts an unlinked slot to the free list and drops references to its key and value.
func (l *recencyList[K, V]) free(slot int) {
	l.entries[slot] = listEntry[K, V]{prev: nilSlot, next: l.freeHead}
	l.freeHead = slot
}

func (l *recencyList[K, V]) insertAtHead(slot int) {
	first := l.entries[headSlot].next
	l.entries[slot].prev = headSlot
	l.entries[slot].next = first
	l.entries[first].prev = slot
	l.entries[headSlot].next = slot
	l.size++
}

func (l *recencyList[K, V]) unlink(slot int) {
	e := &l.entries[slot]
	l.entries[e.prev].next = e.next
	l.entries[e.next].prev = e.prev
	e.prev, e.next = nilSlot, nilSlot
	l.size--
}

func (l *recencyList[K, V]) moveToHead(slot int) {
	if l.entries[headSlot].next == slot {
		return
	}
	l.unlink(slot)
	l.insertAtHead(slot)
}

// evictTail unlinks the least recently used entry and returns its slot.
// The slot stays allocated, so the caller may read the entry before freeing or reusing it.
func (l *recencyList[K, V]) evictTail() (slot int, ok bool) {
	slot = l.entries[tailSlot].prev
	if slot == headSlot {
		return nilSlot, false
	}
	l.unlink(slot)
	return slot, true
}

func (l *recencyList[K, V]) entry(slot int) *listEntry[K, V] {
	return &l.entries[slot]
}

func (l *recencyList[K, V]) len() int {
	return l.size
}

// keys returns keys ordered from the most recently used to the least recently used.
func (l *recencyList[K, V]) keys() []K {
	keys := make([]K, 0, l.size)
	for slot := l.entries[headSlot].next; slot != tailSlot; slot = l.entries[slot].next {
		keys = append(keys, l.entries[slot].key)
	}
	return keys
}
