// Package recent keeps a bounded, most-recent-first history of looked-up
// viewpoints for the stats surface and the dashboard.
package recent

import (
	"context"
	"strings"
	"sync"

	"github.com/okian/holmgang/pkg/metrics"
)

// Tracker records successfully looked-up viewpoint addresses.
type Tracker interface {
	// Record notes a lookup for address, moving it to the front if it is
	// already present. Empty addresses are ignored.
	Record(ctx context.Context, address string)

	// Recent returns up to n addresses, most recent first. n <= 0 returns
	// the full history.
	Recent(ctx context.Context, n int) []string

	Size() int
}

// entry is a node in the doubly linked recency list.
type entry struct {
	address string
	prev    *entry
	next    *entry
}

// inMemoryTracker implements Tracker with a map plus a doubly linked list:
// the map finds an address in O(1), the list keeps recency order, and the
// tail is evicted once the bound is exceeded.
type inMemoryTracker struct {
	mu      sync.RWMutex
	byAddr  map[string]*entry
	head    *entry // most recent
	tail    *entry // oldest
	maxSize int
}

// NewInMemoryTracker creates a bounded tracker. The default bound keeps the
// last 100 distinct addresses.
func NewInMemoryTracker(opts ...Option) Tracker {
	t := &inMemoryTracker{
		maxSize: 100,
	}

	for _, opt := range opts {
		opt(t)
	}

	t.byAddr = make(map[string]*entry)

	return t
}

// Record notes a lookup. Addresses are case-insensitive identities, so the
// stored form is lowercased and repeat lookups in any casing collapse into
// one entry.
func (t *inMemoryTracker) Record(ctx context.Context, address string) {
	if address == "" {
		return
	}
	key := strings.ToLower(address)

	t.mu.Lock()
	if e, ok := t.byAddr[key]; ok {
		t.moveToFront(e)
		t.mu.Unlock()
		return
	}

	e := &entry{address: key}
	t.pushFront(e)
	t.byAddr[key] = e

	if t.maxSize > 0 && len(t.byAddr) > t.maxSize {
		t.evictTail()
	}
	size := len(t.byAddr)
	t.mu.Unlock()

	metrics.UpdateRecentLookups(size)
}

// Recent returns up to n addresses, most recent first.
func (t *inMemoryTracker) Recent(ctx context.Context, n int) []string {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if n <= 0 || n > len(t.byAddr) {
		n = len(t.byAddr)
	}
	out := make([]string, 0, n)
	for e := t.head; e != nil && len(out) < n; e = e.next {
		out = append(out, e.address)
	}
	return out
}

// Size returns the number of tracked addresses.
func (t *inMemoryTracker) Size() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.byAddr)
}

// pushFront links e as the new head. Caller holds t.mu.
func (t *inMemoryTracker) pushFront(e *entry) {
	e.prev = nil
	e.next = t.head
	if t.head != nil {
		t.head.prev = e
	}
	t.head = e
	if t.tail == nil {
		t.tail = e
	}
}

// moveToFront relinks an existing entry as the head. Caller holds t.mu.
func (t *inMemoryTracker) moveToFront(e *entry) {
	if t.head == e {
		return
	}
	// Unlink.
	if e.prev != nil {
		e.prev.next = e.next
	}
	if e.next != nil {
		e.next.prev = e.prev
	}
	if t.tail == e {
		t.tail = e.prev
	}
	t.pushFront(e)
}

// evictTail drops the oldest entry. Caller holds t.mu.
func (t *inMemoryTracker) evictTail() {
	if t.tail == nil {
		return
	}
	victim := t.tail
	delete(t.byAddr, victim.address)
	t.tail = victim.prev
	if t.tail != nil {
		t.tail.next = nil
	} else {
		t.head = nil
	}
	victim.prev = nil
	victim.next = nil
}
