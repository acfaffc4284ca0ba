// Package repository defines the standings store interface and errors.
package repository

import (
	"context"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/okian/holmgang/pkg/metrics"
)

// Treap-based, in-memory Store implementation.
//
// Ordering: wins DESC, then address ASC (deterministic). We implement a
// BST comparator where "less" means ranks earlier, so in-order traversal
// produces the standings from best to worst. Priorities are random, which
// keeps the tree balanced in expectation regardless of insertion order.

// standing stores the counts recorded at the last refresh of an address.
type standing struct {
	wins   int
	losses int
}

// treap node
type node struct {
	addr  string
	wins  int
	prio  uint64
	left  *node
	right *node
	size  int
}

func nsize(n *node) int {
	if n == nil {
		return 0
	}
	return n.size
}

func fix(n *node) {
	if n != nil {
		n.size = 1 + nsize(n.left) + nsize(n.right)
	}
}

// less returns true if (aWins, aAddr) should appear before (bWins, bAddr)
// in the standings (more wins first).
func less(aWins int, aAddr string, bWins int, bAddr string) bool {
	if aWins != bWins {
		return aWins > bWins // more wins ranks earlier
	}
	return aAddr < bAddr // tie-breaker by address asc
}

func rotateRight(y *node) *node {
	x := y.left
	t2 := x.right
	x.right = y
	y.left = t2
	fix(y)
	fix(x)
	return x
}

func rotateLeft(x *node) *node {
	y := x.right
	t2 := y.left
	y.left = x
	x.right = t2
	fix(x)
	fix(y)
	return y
}

func insert(n *node, addr string, wins int, prio uint64) *node {
	if n == nil {
		return &node{addr: addr, wins: wins, prio: prio, size: 1}
	}
	if less(wins, addr, n.wins, n.addr) {
		n.left = insert(n.left, addr, wins, prio)
		if n.left.prio > n.prio {
			n = rotateRight(n)
		}
	} else {
		n.right = insert(n.right, addr, wins, prio)
		if n.right.prio > n.prio {
			n = rotateLeft(n)
		}
	}
	fix(n)
	return n
}

func deleteNode(n *node, addr string, wins int) *node {
	if n == nil {
		return nil
	}
	if wins == n.wins && addr == n.addr {
		// Merge children by rotating highest priority up until leaf.
		if n.left == nil {
			return n.right
		}
		if n.right == nil {
			return n.left
		}
		if n.left.prio > n.right.prio {
			n = rotateRight(n)
			n.right = deleteNode(n.right, addr, wins)
		} else {
			n = rotateLeft(n)
			n.left = deleteNode(n.left, addr, wins)
		}
	} else if less(wins, addr, n.wins, n.addr) {
		n.left = deleteNode(n.left, addr, wins)
	} else {
		n.right = deleteNode(n.right, addr, wins)
	}
	fix(n)
	return n
}

// collectTopN appends up to limit entries in rank order (most wins first).
func collectTopN(n *node, limit int, byAddr map[string]standing, out *[]Entry) {
	if n == nil || len(*out) >= limit {
		return
	}

	collectTopN(n.left, limit, byAddr, out)

	if len(*out) < limit {
		if st, exists := byAddr[n.addr]; exists {
			*out = append(*out, Entry{Address: n.addr, Wins: st.wins, Losses: st.losses})
		}
	}

	if len(*out) < limit {
		collectTopN(n.right, limit, byAddr, out)
	}
}

// collectAll appends every entry in rank order (most wins first).
func collectAll(n *node, byAddr map[string]standing, out *[]Entry) {
	if n == nil {
		return
	}
	collectAll(n.left, byAddr, out)
	if st, ok := byAddr[n.addr]; ok {
		*out = append(*out, Entry{Address: n.addr, Wins: st.wins, Losses: st.losses})
	}
	collectAll(n.right, byAddr, out)
}

// assignRanks assigns 1-based ranks to entries already in standings order.
// Equal win counts share a rank; the next distinct count takes the next
// consecutive rank.
func assignRanks(entries []Entry) {
	rank := 0
	for i := range entries {
		if i == 0 || entries[i].Wins != entries[i-1].Wins {
			rank++
		}
		entries[i].Rank = rank
	}
}

type TreapStore struct {
	mu              sync.RWMutex
	root            *node
	byAddr          map[string]standing
	rng             *rand.Rand
	metricsInterval time.Duration

	wg       sync.WaitGroup
	stopChan chan struct{}
}

// NewTreapStore constructs a treap store with configuration options.
func NewTreapStore(ctx context.Context, opts ...Option) *TreapStore {
	s := &TreapStore{
		byAddr:          make(map[string]standing),
		rng:             rand.New(rand.NewSource(time.Now().UnixNano())),
		metricsInterval: 5 * time.Second,
	}

	for _, opt := range opts {
		opt(s)
	}

	s.stopChan = make(chan struct{})
	s.startMetricsUpdater(ctx)

	return s
}

// Close gracefully shuts down the background metrics goroutine.
func (s *TreapStore) Close() error {
	select {
	case <-s.stopChan:
		// Channel already closed
	default:
		close(s.stopChan)
	}
	s.wg.Wait()
	return nil
}

// Update implements Store.Update with O(log n) expected time. Replace
// semantics: the counts from the latest refresh win, even when they are
// lower than what was stored.
func (s *TreapStore) Update(ctx context.Context, address string, wins, losses int) error {
	start := time.Now()
	defer func() {
		metrics.RecordStoreUpdateLatency(float64(time.Since(start).Milliseconds()))
	}()

	addr := strings.ToLower(address)

	s.mu.Lock()
	if old, ok := s.byAddr[addr]; ok {
		s.root = deleteNode(s.root, addr, old.wins)
	}
	s.byAddr[addr] = standing{wins: wins, losses: losses}
	s.root = insert(s.root, addr, wins, s.rng.Uint64())
	size := len(s.byAddr)
	s.mu.Unlock()

	metrics.UpdateStoreParticipants(size)

	return nil
}

// Rank returns the current standing for an address.
func (s *TreapStore) Rank(ctx context.Context, address string) (Entry, error) {
	start := time.Now()
	defer func() {
		metrics.RecordStoreQueryLatency(float64(time.Since(start).Milliseconds()))
	}()

	addr := strings.ToLower(address)

	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.byAddr[addr]; !ok {
		return Entry{}, ErrNotFound
	}

	// In-order traversal already yields standings order, so collecting
	// everything and ranking the slice gives the dense rank directly.
	all := make([]Entry, 0, len(s.byAddr))
	collectAll(s.root, s.byAddr, &all)
	assignRanks(all)

	for _, entry := range all {
		if entry.Address == addr {
			return entry, nil
		}
	}

	return Entry{}, ErrNotFound
}

// TopN returns the top N standings ordered by wins desc.
func (s *TreapStore) TopN(ctx context.Context, n int) ([]Entry, error) {
	start := time.Now()
	defer func() {
		metrics.RecordStoreQueryLatency(float64(time.Since(start).Milliseconds()))
	}()

	if n < 1 {
		return nil, ErrInvalidLimit
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	capHint := n
	if size := len(s.byAddr); size < capHint {
		capHint = size
	}

	out := make([]Entry, 0, capHint)
	collectTopN(s.root, n, s.byAddr, &out)

	// Ranks over a prefix of the full order match the global ranks.
	assignRanks(out)

	return out, nil
}

// Size returns the total number of participants tracked.
func (s *TreapStore) Size(ctx context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byAddr)
}

// startMetricsUpdater starts a background goroutine that refreshes the
// participant gauge at the configured interval.
func (s *TreapStore) startMetricsUpdater(ctx context.Context) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(s.metricsInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-s.stopChan:
				return
			case <-ticker.C:
				s.mu.RLock()
				size := len(s.byAddr)
				s.mu.RUnlock()
				metrics.UpdateStoreParticipants(size)
			}
		}
	}()
}
