// Package track estimates how many distinct addresses have appeared in
// fetched duel records. A Bloom filter keeps the memory bound fixed no
// matter how many addresses flow through; the count is approximate (false
// positives can undercount) and is used for stats only, never for
// correctness decisions.
package track

import (
	"context"
	"strings"
	"sync"

	"github.com/bits-and-blooms/bloom/v3"

	"github.com/okian/holmgang/pkg/metrics"
)

// Default filter sizing: a million addresses at a 0.1% false positive rate.
const (
	defaultCapacity          = 1_000_000
	defaultFalsePositiveRate = 0.001
)

// Estimator counts approximately how many distinct addresses it has seen.
type Estimator interface {
	// Observe feeds addresses into the estimate. Empty strings are ignored
	// and casing is collapsed, matching address identity rules.
	Observe(ctx context.Context, addresses ...string)

	// Estimate returns the approximate distinct-address count.
	Estimate() uint32
}

// bloomEstimator implements Estimator with a guarded Bloom filter.
type bloomEstimator struct {
	mu       sync.Mutex
	filter   *bloom.BloomFilter
	count    uint32
	capacity uint
	fpRate   float64
}

// NewBloomEstimator creates an estimator with the default sizing.
func NewBloomEstimator(opts ...Option) Estimator {
	e := &bloomEstimator{
		capacity: defaultCapacity,
		fpRate:   defaultFalsePositiveRate,
	}

	for _, opt := range opts {
		opt(e)
	}

	e.filter = bloom.NewWithEstimates(e.capacity, e.fpRate)

	return e
}

// Observe feeds addresses into the estimate.
func (e *bloomEstimator) Observe(ctx context.Context, addresses ...string) {
	e.mu.Lock()
	for _, addr := range addresses {
		if addr == "" {
			continue
		}
		if !e.filter.TestAndAddString(strings.ToLower(addr)) {
			e.count++
		}
	}
	count := e.count
	e.mu.Unlock()

	metrics.UpdateUniqueAddresses(count)
}

// Estimate returns the approximate distinct-address count.
func (e *bloomEstimator) Estimate() uint32 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.count
}
