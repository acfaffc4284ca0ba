// Package recent keeps a bounded, most-recent-first history of looked-up
// viewpoints.
package recent

// Option applies a configuration option to the inMemoryTracker.
type Option func(*inMemoryTracker)

// WithMaxEntries sets the maximum number of addresses to keep.
// If maxEntries <= 0 the history is unbounded.
func WithMaxEntries(maxEntries int) Option {
	return func(t *inMemoryTracker) {
		t.maxSize = maxEntries
	}
}
