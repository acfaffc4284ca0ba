package track

// Option configures a Bloom-backed estimator.
type Option func(*bloomEstimator)

// WithCapacity sets the expected number of distinct addresses the filter
// should hold. Non-positive values keep the default.
func WithCapacity(n uint) Option {
	return func(e *bloomEstimator) {
		if n > 0 {
			e.capacity = n
		}
	}
}

// WithFalsePositiveRate sets the target false positive rate. Values outside
// (0, 1) keep the default.
func WithFalsePositiveRate(p float64) Option {
	return func(e *bloomEstimator) {
		if p > 0 && p < 1 {
			e.fpRate = p
		}
	}
}
