// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"errors"
	"runtime"
	"sync"
	"time"

	"github.com/google/uuid"

	refreshqueue "github.com/okian/holmgang/internal/adapters/mq/queue"
	workerpool "github.com/okian/holmgang/internal/adapters/mq/worker"
	repository "github.com/okian/holmgang/internal/adapters/repository"
	"github.com/okian/holmgang/internal/adapters/source"
	"github.com/okian/holmgang/internal/domain/duel"
	"github.com/okian/holmgang/internal/domain/model"
	"github.com/okian/holmgang/internal/domain/recent"
	"github.com/okian/holmgang/internal/domain/track"
	"github.com/okian/holmgang/internal/domain/types"
	"github.com/okian/holmgang/pkg/logger"
	"github.com/okian/holmgang/pkg/metrics"
)

// Service implements the API dependencies for the duel record system.
type Service struct {
	mu sync.RWMutex

	// Core components
	standings     repository.Store
	refreshQueue  refreshqueue.Queue
	src           *source.Client
	pool          *workerpool.Pool
	recentLookups recent.Tracker
	unique        track.Estimator

	// Configuration
	workerCount     int
	queueSize       int
	recentSize      int
	sourceURL       string
	sourceTimeout   time.Duration
	refreshInterval time.Duration

	// State
	started bool
	stopCh  chan struct{}
	wg      sync.WaitGroup

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithWorkerCount sets the number of refresh workers.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize sets the maximum size of the refresh queue.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithRecentSize sets how many recent lookups are remembered.
func WithRecentSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.recentSize = size
		}
	}
}

// WithSourceURL sets the base URL of the upstream duel record source.
func WithSourceURL(u string) Option {
	return func(s *Service) {
		if u != "" {
			s.sourceURL = u
		}
	}
}

// WithSourceTimeout bounds a single upstream fetch.
func WithSourceTimeout(timeout time.Duration) Option {
	return func(s *Service) {
		if timeout > 0 {
			s.sourceTimeout = timeout
		}
	}
}

// WithRefreshInterval enables periodic re-refresh of every known
// participant. Zero leaves it disabled.
func WithRefreshInterval(interval time.Duration) Option {
	return func(s *Service) {
		if interval > 0 {
			s.refreshInterval = interval
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(logger logger.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		workerCount:   runtime.NumCPU() * 4,
		queueSize:     1024,
		recentSize:    100,
		sourceURL:     "http://localhost:9090",
		sourceTimeout: 10 * time.Second,
		logger:        nil, // Will be replaced when service starts
	}

	// Apply all options
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start initializes and starts the service components.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	// Initialize logger if not already set
	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.logger.Info(ctx, "starting duel service...")

	// Initialize components
	s.standings = repository.NewTreapStore(ctx)
	s.recentLookups = recent.NewInMemoryTracker(
		recent.WithMaxEntries(s.recentSize),
	)
	s.unique = track.NewBloomEstimator()
	s.refreshQueue = refreshqueue.NewInMemoryQueue(
		refreshqueue.WithCapacity(s.queueSize),
		refreshqueue.WithBufferSize(s.queueSize),
	)
	s.src = source.NewClient(
		source.WithBaseURL(s.sourceURL),
		source.WithTimeout(s.sourceTimeout),
	)

	// Create and start the refresh worker pool
	s.pool = workerpool.NewPool(s.workerCount, s.refreshQueue, s.src, s.standings)
	s.pool.Start(ctx)

	// Fresh stop channel per run so Start after Stop works.
	s.stopCh = make(chan struct{})
	if s.refreshInterval > 0 {
		s.wg.Add(1)
		go s.refreshLoop(ctx)
	}

	s.started = true
	s.logger.Info(ctx, "duel service started",
		logger.Int("workers", s.pool.Size()),
		logger.Int("queueSize", s.queueSize),
		logger.Int("recentSize", s.recentSize),
		logger.String("source", s.sourceURL),
	)

	return nil
}

// Stop gracefully shuts down the service.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	s.logger.Info(context.Background(), "stopping duel service...")

	// Signal the refresh loop to stop and wait for it
	select {
	case <-s.stopCh:
		// Channel already closed
	default:
		close(s.stopCh)
	}
	s.wg.Wait()

	// Stop worker pool
	if s.pool != nil {
		s.pool.Stop()
	}

	// Close standings store
	if s.standings != nil {
		if closer, ok := s.standings.(interface{ Close() error }); ok {
			_ = closer.Close()
		}
	}

	// Close queue
	if q, ok := s.refreshQueue.(*refreshqueue.InMemoryQueue); ok {
		_ = q.Close()
	}

	s.started = false
	s.logger.Info(context.Background(), "duel service stopped")
}

// Lookup fetches every duel record for the viewpoint, projects each record
// into the viewpoint's perspective, and settles the win/loss summary. A
// fetch failure short-circuits: nothing is stored and nothing is returned.
func (s *Service) Lookup(ctx context.Context, viewpoint string) (types.Lookup, error) {
	start := time.Now()

	records, err := s.src.Duels(ctx, viewpoint)
	if err != nil {
		metrics.RecordLookupError(lookupErrorReason(err))
		s.logger.Warn(ctx, "lookup failed",
			logger.String("viewpoint", viewpoint),
			logger.Error(err),
		)
		return types.Lookup{}, err
	}

	projections := duel.ProjectAll(records, viewpoint)
	summary := duel.Summarize(records, viewpoint)

	out := types.Lookup{
		Viewpoint:   viewpoint,
		Total:       len(records),
		Summary:     summary,
		Projections: projections,
	}

	// Standings bookkeeping applies to named viewpoints only; an empty
	// viewpoint matches no participant and has no standing to keep.
	if viewpoint != "" {
		if err := s.standings.Update(ctx, viewpoint, summary.Wins, summary.Losses); err != nil {
			s.logger.Warn(ctx, "standings update failed",
				logger.String("viewpoint", viewpoint),
				logger.Error(err),
			)
		}
		s.recentLookups.Record(ctx, viewpoint)
	}
	s.observeAddresses(ctx, records, viewpoint)

	metrics.RecordProjections(len(projections))
	metrics.RecordSkippedRecords(out.Total - len(projections))
	metrics.RecordSummary()
	metrics.RecordLookupLatency(float64(time.Since(start).Milliseconds()))

	s.logger.Debug(ctx, "lookup served",
		logger.String("viewpoint", viewpoint),
		logger.Int("total", out.Total),
		logger.Int("projected", len(projections)),
		logger.Int("wins", summary.Wins),
		logger.Int("losses", summary.Losses),
	)

	return out, nil
}

// EnqueueRefresh schedules an asynchronous re-fetch of the address and
// returns the request id. ok is false when the address is empty or the
// queue is saturated.
func (s *Service) EnqueueRefresh(ctx context.Context, address string) (string, bool) {
	if address == "" {
		return "", false
	}

	id := uuid.NewString()
	job := refreshqueue.Job{
		ID:         id,
		Address:    address,
		EnqueuedAt: time.Now(),
	}

	if !s.refreshQueue.Enqueue(ctx, job) {
		s.logger.Warn(ctx, "refresh rejected",
			logger.String("address", address),
		)
		return "", false
	}

	s.logger.Debug(ctx, "refresh enqueued",
		logger.String("request_id", id),
		logger.String("address", address),
	)
	return id, true
}

// TopN returns the top n standings.
func (s *Service) TopN(ctx context.Context, n int) ([]types.Standing, error) {
	entries, err := s.standings.TopN(ctx, n)
	if err != nil {
		return nil, err
	}

	out := make([]types.Standing, len(entries))
	for i, entry := range entries {
		out[i] = toStanding(entry)
	}
	return out, nil
}

// Standing returns the standing for a single address.
func (s *Service) Standing(ctx context.Context, address string) (types.Standing, error) {
	entry, err := s.standings.Rank(ctx, address)
	if err != nil {
		return types.Standing{}, err
	}
	return toStanding(entry), nil
}

// RecentLookups returns up to n recently looked-up addresses, newest first.
func (s *Service) RecentLookups(ctx context.Context, n int) []string {
	if s.recentLookups == nil {
		return nil
	}
	return s.recentLookups.Recent(ctx, n)
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats(ctx context.Context) map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]any{
		"started":       s.started,
		"workerCount":   s.workerCount,
		"queueCapacity": s.queueSize,
	}

	if s.started {
		queueLen := s.refreshQueue.Len(ctx)
		participants := s.standings.Size(ctx)
		workers := s.pool.Size()

		stats["workerCount"] = workers
		stats["queueLength"] = queueLen
		if q, ok := s.refreshQueue.(*refreshqueue.InMemoryQueue); ok {
			stats["queueCapacity"] = q.Capacity()
		}
		stats["storeParticipants"] = participants
		stats["recentLookups"] = s.recentLookups.Size()
		stats["recentAddresses"] = s.recentLookups.Recent(ctx, s.recentSize)
		stats["uniqueAddresses"] = s.unique.Estimate()

		// Update metrics
		metrics.UpdateQueueSize(queueLen)
		metrics.UpdateStoreParticipants(participants)
		metrics.UpdateWorkerCount(workers)
	}

	return stats
}

// refreshLoop periodically re-enqueues every known participant.
func (s *Service) refreshLoop(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.refreshInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-s.stopCh:
			return
		case <-ticker.C:
			s.refreshKnown(ctx)
		}
	}
}

// refreshKnown walks the full standings and enqueues one refresh per
// participant. Saturation is tolerated; dropped jobs are picked up on the
// next tick.
func (s *Service) refreshKnown(ctx context.Context) {
	size := s.standings.Size(ctx)
	if size == 0 {
		return
	}

	entries, err := s.standings.TopN(ctx, size)
	if err != nil {
		s.logger.Warn(ctx, "periodic refresh skipped",
			logger.Error(err),
		)
		return
	}

	enqueued := 0
	for _, entry := range entries {
		if _, ok := s.EnqueueRefresh(ctx, entry.Address); ok {
			enqueued++
		}
	}

	s.logger.Debug(ctx, "periodic refresh scheduled",
		logger.Int("participants", len(entries)),
		logger.Int("enqueued", enqueued),
	)
}

// observeAddresses feeds every address touched by a lookup into the
// unique-address estimator.
func (s *Service) observeAddresses(ctx context.Context, records []model.Duel, viewpoint string) {
	addrs := make([]string, 0, 2*len(records)+1)
	if viewpoint != "" {
		addrs = append(addrs, viewpoint)
	}
	for _, d := range records {
		addrs = append(addrs, d.ParticipantA.Address, d.ParticipantB.Address)
	}
	s.unique.Observe(ctx, addrs...)
}

// toStanding converts a repository entry into the public standing shape.
func toStanding(entry repository.Entry) types.Standing {
	total := entry.Wins + entry.Losses
	rate := 0.0
	if total > 0 {
		rate = float64(entry.Wins) / float64(total)
	}
	return types.Standing{
		Rank:    entry.Rank,
		Address: entry.Address,
		Wins:    entry.Wins,
		Losses:  entry.Losses,
		Total:   total,
		WinRate: rate,
	}
}

// lookupErrorReason buckets a lookup failure for metrics.
func lookupErrorReason(err error) string {
	switch {
	case errors.Is(err, source.ErrQuery):
		return "query"
	case errors.Is(err, source.ErrTransport):
		return "transport"
	default:
		return "internal"
	}
}
