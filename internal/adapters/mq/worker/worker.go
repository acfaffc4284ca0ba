// Package worker defines worker contracts for asynchronous standings
// refreshes.
package worker

import (
	"context"
	"fmt"
	"runtime"
	"strconv"
	"time"

	"github.com/okian/holmgang/internal/adapters/mq/queue"
	"github.com/okian/holmgang/internal/domain/duel"
	"github.com/okian/holmgang/internal/domain/model"
	"github.com/okian/holmgang/pkg/logger"
	"github.com/okian/holmgang/pkg/metrics"
)

// Default worker configuration constants.
const (
	defaultWorkerMultiplier = 4 // multiplier for runtime.NumCPU()
	workerShutdownTimeout   = 5 * time.Second
	poolShutdownTimeout     = 30 * time.Second
)

// Job abstracts what workers read off the queue.
type Job = queue.Job

// Fetcher retrieves the duel records for an address.
type Fetcher interface {
	Duels(ctx context.Context, address string) ([]model.Duel, error)
}

// Updater replaces the standing recorded for an address.
type Updater interface {
	Update(ctx context.Context, address string, wins, losses int) error
}

// Queue defines how workers receive jobs.
type Queue interface {
	Dequeue(ctx context.Context) <-chan Job
}

// Worker processes refresh jobs by re-fetching an address and writing its
// fresh standing.
type Worker interface {
	// Run starts the worker loop until ctx is canceled.
	Run(ctx context.Context)

	// Shutdown gracefully stops the worker.
	Shutdown(ctx context.Context) error
}

// InMemoryWorker implements Worker for processing refresh jobs.
type InMemoryWorker struct {
	queue   Queue
	fetcher Fetcher
	updater Updater
	name    string

	// Shutdown control
	shutdown chan struct{}
	done     chan struct{}

	// Logging
	logger logger.Logger
}

// NewInMemoryWorker creates a new worker with configuration options.
func NewInMemoryWorker(q Queue, fetcher Fetcher, updater Updater, opts ...Option) *InMemoryWorker {
	w := &InMemoryWorker{
		queue:    q,
		fetcher:  fetcher,
		updater:  updater,
		name:     "worker", // default name
		shutdown: make(chan struct{}),
		done:     make(chan struct{}),
		logger:   logger.Get().Named("worker"), // will be updated by options
	}

	// Apply all options
	for _, opt := range opts {
		opt(w)
	}

	// Set up logger with worker name if not already set
	if w.name != "worker" {
		w.logger = w.logger.Named(w.name)
	}

	return w
}

// Run starts the worker loop.
func (w *InMemoryWorker) Run(ctx context.Context) {
	defer func() {
		close(w.done)
	}()

	jobChan := w.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.shutdown:
			return
		case job, ok := <-jobChan:
			if !ok {
				// Channel closed, worker should stop
				return
			}

			if err := w.processJob(ctx, job); err != nil {
				w.logger.Error(ctx, "error processing refresh job", logger.Error(err))
			}
		}
	}
}

// Shutdown gracefully stops the worker.
func (w *InMemoryWorker) Shutdown(ctx context.Context) error {
	select {
	case <-w.shutdown:
		// Already signalled
	default:
		close(w.shutdown)
	}

	// Wait for worker to finish or context to timeout
	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		w.logger.Warn(ctx, "shutdown timed out")
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

// processJob handles a single refresh: fetch the address's records,
// summarize from its viewpoint, and replace its stored standing.
func (w *InMemoryWorker) processJob(ctx context.Context, job Job) error {
	start := time.Now()
	defer func() {
		latency := time.Since(start).Milliseconds()
		metrics.RecordWorkerLatency(float64(latency))
	}()

	records, err := w.fetcher.Duels(ctx, job.Address)
	if err != nil {
		metrics.RecordRefreshFailure()
		w.logger.Error(ctx, "refresh fetch failed",
			logger.String("request_id", job.ID),
			logger.String("address", job.Address),
			logger.Error(err),
		)
		return fmt.Errorf("failed to refresh %s: %w", job.Address, err)
	}

	summary := duel.Summarize(records, job.Address)

	if err := w.updater.Update(ctx, job.Address, summary.Wins, summary.Losses); err != nil {
		metrics.RecordRefreshFailure()
		w.logger.Error(ctx, "standings update failed",
			logger.String("request_id", job.ID),
			logger.String("address", job.Address),
			logger.Error(err),
		)
		return fmt.Errorf("standings update failed: %w", err)
	}

	metrics.RecordRefreshProcessed()
	w.logger.Debug(ctx, "refresh completed",
		logger.String("request_id", job.ID),
		logger.String("address", job.Address),
		logger.Int("records", len(records)),
		logger.Int("wins", summary.Wins),
		logger.Int("losses", summary.Losses),
	)

	return nil
}

// Pool manages multiple workers draining one queue.
type Pool struct {
	workers []*InMemoryWorker
	queue   Queue

	// Logging
	logger logger.Logger
}

// NewPool creates a new worker pool.
func NewPool(workerCount int, q Queue, fetcher Fetcher, updater Updater) *Pool {
	if workerCount < 1 {
		workerCount = runtime.NumCPU() * defaultWorkerMultiplier
	}

	pool := &Pool{
		workers: make([]*InMemoryWorker, workerCount),
		queue:   q,
		logger:  logger.Get().Named("worker-pool"),
	}

	for i := 0; i < workerCount; i++ {
		pool.workers[i] = NewInMemoryWorker(
			q,
			fetcher,
			updater,
			WithName("worker-"+strconv.Itoa(i)),
		)
	}

	metrics.UpdateWorkerCount(workerCount)

	return pool
}

// Start starts all workers in the pool.
func (p *Pool) Start(ctx context.Context) {
	for _, w := range p.workers {
		go w.Run(ctx)
	}
}

// Size returns the number of workers in the pool.
func (p *Pool) Size() int {
	return len(p.workers)
}

// Stop stops all workers without draining the queue.
func (p *Pool) Stop() {
	for _, w := range p.workers {
		select {
		case <-w.shutdown:
			// Already signalled
		default:
			close(w.shutdown)
		}
	}

	for _, w := range p.workers {
		select {
		case <-w.done:
			// Worker finished
		case <-time.After(workerShutdownTimeout):
			// Worker timeout
		}
	}
}

// Shutdown gracefully shuts down the entire worker pool.
func (p *Pool) Shutdown(ctx context.Context) error {
	// First close the queue to stop new jobs
	if closer, ok := p.queue.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			p.logger.Error(ctx, "error closing queue", logger.Error(err))
		}
	}

	// Wait for all workers to drain or context to timeout
	shutdownCtx, cancel := context.WithTimeout(ctx, poolShutdownTimeout)
	defer cancel()

	for i, w := range p.workers {
		select {
		case <-w.done:
		case <-shutdownCtx.Done():
			p.logger.Warn(ctx, "worker shutdown timed out", logger.Int("worker_id", i))
		}
	}

	return nil
}
