// Package worker runs the CPU-bound spectral scoring off the sample
// ingestion path.
package worker

import (
	"context"
	"fmt"
	"runtime"
	"strconv"
	"time"

	"github.com/aadsidhu-design/flexa-sub004/internal/adapters/mq/queue"
	"github.com/aadsidhu-design/flexa-sub004/internal/domain/model"
	"github.com/aadsidhu-design/flexa-sub004/pkg/logger"
	"github.com/aadsidhu-design/flexa-sub004/pkg/metrics"
)

// Default worker configuration constants.
const (
	poolShutdownTimeout = 30 * time.Second
)

// Window abstracts what workers read off the queue.
// Using the model.MagnitudeWindow type for consistency.
type Window = model.MagnitudeWindow

// Scorer computes a smoothness sample for a magnitude window. The boolean is
// false when the score was suppressed (publish throttle) and nothing should
// be published.
type Scorer interface {
	Score(ctx context.Context, w Window) (model.SmoothnessSample, bool, error)
}

// Publisher delivers published smoothness samples back to the session.
type Publisher interface {
	Publish(ctx context.Context, sessionID string, s model.SmoothnessSample) error
}

// Queue defines how workers receive windows.
type Queue interface {
	Dequeue(ctx context.Context) <-chan Window
}

// Worker processes magnitude windows using the provided interfaces.
type Worker interface {
	// Run starts the worker loop until ctx is canceled.
	Run(ctx context.Context)

	// Shutdown gracefully stops the worker.
	// It will process any remaining windows before stopping.
	Shutdown(ctx context.Context) error
}

// InMemoryWorker implements Worker for processing windows.
type InMemoryWorker struct {
	queue     Queue
	scorer    Scorer
	publisher Publisher
	name      string

	// Shutdown control
	shutdown chan struct{}
	done     chan struct{}

	// Logging
	logger logger.Logger
}

// NewInMemoryWorker creates a new worker with configuration options.
func NewInMemoryWorker(queue Queue, scorer Scorer, publisher Publisher, opts ...Option) *InMemoryWorker {
	w := &InMemoryWorker{
		queue:     queue,
		scorer:    scorer,
		publisher: publisher,
		name:      "worker",
		shutdown:  make(chan struct{}),
		done:      make(chan struct{}),
		logger:    logger.Get().Named("worker"),
	}

	for _, opt := range opts {
		opt(w)
	}

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

	windowChan := w.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.shutdown:
			return
		case window, ok := <-windowChan:
			if !ok {
				return
			}

			if err := w.processWindow(ctx, window); err != nil {
				w.logger.Error(ctx, "error processing window", logger.Error(err))
			}
		}
	}
}

// Shutdown gracefully stops the worker.
func (w *InMemoryWorker) Shutdown(ctx context.Context) error {
	close(w.shutdown)

	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		w.logger.Warn(ctx, "shutdown timed out")
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

// processWindow scores a single window and publishes the result.
func (w *InMemoryWorker) processWindow(ctx context.Context, window queue.Window) error {
	start := time.Now()
	defer func() {
		metrics.RecordWorkerProcessingLatency(float64(time.Since(start).Milliseconds()))
	}()

	sample, publish, err := w.scorer.Score(ctx, window)
	if err != nil {
		metrics.RecordWorkerError("scoring_error")
		w.logger.Error(ctx, "scoring failed for window",
			logger.String("sessionID", window.SessionID),
			logger.Error(err),
		)
		return fmt.Errorf("failed to score window for session %s: %w", window.SessionID, err)
	}
	if !publish {
		return nil
	}

	if err := w.publisher.Publish(ctx, window.SessionID, sample); err != nil {
		metrics.RecordWorkerError("publish_error")
		w.logger.Error(ctx, "publish failed for window",
			logger.String("sessionID", window.SessionID),
			logger.Error(err),
		)
		return fmt.Errorf("publish failed: %w", err)
	}

	metrics.RecordSmoothnessPublished(string(sample.Source))
	return nil
}

// Pool manages multiple workers.
type Pool struct {
	workers   []*InMemoryWorker
	queue     Queue
	scorer    Scorer
	publisher Publisher

	// Logging
	logger logger.Logger
}

// NewPool creates a new worker pool. The default size is one worker so a
// single session's published scores stay in order; callers with many
// concurrent sessions scale this up.
func NewPool(workerCount int, queue Queue, scorer Scorer, publisher Publisher) *Pool {
	if workerCount < 1 {
		workerCount = 1
	}
	if workerCount > runtime.NumCPU() {
		workerCount = runtime.NumCPU()
	}

	pool := &Pool{
		workers:   make([]*InMemoryWorker, workerCount),
		queue:     queue,
		scorer:    scorer,
		publisher: publisher,
		logger:    logger.Get().Named("worker-pool"),
	}

	for i := 0; i < workerCount; i++ {
		pool.workers[i] = NewInMemoryWorker(
			queue,
			scorer,
			publisher,
			WithName("worker-"+strconv.Itoa(i)),
		)
	}

	metrics.UpdateWorkerActiveCount(workerCount)

	return pool
}

// Start starts all workers in the pool.
func (p *Pool) Start(ctx context.Context) {
	for _, worker := range p.workers {
		go worker.Run(ctx)
	}
}

// Shutdown gracefully shuts down the entire worker pool. Closing the queue
// is what stops the workers: their dequeue channels close once it drains.
// Safe to call more than once.
func (p *Pool) Shutdown(ctx context.Context) error {
	// First close the queue so no new windows arrive.
	if closer, ok := p.queue.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			p.logger.Error(ctx, "error closing queue", logger.Error(err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, poolShutdownTimeout)
	defer cancel()

	for i, worker := range p.workers {
		select {
		case <-worker.done:
		case <-shutdownCtx.Done():
			p.logger.Warn(ctx, "worker shutdown timed out", logger.Int("worker_id", i))
		}
	}

	return nil
}
