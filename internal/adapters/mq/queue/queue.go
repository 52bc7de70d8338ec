// Package queue defines the contract for handing magnitude windows to the
// spectral workers.
//
// Implementations may use channels or more advanced structures; the core
// ships an in-memory bounded queue.
package queue

import (
	"context"
	"sync"

	"github.com/aadsidhu-design/flexa-sub004/internal/domain/model"
	"github.com/aadsidhu-design/flexa-sub004/pkg/metrics"
)

// Default queue configuration constants.
const (
	defaultQueueCapacity = 4096
	defaultBufferSize    = 4096
)

// Window represents the payload type flowing through the queue.
// Using the model.MagnitudeWindow type for type safety.
type Window = model.MagnitudeWindow

// Queue provides non-blocking enqueue and channel-based dequeue semantics.
type Queue interface {
	// Enqueue adds a window to the queue.
	// Returns false if the queue is full and the window was not enqueued.
	Enqueue(ctx context.Context, w Window) bool

	// Dequeue returns a channel that will receive windows as they become
	// available. The channel is closed when the queue is closed.
	Dequeue(ctx context.Context) <-chan Window

	// Len returns the current number of queued windows.
	Len(ctx context.Context) int

	// Close gracefully shuts down the queue.
	// After closing, no new windows can be enqueued and the dequeue channel
	// will be closed.
	Close() error

	// IsClosed returns true if the queue has been closed.
	IsClosed() bool
}

// InMemoryQueue implements Queue using a buffered channel. Spectral work is
// best-effort: a full queue drops the window rather than stalling sample
// ingestion, which only delays the next published smoothness value.
type InMemoryQueue struct {
	windows    chan Window
	capacity   int
	bufferSize int
	mu         sync.RWMutex
	closed     bool
}

// NewInMemoryQueue creates a new in-memory queue with configuration options.
func NewInMemoryQueue(opts ...Option) *InMemoryQueue {
	q := &InMemoryQueue{
		capacity:   defaultQueueCapacity,
		bufferSize: defaultBufferSize,
	}

	for _, opt := range opts {
		opt(q)
	}

	q.windows = make(chan Window, q.bufferSize)

	metrics.UpdateQueueCapacity(q.capacity)
	metrics.UpdateQueueSize(0)

	return q
}

// Enqueue adds a window to the queue.
func (q *InMemoryQueue) Enqueue(ctx context.Context, w Window) bool {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		metrics.RecordQueueEnqueueError("closed")
		return false
	}

	if len(q.windows) >= q.capacity {
		metrics.RecordQueueEnqueueError("capacity_exceeded")
		return false
	}

	select {
	case q.windows <- w:
		metrics.RecordQueueEnqueue()
		metrics.UpdateQueueSize(len(q.windows))
		return true
	case <-ctx.Done():
		metrics.RecordQueueEnqueueError("context_cancelled")
		return false
	default:
		metrics.RecordQueueEnqueueError("queue_full")
		return false
	}
}

// Dequeue returns a channel that will receive windows as they become
// available.
func (q *InMemoryQueue) Dequeue(ctx context.Context) <-chan Window {
	out := make(chan Window)
	go func() {
		defer close(out)
		for w := range q.windows {
			select {
			case out <- w:
				metrics.RecordQueueDequeue()
				metrics.UpdateQueueSize(len(q.windows))
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}

// Len returns the current number of queued windows.
func (q *InMemoryQueue) Len(ctx context.Context) int {
	size := len(q.windows)
	metrics.UpdateQueueSize(size)
	return size
}

// Close gracefully shuts down the queue.
func (q *InMemoryQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return nil
	}

	close(q.windows)
	q.closed = true

	return nil
}

// IsClosed returns true if the queue has been closed.
func (q *InMemoryQueue) IsClosed() bool {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.closed
}
