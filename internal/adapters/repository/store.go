// Package repository defines the session summary store interface and errors.
package repository

import (
	"context"
	"sync"

	"github.com/aadsidhu-design/flexa-sub004/internal/domain/model"
	"github.com/aadsidhu-design/flexa-sub004/pkg/metrics"
)

const defaultMaxSessions = 1024

// Store provides read/write access to finished session summaries.
type Store interface {
	// Put stores the summary for a finished session, replacing any previous
	// summary with the same session ID.
	Put(ctx context.Context, s model.SessionSummary) error

	// Get returns the summary for a session.
	// Returns ErrNotFound if the session is unknown.
	Get(ctx context.Context, sessionID string) (model.SessionSummary, error)

	// List returns up to limit summaries, most recently finished first.
	List(ctx context.Context, limit int) ([]model.SessionSummary, error)

	// Count returns the number of stored summaries.
	Count(ctx context.Context) int

	// Close releases any resources held by the store.
	Close() error
}

// MemoryStore is a bounded in-memory Store. When full, the oldest summary is
// evicted; rehab sessions are short-lived and downstream sync owns durable
// history.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]model.SessionSummary
	order    []string
	max      int
}

// NewMemoryStore creates an in-memory store with configuration options.
func NewMemoryStore(opts ...Option) *MemoryStore {
	s := &MemoryStore{
		sessions: make(map[string]model.SessionSummary),
		max:      defaultMaxSessions,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Put stores a summary, evicting the oldest entry when at capacity.
func (s *MemoryStore) Put(ctx context.Context, sum model.SessionSummary) error {
	if sum.SessionID == "" {
		return ErrMissingSessionID
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.sessions[sum.SessionID]; !exists {
		for len(s.order) >= s.max {
			oldest := s.order[0]
			s.order = s.order[1:]
			delete(s.sessions, oldest)
		}
		s.order = append(s.order, sum.SessionID)
	}
	s.sessions[sum.SessionID] = sum

	metrics.UpdateStoredSessions(len(s.order))
	return nil
}

// Get returns the summary for a session.
func (s *MemoryStore) Get(ctx context.Context, sessionID string) (model.SessionSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sum, ok := s.sessions[sessionID]
	if !ok {
		return model.SessionSummary{}, ErrNotFound
	}
	return sum, nil
}

// List returns up to limit summaries, most recently finished first.
func (s *MemoryStore) List(ctx context.Context, limit int) ([]model.SessionSummary, error) {
	if limit <= 0 {
		return nil, ErrInvalidLimit
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit > len(s.order) {
		limit = len(s.order)
	}
	out := make([]model.SessionSummary, 0, limit)
	for i := len(s.order) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, s.sessions[s.order[i]])
	}
	return out, nil
}

// Count returns the number of stored summaries.
func (s *MemoryStore) Count(ctx context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.order)
}

// Close releases store resources.
func (s *MemoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions = make(map[string]model.SessionSummary)
	s.order = nil
	return nil
}
