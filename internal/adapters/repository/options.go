// Package repository defines the session summary store interface and errors.
package repository

// Option applies a configuration option to the MemoryStore.
type Option func(*MemoryStore)

// WithMaxSessions bounds how many finished summaries are retained before the
// oldest is evicted.
func WithMaxSessions(n int) Option {
	return func(s *MemoryStore) {
		if n > 0 {
			s.max = n
		}
	}
}
