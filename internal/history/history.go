// Package history records dispatched invocations. Variable state is never
// persisted; only the invocation transcript is, and only when a database
// backend is configured.
package history

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Record is one dispatched invocation.
type Record struct {
	ID      string
	Input   string
	Success bool
	Message string
	At      time.Time
}

// Store persists invocation records.
type Store interface {
	Add(ctx context.Context, input string, success bool, message string) (*Record, error)
	Recent(ctx context.Context, n int) ([]Record, error)
	Close() error
}

// MemoryStore is the default in-process store: a bounded ring of records.
type MemoryStore struct {
	mu      sync.Mutex
	records []Record
	cap     int
}

// NewMemoryStore returns a store keeping at most capacity records (a
// non-positive capacity defaults to 1000).
func NewMemoryStore(capacity int) *MemoryStore {
	if capacity <= 0 {
		capacity = 1000
	}
	return &MemoryStore{cap: capacity}
}

func (s *MemoryStore) Add(_ context.Context, input string, success bool, message string) (*Record, error) {
	rec := Record{
		ID:      "inv_" + uuid.New().String(),
		Input:   input,
		Success: success,
		Message: message,
		At:      time.Now().UTC(),
	}
	s.mu.Lock()
	s.records = append(s.records, rec)
	if len(s.records) > s.cap {
		s.records = s.records[len(s.records)-s.cap:]
	}
	s.mu.Unlock()
	return &rec, nil
}

// Recent returns up to n records, newest first.
func (s *MemoryStore) Recent(_ context.Context, n int) ([]Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if n <= 0 || n > len(s.records) {
		n = len(s.records)
	}
	out := make([]Record, 0, n)
	for i := len(s.records) - 1; i >= len(s.records)-n; i-- {
		out = append(out, s.records[i])
	}
	return out, nil
}

func (s *MemoryStore) Close() error { return nil }
