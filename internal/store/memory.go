package store

import (
	"context"
	"sync"

	"github.com/frankfika/thanksgiving/internal/star"
)

// DefaultCapacity is how many stars a Memory backend keeps.
const DefaultCapacity = 100

// Memory is a bounded in-process backend. When full, the oldest records
// are dropped.
type Memory struct {
	mu   sync.RWMutex
	max  int
	recs []star.Record
}

// NewMemory creates a backend keeping the last capacity records, seeded
// with seed.
func NewMemory(capacity int, seed ...star.Record) *Memory {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	m := &Memory{max: capacity}
	m.recs = append(m.recs, seed...)
	m.trim()
	return m
}

// List implements Backend.
func (m *Memory) List(ctx context.Context) ([]star.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]star.Record, len(m.recs))
	copy(out, m.recs)
	return out, nil
}

// Save implements Backend.
func (m *Memory) Save(ctx context.Context, rec star.Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := rec.Validate(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.recs = append(m.recs, rec)
	m.trim()
	return nil
}

// Len returns the number of records held.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.recs)
}

func (m *Memory) trim() {
	if over := len(m.recs) - m.max; over > 0 {
		m.recs = append(m.recs[:0:0], m.recs[over:]...)
	}
}
