// Package store keeps the ordered list of star records and the backends
// that persist them.
package store

import (
	"context"
	"fmt"

	"github.com/frankfika/thanksgiving/internal/star"
)

// Backend persists star records.
type Backend interface {
	// List returns stored records, oldest first.
	List(ctx context.Context) ([]star.Record, error)
	// Save appends a record.
	Save(ctx context.Context, rec star.Record) error
}

// Store is the in-memory, append-only list the starfield is built from.
// Order is insertion order; a repeated id is ignored.
type Store struct {
	records []star.Record
	ids     map[string]struct{}
}

// New creates a store holding recs, deduplicated.
func New(recs ...star.Record) *Store {
	s := &Store{ids: make(map[string]struct{})}
	s.Append(recs...)
	return s
}

// Append adds the records whose ids are new and returns how many were added.
func (s *Store) Append(recs ...star.Record) int {
	n := 0
	for _, r := range recs {
		if r.ID == "" {
			continue
		}
		if _, ok := s.ids[r.ID]; ok {
			continue
		}
		s.ids[r.ID] = struct{}{}
		s.records = append(s.records, r)
		n++
	}
	return n
}

// Has reports whether id is present.
func (s *Store) Has(id string) bool {
	_, ok := s.ids[id]
	return ok
}

// Get returns the record for id.
func (s *Store) Get(id string) (star.Record, bool) {
	if !s.Has(id) {
		return star.Record{}, false
	}
	for _, r := range s.records {
		if r.ID == id {
			return r, true
		}
	}
	return star.Record{}, false
}

// Len returns the number of records.
func (s *Store) Len() int { return len(s.records) }

// Records returns a copy of the records in order.
func (s *Store) Records() []star.Record {
	out := make([]star.Record, len(s.records))
	copy(out, s.records)
	return out
}

// Merge orders defaults ahead of stored records, dropping any default
// whose id the backend already has.
func Merge(defaults, stored []star.Record) []star.Record {
	have := make(map[string]struct{}, len(stored))
	for _, r := range stored {
		have[r.ID] = struct{}{}
	}
	out := make([]star.Record, 0, len(defaults)+len(stored))
	for _, d := range defaults {
		if _, ok := have[d.ID]; !ok {
			out = append(out, d)
		}
	}
	return append(out, stored...)
}

// Load builds a store from defaults and everything b has. With a nil
// backend only the defaults are used.
func Load(ctx context.Context, b Backend, defaults []star.Record) (*Store, error) {
	if b == nil {
		return New(defaults...), nil
	}
	stored, err := b.List(ctx)
	if err != nil {
		return New(defaults...), fmt.Errorf("load stars: %w", err)
	}
	return New(Merge(defaults, stored)...), nil
}
