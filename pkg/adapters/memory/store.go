// Package memory implements core.Store in memory.
// Iteration order is insertion order. Nothing survives Close.
package memory

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/aretw0/introspection"

	"github.com/aretw0/keep/pkg/core"
)

type collection struct {
	order []string
	data  map[string][]byte
}

// Store is an in-memory core.Store.
type Store struct {
	mu          sync.RWMutex
	collections map[core.Collection]*collection
	closed      bool
}

// New creates an empty store. Initialize must be called before use.
func New() *Store {
	return &Store{collections: make(map[core.Collection]*collection)}
}

// Initialize creates the fixed collections if absent.
func (s *Store) Initialize(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range core.Collections {
		if _, ok := s.collections[c]; !ok {
			s.collections[c] = &collection{data: make(map[string][]byte)}
		}
	}
	return nil
}

func (s *Store) lookup(c core.Collection) (*collection, error) {
	if s.closed {
		return nil, fmt.Errorf("%w: store is closed", core.ErrStorage)
	}
	col, ok := s.collections[c]
	if !ok {
		return nil, fmt.Errorf("%w: unknown collection %q", core.ErrStorage, c)
	}
	return col, nil
}

// GetAll returns records in insertion order.
func (s *Store) GetAll(ctx context.Context, c core.Collection) ([]core.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	col, err := s.lookup(c)
	if err != nil {
		return nil, err
	}
	out := make([]core.Record, 0, len(col.order))
	for _, id := range col.order {
		out = append(out, core.Record{ID: id, Data: slices.Clone(col.data[id])})
	}
	return out, nil
}

// Get returns a record or core.ErrNotFound.
func (s *Store) Get(ctx context.Context, c core.Collection, id string) (core.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	col, err := s.lookup(c)
	if err != nil {
		return core.Record{}, err
	}
	data, ok := col.data[id]
	if !ok {
		return core.Record{}, core.ErrNotFound
	}
	return core.Record{ID: id, Data: slices.Clone(data)}, nil
}

// Put inserts or replaces a record.
func (s *Store) Put(ctx context.Context, c core.Collection, rec core.Record) error {
	if rec.ID == "" {
		return fmt.Errorf("%w: record has no id", core.ErrValidation)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	col, err := s.lookup(c)
	if err != nil {
		return err
	}
	if _, ok := col.data[rec.ID]; !ok {
		col.order = append(col.order, rec.ID)
	}
	col.data[rec.ID] = slices.Clone(rec.Data)
	return nil
}

// Delete removes a record. Absent ids are ignored.
func (s *Store) Delete(ctx context.Context, c core.Collection, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	col, err := s.lookup(c)
	if err != nil {
		return err
	}
	if _, ok := col.data[id]; !ok {
		return nil
	}
	delete(col.data, id)
	col.order = slices.DeleteFunc(col.order, func(v string) bool { return v == id })
	return nil
}

// Close marks the store closed. Later calls fail with core.ErrStorage.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

// StoreState exposes internal state for observability.
type StoreState struct {
	Counts map[core.Collection]int `json:"counts"`
	Closed bool                    `json:"closed"`
}

// State implements introspection.Introspectable.
func (s *Store) State() any {
	s.mu.RLock()
	defer s.mu.RUnlock()
	counts := make(map[core.Collection]int, len(s.collections))
	for name, col := range s.collections {
		counts[name] = len(col.order)
	}
	return StoreState{Counts: counts, Closed: s.closed}
}

// ComponentType implements introspection.Component.
func (s *Store) ComponentType() string { return "memory-store" }

var _ core.Store = (*Store)(nil)
var _ introspection.Introspectable = (*Store)(nil)
var _ introspection.Component = (*Store)(nil)
