// Package typed wraps a core.Store collection with type-safe access.
package typed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/aretw0/keep/pkg/core"
)

// Record is implemented by every entity stored in a collection.
type Record interface {
	GetID() string
}

// Collection binds a core.Store collection to the Go type T.
type Collection[T Record] struct {
	store core.Store
	name  core.Collection
}

// NewCollection creates a type-safe wrapper around one collection of store.
func NewCollection[T Record](store core.Store, name core.Collection) *Collection[T] {
	return &Collection[T]{store: store, name: name}
}

// Name returns the underlying collection name.
func (c *Collection[T]) Name() core.Collection { return c.name }

// Put marshals v and stores it under v.GetID().
func (c *Collection[T]) Put(ctx context.Context, v T) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal %s record: %w", c.name, err)
	}
	return c.store.Put(ctx, c.name, core.Record{ID: v.GetID(), Data: data})
}

// Get retrieves and unmarshals a record. Absent ids return core.ErrNotFound.
func (c *Collection[T]) Get(ctx context.Context, id string) (T, error) {
	var zero T
	rec, err := c.store.Get(ctx, c.name, id)
	if err != nil {
		return zero, err
	}
	return decode[T](c.name, rec)
}

// GetAll returns every record of the collection converted to T.
func (c *Collection[T]) GetAll(ctx context.Context) ([]T, error) {
	recs, err := c.store.GetAll(ctx, c.name)
	if err != nil {
		return nil, err
	}

	result := make([]T, 0, len(recs))
	for _, rec := range recs {
		v, err := decode[T](c.name, rec)
		if err != nil {
			return nil, err
		}
		result = append(result, v)
	}
	return result, nil
}

// Delete removes a record by ID.
func (c *Collection[T]) Delete(ctx context.Context, id string) error {
	return c.store.Delete(ctx, c.name, id)
}

func decode[T Record](name core.Collection, rec core.Record) (T, error) {
	var v T
	if err := json.Unmarshal(rec.Data, &v); err != nil {
		return v, fmt.Errorf("%w: %s record %s: %v", core.ErrStorage, name, rec.ID, err)
	}
	return v, nil
}

// Collections groups the three typed collections of a store.
type Collections struct {
	Notes    *Collection[core.Note]
	Labels   *Collection[core.Label]
	Settings *Collection[core.Setting]
}

// Open returns the typed collections backed by store.
func Open(store core.Store) Collections {
	return Collections{
		Notes:    NewCollection[core.Note](store, core.CollectionNotes),
		Labels:   NewCollection[core.Label](store, core.CollectionLabels),
		Settings: NewCollection[core.Setting](store, core.CollectionSettings),
	}
}

// Setting returns the value stored under key, or "" when absent.
func (c Collections) Setting(ctx context.Context, key string) (string, error) {
	s, err := c.Settings.Get(ctx, key)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return "", nil
		}
		return "", err
	}
	return s.Value, nil
}

// SetSetting overwrites the value stored under key.
func (c Collections) SetSetting(ctx context.Context, key, value string) error {
	return c.Settings.Put(ctx, core.Setting{ID: key, Value: value})
}
