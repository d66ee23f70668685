package core

import "context"

// Record is a stored document keyed by ID. Data holds the JSON encoding.
type Record struct {
	ID   string
	Data []byte
}

// Store defines the contract of the Local Store.
// Each call is an independent atomic unit: there is no multi-record
// transaction and no cross-collection atomicity.
type Store interface {
	// Initialize creates the fixed collections if absent. It is idempotent.
	Initialize(ctx context.Context) error

	// GetAll returns every record in store iteration order.
	GetAll(ctx context.Context, c Collection) ([]Record, error)

	// Get returns the record or ErrNotFound.
	Get(ctx context.Context, c Collection, id string) (Record, error)

	// Put inserts or replaces the record keyed by its ID. Durable on return.
	Put(ctx context.Context, c Collection, rec Record) error

	// Delete removes the record. Deleting an absent id is not an error.
	Delete(ctx context.Context, c Collection, id string) error

	// Close releases the underlying resources.
	Close() error
}
