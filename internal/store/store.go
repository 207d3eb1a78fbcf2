package store

import (
	"context"

	"shelfwatch/internal/model"
)

// RecordStore defines the interface for last-known product state access.
type RecordStore interface {
	// Get retrieves the stored record for a product ID.
	// Returns nil without error when no record exists.
	Get(ctx context.Context, id string) (*model.StoredRecord, error)

	// Put inserts the record if absent, otherwise overwrites the full
	// attribute set. The store refreshes LastUpdated on every write.
	// Atomic per record: readers see either the prior or the new full set.
	Put(ctx context.Context, rec model.Record) error

	// Delete removes the record for a product ID, reporting whether one
	// existed. Administrative operation, never called by the batch cycle.
	Delete(ctx context.Context, id string) (bool, error)

	// All returns every stored record, for the operator dump.
	All(ctx context.Context) ([]model.StoredRecord, error)

	// Close releases the underlying store.
	Close() error
}
