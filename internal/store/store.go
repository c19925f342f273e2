package store

import "context"

// Store defines the contract for durable embedding storage.
type Store interface {
	// InsertBatch durably commits all documents in one transaction and
	// returns the assigned ids in input order. Either the whole batch
	// is visible to subsequent reads or none of it is.
	InsertBatch(ctx context.Context, docs []Document) ([]int64, error)

	// Get retrieves a record by id, or fails with ErrNotFound.
	Get(ctx context.Context, id int64) (*Record, error)

	// Delete removes a record by id, or fails with ErrNotFound.
	// Deleted ids are never reassigned within a store instance.
	Delete(ctx context.Context, id int64) error

	// Scan returns a lazy cursor over all records. The cursor observes
	// a consistent snapshot; inserts committed after Scan returns are
	// not visible to it. Each call starts a fresh scan.
	Scan(ctx context.Context) (*Iterator, error)

	// NearestNeighbors ranks the k records closest to query using the
	// database's native vector index.
	NearestNeighbors(ctx context.Context, query []float32, k int) ([]Neighbor, error)

	// HasContentHash reports whether any record carries the given
	// content hash.
	HasContentHash(ctx context.Context, hash string) (bool, error)

	// Count returns the number of stored records.
	Count(ctx context.Context) (int, error)

	// Stats returns record count, dimensionality, metric and file size.
	Stats(ctx context.Context) (*Stats, error)

	// Reset clears all records. All previously issued ids become
	// invalid; a later InsertBatch assigns ids independent of prior
	// history. Calling Reset on an empty store is a no-op.
	Reset(ctx context.Context) error

	// Dimensions returns the fixed embedding length for this store.
	Dimensions() int

	Close() error
}
