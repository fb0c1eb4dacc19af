// ABOUTME: Vector store contract required by the ingestion pipeline and retriever
// ABOUTME: Implemented by the Postgres pgvector store and an in-memory double
package vectorstore

import (
	"context"
	"errors"

	"github.com/harper/askdoc/internal/models"
)

// ErrStorage wraps connection, schema, and write failures.
var ErrStorage = errors.New("storage failure")

// Store persists fragment records and ranks them by similarity to a query
// vector. Implementations must tolerate concurrent readers; writes happen
// only during the one-shot ingestion run.
type Store interface {
	// EnsureSchema creates the record table and similarity-search primitive.
	// Idempotent: calling it on an initialized store is a no-op.
	EnsureSchema(ctx context.Context) error

	// AddRecords inserts a batch and returns the number of records written.
	// A mid-batch failure may leave a prefix of the batch persisted; callers
	// treat any error as fatal for the run.
	AddRecords(ctx context.Context, records []models.Record) (int, error)

	// SimilaritySearch returns at most k records ordered by descending
	// similarity to the query vector. filter, when non-nil, restricts
	// results to records whose metadata contains the given pairs.
	SimilaritySearch(ctx context.Context, vector []float32, k int, filter map[string]any) ([]models.Scored, error)

	// Ping verifies the store is reachable.
	Ping(ctx context.Context) error

	// Close releases underlying connections.
	Close() error
}
