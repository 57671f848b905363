package interfaces

import (
	"context"

	"github.com/memora-app/memora/pkg/domain/model"
	"github.com/memora-app/memora/pkg/domain/types"
)

// VectorIndex abstracts the vector index service (Pinecone in production).
// Upsert is idempotent by record ID and therefore safe to retry.
type VectorIndex interface {
	// Upsert stores or replaces the record keyed by its memory ID
	Upsert(ctx context.Context, rec *model.VectorRecord) error

	// Query returns up to topK nearest neighbors of vector among the given
	// user's records, in descending similarity order. Embeddings are
	// returned only when includeValues is set.
	Query(ctx context.Context, userID types.UserID, vector []float32, topK int, includeValues bool) ([]*model.VectorMatch, error)

	// Delete removes the record with the given ID. Deleting a missing
	// record is not an error.
	Delete(ctx context.Context, id types.MemoryID) error

	Close() error
}
