package driven

import (
	"context"

	"github.com/custodia-labs/sitechat-cli/internal/core/domain"
)

// VectorIndex provides nearest-neighbour search over embedded chunks.
// A loaded index is immutable; concurrent searches are safe.
type VectorIndex interface {
	// Search finds the k chunks most similar to the query vector, in
	// similarity-descending order. Ties are broken by chunk ordinal.
	// Fewer than k results are returned when the index is smaller than k.
	Search(ctx context.Context, query []float32, k int) ([]domain.RetrievedChunk, error)

	// Len returns the number of indexed chunks.
	Len() int

	// Model returns the embedding model identity the index was built with.
	Model() string

	// Close releases resources.
	Close() error
}

// IndexCache owns persisted vector indices keyed by the fingerprint of
// (dataset identity, embedding model identity).
type IndexCache interface {
	// Build embeds every chunk exactly once, constructs the index,
	// persists it under its fingerprint and returns it. A failed build
	// never leaves a partial artifact visible to LoadOrBuild.
	Build(ctx context.Context, embedder EmbeddingService, chunks []domain.Chunk, datasetIdentity string) (VectorIndex, error)

	// LoadOrBuild returns the persisted index for the fingerprint if one
	// exists, without recomputing any embedding. Otherwise it builds.
	// An unreadable artifact is treated as a cache miss.
	LoadOrBuild(ctx context.Context, embedder EmbeddingService, chunks []domain.Chunk, datasetIdentity string) (VectorIndex, error)

	// Delete removes the persisted index for the fingerprint.
	// Deleting an absent index is a no-op, not an error.
	Delete(embeddingModel, datasetIdentity string) error
}
