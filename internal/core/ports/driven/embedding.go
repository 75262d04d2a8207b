package driven

import "context"

// EmbeddingService generates vector embeddings from text.
// Embeddings are deterministic for a fixed model identity and input.
//
// Note: This is separate from VectorIndex, which stores and searches vectors.
// EmbeddingService generates vectors; VectorIndex stores them.
//
// Implementations may include:
//   - OpenAI (text-embedding-3-small, text-embedding-3-large)
//   - Ollama (nomic-embed-text, all-minilm)
type EmbeddingService interface {
	// Embed generates a vector embedding for the given text.
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch generates embeddings for multiple texts efficiently.
	// This is more efficient than calling Embed in a loop for large batches.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)

	// Dimensions returns the embedding vector size (e.g., 384, 1536, 3072).
	Dimensions() int

	// ModelName returns the model identity. It is part of the index
	// fingerprint; a query must be embedded with the same identity the
	// index was built with.
	ModelName() string

	// Ping validates the service is reachable by making a lightweight
	// test request. Used before expensive work starts.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}
