package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity or file does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrEmptyDataset indicates an ingestion input with no content.
	// Chunking and index builds fail fast on an empty dataset.
	ErrEmptyDataset = errors.New("empty dataset")

	// ErrIndexCorrupt indicates a persisted vector index could not be read.
	// Callers treat this as a cache miss and rebuild.
	ErrIndexCorrupt = errors.New("vector index corrupt")

	// ErrModelMismatch indicates the query embedding model differs from the
	// model the index was built with. This is a configuration error and is
	// surfaced before any embedding work starts.
	ErrModelMismatch = errors.New("embedding model mismatch")

	// ErrGenerationFailed indicates the chat-completion call failed.
	// Retrieved sources remain usable when this error is returned.
	ErrGenerationFailed = errors.New("answer generation failed")

	// ErrEmbeddingUnavailable indicates the embedding service is not configured.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrLLMUnavailable indicates the chat-completion service is not configured.
	ErrLLMUnavailable = errors.New("LLM service unavailable")

	// ErrIndexUnavailable indicates no vector index is loaded.
	ErrIndexUnavailable = errors.New("vector index unavailable")
)
