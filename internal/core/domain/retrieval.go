package domain

// Default retrieval parameters.
const (
	// DefaultTopK is the number of chunks retrieved per question.
	DefaultTopK = 3

	// DefaultTemperature is the chat-completion sampling temperature.
	DefaultTemperature = 0.7
)

// AskOptions configures a single grounded question.
type AskOptions struct {
	// TopK is the number of nearest chunks to retrieve (default 3).
	TopK int

	// Temperature controls chat-completion randomness (default 0.7).
	Temperature float64

	// MaxTokens bounds the generated answer length. Zero means model default.
	MaxTokens int
}

// RetrievedChunk is a chunk returned by similarity search.
type RetrievedChunk struct {
	// Chunk carries the text and its source DataLink for attribution.
	Chunk Chunk

	// Similarity is the cosine similarity to the query vector.
	Similarity float64
}

// RetrievalResult is the outcome of one grounded question.
// It is produced per query and never persisted.
type RetrievalResult struct {
	// Answer is the generated text. Empty when generation failed.
	Answer string

	// Sources are the retrieved chunks in similarity-descending order.
	// They remain populated even when generation failed.
	Sources []RetrievedChunk
}
