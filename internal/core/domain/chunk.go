package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// Chunk is a bounded-size, possibly overlapping segment of one extracted
// content block. Chunks are immutable once produced.
//
// The three JSON-tagged fields are the boundary contract of the persisted
// chunk file; Position and Embedding never leave the process.
type Chunk struct {
	// DataLink is the LinkIdentifier of the source block.
	DataLink string `json:"data_link"`

	// ChunkID is "{DataLink}_chunk_{ordinal}". Unique across a dataset
	// because DataLinks are unique keys and ordinals are unique per key.
	ChunkID string `json:"chunk_id"`

	// Content is the chunk text, at most the configured chunk size.
	Content string `json:"content"`

	// Position is the 0-based ordinal of the chunk within its source text.
	Position int `json:"-"`

	// Embedding is the vector representation, populated at index build.
	Embedding []float32 `json:"-"`
}

// NewChunkID formats the stable chunk identifier for a source link and ordinal.
func NewChunkID(dataLink string, ordinal int) string {
	return fmt.Sprintf("%s_chunk_%d", dataLink, ordinal)
}

// ParseOrdinal recovers the ordinal from a chunk identifier.
// Returns -1 when the identifier does not carry one.
func ParseOrdinal(chunkID string) int {
	i := strings.LastIndex(chunkID, "_chunk_")
	if i < 0 {
		return -1
	}
	n, err := strconv.Atoi(chunkID[i+len("_chunk_"):])
	if err != nil || n < 0 {
		return -1
	}
	return n
}
