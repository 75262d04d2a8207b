// Package chunker provides a boundary-preferring text chunking processor.
//
// Text is split on the coarsest boundary that keeps pieces within the size
// bound: paragraph break, then sentence, then word, then raw characters.
// Adjacent pieces share a configurable overlap of trailing context.
package chunker

import (
	"fmt"

	"github.com/custodia-labs/sitechat-cli/internal/core/domain"
)

// DefaultChunkSize is the default number of characters per chunk.
const DefaultChunkSize = 5000

// DefaultChunkOverlap is the default number of overlapping characters.
const DefaultChunkOverlap = 50

// Processor splits content blocks into bounded, overlapping chunks.
type Processor struct {
	chunkSize int
	overlap   int
}

// Option configures the chunker processor.
type Option func(*Processor)

// WithChunkSize sets the chunk size in characters.
func WithChunkSize(size int) Option {
	return func(p *Processor) {
		p.chunkSize = size
	}
}

// WithOverlap sets the overlap between chunks in characters.
func WithOverlap(overlap int) Option {
	return func(p *Processor) {
		p.overlap = overlap
	}
}

// New creates a chunker processor with the given options.
// Malformed bounds (overlap negative, or not smaller than the chunk size)
// are a configuration error and fail fast.
func New(opts ...Option) (*Processor, error) {
	p := &Processor{
		chunkSize: DefaultChunkSize,
		overlap:   DefaultChunkOverlap,
	}

	for _, opt := range opts {
		opt(p)
	}

	if p.chunkSize < 1 {
		return nil, fmt.Errorf("chunk size %d: %w", p.chunkSize, domain.ErrInvalidInput)
	}
	if p.overlap < 0 || p.overlap >= p.chunkSize {
		return nil, fmt.Errorf("overlap %d with chunk size %d: %w",
			p.overlap, p.chunkSize, domain.ErrInvalidInput)
	}

	return p, nil
}

// ChunkSize returns the configured chunk size.
func (p *Processor) ChunkSize() int { return p.chunkSize }

// Overlap returns the configured overlap.
func (p *Processor) Overlap() int { return p.overlap }

// Process splits one content block into chunks with stable ids.
// Empty content produces no chunks. Ids cannot collide: dataLinks are unique
// keys in the dataset and ordinals are unique within a key.
func (p *Processor) Process(dataLink, content string) []domain.Chunk {
	if content == "" {
		return nil
	}

	pieces := split(content, p.chunkSize, p.overlap)
	chunks := make([]domain.Chunk, 0, len(pieces))
	for i, piece := range pieces {
		chunks = append(chunks, domain.Chunk{
			DataLink: dataLink,
			ChunkID:  domain.NewChunkID(dataLink, i),
			Content:  piece,
			Position: i,
		})
	}
	return chunks
}
