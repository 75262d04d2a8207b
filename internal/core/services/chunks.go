package services

import (
	"context"
	"fmt"
	"sort"

	"github.com/custodia-labs/sitechat-cli/internal/core/domain"
	"github.com/custodia-labs/sitechat-cli/internal/core/ports/driving"
	"github.com/custodia-labs/sitechat-cli/internal/logger"
	"github.com/custodia-labs/sitechat-cli/internal/postprocessors/chunker"
)

// Ensure ChunkPipeline implements the interface.
var _ driving.ChunkService = (*ChunkPipeline)(nil)

// ChunkPipeline turns a crawled dataset into chunk records.
type ChunkPipeline struct {
	processor *chunker.Processor
}

// NewChunkPipeline creates the pipeline around a configured processor.
func NewChunkPipeline(processor *chunker.Processor) *ChunkPipeline {
	return &ChunkPipeline{processor: processor}
}

// ChunkDataset splits every block of the dataset into chunks.
// Links are processed in sorted order so output is deterministic.
func (p *ChunkPipeline) ChunkDataset(ctx context.Context, dataset map[string]string) ([]domain.Chunk, error) {
	if len(dataset) == 0 {
		return nil, fmt.Errorf("nothing to chunk: %w", domain.ErrEmptyDataset)
	}

	logger.Section("Chunk")
	logger.Debug("chunking %d blocks (size=%d overlap=%d)",
		len(dataset), p.processor.ChunkSize(), p.processor.Overlap())

	links := make([]string, 0, len(dataset))
	for link := range dataset {
		links = append(links, link)
	}
	sort.Strings(links)

	var chunks []domain.Chunk
	for _, link := range links {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("chunking cancelled: %w", err)
		}
		chunks = append(chunks, p.processor.Process(link, dataset[link])...)
	}

	logger.Info("produced %d chunks from %d blocks", len(chunks), len(dataset))
	return chunks, nil
}
