package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/sitechat-cli/internal/core/domain"
	"github.com/custodia-labs/sitechat-cli/internal/postprocessors/chunker"
)

func newPipeline(t *testing.T, size, overlap int) *ChunkPipeline {
	t.Helper()
	p, err := chunker.New(chunker.WithChunkSize(size), chunker.WithOverlap(overlap))
	require.NoError(t, err)
	return NewChunkPipeline(p)
}

func TestChunkPipeline_EmptyDatasetFailsFast(t *testing.T) {
	_, err := newPipeline(t, 100, 10).ChunkDataset(context.Background(), nil)
	assert.ErrorIs(t, err, domain.ErrEmptyDataset)

	_, err = newPipeline(t, 100, 10).ChunkDataset(context.Background(), map[string]string{})
	assert.ErrorIs(t, err, domain.ErrEmptyDataset)
}

func TestChunkPipeline_DeterministicOrder(t *testing.T) {
	dataset := map[string]string{
		"https://x/b": "content of b",
		"https://x/a": "content of a",
	}

	chunks, err := newPipeline(t, 100, 10).ChunkDataset(context.Background(), dataset)
	require.NoError(t, err)
	require.Len(t, chunks, 2)

	// Sorted by link regardless of map iteration order.
	assert.Equal(t, "https://x/a_chunk_0", chunks[0].ChunkID)
	assert.Equal(t, "https://x/b_chunk_0", chunks[1].ChunkID)
}

func TestChunkPipeline_UniqueIDsAcrossDataset(t *testing.T) {
	dataset := map[string]string{
		"https://x/a": "Hello world. This is page A. It keeps going for a while longer.",
		"https://x/b": "Hello world. This is page B. It keeps going for a while longer.",
	}

	chunks, err := newPipeline(t, 20, 4).ChunkDataset(context.Background(), dataset)
	require.NoError(t, err)
	require.NotEmpty(t, chunks)

	seen := make(map[string]bool)
	for _, c := range chunks {
		assert.False(t, seen[c.ChunkID], "duplicate id %s", c.ChunkID)
		seen[c.ChunkID] = true
		assert.LessOrEqual(t, len([]rune(c.Content)), 20)
	}
}

func TestChunkPipeline_Cancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newPipeline(t, 100, 10).ChunkDataset(ctx, map[string]string{"https://x/a": "text"})
	assert.ErrorIs(t, err, context.Canceled)
}
