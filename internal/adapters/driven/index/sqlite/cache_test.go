package sqlite

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/sitechat-cli/internal/core/domain"
)

// countingEmbedder maps each text to a fixed vector and counts calls.
type countingEmbedder struct {
	model   string
	vectors map[string][]float32
	calls   int
}

func (e *countingEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	vecs, err := e.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vecs[0], nil
}

func (e *countingEmbedder) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	e.calls++
	out := make([][]float32, len(texts))
	for i, text := range texts {
		vec, ok := e.vectors[text]
		if !ok {
			vec = []float32{0, 0, 1}
		}
		out[i] = vec
	}
	return out, nil
}

func (e *countingEmbedder) Dimensions() int              { return 3 }
func (e *countingEmbedder) ModelName() string            { return e.model }
func (e *countingEmbedder) Ping(_ context.Context) error { return nil }
func (e *countingEmbedder) Close() error                 { return nil }

func newTestEmbedder() *countingEmbedder {
	return &countingEmbedder{
		model: "test-model",
		vectors: map[string][]float32{
			"north": {0, 1, 0},
			"east":  {1, 0, 0},
			"both":  {1, 1, 0},
		},
	}
}

func testChunks() []domain.Chunk {
	return []domain.Chunk{
		{DataLink: "https://x/a", ChunkID: "https://x/a_chunk_0", Content: "north", Position: 0},
		{DataLink: "https://x/a", ChunkID: "https://x/a_chunk_1", Content: "east", Position: 1},
		{DataLink: "https://x/b", ChunkID: "https://x/b_chunk_0", Content: "both", Position: 0},
	}
}

func TestFingerprint(t *testing.T) {
	a := Fingerprint("model-1", "https://example.com")
	b := Fingerprint("model-1", "https://example.com")
	assert.Equal(t, a, b)
	assert.Len(t, a, 32)

	assert.NotEqual(t, a, Fingerprint("model-2", "https://example.com"))
	assert.NotEqual(t, a, Fingerprint("model-1", "https://other.com"))
}

func TestBuildAndSearch(t *testing.T) {
	cache, err := NewCache(t.TempDir())
	require.NoError(t, err)

	idx, err := cache.Build(context.Background(), newTestEmbedder(), testChunks(), "https://example.com")
	require.NoError(t, err)
	defer idx.Close()

	assert.Equal(t, 3, idx.Len())
	assert.Equal(t, "test-model", idx.Model())

	// Query pointing east: "east" is closest, "both" second.
	hits, err := idx.Search(context.Background(), []float32{1, 0, 0}, 2)
	require.NoError(t, err)
	require.Len(t, hits, 2)
	assert.Equal(t, "https://x/a_chunk_1", hits[0].Chunk.ChunkID)
	assert.Equal(t, "https://x/b_chunk_0", hits[1].Chunk.ChunkID)
	assert.Greater(t, hits[0].Similarity, hits[1].Similarity)
}

func TestSearch_TieBreaksDeterministic(t *testing.T) {
	cache, err := NewCache(t.TempDir())
	require.NoError(t, err)

	// Two chunks with identical content embed identically.
	chunks := []domain.Chunk{
		{DataLink: "https://x/b", ChunkID: "https://x/b_chunk_0", Content: "north", Position: 0},
		{DataLink: "https://x/a", ChunkID: "https://x/a_chunk_1", Content: "north", Position: 1},
		{DataLink: "https://x/a", ChunkID: "https://x/a_chunk_0", Content: "north", Position: 0},
	}

	idx, err := cache.Build(context.Background(), newTestEmbedder(), chunks, "https://example.com")
	require.NoError(t, err)
	defer idx.Close()

	hits, err := idx.Search(context.Background(), []float32{0, 1, 0}, 3)
	require.NoError(t, err)
	require.Len(t, hits, 3)

	// Position ascending, then chunk id.
	assert.Equal(t, "https://x/a_chunk_0", hits[0].Chunk.ChunkID)
	assert.Equal(t, "https://x/b_chunk_0", hits[1].Chunk.ChunkID)
	assert.Equal(t, "https://x/a_chunk_1", hits[2].Chunk.ChunkID)
}

func TestLoadOrBuild_SecondCallHitsCache(t *testing.T) {
	cache, err := NewCache(t.TempDir())
	require.NoError(t, err)

	embedder := newTestEmbedder()

	idx, err := cache.LoadOrBuild(context.Background(), embedder, testChunks(), "https://example.com")
	require.NoError(t, err)
	idx.Close()
	firstCalls := embedder.calls
	assert.Greater(t, firstCalls, 0)

	idx, err = cache.LoadOrBuild(context.Background(), embedder, testChunks(), "https://example.com")
	require.NoError(t, err)
	defer idx.Close()

	// No further embedding work on a cache hit.
	assert.Equal(t, firstCalls, embedder.calls)
	assert.Equal(t, 3, idx.Len())
}

func TestLoadOrBuild_CorruptArtifactRebuilt(t *testing.T) {
	dir := t.TempDir()
	cache, err := NewCache(dir)
	require.NoError(t, err)

	embedder := newTestEmbedder()
	fingerprint := Fingerprint(embedder.ModelName(), "https://example.com")
	path := filepath.Join(dir, indexFileName(fingerprint))
	require.NoError(t, os.WriteFile(path, []byte("not a database"), 0600))

	idx, err := cache.LoadOrBuild(context.Background(), embedder, testChunks(), "https://example.com")
	require.NoError(t, err)
	defer idx.Close()

	assert.Equal(t, 3, idx.Len())
	assert.Greater(t, embedder.calls, 0)
}

func TestBuild_EmptyDataset(t *testing.T) {
	cache, err := NewCache(t.TempDir())
	require.NoError(t, err)

	_, err = cache.Build(context.Background(), newTestEmbedder(), nil, "https://example.com")
	assert.ErrorIs(t, err, domain.ErrEmptyDataset)
}

func TestDelete(t *testing.T) {
	dir := t.TempDir()
	cache, err := NewCache(dir)
	require.NoError(t, err)

	embedder := newTestEmbedder()
	idx, err := cache.Build(context.Background(), embedder, testChunks(), "https://example.com")
	require.NoError(t, err)
	idx.Close()

	fingerprint := Fingerprint(embedder.ModelName(), "https://example.com")
	path := filepath.Join(dir, indexFileName(fingerprint))
	_, err = os.Stat(path)
	require.NoError(t, err)

	require.NoError(t, cache.Delete(embedder.ModelName(), "https://example.com"))
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))

	// Deleting again is a no-op.
	require.NoError(t, cache.Delete(embedder.ModelName(), "https://example.com"))
}

func TestOpen_ModelRecorded(t *testing.T) {
	dir := t.TempDir()
	cache, err := NewCache(dir)
	require.NoError(t, err)

	embedder := newTestEmbedder()
	idx, err := cache.Build(context.Background(), embedder, testChunks(), "https://example.com")
	require.NoError(t, err)
	idx.Close()

	path := filepath.Join(dir, indexFileName(Fingerprint(embedder.ModelName(), "https://example.com")))
	reopened, err := Open(path)
	require.NoError(t, err)
	defer reopened.Close()

	assert.Equal(t, "test-model", reopened.Model())
	assert.Equal(t, 3, reopened.Len())
}
