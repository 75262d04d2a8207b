package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/custodia-labs/sitechat-cli/internal/core/domain"
	"github.com/custodia-labs/sitechat-cli/internal/core/ports/driven"
	"github.com/custodia-labs/sitechat-cli/internal/logger"
)

// Ensure Cache implements the interface.
var _ driven.IndexCache = (*Cache)(nil)

// embedBatchSize bounds how many chunks go into one embedding request.
const embedBatchSize = 64

// Cache manages index artifacts in a directory, keyed by the fingerprint
// of (embedding model, dataset identity). Builds publish atomically via
// rename, so readers never observe a half-written artifact.
type Cache struct {
	dir string

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewCache creates an index cache rooted at dir. If dir is empty it
// defaults to ~/.sitechat/indexes.
func NewCache(dir string) (*Cache, error) {
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dir = filepath.Join(home, ".sitechat", "indexes")
	}
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("creating index directory: %w", err)
	}
	return &Cache{dir: dir, locks: make(map[string]*sync.Mutex)}, nil
}

// Dir returns the cache directory.
func (c *Cache) Dir() string {
	return c.dir
}

// lockFor returns the mutex guarding one fingerprint's artifact.
func (c *Cache) lockFor(fingerprint string) *sync.Mutex {
	c.mu.Lock()
	defer c.mu.Unlock()
	l, ok := c.locks[fingerprint]
	if !ok {
		l = &sync.Mutex{}
		c.locks[fingerprint] = l
	}
	return l
}

// Build embeds the chunks and writes a fresh index artifact for the
// dataset, replacing any existing one.
func (c *Cache) Build(ctx context.Context, embedder driven.EmbeddingService, chunks []domain.Chunk, datasetIdentity string) (driven.VectorIndex, error) {
	if len(chunks) == 0 {
		return nil, fmt.Errorf("%w: nothing to index", domain.ErrEmptyDataset)
	}

	fingerprint := Fingerprint(embedder.ModelName(), datasetIdentity)
	lock := c.lockFor(fingerprint)
	lock.Lock()
	defer lock.Unlock()

	return c.build(ctx, embedder, chunks, fingerprint)
}

// LoadOrBuild returns the cached index for the dataset if a valid
// artifact exists, otherwise builds one. A corrupt artifact counts as a
// cache miss: it is removed and rebuilt.
func (c *Cache) LoadOrBuild(ctx context.Context, embedder driven.EmbeddingService, chunks []domain.Chunk, datasetIdentity string) (driven.VectorIndex, error) {
	fingerprint := Fingerprint(embedder.ModelName(), datasetIdentity)
	lock := c.lockFor(fingerprint)
	lock.Lock()
	defer lock.Unlock()

	path := filepath.Join(c.dir, indexFileName(fingerprint))
	if _, err := os.Stat(path); err == nil {
		idx, err := Open(path)
		if err == nil {
			logger.Debug("index cache hit: %s (%d chunks)", fingerprint, idx.Len())
			return idx, nil
		}
		if !errors.Is(err, domain.ErrIndexCorrupt) {
			return nil, err
		}
		logger.Warn("discarding corrupt index %s: %v", fingerprint, err)
		if err := os.Remove(path); err != nil {
			return nil, fmt.Errorf("removing corrupt index: %w", err)
		}
	}

	if len(chunks) == 0 {
		return nil, fmt.Errorf("%w: no cached index and nothing to build from", domain.ErrEmptyDataset)
	}

	logger.Debug("index cache miss: %s, building", fingerprint)
	return c.build(ctx, embedder, chunks, fingerprint)
}

// Delete removes the artifact for the dataset. Deleting an artifact
// that does not exist is not an error.
func (c *Cache) Delete(embeddingModel, datasetIdentity string) error {
	fingerprint := Fingerprint(embeddingModel, datasetIdentity)
	lock := c.lockFor(fingerprint)
	lock.Lock()
	defer lock.Unlock()

	path := filepath.Join(c.dir, indexFileName(fingerprint))
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing index %s: %w", fingerprint, err)
	}
	return nil
}

// build embeds all chunks, writes a temp artifact and renames it into
// place. The caller must hold the fingerprint lock.
func (c *Cache) build(ctx context.Context, embedder driven.EmbeddingService, chunks []domain.Chunk, fingerprint string) (driven.VectorIndex, error) {
	embedded, err := embedChunks(ctx, embedder, chunks)
	if err != nil {
		return nil, err
	}

	tmpPath := filepath.Join(c.dir, fmt.Sprintf(".build-%s-%d.db", fingerprint, time.Now().UnixNano()))
	if err := writeArtifact(tmpPath, embedder.ModelName(), embedded); err != nil {
		os.Remove(tmpPath)
		return nil, err
	}

	path := filepath.Join(c.dir, indexFileName(fingerprint))
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return nil, fmt.Errorf("publishing index: %w", err)
	}

	logger.Info("built index %s with %d chunks", fingerprint, len(embedded))
	return Open(path)
}

// embedChunks fills in embeddings batch by batch, checking the context
// between batches so long builds stay cancellable.
func embedChunks(ctx context.Context, embedder driven.EmbeddingService, chunks []domain.Chunk) ([]domain.Chunk, error) {
	out := make([]domain.Chunk, len(chunks))
	copy(out, chunks)

	for start := 0; start < len(out); start += embedBatchSize {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		end := start + embedBatchSize
		if end > len(out) {
			end = len(out)
		}

		texts := make([]string, 0, end-start)
		for _, chunk := range out[start:end] {
			texts = append(texts, chunk.Content)
		}

		vecs, err := embedder.EmbedBatch(ctx, texts)
		if err != nil {
			return nil, fmt.Errorf("embedding chunks %d..%d: %w", start, end, err)
		}
		if len(vecs) != end-start {
			return nil, fmt.Errorf("embedding chunks %d..%d: got %d vectors, want %d",
				start, end, len(vecs), end-start)
		}

		for i, vec := range vecs {
			out[start+i].Embedding = vec
		}
	}
	return out, nil
}

// writeArtifact creates a complete index artifact at path.
func writeArtifact(path, model string, chunks []domain.Chunk) error {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("creating artifact: %w", err)
	}
	defer db.Close()

	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}

	dimensions := 0
	if len(chunks) > 0 {
		dimensions = len(chunks[0].Embedding)
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	meta := map[string]string{
		"format_version":  strconv.Itoa(formatVersion),
		"embedding_model": model,
		"dimensions":      strconv.Itoa(dimensions),
		"chunk_count":     strconv.Itoa(len(chunks)),
		"built_at":        time.Now().UTC().Format(time.RFC3339),
	}
	for key, value := range meta {
		if _, err := tx.Exec("INSERT INTO meta (key, value) VALUES (?, ?)", key, value); err != nil {
			return fmt.Errorf("writing meta %s: %w", key, err)
		}
	}

	stmt, err := tx.Prepare(`
		INSERT INTO chunks (chunk_id, data_link, content, position, embedding)
		VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, chunk := range chunks {
		if len(chunk.Embedding) != dimensions {
			return fmt.Errorf("chunk %s: embedding has %d dimensions, want %d",
				chunk.ChunkID, len(chunk.Embedding), dimensions)
		}
		if _, err := stmt.Exec(chunk.ChunkID, chunk.DataLink, chunk.Content,
			chunk.Position, float32SliceToBytes(chunk.Embedding)); err != nil {
			return fmt.Errorf("saving chunk %s: %w", chunk.ChunkID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing artifact: %w", err)
	}
	return nil
}
