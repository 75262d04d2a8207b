// Package sqlite provides a persistent vector index backed by SQLite
// artifact files, one per (embedding model, dataset) pair.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/binary"
	"fmt"
	"math"
	"sort"
	"strconv"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/sitechat-cli/internal/core/domain"
	"github.com/custodia-labs/sitechat-cli/internal/core/ports/driven"
)

// Ensure Index implements the interface.
var _ driven.VectorIndex = (*Index)(nil)

// formatVersion is bumped whenever the artifact layout changes; an
// artifact with a different version is treated as corrupt.
const formatVersion = 1

// schema lays out one index artifact: a meta table describing the build
// and a chunks table holding content plus embedding blobs.
const schema = `
CREATE TABLE IF NOT EXISTS meta (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS chunks (
	id        INTEGER PRIMARY KEY AUTOINCREMENT,
	chunk_id  TEXT NOT NULL UNIQUE,
	data_link TEXT NOT NULL,
	content   TEXT NOT NULL,
	position  INTEGER NOT NULL,
	embedding BLOB NOT NULL
);
`

// entry is one indexed chunk held in memory for search.
type entry struct {
	chunk domain.Chunk
	norm  float64
}

// Index is a read-only view over one index artifact. Embeddings are
// loaded into memory on open; Search is a linear cosine scan, which is
// fine at the scale of a single website.
type Index struct {
	path       string
	model      string
	dimensions int
	entries    []entry
}

// Open loads an index artifact from disk. Artifacts that cannot be read
// or fail validation return an error wrapping domain.ErrIndexCorrupt.
func Open(path string) (*Index, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open index %s: %w", path, err)
	}
	defer db.Close()

	meta, err := readMeta(db)
	if err != nil {
		return nil, fmt.Errorf("index %s: %v: %w", path, err, domain.ErrIndexCorrupt)
	}

	version, err := strconv.Atoi(meta["format_version"])
	if err != nil || version != formatVersion {
		return nil, fmt.Errorf("index %s: unsupported format version %q: %w",
			path, meta["format_version"], domain.ErrIndexCorrupt)
	}

	model := meta["embedding_model"]
	if model == "" {
		return nil, fmt.Errorf("index %s: missing embedding model: %w", path, domain.ErrIndexCorrupt)
	}

	dimensions, err := strconv.Atoi(meta["dimensions"])
	if err != nil || dimensions <= 0 {
		return nil, fmt.Errorf("index %s: invalid dimensions %q: %w",
			path, meta["dimensions"], domain.ErrIndexCorrupt)
	}

	entries, err := readChunks(db, dimensions)
	if err != nil {
		return nil, fmt.Errorf("index %s: %v: %w", path, err, domain.ErrIndexCorrupt)
	}

	return &Index{
		path:       path,
		model:      model,
		dimensions: dimensions,
		entries:    entries,
	}, nil
}

func readMeta(db *sql.DB) (map[string]string, error) {
	rows, err := db.Query("SELECT key, value FROM meta")
	if err != nil {
		return nil, fmt.Errorf("reading meta: %w", err)
	}
	defer rows.Close()

	meta := make(map[string]string)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("scanning meta row: %w", err)
		}
		meta[key] = value
	}
	return meta, rows.Err()
}

func readChunks(db *sql.DB, dimensions int) ([]entry, error) {
	rows, err := db.Query(`
		SELECT chunk_id, data_link, content, position, embedding
		FROM chunks ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("reading chunks: %w", err)
	}
	defer rows.Close()

	var entries []entry
	for rows.Next() {
		var chunk domain.Chunk
		var blob []byte
		if err := rows.Scan(&chunk.ChunkID, &chunk.DataLink, &chunk.Content,
			&chunk.Position, &blob); err != nil {
			return nil, fmt.Errorf("scanning chunk row: %w", err)
		}

		chunk.Embedding = bytesToFloat32Slice(blob)
		if len(chunk.Embedding) != dimensions {
			return nil, fmt.Errorf("chunk %s: embedding has %d dimensions, want %d",
				chunk.ChunkID, len(chunk.Embedding), dimensions)
		}

		entries = append(entries, entry{chunk: chunk, norm: vectorNorm(chunk.Embedding)})
	}
	return entries, rows.Err()
}

// Search returns the k most similar chunks by cosine similarity, in
// descending order. Ties break on chunk position, then chunk id.
func (idx *Index) Search(ctx context.Context, query []float32, k int) ([]domain.RetrievedChunk, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(query) != idx.dimensions {
		return nil, fmt.Errorf("%w: query has %d dimensions, index has %d",
			domain.ErrInvalidInput, len(query), idx.dimensions)
	}
	if k <= 0 {
		return nil, fmt.Errorf("%w: top-k must be positive, got %d", domain.ErrInvalidInput, k)
	}

	queryNorm := vectorNorm(query)

	results := make([]domain.RetrievedChunk, 0, len(idx.entries))
	for _, e := range idx.entries {
		results = append(results, domain.RetrievedChunk{
			Chunk:      e.chunk,
			Similarity: cosine(query, queryNorm, e.chunk.Embedding, e.norm),
		})
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].Similarity != results[j].Similarity {
			return results[i].Similarity > results[j].Similarity
		}
		if results[i].Chunk.Position != results[j].Chunk.Position {
			return results[i].Chunk.Position < results[j].Chunk.Position
		}
		return results[i].Chunk.ChunkID < results[j].Chunk.ChunkID
	})

	if k < len(results) {
		results = results[:k]
	}
	return results, nil
}

// Len returns the number of indexed chunks.
func (idx *Index) Len() int {
	return len(idx.entries)
}

// Model returns the embedding model the index was built with.
func (idx *Index) Model() string {
	return idx.model
}

// Path returns the artifact file path.
func (idx *Index) Path() string {
	return idx.path
}

// Close releases resources. Entries live in memory, nothing is held open.
func (idx *Index) Close() error { return nil }

func cosine(a []float32, aNorm float64, b []float32, bNorm float64) float64 {
	if aNorm == 0 || bNorm == 0 {
		return 0
	}
	var dot float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
	}
	return dot / (aNorm * bNorm)
}

func vectorNorm(v []float32) float64 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	return math.Sqrt(sum)
}

// float32SliceToBytes converts a []float32 to a byte slice for storage.
func float32SliceToBytes(floats []float32) []byte {
	if len(floats) == 0 {
		return nil
	}
	buf := make([]byte, len(floats)*4)
	for i, f := range floats {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

// bytesToFloat32Slice converts a byte slice back to []float32.
func bytesToFloat32Slice(data []byte) []float32 {
	if len(data) == 0 {
		return nil
	}
	floats := make([]float32, len(data)/4)
	for i := range floats {
		floats[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return floats
}
