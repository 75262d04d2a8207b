// Package dataset persists crawl output and chunk records as JSON files.
// Datasets map each content identifier to its text; chunk files hold the
// flat list of chunk records derived from a dataset.
package dataset

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/custodia-labs/sitechat-cli/internal/core/domain"
)

// SaveDataset writes the identifier-to-text map to path, atomically via
// a temp file rename.
func SaveDataset(path string, blocks map[string]string) error {
	if len(blocks) == 0 {
		return fmt.Errorf("%w: dataset has no content", domain.ErrEmptyDataset)
	}
	return writeJSON(path, blocks)
}

// LoadDataset reads an identifier-to-text map from path. A missing file
// wraps domain.ErrNotFound; an empty map wraps domain.ErrEmptyDataset.
func LoadDataset(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("dataset %s: %w", path, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("reading dataset %s: %w", path, err)
	}

	var blocks map[string]string
	if err := json.Unmarshal(data, &blocks); err != nil {
		return nil, fmt.Errorf("parsing dataset %s: %w", path, err)
	}
	if len(blocks) == 0 {
		return nil, fmt.Errorf("dataset %s: %w", path, domain.ErrEmptyDataset)
	}
	return blocks, nil
}

// SaveChunks writes chunk records to path, atomically via a temp file
// rename.
func SaveChunks(path string, chunks []domain.Chunk) error {
	if len(chunks) == 0 {
		return fmt.Errorf("%w: no chunks to save", domain.ErrEmptyDataset)
	}
	return writeJSON(path, chunks)
}

// LoadChunks reads chunk records from path. Records missing any field
// are rejected. Data links written as fragments or relative paths are
// resolved against baseURL, so chunk files produced against one host
// stay usable when the site moves.
func LoadChunks(path, baseURL string) ([]domain.Chunk, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("chunks %s: %w", path, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("reading chunks %s: %w", path, err)
	}

	var chunks []domain.Chunk
	if err := json.Unmarshal(data, &chunks); err != nil {
		return nil, fmt.Errorf("parsing chunks %s: %w", path, err)
	}
	if len(chunks) == 0 {
		return nil, fmt.Errorf("chunks %s: %w", path, domain.ErrEmptyDataset)
	}

	for i := range chunks {
		c := &chunks[i]
		if c.DataLink == "" || c.ChunkID == "" || c.Content == "" {
			return nil, fmt.Errorf("%w: chunk %d is missing a field", domain.ErrInvalidInput, i)
		}

		c.DataLink = fixupDataLink(c.DataLink, baseURL)

		// Ordinal from the id; fall back to file order when unparsable.
		if pos := domain.ParseOrdinal(c.ChunkID); pos >= 0 {
			c.Position = pos
		} else {
			c.Position = i
		}
	}
	return chunks, nil
}

// fixupDataLink resolves fragment-only and relative data links against
// the base URL. Absolute links pass through untouched.
func fixupDataLink(link, baseURL string) string {
	if baseURL == "" {
		return link
	}
	if strings.HasPrefix(link, "http://") || strings.HasPrefix(link, "https://") {
		return link
	}

	base, err := url.Parse(baseURL)
	if err != nil {
		return link
	}
	ref, err := url.Parse(link)
	if err != nil {
		return link
	}
	return base.ResolveReference(ref).String()
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding %s: %w", path, err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("creating directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing temp file: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("publishing %s: %w", path, err)
	}
	return nil
}
