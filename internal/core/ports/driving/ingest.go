package driving

import (
	"context"

	"github.com/custodia-labs/sitechat-cli/internal/core/domain"
)

// CrawlService drives a deduplicating crawl over one site.
type CrawlService interface {
	// Crawl traverses the link graph reachable from startURL within the
	// start URL's registrable domain and returns the accumulated
	// LinkIdentifier -> text mapping. Per-page failures are logged and
	// pruned; the crawl itself only fails on invalid input or cancellation.
	Crawl(ctx context.Context, startURL string, opts domain.CrawlOptions) (map[string]string, error)
}

// ChunkService turns a crawled dataset into chunk records.
type ChunkService interface {
	// ChunkDataset splits every block of the dataset into bounded,
	// overlapping chunks with stable ids. Fails fast on an empty dataset.
	ChunkDataset(ctx context.Context, dataset map[string]string) ([]domain.Chunk, error)
}
