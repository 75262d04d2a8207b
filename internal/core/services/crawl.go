package services

import (
	"context"
	"fmt"
	"net/url"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/custodia-labs/sitechat-cli/internal/core/domain"
	"github.com/custodia-labs/sitechat-cli/internal/core/ports/driven"
	"github.com/custodia-labs/sitechat-cli/internal/core/ports/driving"
	"github.com/custodia-labs/sitechat-cli/internal/extractor"
	"github.com/custodia-labs/sitechat-cli/internal/logger"
	"github.com/custodia-labs/sitechat-cli/internal/urlutil"
)

// Ensure Crawler implements the interface.
var _ driving.CrawlService = (*Crawler)(nil)

// DefaultCrawlRate is the default fetch rate in pages per second.
const DefaultCrawlRate = 2.0

// Crawler drives a single-threaded, depth-first traversal over a site's
// link graph. The visited set guarantees each URL is fetched at most once,
// which is what makes traversal of cyclic navigation terminate.
type Crawler struct {
	fetcher driven.PageFetcher
	limiter *rate.Limiter
}

// CrawlerOption configures the crawler.
type CrawlerOption func(*Crawler)

// WithRateLimit sets the politeness limit in pages per second.
func WithRateLimit(perSecond float64) CrawlerOption {
	return func(c *Crawler) {
		if perSecond > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(perSecond), 1)
		}
	}
}

// NewCrawler creates a crawler on top of a page fetcher.
func NewCrawler(fetcher driven.PageFetcher, opts ...CrawlerOption) *Crawler {
	c := &Crawler{
		fetcher: fetcher,
		limiter: rate.NewLimiter(rate.Limit(DefaultCrawlRate), 1),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// frame is one pending traversal step: a URL and its depth from the start.
type frame struct {
	url   string
	depth int
}

// Crawl traverses the link graph from startURL, bounded to the start URL's
// registrable domain, and returns the accumulated LinkIdentifier -> text
// mapping.
//
// A fetch or parse failure on one page prunes that branch and the crawl
// continues; the crawl as a whole only fails on invalid input or context
// cancellation.
func (c *Crawler) Crawl(ctx context.Context, startURL string, opts domain.CrawlOptions) (map[string]string, error) {
	start, err := url.Parse(startURL)
	if err != nil || !start.IsAbs() || (start.Scheme != "http" && start.Scheme != "https") {
		return nil, fmt.Errorf("start url %q must be absolute http(s): %w", startURL, domain.ErrInvalidInput)
	}

	normalized, err := urlutil.NormalizeVisit(start, startURL)
	if err != nil {
		return nil, fmt.Errorf("normalise start url: %w", domain.ErrInvalidInput)
	}

	scope := urlutil.RegistrableDomain(start.Hostname())
	runID := uuid.New().String()[:8]

	logger.Section("Crawl")
	logger.Info("run %s: start=%s scope=%s maxDepth=%d", runID, normalized, scope, opts.MaxDepth)

	state := domain.NewCrawlState()

	// Explicit work stack instead of recursion: depth travels with each
	// frame, and the call stack stays flat on large sites.
	stack := []frame{{url: normalized, depth: 0}}

	for len(stack) > 0 {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("crawl cancelled: %w", err)
		}

		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if !state.Claim(f.url) {
			continue
		}

		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("crawl cancelled: %w", err)
		}

		logger.Debug("run %s: fetching %s (depth %d)", runID, f.url, f.depth)
		html, err := c.fetcher.Render(ctx, f.url)
		if err != nil {
			logger.Warn("run %s: fetch %s failed, pruning branch: %v", runID, f.url, err)
			continue
		}

		page, err := extractor.Extract(f.url, html)
		if err != nil {
			logger.Warn("run %s: parse %s failed, pruning branch: %v", runID, f.url, err)
			continue
		}

		for _, link := range state.MergeBlocks(page.Blocks) {
			logger.Warn("run %s: identifier %s redefined by %s (last writer wins)", runID, link, f.url)
		}

		if opts.MaxDepth > 0 && f.depth+1 > opts.MaxDepth {
			continue
		}

		// Push in reverse so the first link on the page is visited next.
		for i := len(page.Links) - 1; i >= 0; i-- {
			link := page.Links[i]
			if state.Seen(link) || !urlutil.InScope(link, scope) {
				continue
			}
			stack = append(stack, frame{url: link, depth: f.depth + 1})
		}
	}

	logger.Info("run %s: visited %d pages, extracted %d blocks",
		runID, state.VisitedCount(), len(state.Blocks))

	return state.Blocks, nil
}
