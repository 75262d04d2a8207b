// Package static provides a PageFetcher that performs a plain HTTP GET.
// It is suitable for server-rendered sites and tests; pages that build
// their content client-side need the rod fetcher instead.
package static

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/custodia-labs/sitechat-cli/internal/core/ports/driven"
	"github.com/custodia-labs/sitechat-cli/internal/logger"
)

// Ensure Fetcher implements the interface.
var _ driven.PageFetcher = (*Fetcher)(nil)

// Default configuration values.
const (
	DefaultTimeout   = 30 * time.Second
	DefaultRetries   = 2
	DefaultUserAgent = "sitechat/1.0"

	// maxBodySize caps how much of a response is read (16 MiB).
	maxBodySize = 16 << 20
)

// Config holds configuration for the static fetcher.
type Config struct {
	// Timeout is the per-request timeout (default 30s).
	Timeout time.Duration

	// Retries is how many times a transient failure is retried (default 2).
	Retries int

	// UserAgent overrides the request User-Agent header.
	UserAgent string
}

// Fetcher fetches page HTML over plain HTTP.
type Fetcher struct {
	client    *http.Client
	retries   int
	userAgent string
}

// New creates a static fetcher.
func New(cfg Config) *Fetcher {
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.Retries == 0 {
		cfg.Retries = DefaultRetries
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}

	return &Fetcher{
		client:    &http.Client{Timeout: cfg.Timeout},
		retries:   cfg.Retries,
		userAgent: cfg.UserAgent,
	}
}

// Render fetches the URL and returns the response body.
// Transient failures (network errors, 5xx) are retried a bounded number of
// times; exhausted retries surface the underlying failure.
func (f *Fetcher) Render(ctx context.Context, url string) (string, error) {
	var lastErr error

	for attempt := 0; attempt <= f.retries; attempt++ {
		if attempt > 0 {
			logger.Debug("retrying %s (attempt %d): %v", url, attempt+1, lastErr)
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(time.Duration(attempt) * 500 * time.Millisecond):
			}
		}

		html, retryable, err := f.fetch(ctx, url)
		if err == nil {
			return html, nil
		}
		lastErr = err
		if !retryable {
			break
		}
	}

	return "", lastErr
}

func (f *Fetcher) fetch(ctx context.Context, url string) (html string, retryable bool, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", false, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := f.client.Do(req)
	if err != nil {
		return "", ctx.Err() == nil, fmt.Errorf("get %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 500 {
		return "", true, fmt.Errorf("get %s: status %d", url, resp.StatusCode)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", false, fmt.Errorf("get %s: status %d", url, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return "", true, fmt.Errorf("read body of %s: %w", url, err)
	}
	return string(body), false, nil
}

// Close releases resources. The shared HTTP client holds none.
func (f *Fetcher) Close() error { return nil }
