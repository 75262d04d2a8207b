package driven

import "context"

// PageFetcher renders a URL and returns the final HTML.
//
// Implementations that execute JavaScript must wait for dynamic content to
// settle before returning; the crawler treats the returned HTML as the
// complete page.
//
// Implementations may include:
//   - Headless Chromium via go-rod (dynamic sites)
//   - Plain HTTP GET (static sites, tests)
type PageFetcher interface {
	// Render fetches the URL and returns the page HTML.
	Render(ctx context.Context, url string) (string, error)

	// Close releases resources (browser processes, connections).
	Close() error
}
