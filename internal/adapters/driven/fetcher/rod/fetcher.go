// Package rod provides a PageFetcher backed by headless Chromium via go-rod.
// It waits for dynamic content to settle before returning HTML, so pages
// rendered client-side are captured completely.
package rod

import (
	"context"
	"fmt"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"github.com/custodia-labs/sitechat-cli/internal/core/ports/driven"
	"github.com/custodia-labs/sitechat-cli/internal/logger"
)

// Ensure Fetcher implements the interface.
var _ driven.PageFetcher = (*Fetcher)(nil)

// Default configuration values.
const (
	DefaultNavigationTimeout = 30 * time.Second
	DefaultSettleWindow      = 2 * time.Second
)

// Config holds configuration for the rod fetcher.
type Config struct {
	// Headless runs the browser without a window (default true via New).
	Headless bool

	// NavigationTimeout bounds one page load (default 30s).
	NavigationTimeout time.Duration

	// SettleWindow is how long the DOM must stay unchanged before the
	// page counts as settled (default 2s).
	SettleWindow time.Duration
}

// Fetcher renders pages in a shared browser instance.
// Render is safe to call sequentially; each call opens its own page.
type Fetcher struct {
	browser  *rod.Browser
	launcher *launcher.Launcher
	timeout  time.Duration
	settle   time.Duration
}

// New launches a browser and returns a fetcher on top of it.
func New(cfg Config) (*Fetcher, error) {
	if cfg.NavigationTimeout == 0 {
		cfg.NavigationTimeout = DefaultNavigationTimeout
	}
	if cfg.SettleWindow == 0 {
		cfg.SettleWindow = DefaultSettleWindow
	}

	l := launcher.New().Headless(cfg.Headless)
	controlURL, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("launch browser: %w", err)
	}

	browser := rod.New().ControlURL(controlURL)
	if err := browser.Connect(); err != nil {
		l.Cleanup()
		return nil, fmt.Errorf("connect browser: %w", err)
	}

	logger.Debug("browser launched at %s", controlURL)

	return &Fetcher{
		browser:  browser,
		launcher: l,
		timeout:  cfg.NavigationTimeout,
		settle:   cfg.SettleWindow,
	}, nil
}

// Render loads the URL, waits for the page to settle and returns its HTML.
func (f *Fetcher) Render(ctx context.Context, url string) (string, error) {
	page, err := f.browser.Page(proto.TargetCreateTarget{URL: url})
	if err != nil {
		return "", fmt.Errorf("open page %s: %w", url, err)
	}
	defer page.Close()

	page = page.Context(ctx).Timeout(f.timeout)

	if err := page.WaitLoad(); err != nil {
		return "", fmt.Errorf("load %s: %w", url, err)
	}

	// Best effort: a page that keeps animating never stabilises, and its
	// current DOM is still worth extracting.
	if err := page.WaitStable(f.settle); err != nil {
		logger.Debug("page %s did not stabilise: %v", url, err)
	}

	html, err := page.HTML()
	if err != nil {
		return "", fmt.Errorf("read html of %s: %w", url, err)
	}
	return html, nil
}

// Close shuts the browser down and cleans up the launched process.
func (f *Fetcher) Close() error {
	err := f.browser.Close()
	f.launcher.Cleanup()
	return err
}
