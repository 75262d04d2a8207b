// Package extractor parses fetched HTML into the structures the crawler
// accumulates: link-addressable content blocks, outbound links and
// whole-page text.
package extractor

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/custodia-labs/sitechat-cli/internal/core/domain"
	"github.com/custodia-labs/sitechat-cli/internal/logger"
	"github.com/custodia-labs/sitechat-cli/internal/urlutil"
)

// ContentAttr marks elements whose text is extracted as a content block.
// The attribute value is the block's LinkIdentifier.
const ContentAttr = "data-link"

// Extract parses the HTML of one page and produces its PageRecord.
//
// Fragment-only and relative data-link identifiers are resolved against the
// page URL. Outbound links are normalised for the visited set (absolute,
// fragment stripped); only http(s) links are kept.
func Extract(pageURL, html string) (*domain.PageRecord, error) {
	base, err := url.Parse(pageURL)
	if err != nil {
		return nil, fmt.Errorf("parse page url %q: %w", pageURL, err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parse html for %s: %w", pageURL, err)
	}

	rec := &domain.PageRecord{
		URL:    pageURL,
		Blocks: make(map[string]string),
	}

	doc.Find("[" + ContentAttr + "]").Each(func(_ int, sel *goquery.Selection) {
		raw, _ := sel.Attr(ContentAttr)
		raw = strings.TrimSpace(raw)
		if raw == "" {
			return
		}

		link, err := urlutil.ResolveLink(base, raw)
		if err != nil {
			logger.Warn("skipping malformed %s %q on %s: %v", ContentAttr, raw, pageURL, err)
			return
		}

		text := blockText(sel)
		if text == "" {
			return
		}
		rec.Blocks[link] = text
	})

	seen := make(map[string]bool)
	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		link, err := urlutil.NormalizeVisit(base, href)
		if err != nil {
			logger.Debug("skipping malformed href %q on %s: %v", href, pageURL, err)
			return
		}

		u, err := url.Parse(link)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
			return
		}
		if seen[link] {
			return
		}
		seen[link] = true
		rec.Links = append(rec.Links, link)
	})

	return rec, nil
}

// PageText returns the readable text of the whole page, one line per block,
// with script and style content removed.
func PageText(html string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("parse html: %w", err)
	}
	doc.Find("script, style, noscript").Remove()
	return blockText(doc.Selection), nil
}

// blockText extracts the element's text with lines trimmed and blank lines
// dropped, joined by newlines.
func blockText(sel *goquery.Selection) string {
	var lines []string
	for _, line := range strings.Split(sel.Text(), "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n")
}
