package domain

// PageRecord is the result of visiting one URL.
// It is produced once per visit and never mutated afterwards.
type PageRecord struct {
	// URL is the normalised address of the visited page.
	URL string

	// Blocks maps a LinkIdentifier to the text extracted from the element
	// carrying it. Identifiers are absolute URLs; fragment-only identifiers
	// are resolved against the page URL before they reach this map.
	Blocks map[string]string

	// Links are the normalised outbound links found on the page.
	// Fragments are stripped so two anchors into the same page compare equal.
	Links []string
}

// CrawlState is the mutable state owned by exactly one crawl run.
// It is discarded (or persisted as a dataset) when the run ends.
type CrawlState struct {
	visited map[string]bool

	// Blocks is the accumulating LinkIdentifier -> text mapping.
	Blocks map[string]string
}

// NewCrawlState creates an empty crawl state.
func NewCrawlState() *CrawlState {
	return &CrawlState{
		visited: make(map[string]bool),
		Blocks:  make(map[string]string),
	}
}

// Claim marks a URL as visited and reports whether this call claimed it.
// A URL is claimed at most once per run; this is the cycle-breaking check.
func (s *CrawlState) Claim(url string) bool {
	if s.visited[url] {
		return false
	}
	s.visited[url] = true
	return true
}

// Seen reports whether a URL has already been claimed.
func (s *CrawlState) Seen(url string) bool {
	return s.visited[url]
}

// VisitedCount returns the number of claimed URLs.
func (s *CrawlState) VisitedCount() int {
	return len(s.visited)
}

// MergeBlocks folds a page's blocks into the accumulating map.
// Last writer wins when two pages claim the same identifier; the overwritten
// identifiers are returned so the caller can log them.
func (s *CrawlState) MergeBlocks(blocks map[string]string) []string {
	var overwritten []string
	for link, text := range blocks {
		if prev, ok := s.Blocks[link]; ok && prev != text {
			overwritten = append(overwritten, link)
		}
		s.Blocks[link] = text
	}
	return overwritten
}

// CrawlOptions configures a crawl run.
type CrawlOptions struct {
	// MaxDepth bounds traversal depth from the start URL.
	// Zero or negative means unbounded. Exceeding the bound prunes the
	// branch without error.
	MaxDepth int
}
