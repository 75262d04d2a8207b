package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/sitechat-cli/internal/adapters/driven/dataset"
	"github.com/custodia-labs/sitechat-cli/internal/core/domain"
	"github.com/custodia-labs/sitechat-cli/internal/core/services"
)

var (
	crawlDepth   int
	crawlRate    float64
	crawlOutput  string
	crawlFetcher string
)

var crawlCmd = &cobra.Command{
	Use:   "crawl [url]",
	Short: "Crawl a website and collect its content",
	Long: `Crawls the website starting from the given URL, staying on the same
domain, and collects every content block annotated with a data-link
attribute. The result is saved as the active dataset.`,
	Args: cobra.ExactArgs(1),
	RunE: runCrawl,
}

func init() {
	crawlCmd.Flags().IntVarP(&crawlDepth, "depth", "d", 0, "maximum link depth (0 = unbounded)")
	crawlCmd.Flags().Float64Var(&crawlRate, "rate", 0, "max page fetches per second (0 = use default)")
	crawlCmd.Flags().StringVarP(&crawlOutput, "output", "o", "", "dataset file path (default: data directory)")
	crawlCmd.Flags().StringVar(&crawlFetcher, "fetcher", "", "page fetcher: rod or static (default: configured)")
	rootCmd.AddCommand(crawlCmd)
}

func runCrawl(cmd *cobra.Command, args []string) error {
	startURL := args[0]

	if crawlFetcher != "" {
		if err := config.Set("fetcher", crawlFetcher); err != nil {
			return fmt.Errorf("saving fetcher choice: %w", err)
		}
	}
	if crawlDepth == 0 {
		crawlDepth = config.GetInt("max_depth")
	}
	if crawlRate == 0 {
		crawlRate = config.GetFloat("rate_limit_rps")
	}

	fetcher, err := newFetcher()
	if err != nil {
		return err
	}
	defer fetcher.Close() //nolint:errcheck

	var opts []services.CrawlerOption
	if crawlRate > 0 {
		opts = append(opts, services.WithRateLimit(crawlRate))
	}
	crawler := services.NewCrawler(fetcher, opts...)

	cmd.Printf("Crawling %s...\n", startURL)
	blocks, err := crawler.Crawl(cmd.Context(), startURL, domain.CrawlOptions{MaxDepth: crawlDepth})
	if err != nil {
		return fmt.Errorf("crawl failed: %w", err)
	}

	output := crawlOutput
	if output == "" {
		output, err = datasetPath()
		if err != nil {
			return err
		}
	}
	if err := dataset.SaveDataset(output, blocks); err != nil {
		return fmt.Errorf("saving dataset: %w", err)
	}

	// Remember the site so later commands can resolve relative links
	// and name the index.
	if err := config.Set("base_url", startURL); err != nil {
		return fmt.Errorf("saving base URL: %w", err)
	}

	cmd.Printf("Collected %d content blocks into %s\n", len(blocks), output)
	return nil
}
