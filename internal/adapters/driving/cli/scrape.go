package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/sitechat-cli/internal/extractor"
)

var scrapeOutput string

var scrapeCmd = &cobra.Command{
	Use:   "scrape [url]",
	Short: "Dump the readable text of a single page",
	Long: `Fetches one page with the configured fetcher and prints its readable
text, scripts and styles stripped. Useful for checking what the crawler
would see before running a full crawl.`,
	Args: cobra.ExactArgs(1),
	RunE: runScrape,
}

func init() {
	scrapeCmd.Flags().StringVarP(&scrapeOutput, "output", "o", "", "write text to a file instead of stdout")
	rootCmd.AddCommand(scrapeCmd)
}

func runScrape(cmd *cobra.Command, args []string) error {
	pageURL := args[0]

	fetcher, err := newFetcher()
	if err != nil {
		return err
	}
	defer fetcher.Close() //nolint:errcheck

	html, err := fetcher.Render(cmd.Context(), pageURL)
	if err != nil {
		return fmt.Errorf("fetching %s: %w", pageURL, err)
	}

	text, err := extractor.PageText(html)
	if err != nil {
		return fmt.Errorf("extracting text: %w", err)
	}

	if scrapeOutput == "" {
		cmd.Println(text)
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(scrapeOutput), 0700); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	content := fmt.Sprintf("URL: %s\n\n%s", pageURL, text)
	if err := os.WriteFile(scrapeOutput, []byte(content), 0600); err != nil {
		return fmt.Errorf("writing %s: %w", scrapeOutput, err)
	}
	cmd.Printf("Saved page text to %s\n", scrapeOutput)
	return nil
}
