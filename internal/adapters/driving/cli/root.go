// Package cli implements the sitechat command-line interface.
package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	configfile "github.com/custodia-labs/sitechat-cli/internal/adapters/driven/config/file"
	"github.com/custodia-labs/sitechat-cli/internal/adapters/driven/embedding/ollama"
	"github.com/custodia-labs/sitechat-cli/internal/adapters/driven/embedding/openai"
	"github.com/custodia-labs/sitechat-cli/internal/adapters/driven/fetcher/rod"
	"github.com/custodia-labs/sitechat-cli/internal/adapters/driven/fetcher/static"
	indexsqlite "github.com/custodia-labs/sitechat-cli/internal/adapters/driven/index/sqlite"
	llmollama "github.com/custodia-labs/sitechat-cli/internal/adapters/driven/llm/ollama"
	llmopenai "github.com/custodia-labs/sitechat-cli/internal/adapters/driven/llm/openai"
	"github.com/custodia-labs/sitechat-cli/internal/core/ports/driven"
	"github.com/custodia-labs/sitechat-cli/internal/logger"
)

// version is the CLI version, overridable at build time.
var version = "0.1.0"

var (
	verbose   bool
	configDir string

	// config is the shared config store, initialised before any command runs.
	config driven.ConfigStore
)

var rootCmd = &cobra.Command{
	Use:   "sitechat",
	Short: "Chat with a website's content",
	Long: `sitechat crawls a website, chunks its content, builds a local vector
index and answers questions grounded in what the site actually says.

Typical flow:
  sitechat crawl https://example.com
  sitechat chunk
  sitechat index build
  sitechat ask "what does this site offer?"`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		logger.SetVerbose(verbose)

		store, err := configfile.NewConfigStore(configDir)
		if err != nil {
			return fmt.Errorf("loading configuration: %w", err)
		}
		config = store
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "configuration directory (default ~/.sitechat)")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// dataDir resolves the directory holding datasets, chunk files and indexes.
func dataDir() (string, error) {
	if dir := config.GetString("data_dir"); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".sitechat", "data"), nil
}

// datasetPath is where crawl output lands.
func datasetPath() (string, error) {
	dir, err := dataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "dataset.json"), nil
}

// chunksPath is where chunk records land.
func chunksPath() (string, error) {
	dir, err := dataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "chunks.json"), nil
}

// baseURL returns the configured site URL, required by most commands.
func baseURL() (string, error) {
	u := config.GetString("base_url")
	if u == "" {
		return "", errors.New("no site configured; run a crawl or set base_url with 'sitechat settings set'")
	}
	return u, nil
}

// newFetcher builds the configured page fetcher. The rod fetcher renders
// JavaScript; static is a plain HTTP GET.
func newFetcher() (driven.PageFetcher, error) {
	switch config.GetString("fetcher") {
	case "", "rod":
		headless := true
		if _, ok := config.Get("headless"); ok {
			headless = config.GetBool("headless")
		}
		return rod.New(rod.Config{Headless: headless})
	case "static":
		return static.New(static.Config{}), nil
	default:
		return nil, fmt.Errorf("unknown fetcher %q (want rod or static)", config.GetString("fetcher"))
	}
}

// newEmbedder builds the configured embedding service.
func newEmbedder() (driven.EmbeddingService, error) {
	model := config.GetString("embedding_model")

	switch config.GetString("embedding_provider") {
	case "", "openai":
		apiKey := config.GetString("openai_api_key")
		if apiKey == "" {
			apiKey = os.Getenv("OPENAI_API_KEY")
		}
		return openai.NewEmbeddingService(openai.Config{
			APIKey: apiKey,
			Model:  model,
		})
	case "ollama":
		return ollama.NewEmbeddingService(ollama.Config{
			BaseURL: config.GetString("ollama_base_url"),
			Model:   model,
		}), nil
	default:
		return nil, fmt.Errorf("unknown embedding provider %q (want openai or ollama)",
			config.GetString("embedding_provider"))
	}
}

// newLLM builds the configured chat model service.
func newLLM() (driven.LLMService, error) {
	model := config.GetString("chat_model")

	switch config.GetString("llm_provider") {
	case "", "openai":
		apiKey := config.GetString("openai_api_key")
		if apiKey == "" {
			apiKey = os.Getenv("OPENAI_API_KEY")
		}
		return llmopenai.NewLLMService(llmopenai.Config{
			APIKey: apiKey,
			Model:  model,
		})
	case "ollama":
		return llmollama.NewLLMService(llmollama.Config{
			BaseURL: config.GetString("ollama_base_url"),
			Model:   model,
		}), nil
	default:
		return nil, fmt.Errorf("unknown LLM provider %q (want openai or ollama)",
			config.GetString("llm_provider"))
	}
}

// newIndexCache builds the index cache in the data directory.
func newIndexCache() (*indexsqlite.Cache, error) {
	dir, err := dataDir()
	if err != nil {
		return nil, err
	}
	return indexsqlite.NewCache(filepath.Join(dir, "indexes"))
}
