package cli

import (
	"github.com/spf13/cobra"

	"github.com/custodia-labs/sitechat-cli/internal/adapters/driven/dataset"
	"github.com/custodia-labs/sitechat-cli/internal/adapters/driving/tui"
	"github.com/custodia-labs/sitechat-cli/internal/core/domain"
	"github.com/custodia-labs/sitechat-cli/internal/logger"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Open an interactive chat session with the indexed website",
	Long: `Starts a terminal chat session. Each question is answered from the
site's indexed content, with sources shown under every answer. The
session notices when the dataset file changes on disk.`,
	RunE: runChat,
}

func init() {
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, _ []string) error {
	ask, cleanup, err := buildAskService(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	site, err := baseURL()
	if err != nil {
		return err
	}

	// Best effort: without a watcher the session still works, it just
	// cannot flag staleness.
	var changes <-chan struct{}
	if path, pathErr := datasetPath(); pathErr == nil {
		if watcher, watchErr := dataset.NewWatcher(path); watchErr == nil {
			defer watcher.Close() //nolint:errcheck
			changes = watcher.Events()
		} else {
			logger.Debug("dataset watcher unavailable: %v", watchErr)
		}
	}

	opts := domain.AskOptions{
		TopK:        config.GetInt("top_k"),
		Temperature: config.GetFloat("temperature"),
	}

	model, err := tui.NewModel(ask, site, opts, changes)
	if err != nil {
		return err
	}
	return model.WithContext(cmd.Context()).Run()
}
