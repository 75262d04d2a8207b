package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/sitechat-cli/internal/adapters/driven/dataset"
	"github.com/custodia-labs/sitechat-cli/internal/core/domain"
	"github.com/custodia-labs/sitechat-cli/internal/core/ports/driving"
	"github.com/custodia-labs/sitechat-cli/internal/core/services"
)

var (
	askTopK int
	askJSON bool
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a question about the indexed website",
	Long: `Retrieves the most relevant chunks for the question, generates an
answer grounded in them, and prints the answer with its sources. Uses
the cached index when one exists, building it otherwise.`,
	Args: cobra.ExactArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().IntVarP(&askTopK, "top-k", "k", 0, "number of chunks to retrieve (default 3)")
	askCmd.Flags().BoolVar(&askJSON, "json", false, "output result as JSON")
	rootCmd.AddCommand(askCmd)
}

// buildAskService wires the retrieval stack for the active site.
// The returned cleanup closes every opened service.
func buildAskService(cmd *cobra.Command) (driving.AskService, func(), error) {
	site, err := baseURL()
	if err != nil {
		return nil, nil, err
	}

	embedder, err := newEmbedder()
	if err != nil {
		return nil, nil, err
	}

	cache, err := newIndexCache()
	if err != nil {
		embedder.Close() //nolint:errcheck
		return nil, nil, err
	}

	// Chunks are only needed on a cache miss; a missing chunk file is
	// fine when the index already exists.
	var chunks []domain.Chunk
	if path, pathErr := chunksPath(); pathErr == nil {
		if loaded, loadErr := dataset.LoadChunks(path, site); loadErr == nil {
			chunks = loaded
		}
	}

	idx, err := cache.LoadOrBuild(cmd.Context(), embedder, chunks, site)
	if err != nil {
		embedder.Close() //nolint:errcheck
		return nil, nil, fmt.Errorf("loading index: %w", err)
	}

	llm, err := newLLM()
	if err != nil {
		idx.Close()      //nolint:errcheck
		embedder.Close() //nolint:errcheck
		return nil, nil, err
	}

	cleanup := func() {
		llm.Close()      //nolint:errcheck
		idx.Close()      //nolint:errcheck
		embedder.Close() //nolint:errcheck
	}
	return services.NewOrchestrator(idx, embedder, llm), cleanup, nil
}

func runAsk(cmd *cobra.Command, args []string) error {
	ask, cleanup, err := buildAskService(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	opts := domain.AskOptions{
		TopK:        askTopK,
		Temperature: config.GetFloat("temperature"),
	}
	if opts.TopK == 0 {
		opts.TopK = config.GetInt("top_k")
	}

	result, err := ask.Ask(cmd.Context(), args[0], opts)
	if err != nil {
		// Retrieval succeeded but generation failed: the sources are
		// still worth showing.
		if errors.Is(err, domain.ErrGenerationFailed) && result != nil {
			cmd.Printf("Answer unavailable: %v\n\n", err)
			printSources(cmd, result.Sources)
			return err
		}
		return err
	}

	if askJSON {
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return fmt.Errorf("encoding result: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	cmd.Println(result.Answer)
	cmd.Println()
	printSources(cmd, result.Sources)
	return nil
}

func printSources(cmd *cobra.Command, sources []domain.RetrievedChunk) {
	if len(sources) == 0 {
		return
	}
	cmd.Println("Sources:")
	for i := range sources {
		cmd.Printf("  [%d] %s (%.2f)\n", i+1, sources[i].Chunk.DataLink, sources[i].Similarity)
	}
}
