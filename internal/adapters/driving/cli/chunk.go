package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/sitechat-cli/internal/adapters/driven/dataset"
	"github.com/custodia-labs/sitechat-cli/internal/core/services"
	"github.com/custodia-labs/sitechat-cli/internal/postprocessors/chunker"
)

var (
	chunkInput   string
	chunkOutput  string
	chunkSize    int
	chunkOverlap int
)

var chunkCmd = &cobra.Command{
	Use:   "chunk",
	Short: "Split the crawled dataset into indexable chunks",
	Long: `Splits each content block of the active dataset into size-bounded,
overlapping chunks with stable identifiers, ready for indexing.`,
	RunE: runChunk,
}

func init() {
	chunkCmd.Flags().StringVarP(&chunkInput, "input", "i", "", "dataset file (default: data directory)")
	chunkCmd.Flags().StringVarP(&chunkOutput, "output", "o", "", "chunks file (default: data directory)")
	chunkCmd.Flags().IntVar(&chunkSize, "size", 0, "maximum chunk size in characters (default 5000)")
	chunkCmd.Flags().IntVar(&chunkOverlap, "overlap", -1, "overlap between adjacent chunks (default 50)")
	rootCmd.AddCommand(chunkCmd)
}

func runChunk(cmd *cobra.Command, _ []string) error {
	input := chunkInput
	if input == "" {
		var err error
		input, err = datasetPath()
		if err != nil {
			return err
		}
	}

	blocks, err := dataset.LoadDataset(input)
	if err != nil {
		return err
	}

	size := chunkSize
	if size == 0 {
		size = config.GetInt("chunk_size")
	}
	overlap := chunkOverlap
	if overlap < 0 {
		if v, ok := config.Get("chunk_overlap"); ok {
			if n, isInt := v.(int64); isInt {
				overlap = int(n)
			}
		}
	}

	var opts []chunker.Option
	if size > 0 {
		opts = append(opts, chunker.WithChunkSize(size))
	}
	if overlap >= 0 {
		opts = append(opts, chunker.WithOverlap(overlap))
	}
	processor, err := chunker.New(opts...)
	if err != nil {
		return err
	}

	pipeline := services.NewChunkPipeline(processor)
	chunks, err := pipeline.ChunkDataset(cmd.Context(), blocks)
	if err != nil {
		return fmt.Errorf("chunking dataset: %w", err)
	}

	output := chunkOutput
	if output == "" {
		output, err = chunksPath()
		if err != nil {
			return err
		}
	}
	if err := dataset.SaveChunks(output, chunks); err != nil {
		return fmt.Errorf("saving chunks: %w", err)
	}

	cmd.Printf("Split %d content blocks into %d chunks (%s)\n", len(blocks), len(chunks), output)
	return nil
}
