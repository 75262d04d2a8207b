package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/sitechat-cli/internal/adapters/driven/dataset"
	indexsqlite "github.com/custodia-labs/sitechat-cli/internal/adapters/driven/index/sqlite"
)

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Manage the vector index",
	Long: `Builds, inspects and deletes the persistent vector index derived from
the active chunk file. Indexes are keyed by embedding model and site, so
switching models or sites builds a separate artifact.`,
}

var indexBuildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build (or rebuild) the index for the active site",
	RunE:  runIndexBuild,
}

var indexDeleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Delete the index for the active site",
	RunE:  runIndexDelete,
}

var indexStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show whether an index exists for the active site",
	RunE:  runIndexStatus,
}

func init() {
	indexCmd.AddCommand(indexBuildCmd)
	indexCmd.AddCommand(indexDeleteCmd)
	indexCmd.AddCommand(indexStatusCmd)
	rootCmd.AddCommand(indexCmd)
}

func runIndexBuild(cmd *cobra.Command, _ []string) error {
	site, err := baseURL()
	if err != nil {
		return err
	}

	path, err := chunksPath()
	if err != nil {
		return err
	}
	chunks, err := dataset.LoadChunks(path, site)
	if err != nil {
		return err
	}

	embedder, err := newEmbedder()
	if err != nil {
		return err
	}
	defer embedder.Close() //nolint:errcheck

	cache, err := newIndexCache()
	if err != nil {
		return err
	}

	cmd.Printf("Embedding %d chunks with %s...\n", len(chunks), embedder.ModelName())
	idx, err := cache.Build(cmd.Context(), embedder, chunks, site)
	if err != nil {
		return fmt.Errorf("building index: %w", err)
	}
	defer idx.Close() //nolint:errcheck

	cmd.Printf("Index built: %d chunks, model %s\n", idx.Len(), idx.Model())
	return nil
}

func runIndexDelete(cmd *cobra.Command, _ []string) error {
	site, err := baseURL()
	if err != nil {
		return err
	}

	embedder, err := newEmbedder()
	if err != nil {
		return err
	}
	defer embedder.Close() //nolint:errcheck

	cache, err := newIndexCache()
	if err != nil {
		return err
	}

	if err := cache.Delete(embedder.ModelName(), site); err != nil {
		return err
	}
	cmd.Printf("Index deleted for %s (model %s)\n", site, embedder.ModelName())
	return nil
}

func runIndexStatus(cmd *cobra.Command, _ []string) error {
	site, err := baseURL()
	if err != nil {
		return err
	}

	embedder, err := newEmbedder()
	if err != nil {
		return err
	}
	defer embedder.Close() //nolint:errcheck

	cache, err := newIndexCache()
	if err != nil {
		return err
	}

	fingerprint := indexsqlite.Fingerprint(embedder.ModelName(), site)
	path := filepath.Join(cache.Dir(), fmt.Sprintf("index_%s.db", fingerprint))

	cmd.Printf("Site:  %s\n", site)
	cmd.Printf("Model: %s\n", embedder.ModelName())

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			cmd.Println("Index: not built")
			return nil
		}
		return err
	}

	idx, err := indexsqlite.Open(path)
	if err != nil {
		cmd.Printf("Index: present but unreadable (%v)\n", err)
		return nil
	}
	defer idx.Close() //nolint:errcheck

	cmd.Printf("Index: %d chunks, %d bytes, built with %s\n", idx.Len(), info.Size(), idx.Model())
	return nil
}
