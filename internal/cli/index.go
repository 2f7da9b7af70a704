package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/nickcecere/ragdex/internal/config"
	"github.com/nickcecere/ragdex/internal/indexer"
	"github.com/nickcecere/ragdex/internal/loader"
	"github.com/nickcecere/ragdex/internal/ui"
)

var (
	indexForce     bool
	indexBatchSize int
	indexIgnore    []string
)

// indexCmd represents the index command
var indexCmd = &cobra.Command{
	Use:   "index [path]",
	Short: "Index documents for similarity search",
	Long: `Index documents in the specified directory (or current directory).

This command will:
1. Discover text files in the directory
2. Split files into chunks
3. Generate embeddings for each chunk in batches
4. Persist the vectors to the local index

If the index already holds documents, indexing is skipped unless
--force is given, which clears the index and rebuilds it from scratch.

Examples:
  # Index current directory
  ragdex index

  # Index a specific directory
  ragdex index ./docs

  # Force re-index (clear existing)
  ragdex index --force

  # Use a larger embedding batch
  ragdex index --batch-size 20`,
	Args: cobra.MaximumNArgs(1),
	RunE: runIndex,
}

func init() {
	indexCmd.Flags().BoolVarP(&indexForce, "force", "f", false, "clear the index and re-index all files")
	indexCmd.Flags().IntVarP(&indexBatchSize, "batch-size", "b", 0, "documents per embedding batch (default from config)")
	indexCmd.Flags().StringSliceVarP(&indexIgnore, "ignore", "i", nil, "additional patterns to ignore")
}

func runIndex(cmd *cobra.Command, args []string) error {
	path := "."
	if len(args) > 0 {
		path = args[0]
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("failed to resolve path: %w", err)
	}

	info, err := os.Stat(absPath)
	if err != nil {
		return fmt.Errorf("path does not exist: %s", absPath)
	}
	if !info.IsDir() {
		return fmt.Errorf("path is not a directory: %s", absPath)
	}

	cfg := config.Get()

	batchSize := indexBatchSize
	if batchSize <= 0 {
		batchSize = cfg.Indexing.BatchSize
	}

	log.Debug("Starting index",
		"path", absPath,
		"force", indexForce,
		"batch_size", batchSize,
	)

	// Setup context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle interrupt signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Println("\nInterrupted, stopping after current batch...")
		cancel()
	}()

	st, emb, err := openServices(cfg)
	if err != nil {
		return err
	}

	ld := loader.NewDirectoryLoader(loader.Options{
		MaxFileSize:    int64(cfg.Indexing.MaxFileSize),
		MaxFileCount:   cfg.Indexing.MaxFileCount,
		IgnorePatterns: append(cfg.Ignore, indexIgnore...),
		UseGitignore:   true,
		ChunkSize:      cfg.Indexing.ChunkSize,
		ChunkOverlap:   cfg.Indexing.ChunkOverlap,
	})

	mgr := indexer.New(st, emb, ld, batchSize)

	before := st.Count()

	fmt.Println(ui.Header.Render("Indexing " + filepath.Base(absPath)))
	fmt.Printf("Path:     %s\n", absPath)
	fmt.Printf("Store:    %s\n", st.Path())
	fmt.Printf("Provider: %s (%s)\n", cfg.Embeddings.Provider, emb.ModelName())
	fmt.Println()

	startTime := time.Now()

	total, err := mgr.IndexDirectory(ctx, absPath, indexForce)
	if err != nil {
		if ctx.Err() != nil {
			fmt.Println(ui.Warning.Render("Indexing cancelled"))
			fmt.Printf("  %d chunks persisted before cancellation\n", st.Count())
			return nil
		}
		return fmt.Errorf("indexing failed: %w", err)
	}

	duration := time.Since(startTime).Round(time.Millisecond)

	if !indexForce && before > 0 && total == before {
		fmt.Println(ui.Warning.Render("Index already populated, skipping"))
		fmt.Println()
		fmt.Printf("  Chunks: %d (use --force to re-index)\n", total)
		return nil
	}

	fmt.Println(ui.Success.Render("Indexing complete!"))
	fmt.Println()
	fmt.Printf("  Chunks:   %d\n", total)
	fmt.Printf("  Duration: %s\n", duration)

	return nil
}
