package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/nickcecere/ragdex/internal/config"
	"github.com/nickcecere/ragdex/internal/search"
	"github.com/nickcecere/ragdex/internal/ui"
)

var (
	queryLimit    int
	queryContent  bool
	queryJSON     bool
	queryRender   bool
	queryMinScore float64
)

// queryCmd represents the query command
var queryCmd = &cobra.Command{
	Use:   "query <text>",
	Short: "Query the index using semantic similarity",
	Long: `Query indexed documents with natural language.

The query text is embedded and compared against stored chunks by
cosine similarity. Results are ranked by distance, closest first.

Examples:
  # Basic query
  ragdex query "how are errors propagated"

  # Show full chunk content
  ragdex query "retry policy" --content

  # More results
  ragdex query "configuration loading" -k 10

  # Machine-readable output
  ragdex query "worker pool" --json

  # Render chunk content as markdown
  ragdex query "installation steps" --content --render`,
	Args: cobra.MinimumNArgs(1),
	RunE: runQuery,
}

func init() {
	queryCmd.Flags().IntVarP(&queryLimit, "limit", "k", 3, "maximum number of results")
	queryCmd.Flags().BoolVarP(&queryContent, "content", "c", false, "show chunk content in results")
	queryCmd.Flags().BoolVar(&queryJSON, "json", false, "output results as JSON")
	queryCmd.Flags().BoolVar(&queryRender, "render", false, "render chunk content as markdown (implies --content)")
	queryCmd.Flags().Float64Var(&queryMinScore, "min-score", 0.0, "minimum similarity score (0-1)")
}

func runQuery(cmd *cobra.Command, args []string) error {
	query := strings.Join(args, " ")

	log.Debug("Starting query", "query", query, "limit", queryLimit)

	cfg := config.Get()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Println("\nInterrupted")
		cancel()
	}()

	st, emb, err := openServices(cfg)
	if err != nil {
		return err
	}

	if st.Count() == 0 {
		fmt.Println("Index is empty. Run 'ragdex index [path]' first.")
		return nil
	}

	searcher := search.New(st, emb)

	opts := search.Options{
		TopK:     queryLimit,
		MinScore: queryMinScore,
	}

	results, err := searcher.Search(ctx, query, opts)
	if err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("query failed: %w", err)
	}

	if queryJSON {
		return outputJSON(results)
	}

	if len(results) == 0 {
		fmt.Println("No results found.")
		return nil
	}

	displayResults(results, queryContent || queryRender, queryRender)
	return nil
}

// outputJSON writes results as indented JSON to stdout.
func outputJSON(results []search.Result) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(results)
}

// displayResults formats and displays query results.
func displayResults(results []search.Result, showContent, render bool) {
	fmt.Printf("Found %d results:\n\n", len(results))

	var renderer *glamour.TermRenderer
	if render {
		var err error
		renderer, err = glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(100),
		)
		if err != nil {
			log.Warn("Failed to create markdown renderer", "error", err)
			renderer = nil
		}
	}

	for i, r := range results {
		source := r.Metadata["source"]
		if source == "" {
			source = r.ID
		}

		fmt.Printf("%s %s %s\n",
			ui.Highlight.Render(fmt.Sprintf("[%d]", i+1)),
			ui.ResultHeader.Render(source),
			ui.FormatScore(r.Score),
		)

		if start, end := r.Metadata["start_line"], r.Metadata["end_line"]; start != "" {
			fmt.Printf("    %s\n", ui.Dim.Render(fmt.Sprintf("Lines %s-%s", start, end)))
		}

		if showContent && r.Document != "" {
			fmt.Println()
			displayContent(r.Document, renderer)
		}

		fmt.Println()
	}
}

// displayContent prints a chunk, rendered as markdown when a renderer is set.
func displayContent(content string, renderer *glamour.TermRenderer) {
	if renderer != nil {
		out, err := renderer.Render(content)
		if err == nil {
			fmt.Print(out)
			return
		}
		log.Debug("Markdown render failed, falling back to plain output", "error", err)
	}

	for _, line := range strings.Split(strings.TrimRight(content, "\n"), "\n") {
		fmt.Println(ui.ResultContent.Render(truncateText(line, 100)))
	}
}
