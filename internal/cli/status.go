package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/nickcecere/ragdex/internal/config"
	"github.com/nickcecere/ragdex/internal/ui"
)

// statusCmd represents the status command
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show index status and statistics",
	Long: `Display information about the local index including:
- Number of indexed chunks
- Persistence directory and artifact sizes
- Embedding provider, model, and dimension

Examples:
  # Show index status
  ragdex status`,
	RunE: runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	cfg := config.Get()

	st, emb, err := openServices(cfg)
	if err != nil {
		return err
	}

	stats := st.Stats()

	fmt.Println(ui.Header.Render("Index Status"))
	fmt.Println()

	fmt.Printf("%s %d\n", ui.Bold.Render("Chunks:   "), stats.Count)
	fmt.Printf("%s %s\n", ui.Bold.Render("Directory:"), stats.Path)
	fmt.Printf("%s %d\n", ui.Bold.Render("Dimension:"), stats.Dimension)
	fmt.Printf("%s %s (%s)\n", ui.Bold.Render("Provider: "), cfg.Embeddings.Provider, emb.ModelName())
	fmt.Println()

	entries, err := os.ReadDir(stats.Path)
	if err != nil {
		log.Debug("Failed to read store directory", "error", err)
		return nil
	}

	var artifacts []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".gob") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		artifacts = append(artifacts, fmt.Sprintf("  %-14s %s", e.Name(), formatBytes(info.Size())))
	}

	if len(artifacts) == 0 {
		fmt.Println(ui.Dim.Render("No index artifacts on disk yet."))
		return nil
	}

	fmt.Println(ui.Bold.Render("Artifacts:"))
	for _, a := range artifacts {
		fmt.Println(a)
	}

	return nil
}
