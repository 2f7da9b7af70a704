package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/nickcecere/ragdex/internal/config"
	"github.com/nickcecere/ragdex/internal/ui"
)

var clearYes bool

// removeCmd deletes specific documents from the index by id.
var removeCmd = &cobra.Command{
	Use:   "remove <id>...",
	Short: "Remove documents from the index by id",
	Long: `Remove one or more documents from the index.

Ids that are not present are ignored. The remaining documents stay
queryable without re-embedding.

Examples:
  # Remove a single chunk
  ragdex remove doc-42

  # Remove several chunks
  ragdex remove doc-0 doc-1 doc-2`,
	Args: cobra.MinimumNArgs(1),
	RunE: runRemove,
}

// clearCmd deletes the entire index.
var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete the entire index",
	Long: `Delete all indexed documents and remove the index artifacts from disk.

Examples:
  # Clear with confirmation prompt
  ragdex clear

  # Clear without prompting
  ragdex clear --yes`,
	RunE: runClear,
}

func init() {
	clearCmd.Flags().BoolVarP(&clearYes, "yes", "y", false, "skip confirmation prompt")
}

func runRemove(cmd *cobra.Command, args []string) error {
	cfg := config.Get()

	st, err := openStoreOnly(cfg)
	if err != nil {
		return err
	}

	before := st.Count()

	if err := st.DeleteByIDs(args); err != nil {
		return fmt.Errorf("failed to remove documents: %w", err)
	}

	removed := before - st.Count()
	log.Debug("Removed documents", "requested", len(args), "removed", removed)

	if removed == 0 {
		fmt.Println("No matching documents found.")
		return nil
	}

	fmt.Println(ui.Success.Render(fmt.Sprintf("Removed %d document(s)", removed)))
	fmt.Printf("  Remaining: %d\n", st.Count())
	return nil
}

func runClear(cmd *cobra.Command, args []string) error {
	cfg := config.Get()

	st, err := openStoreOnly(cfg)
	if err != nil {
		return err
	}

	count := st.Count()
	if count == 0 {
		fmt.Println("Index is already empty.")
		return nil
	}

	if !clearYes {
		fmt.Printf("Delete all %d indexed chunks from %s? [y/N] ", count, st.Path())
		reader := bufio.NewReader(os.Stdin)
		answer, _ := reader.ReadString('\n')
		answer = strings.ToLower(strings.TrimSpace(answer))
		if answer != "y" && answer != "yes" {
			fmt.Println("Aborted.")
			return nil
		}
	}

	if err := st.Clear(); err != nil {
		return fmt.Errorf("failed to clear index: %w", err)
	}

	fmt.Println(ui.Success.Render("Index cleared"))
	return nil
}
