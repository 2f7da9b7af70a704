package cli

import (
	"fmt"
	"strings"

	"github.com/nickcecere/ragdex/internal/config"
	"github.com/nickcecere/ragdex/internal/embeddings"
	"github.com/nickcecere/ragdex/internal/store"
)

// resolveDimension picks the store dimension: an explicit config value wins,
// otherwise the embedding model's known dimension is used.
func resolveDimension(cfg *config.Config) int {
	if cfg.Store.Dimension > 0 {
		return cfg.Store.Dimension
	}

	var model string
	switch cfg.Embeddings.Provider {
	case "ollama":
		model = cfg.Embeddings.Ollama.Model
	default:
		model = cfg.Embeddings.OpenAI.Model
	}

	if dim := embeddings.GetModelDimensions(model); dim > 0 {
		return dim
	}
	return config.DefaultDimension
}

// openStoreOnly opens the vector store without an embedding service,
// for commands that only mutate or inspect the index.
func openStoreOnly(cfg *config.Config) (*store.Store, error) {
	dir := storeDir
	if dir == "" {
		dir = cfg.Store.Dir
	}

	st, err := store.Open(dir, resolveDimension(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}
	return st, nil
}

// openServices opens the vector store and creates the embedding service
// from the active configuration.
func openServices(cfg *config.Config) (*store.Store, embeddings.Service, error) {
	dimension := resolveDimension(cfg)

	st, err := openStoreOnly(cfg)
	if err != nil {
		return nil, nil, err
	}

	emb, err := embeddings.NewService(cfg, dimension)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create embedding service: %w", err)
	}

	// A provider whose vectors do not match the store dimension would
	// fail every Add, so reject the pairing up front.
	if emb.Dimensions() != st.Dimension() {
		return nil, nil, fmt.Errorf("embedding model %s produces %d-dimensional vectors but the store at %s is %d-dimensional; set store.dimension or re-create the index",
			emb.ModelName(), emb.Dimensions(), st.Path(), st.Dimension())
	}

	return st, emb, nil
}

// formatBytes formats a byte count in a human-readable way.
func formatBytes(b int64) string {
	const unit = 1024
	if b < unit {
		return fmt.Sprintf("%d B", b)
	}
	div, exp := int64(unit), 0
	for n := b / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(b)/float64(div), "KMGTPE"[exp])
}

// truncateText shortens text to at most max runes, collapsing newlines.
func truncateText(s string, max int) string {
	s = strings.Join(strings.Fields(s), " ")
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}
