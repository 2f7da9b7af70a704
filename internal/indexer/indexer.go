// Package indexer orchestrates ingestion: loading document chunks, embedding
// them in bounded batches and adding them to the vector store.
package indexer

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/nickcecere/ragdex/internal/embeddings"
	"github.com/nickcecere/ragdex/internal/loader"
	"github.com/nickcecere/ragdex/internal/store"
)

// DefaultBatchSize bounds how many chunks go into a single embedding
// request.
const DefaultBatchSize = 5

// Manager turns a directory of source documents into indexed records.
type Manager struct {
	store     *store.Store
	embedder  embeddings.Service
	loader    loader.Loader
	batchSize int
}

// New creates a Manager. A batchSize of zero or less selects
// DefaultBatchSize.
func New(st *store.Store, emb embeddings.Service, ld loader.Loader, batchSize int) *Manager {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return &Manager{
		store:     st,
		embedder:  emb,
		loader:    ld,
		batchSize: batchSize,
	}
}

// IndexDirectory ingests every document chunk under dir into the store and
// returns the resulting total record count.
//
// When force is true the store is cleared first. Otherwise a non-empty store
// makes the call a no-op that returns the existing count, so re-running
// ingestion is idempotent by default.
//
// Each batch is embedded and durably added before the next batch begins: a
// failure partway through leaves the completed batches indexed and
// propagates the underlying error with no partial-success return value.
// Note that retrying after such a failure without force will see a non-empty
// store and skip rather than resume.
func (m *Manager) IndexDirectory(ctx context.Context, dir string, force bool) (int, error) {
	if force {
		log.Info("Clearing existing index", "path", m.store.Path())
		if err := m.store.Clear(); err != nil {
			return 0, fmt.Errorf("failed to clear store: %w", err)
		}
	} else if existing := m.store.Count(); existing > 0 {
		log.Info("Store already populated, skipping ingestion", "count", existing)
		return existing, nil
	}

	chunks, err := m.loader.LoadDirectory(dir)
	if err != nil {
		return 0, fmt.Errorf("failed to load documents: %w", err)
	}
	if len(chunks) == 0 {
		log.Warn("No documents found to index", "path", dir)
		return 0, nil
	}

	log.Info("Indexing documents", "path", dir, "chunks", len(chunks), "batch_size", m.batchSize)
	start := time.Now()

	// Ids are sequential, offset by the pre-run count so they never collide
	// with pre-existing entries.
	base := m.store.Count()
	added := 0

	for begin := 0; begin < len(chunks); begin += m.batchSize {
		select {
		case <-ctx.Done():
			return 0, ctx.Err()
		default:
		}

		end := begin + m.batchSize
		if end > len(chunks) {
			end = len(chunks)
		}
		batch := chunks[begin:end]

		ids := make([]string, len(batch))
		texts := make([]string, len(batch))
		metadatas := make([]map[string]string, len(batch))
		for i, c := range batch {
			ids[i] = fmt.Sprintf("doc-%d", base+added+i)
			texts[i] = c.Text
			metadatas[i] = c.Metadata
		}

		vectors, err := m.embedder.EmbedBatch(ctx, texts)
		if err != nil {
			return 0, fmt.Errorf("failed to generate embeddings: %w", err)
		}

		if err := m.store.Add(ids, texts, vectors, metadatas); err != nil {
			return 0, fmt.Errorf("failed to add batch to store: %w", err)
		}

		added += len(batch)
		log.Debug("Indexed batch", "progress", added, "total", len(chunks))
	}

	log.Info("Indexing complete",
		"chunks", added,
		"duration", time.Since(start).Round(time.Millisecond),
	)

	return m.store.Count(), nil
}

// Stats returns the store's current count and persistence path.
func (m *Manager) Stats() store.Stats {
	return m.store.Stats()
}
