// Package search provides the query-side glue: embed a query text and rank
// stored documents against it. Answer synthesis is left to callers.
package search

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/nickcecere/ragdex/internal/embeddings"
	"github.com/nickcecere/ragdex/internal/store"
)

// Searcher runs semantic queries against one store.
type Searcher struct {
	store    *store.Store
	embedder embeddings.Service
}

// Result is a single ranked match.
type Result struct {
	ID       string            `json:"id"`
	Document string            `json:"document"`
	Metadata map[string]string `json:"metadata"`
	Distance float32           `json:"distance"` // cosine distance, smaller is better
	Score    float64           `json:"score"`    // 1 - distance
}

// Options configures a search.
type Options struct {
	// TopK is the maximum number of results to return.
	TopK int

	// MinScore filters results below this similarity score.
	MinScore float64
}

// DefaultOptions returns sensible defaults.
func DefaultOptions() Options {
	return Options{TopK: 3}
}

// New creates a Searcher.
func New(st *store.Store, emb embeddings.Service) *Searcher {
	return &Searcher{store: st, embedder: emb}
}

// Search embeds query and returns its nearest stored records, best first.
// An empty store yields an empty result list, not an error.
func (s *Searcher) Search(ctx context.Context, query string, opts Options) ([]Result, error) {
	if query == "" {
		return nil, fmt.Errorf("query cannot be empty")
	}

	topK := opts.TopK
	if topK <= 0 {
		topK = DefaultOptions().TopK
	}

	log.Debug("Generating query embedding", "query", truncate(query, 50))
	queryEmbedding, err := s.embedder.EmbedQuery(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	queryResults, err := s.store.Query([][]float32{queryEmbedding}, topK)
	if err != nil {
		return nil, fmt.Errorf("search failed: %w", err)
	}

	qr := queryResults[0]
	results := make([]Result, 0, len(qr.IDs))
	for i := range qr.IDs {
		score := 1 - float64(qr.Distances[i])
		if score < opts.MinScore {
			continue
		}
		results = append(results, Result{
			ID:       qr.IDs[i],
			Document: qr.Documents[i],
			Metadata: qr.Metadatas[i],
			Distance: qr.Distances[i],
			Score:    score,
		})
	}

	log.Debug("Search complete", "results", len(results))
	return results, nil
}

// truncate shortens a string for display without splitting a rune.
func truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen-3]) + "..."
}
