// Package embeddings provides the embedding provider boundary: ordered text
// batches in, ordered fixed-dimension vectors out.
package embeddings

import (
	"context"
	"fmt"

	"github.com/nickcecere/ragdex/internal/config"
)

// Provider represents an embedding provider type.
type Provider string

const (
	ProviderOpenAI Provider = "openai"
	ProviderOllama Provider = "ollama"
)

// Service is the embedding provider interface. Batch calls are
// order-preserving and return exactly one vector per input text; a short or
// reordered response is treated as a provider error by the implementations.
// All calls honor the caller's context for timeout and cancellation.
type Service interface {
	// Embed generates an embedding for a document text.
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedQuery generates an embedding for a query (some models use a
	// different task prefix for queries).
	EmbedQuery(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch generates embeddings for multiple document texts.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)

	// Dimensions returns the embedding dimension for this model.
	Dimensions() int

	// Provider returns the provider name.
	Provider() Provider

	// ModelName returns the model name.
	ModelName() string
}

// Known model dimensions
var modelDimensions = map[string]int{
	// OpenAI models
	"text-embedding-3-small": 1536,
	"text-embedding-3-large": 3072,
	"text-embedding-ada-002": 1536,

	// Ollama models
	"nomic-embed-text":  768,
	"mxbai-embed-large": 1024,
	"all-minilm":        384,
}

// GetModelDimensions returns the known dimension for a model, or 0 if
// unknown.
func GetModelDimensions(model string) int {
	return modelDimensions[model]
}

// NewService creates an embedding service based on the configuration. The
// dimension argument is the store's configured dimension; when positive it
// overrides the model's default.
func NewService(cfg *config.Config, dimension int) (Service, error) {
	switch cfg.Embeddings.Provider {
	case "openai":
		return NewOpenAIService(
			cfg.Embeddings.OpenAI.APIKey,
			cfg.Embeddings.OpenAI.Model,
			cfg.Embeddings.OpenAI.BaseURL,
			dimension,
		)
	case "ollama":
		return NewOllamaService(
			cfg.Embeddings.Ollama.URL,
			cfg.Embeddings.Ollama.Model,
		)
	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", cfg.Embeddings.Provider)
	}
}
