package embeddings

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nickcecere/ragdex/internal/config"
)

func TestGetModelDimensions(t *testing.T) {
	tests := []struct {
		model    string
		expected int
	}{
		{"text-embedding-3-small", 1536},
		{"text-embedding-3-large", 3072},
		{"text-embedding-ada-002", 1536},
		{"nomic-embed-text", 768},
		{"mxbai-embed-large", 1024},
		{"all-minilm", 384},
		{"unknown-model", 0},
	}

	for _, tt := range tests {
		t.Run(tt.model, func(t *testing.T) {
			assert.Equal(t, tt.expected, GetModelDimensions(tt.model))
		})
	}
}

func TestNewService(t *testing.T) {
	t.Run("openai requires API key", func(t *testing.T) {
		cfg := config.DefaultConfig()
		cfg.Embeddings.Provider = "openai"
		cfg.Embeddings.OpenAI.APIKey = ""

		_, err := NewService(cfg, 1536)
		require.Error(t, err)
	})

	t.Run("ollama", func(t *testing.T) {
		cfg := config.DefaultConfig()
		cfg.Embeddings.Provider = "ollama"

		svc, err := NewService(cfg, 0)
		require.NoError(t, err)
		assert.Equal(t, ProviderOllama, svc.Provider())
	})

	t.Run("unsupported provider", func(t *testing.T) {
		cfg := config.DefaultConfig()
		cfg.Embeddings.Provider = "bogus"

		_, err := NewService(cfg, 0)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unsupported embedding provider")
	})
}

func TestNewOllamaService(t *testing.T) {
	t.Run("with default URL", func(t *testing.T) {
		svc, err := NewOllamaService("", "nomic-embed-text")
		require.NoError(t, err)

		assert.Equal(t, "http://localhost:11434", svc.baseURL)
		assert.Equal(t, 768, svc.Dimensions())
		assert.Equal(t, "nomic-embed-text", svc.ModelName())
	})

	t.Run("trims trailing slash", func(t *testing.T) {
		svc, err := NewOllamaService("http://custom:8080/", "mxbai-embed-large")
		require.NoError(t, err)

		assert.Equal(t, "http://custom:8080", svc.baseURL)
		assert.Equal(t, 1024, svc.Dimensions())
	})
}

func TestOllamaEmbedBatch(t *testing.T) {
	var gotReq ollamaEmbedRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/embed", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))

		resp := ollamaEmbedResponse{
			Embeddings: make([][]float32, len(gotReq.Input)),
		}
		for i := range resp.Embeddings {
			resp.Embeddings[i] = []float32{float32(i), 1, 2}
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	svc, err := NewOllamaService(server.URL, "nomic-embed-text")
	require.NoError(t, err)

	vectors, err := svc.EmbedBatch(context.Background(), []string{"alpha", "beta"})
	require.NoError(t, err)
	require.Len(t, vectors, 2)
	assert.Equal(t, []float32{0, 1, 2}, vectors[0])
	assert.Equal(t, []float32{1, 1, 2}, vectors[1])

	// The document task prefix is applied per input, in order.
	require.Len(t, gotReq.Input, 2)
	assert.Equal(t, "search_document: alpha", gotReq.Input[0])
	assert.Equal(t, "search_document: beta", gotReq.Input[1])
}

func TestOllamaEmbedQueryPrefix(t *testing.T) {
	var gotReq ollamaEmbedRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
		_ = json.NewEncoder(w).Encode(ollamaEmbedResponse{
			Embeddings: [][]float32{{1, 2, 3}},
		})
	}))
	defer server.Close()

	svc, err := NewOllamaService(server.URL, "nomic-embed-text")
	require.NoError(t, err)

	_, err = svc.EmbedQuery(context.Background(), "find me")
	require.NoError(t, err)
	assert.Equal(t, "search_query: find me", gotReq.Input[0])
}

func TestOllamaErrorHandling(t *testing.T) {
	t.Run("server error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "model not found", http.StatusNotFound)
		}))
		defer server.Close()

		svc, err := NewOllamaService(server.URL, "nomic-embed-text")
		require.NoError(t, err)

		_, err = svc.EmbedBatch(context.Background(), []string{"a"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "status 404")
	})

	t.Run("short response is a provider error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_ = json.NewEncoder(w).Encode(ollamaEmbedResponse{
				Embeddings: [][]float32{{1, 2, 3}},
			})
		}))
		defer server.Close()

		svc, err := NewOllamaService(server.URL, "all-minilm")
		require.NoError(t, err)

		_, err = svc.EmbedBatch(context.Background(), []string{"a", "b"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "embedding count mismatch")
	})
}

func TestNewOpenAIService(t *testing.T) {
	t.Run("requires API key", func(t *testing.T) {
		_, err := NewOpenAIService("", "text-embedding-3-small", "", 0)
		require.Error(t, err)
	})

	t.Run("uses model default dimensions", func(t *testing.T) {
		svc, err := NewOpenAIService("sk-test", "text-embedding-3-small", "", 0)
		require.NoError(t, err)
		assert.Equal(t, 1536, svc.Dimensions())
		assert.Equal(t, ProviderOpenAI, svc.Provider())
	})

	t.Run("store dimension overrides", func(t *testing.T) {
		svc, err := NewOpenAIService("sk-test", "text-embedding-3-large", "", 256)
		require.NoError(t, err)
		assert.Equal(t, 256, svc.Dimensions())
	})
}
