package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nickcecere/ragdex/internal/config"
)

func TestResolveDimension(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(*config.Config)
		expected int
	}{
		{
			name:     "openai defaults",
			mutate:   func(c *config.Config) {},
			expected: 1536,
		},
		{
			name: "ollama defaults use the model dimension",
			mutate: func(c *config.Config) {
				c.Embeddings.Provider = "ollama"
			},
			expected: 768,
		},
		{
			name: "explicit config dimension wins",
			mutate: func(c *config.Config) {
				c.Embeddings.Provider = "ollama"
				c.Store.Dimension = 1024
			},
			expected: 1024,
		},
		{
			name: "unknown model falls back",
			mutate: func(c *config.Config) {
				c.Embeddings.Provider = "ollama"
				c.Embeddings.Ollama.Model = "some-future-model"
			},
			expected: config.DefaultDimension,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.DefaultConfig()
			tt.mutate(cfg)
			assert.Equal(t, tt.expected, resolveDimension(cfg))
		})
	}
}

func TestOpenServicesOllamaDefaults(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Embeddings.Provider = "ollama"
	cfg.Store.Dir = t.TempDir()

	st, emb, err := openServices(cfg)
	require.NoError(t, err)

	assert.Equal(t, emb.Dimensions(), st.Dimension())
	assert.Equal(t, 768, st.Dimension())
}

func TestOpenServicesRejectsDimensionMismatch(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Embeddings.Provider = "ollama"
	cfg.Store.Dir = t.TempDir()
	cfg.Store.Dimension = 1536

	_, _, err := openServices(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "dimensional")
}
