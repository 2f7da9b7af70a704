package config

import (
	"os"
	"path/filepath"
)

// Default configuration values
const (
	// Embedding defaults
	DefaultEmbeddingProvider = "openai"
	DefaultOpenAIEmbedModel  = "text-embedding-3-small"
	DefaultOllamaURL         = "http://localhost:11434"
	DefaultOllamaEmbedModel  = "nomic-embed-text"

	// Store defaults
	DefaultDimension    = 1536
	DefaultIndexDirName = "index"

	// Indexing defaults
	//
	// Batches are kept small to bound a single embedding request's blast
	// radius and respect provider rate limits.
	DefaultBatchSize    = 5
	DefaultChunkSize    = 500
	DefaultChunkOverlap = 50
	DefaultMaxFileSize  = 1 << 20 // 1MB
	DefaultMaxFileCount = 10000
)

// DefaultIgnorePatterns returns the default list of file patterns the loader
// skips.
func DefaultIgnorePatterns() []string {
	return []string{
		// Dependencies and build outputs
		"node_modules/",
		"vendor/",
		"dist/",
		"build/",
		"target/",
		"__pycache__/",

		// Version control
		".git/",
		".svn/",
		".hg/",

		// Lock files
		"*.lock",
		"package-lock.json",
		"yarn.lock",
		"go.sum",

		// Binary and media
		"*.exe",
		"*.dll",
		"*.so",
		"*.dylib",
		"*.o",
		"*.a",
		"*.class",
		"*.pyc",
		"*.jpg",
		"*.jpeg",
		"*.png",
		"*.gif",
		"*.ico",
		"*.mp3",
		"*.mp4",
		"*.zip",
		"*.tar",
		"*.tar.gz",
		"*.7z",

		// Misc
		".DS_Store",
		"Thumbs.db",
		".env",
		".env.*",
		"*.log",
		"*.min.js",
		"*.min.css",
		"*.map",
	}
}

// DefaultConfigDir returns the default configuration directory path.
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".config/ragdex"
	}
	return filepath.Join(home, ".config", "ragdex")
}

// DefaultDataDir returns the default data directory path.
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".local/share/ragdex"
	}
	return filepath.Join(home, ".local", "share", "ragdex")
}

// DefaultIndexDir returns the default persistence directory for the vector
// store.
func DefaultIndexDir() string {
	return filepath.Join(DefaultDataDir(), DefaultIndexDirName)
}
