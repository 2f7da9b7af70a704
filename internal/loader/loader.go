// Package loader turns a directory of source documents into an ordered
// sequence of text chunks with string metadata, ready for embedding.
package loader

import (
	"fmt"
	"os"
	"strconv"

	"github.com/charmbracelet/log"
)

// Chunk is a unit of document text plus its metadata. Metadata values are
// always strings; nested structures are not supported.
type Chunk struct {
	Text     string
	Metadata map[string]string
}

// Loader maps a directory to an ordered sequence of chunks. An empty
// directory yields an empty sequence, not an error.
type Loader interface {
	LoadDirectory(path string) ([]Chunk, error)
}

// Options configures a DirectoryLoader.
type Options struct {
	// MaxFileSize skips files larger than this many bytes (0 = no limit).
	MaxFileSize int64

	// MaxFileCount stops the walk after this many files (0 = no limit).
	MaxFileCount int

	// IgnorePatterns are gitignore-style patterns to skip.
	IgnorePatterns []string

	// UseGitignore also honors a .gitignore at the directory root.
	UseGitignore bool

	// ChunkSize and ChunkOverlap configure the text chunker (in runes).
	ChunkSize    int
	ChunkOverlap int
}

// DirectoryLoader loads documents from a file system directory, splitting
// each file into overlapping chunks.
type DirectoryLoader struct {
	opts    Options
	chunker *TextChunker
}

var _ Loader = (*DirectoryLoader)(nil)

// NewDirectoryLoader creates a DirectoryLoader.
func NewDirectoryLoader(opts Options) *DirectoryLoader {
	return &DirectoryLoader{
		opts: opts,
		chunker: NewTextChunker(ChunkOptions{
			ChunkSize:    opts.ChunkSize,
			ChunkOverlap: opts.ChunkOverlap,
		}),
	}
}

// LoadDirectory walks root and returns the chunks of every readable text
// file, in walk order. Each chunk carries source path, chunk index, line
// range and a content hash in its metadata.
func (l *DirectoryLoader) LoadDirectory(root string) ([]Chunk, error) {
	walker, err := NewFileWalker(WalkOptions{
		Root:           root,
		MaxFileSize:    l.opts.MaxFileSize,
		MaxFileCount:   l.opts.MaxFileCount,
		IgnorePatterns: l.opts.IgnorePatterns,
		UseGitignore:   l.opts.UseGitignore,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create file walker: %w", err)
	}

	var chunks []Chunk
	err = walker.Walk(func(fi FileInfo) error {
		content, err := os.ReadFile(fi.Path)
		if err != nil {
			log.Warn("Failed to read file, skipping", "path", fi.RelPath, "error", err)
			return nil
		}

		pieces := l.chunker.Chunk(string(content))
		for _, p := range pieces {
			chunks = append(chunks, Chunk{
				Text: p.Content,
				Metadata: map[string]string{
					"source":     fi.RelPath,
					"chunk":      strconv.Itoa(p.Index),
					"start_line": strconv.Itoa(p.StartLine),
					"end_line":   strconv.Itoa(p.EndLine),
					"hash":       fi.Hash,
				},
			})
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk directory: %w", err)
	}

	log.Debug("Loaded directory", "path", root, "chunks", len(chunks))
	return chunks, nil
}
