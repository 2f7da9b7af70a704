package loader

import (
	"strings"
	"unicode/utf8"
)

// ChunkOptions configures a TextChunker. Sizes are in runes.
type ChunkOptions struct {
	ChunkSize    int
	ChunkOverlap int
}

// DefaultChunkOptions returns the chunker defaults.
func DefaultChunkOptions() ChunkOptions {
	return ChunkOptions{
		ChunkSize:    500,
		ChunkOverlap: 50,
	}
}

// Piece is one chunk of a document, with 1-indexed line bounds.
type Piece struct {
	Content   string
	StartLine int
	EndLine   int
	Index     int
}

// TextChunker splits text into line-aligned chunks with overlap.
type TextChunker struct {
	opts ChunkOptions
}

// NewTextChunker creates a new text chunker, applying defaults for zero
// values.
func NewTextChunker(opts ChunkOptions) *TextChunker {
	if opts.ChunkSize <= 0 {
		opts.ChunkSize = DefaultChunkOptions().ChunkSize
	}
	if opts.ChunkOverlap < 0 {
		opts.ChunkOverlap = DefaultChunkOptions().ChunkOverlap
	}
	return &TextChunker{opts: opts}
}

// Chunk splits content into pieces of roughly ChunkSize runes, breaking on
// line boundaries, with the tail of each piece repeated at the start of the
// next. Empty content yields no pieces.
func (c *TextChunker) Chunk(content string) []Piece {
	if strings.TrimSpace(content) == "" {
		return nil
	}

	lines := strings.Split(content, "\n")

	var pieces []Piece
	chunkStart := 0
	currentSize := 0
	var currentLines []string

	for lineNum, line := range lines {
		lineLen := utf8.RuneCountInString(line) + 1 // +1 for newline

		if currentSize+lineLen > c.opts.ChunkSize && len(currentLines) > 0 {
			pieces = append(pieces, Piece{
				Content:   strings.Join(currentLines, "\n"),
				StartLine: chunkStart + 1,
				EndLine:   chunkStart + len(currentLines),
				Index:     len(pieces),
			})

			overlapLines, overlapSize := c.overlap(currentLines)
			currentLines = append([]string(nil), overlapLines...)
			chunkStart = lineNum - len(overlapLines)
			currentSize = overlapSize
		}

		currentLines = append(currentLines, line)
		currentSize += lineLen
	}

	if len(currentLines) > 0 {
		tail := strings.Join(currentLines, "\n")
		if strings.TrimSpace(tail) != "" {
			pieces = append(pieces, Piece{
				Content:   tail,
				StartLine: chunkStart + 1,
				EndLine:   chunkStart + len(currentLines),
				Index:     len(pieces),
			})
		}
	}

	return pieces
}

// overlap returns the trailing lines of a finished chunk to repeat at the
// start of the next, up to ChunkOverlap runes.
func (c *TextChunker) overlap(lines []string) ([]string, int) {
	if c.opts.ChunkOverlap <= 0 || len(lines) == 0 {
		return nil, 0
	}

	var overlapLines []string
	overlapSize := 0

	for i := len(lines) - 1; i >= 0 && overlapSize < c.opts.ChunkOverlap; i-- {
		lineLen := utf8.RuneCountInString(lines[i]) + 1
		overlapLines = append([]string{lines[i]}, overlapLines...)
		overlapSize += lineLen
	}

	return overlapLines, overlapSize
}
