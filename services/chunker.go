package services

import (
	"fmt"

	"document-chunker/models"
)

const (
	DefaultChunkSize = 3000
	DefaultOverlap   = 300
)

// ChunkConfig controls the sliding window used by ChunkText
type ChunkConfig struct {
	ChunkSize int `json:"chunk_size"`
	Overlap   int `json:"overlap"`
}

// DefaultChunkConfig returns the service defaults (3000 / 300).
func DefaultChunkConfig() ChunkConfig {
	return ChunkConfig{ChunkSize: DefaultChunkSize, Overlap: DefaultOverlap}
}

// Step is the distance between consecutive chunk starts.
func (c ChunkConfig) Step() int {
	return c.ChunkSize - c.Overlap
}

// Validate rejects configurations that would never advance the window.
func (c ChunkConfig) Validate() error {
	if c.ChunkSize <= 0 {
		return newProcessingError(KindInvalidConfiguration,
			fmt.Errorf("chunk size must be positive, got %d", c.ChunkSize))
	}
	if c.Overlap < 0 {
		return newProcessingError(KindInvalidConfiguration,
			fmt.Errorf("overlap must not be negative, got %d", c.Overlap))
	}
	if c.Overlap >= c.ChunkSize {
		return newProcessingError(KindInvalidConfiguration,
			fmt.Errorf("overlap %d must be smaller than chunk size %d", c.Overlap, c.ChunkSize))
	}
	return nil
}

// ChunkText splits text into windows of cfg.ChunkSize characters whose
// starts are cfg.Step() apart. The last window is clamped to the end of the
// text, so its overlap with the previous one can exceed cfg.Overlap. Text
// that fits in one window always yields exactly one chunk.
// Offsets count runes, never bytes.
func ChunkText(text string, cfg ChunkConfig) ([]models.Chunk, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	runes := []rune(text)
	total := len(runes)
	if total == 0 {
		return []models.Chunk{}, nil
	}
	if total <= cfg.ChunkSize {
		return []models.Chunk{{Index: 0, StartOffset: 0, EndOffset: total, Content: string(runes)}}, nil
	}

	step := cfg.Step()
	chunks := make([]models.Chunk, 0, chunkCount(total, cfg))
	for start := 0; start < total; start += step {
		end := start + cfg.ChunkSize
		if end > total {
			end = total
		}
		chunks = append(chunks, models.Chunk{
			Index:       len(chunks),
			StartOffset: start,
			EndOffset:   end,
			Content:     string(runes[start:end]),
		})
	}

	return chunks, nil
}

// chunkCount is ceil(total / step), or 1 when the text fits in one window.
func chunkCount(total int, cfg ChunkConfig) int {
	switch {
	case total == 0:
		return 0
	case total <= cfg.ChunkSize:
		return 1
	}
	step := cfg.Step()
	return (total + step - 1) / step
}
