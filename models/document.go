package models

// SourceDocument is the uploaded document handed to the pipeline.
// It is owned by a single pipeline invocation and never modified.
type SourceDocument struct {
	Content          []byte
	DeclaredMIMEType string
	Filename         string
}

// Chunk is one window of normalized text. StartOffset and EndOffset form a
// half-open range measured in characters (runes).
type Chunk struct {
	Index       int    `json:"index" yaml:"index"`
	StartOffset int    `json:"start" yaml:"start"`
	EndOffset   int    `json:"end" yaml:"end"`
	Content     string `json:"content" yaml:"content"`
}

// Len returns the chunk length in characters.
func (c Chunk) Len() int {
	return c.EndOffset - c.StartOffset
}

// ExtractionResult is the outcome of a successful pipeline run
type ExtractionResult struct {
	Filename        string  `json:"filename" yaml:"filename"`
	Format          string  `json:"format" yaml:"format"`
	TotalCharacters int     `json:"characters" yaml:"characters"`
	Chunks          []Chunk `json:"chunks" yaml:"chunks"`
}

// ChunkContents returns the chunk texts in order.
func (r *ExtractionResult) ChunkContents() []string {
	contents := make([]string, len(r.Chunks))
	for i, chunk := range r.Chunks {
		contents[i] = chunk.Content
	}
	return contents
}

// ExtractResponse is the JSON body returned by POST /extract
type ExtractResponse struct {
	Success      bool     `json:"success"`
	Filename     string   `json:"filename"`
	Format       string   `json:"format"`
	Characters   int      `json:"characters"`
	ChunkCount   int      `json:"chunk_count"`
	Chunks       []string `json:"chunks"`
	ChunkDetails []Chunk  `json:"chunk_details,omitempty"`
}

// NewExtractResponse shapes a result for the HTTP layer. Offsets are only
// included when withOffsets is set.
func NewExtractResponse(result *ExtractionResult, withOffsets bool) ExtractResponse {
	resp := ExtractResponse{
		Success:    true,
		Filename:   result.Filename,
		Format:     result.Format,
		Characters: result.TotalCharacters,
		ChunkCount: len(result.Chunks),
		Chunks:     result.ChunkContents(),
	}
	if withOffsets {
		resp.ChunkDetails = result.Chunks
	}
	return resp
}

// HealthResponse is returned by GET /health
type HealthResponse struct {
	Status        string `json:"status"`
	Timestamp     string `json:"timestamp"`
	UptimeSeconds int64  `json:"uptime_seconds"`
}
