package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"
	"unicode/utf8"

	"document-chunker/internal/telemetry"
	"document-chunker/models"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Pipeline runs detect → extract → normalize → chunk over one document.
// It keeps no per-document state and is safe for concurrent use.
type Pipeline struct {
	logger  *slog.Logger
	tracer  trace.Tracer
	metrics *telemetry.Metrics
	opts    ExtractorOptions
}

// PipelineOption configures a Pipeline
type PipelineOption func(*Pipeline)

// WithLogger sets the logger used for per-document outcome lines
func WithLogger(logger *slog.Logger) PipelineOption {
	return func(p *Pipeline) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithMetrics records processing metrics
func WithMetrics(metrics *telemetry.Metrics) PipelineOption {
	return func(p *Pipeline) {
		p.metrics = metrics
	}
}

// WithTracer replaces the global tracer
func WithTracer(tracer trace.Tracer) PipelineOption {
	return func(p *Pipeline) {
		if tracer != nil {
			p.tracer = tracer
		}
	}
}

// WithExtractorOptions tunes the extractor variants
func WithExtractorOptions(opts ExtractorOptions) PipelineOption {
	return func(p *Pipeline) {
		p.opts = opts
	}
}

// NewPipeline creates a pipeline. Without options it logs to slog.Default
// and records no metrics.
func NewPipeline(options ...PipelineOption) *Pipeline {
	p := &Pipeline{
		logger: slog.Default(),
		tracer: otel.Tracer(telemetry.ServiceName),
	}
	for _, opt := range options {
		opt(p)
	}
	return p
}

// Process converts doc into normalized, chunked text. Every failure is a
// *ProcessingError; no partial result is ever returned. ctx only carries
// the trace, the pipeline itself cannot be cancelled.
func (p *Pipeline) Process(ctx context.Context, doc models.SourceDocument, cfg ChunkConfig) (*models.ExtractionResult, error) {
	start := time.Now()

	ctx, span := p.tracer.Start(ctx, "pipeline.process", trace.WithAttributes(
		attribute.String("document.filename", doc.Filename),
		attribute.String("document.mime_type", doc.DeclaredMIMEType),
		attribute.Int("document.size", len(doc.Content)),
		attribute.Int("chunk.size", cfg.ChunkSize),
		attribute.Int("chunk.overlap", cfg.Overlap),
	))
	defer span.End()

	format := DetectFormat(doc.DeclaredMIMEType, doc.Filename)
	span.SetAttributes(attribute.String("document.format", string(format)))

	result, err := p.process(ctx, doc, format, cfg)
	duration := time.Since(start)

	if err != nil {
		err = withFilename(err, doc.Filename)
		kind := KindOf(err)
		span.RecordError(err)
		span.SetStatus(codes.Error, string(kind))
		p.metrics.RecordDocument(ctx, string(format), string(kind), duration.Seconds(), 0)
		p.logger.Warn("Document processing failed",
			"filename", doc.Filename,
			"format", format,
			"error_kind", kind,
			"error", err,
			"duration_ms", duration.Milliseconds(),
		)
		return nil, err
	}

	span.SetAttributes(
		attribute.Int("document.characters", result.TotalCharacters),
		attribute.Int("document.chunks", len(result.Chunks)),
	)
	p.metrics.RecordDocument(ctx, string(format), "success", duration.Seconds(), len(result.Chunks))
	p.logger.Info("Document processed",
		"filename", doc.Filename,
		"format", format,
		"characters", result.TotalCharacters,
		"chunks", len(result.Chunks),
		"duration_ms", duration.Milliseconds(),
	)

	return result, nil
}

func (p *Pipeline) process(ctx context.Context, doc models.SourceDocument, format Format, cfg ChunkConfig) (*models.ExtractionResult, error) {
	if format == FormatUnsupported {
		return nil, newProcessingError(KindUnsupportedFormat,
			fmt.Errorf("unsupported document type %q", doc.DeclaredMIMEType))
	}

	extractor, err := extractorFor(format, p.opts)
	if err != nil {
		return nil, err
	}

	var raw string
	err = p.stage(ctx, "pipeline.extract", func() error {
		var extractErr error
		raw, extractErr = extractor.ExtractText(doc.Content)
		return extractErr
	})
	if err != nil {
		return nil, err
	}

	var normalized string
	// normalizing cannot fail; the span only records its timing
	p.stage(ctx, "pipeline.normalize", func() error {
		normalized = NormalizeText(raw)
		return nil
	})

	var chunks []models.Chunk
	err = p.stage(ctx, "pipeline.chunk", func() error {
		var chunkErr error
		chunks, chunkErr = ChunkText(normalized, cfg)
		return chunkErr
	})
	if err != nil {
		return nil, err
	}

	return &models.ExtractionResult{
		Filename:        doc.Filename,
		Format:          string(format),
		TotalCharacters: utf8.RuneCountInString(normalized),
		Chunks:          chunks,
	}, nil
}

// stage runs fn inside a child span.
func (p *Pipeline) stage(ctx context.Context, name string, fn func() error) error {
	_, span := p.tracer.Start(ctx, name)
	defer span.End()

	if err := fn(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	return nil
}
