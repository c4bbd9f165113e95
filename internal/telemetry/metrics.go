package telemetry

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics holds all application metrics
type Metrics struct {
	RequestCounter     metric.Int64Counter
	RequestDuration    metric.Float64Histogram
	DocumentDuration   metric.Float64Histogram
	DocumentsProcessed metric.Int64Counter
	ChunksProduced     metric.Int64Counter
}

// InitMetrics initializes all application metrics on the global meter
func InitMetrics() (*Metrics, error) {
	return NewMetrics(otel.Meter(ServiceName))
}

// NewMetrics creates the instruments on meter
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	requestCounter, err := meter.Int64Counter(
		"http.requests.total",
		metric.WithDescription("Total HTTP requests"),
	)
	if err != nil {
		return nil, err
	}

	requestDuration, err := meter.Float64Histogram(
		"http.request.duration",
		metric.WithDescription("HTTP request duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	documentDuration, err := meter.Float64Histogram(
		"document.processing.duration",
		metric.WithDescription("Document extraction and chunking duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	documentsProcessed, err := meter.Int64Counter(
		"document.processed.total",
		metric.WithDescription("Documents run through the pipeline, by format and outcome"),
	)
	if err != nil {
		return nil, err
	}

	chunksProduced, err := meter.Int64Counter(
		"document.chunks.total",
		metric.WithDescription("Chunks produced by the pipeline"),
	)
	if err != nil {
		return nil, err
	}

	return &Metrics{
		RequestCounter:     requestCounter,
		RequestDuration:    requestDuration,
		DocumentDuration:   documentDuration,
		DocumentsProcessed: documentsProcessed,
		ChunksProduced:     chunksProduced,
	}, nil
}

// RecordRequest records HTTP request metrics
func (m *Metrics) RecordRequest(method, path, status string, duration float64) {
	if m == nil {
		return
	}
	attrs := []attribute.KeyValue{
		attribute.String("http.method", method),
		attribute.String("http.path", path),
		attribute.String("http.status", status),
	}

	m.RequestCounter.Add(context.Background(), 1, metric.WithAttributes(attrs...))
	m.RequestDuration.Record(context.Background(), duration, metric.WithAttributes(attrs...))
}

// RecordDocument records one pipeline run. outcome is "success" or the
// error kind.
func (m *Metrics) RecordDocument(ctx context.Context, format, outcome string, duration float64, chunks int) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(
		attribute.String("document.format", format),
		attribute.String("document.outcome", outcome),
	)

	m.DocumentsProcessed.Add(ctx, 1, attrs)
	m.DocumentDuration.Record(ctx, duration, attrs)
	if chunks > 0 {
		m.ChunksProduced.Add(ctx, int64(chunks), metric.WithAttributes(attribute.String("document.format", format)))
	}
}
