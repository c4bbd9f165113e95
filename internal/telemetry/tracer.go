package telemetry

import (
	"context"
	"fmt"
	"log/slog"

	"document-chunker/internal/config"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// ServiceName is used for the tracer, meter and resource
const ServiceName = "document-chunker"

// ServiceVersion is reported on the trace resource and by the CLI
const ServiceVersion = "1.0.0"

// InitTracer installs an OTLP gRPC trace exporter when tracing is enabled.
// The returned func flushes and shuts the provider down; it is a no-op when
// tracing is disabled.
func InitTracer(ctx context.Context, cfg *config.Config) (func(context.Context), error) {
	if !cfg.OTelEnabled {
		return func(context.Context) {}, nil
	}

	exporter, err := otlptracegrpc.New(ctx,
		otlptracegrpc.WithEndpoint(cfg.OTelEndpoint),
		otlptracegrpc.WithInsecure(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create OTLP exporter: %w", err)
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			attribute.String("service.name", ServiceName),
			attribute.String("service.version", ServiceVersion),
			attribute.String("deployment.environment", cfg.GinMode),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(cfg.OTelSampleRatio))),
	)

	otel.SetTracerProvider(tp)

	slog.Info("OpenTelemetry tracer initialized", "endpoint", cfg.OTelEndpoint, "sample_ratio", cfg.OTelSampleRatio)

	return func(ctx context.Context) {
		if err := tp.Shutdown(ctx); err != nil {
			slog.Error("Failed to shutdown tracer", "error", err)
		}
	}, nil
}
