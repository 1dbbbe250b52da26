package infrastructure

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.28.0"
	"go.opentelemetry.io/otel/trace"

	"signalcli/internal/config"
)

// Tracing holds the span pipeline wired by InitializeTracing.
type Tracing struct {
	provider *sdktrace.TracerProvider
	logger   *slog.Logger

	// Tracer creates the per-stage spans. It is a no-op tracer when tracing
	// is disabled, so callers never branch on the setting.
	Tracer trace.Tracer
}

// InitializeTracing sets up OpenTelemetry span export to stdout when enabled
// by configuration. Disabled tracing yields a no-op Tracer and a Shutdown
// that does nothing.
func InitializeTracing(ctx context.Context, cfg config.TracingConfig, logger *slog.Logger) (*Tracing, error) {
	if logger == nil {
		logger = slog.Default()
	}

	if !cfg.Enabled {
		return &Tracing{
			logger: logger,
			Tracer: otel.Tracer(config.AppName),
		}, nil
	}

	exporter, err := stdouttrace.New(
		stdouttrace.WithPrettyPrint(),
	)
	if err != nil {
		return nil, fmt.Errorf("create trace exporter: %w", err)
	}

	res, err := resource.Merge(resource.Default(), resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(config.AppName),
		semconv.ServiceVersion(config.AppVersion),
	))
	if err != nil {
		return nil, fmt.Errorf("create trace resource: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
	)
	otel.SetTracerProvider(tp)

	logger.InfoContext(ctx, "tracing initialized", "exporter", "stdout")

	return &Tracing{
		provider: tp,
		logger:   logger,
		Tracer:   tp.Tracer(config.AppName, trace.WithInstrumentationVersion(config.AppVersion)),
	}, nil
}

// Shutdown flushes and stops the span pipeline.
func (t *Tracing) Shutdown(ctx context.Context) error {
	if t.provider == nil {
		return nil
	}
	if err := t.provider.Shutdown(ctx); err != nil {
		return fmt.Errorf("tracer provider shutdown: %w", err)
	}
	t.logger.InfoContext(ctx, "tracing shutdown complete")
	return nil
}
