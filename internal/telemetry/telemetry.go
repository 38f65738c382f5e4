package telemetry

import (
	"context"
	"fmt"
	"os"

	"github.com/PauloHFS/blog/internal/config"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

const ServiceName = "blog"

// ShutdownFunc flushes pending spans.
type ShutdownFunc func(context.Context) error

// Init configura o tracer provider global conforme OTEL_EXPORTER.
// Com "none" o provider global continua no-op.
func Init(ctx context.Context, cfg *config.Config) (ShutdownFunc, error) {
	exporter, err := newExporter(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if exporter == nil {
		return func(context.Context) error { return nil }, nil
	}

	version := os.Getenv("VERSION")
	if version == "" {
		version = "dev"
	}

	res := resource.NewSchemaless(
		attribute.String("service.name", ServiceName),
		attribute.String("service.version", version),
		attribute.String("deployment.environment", cfg.Env),
	)

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(tp)

	return tp.Shutdown, nil
}

func newExporter(ctx context.Context, cfg *config.Config) (sdktrace.SpanExporter, error) {
	switch cfg.OTelExporter {
	case "", "none":
		return nil, nil
	case "stdout":
		exp, err := stdouttrace.New(stdouttrace.WithPrettyPrint())
		if err != nil {
			return nil, fmt.Errorf("failed to create stdout exporter: %w", err)
		}
		return exp, nil
	case "otlp-http":
		opts := []otlptracehttp.Option{}
		if cfg.OTelEndpoint != "" {
			opts = append(opts, otlptracehttp.WithEndpoint(cfg.OTelEndpoint))
		}
		if !cfg.IsProd() {
			opts = append(opts, otlptracehttp.WithInsecure())
		}
		exp, err := otlptracehttp.New(ctx, opts...)
		if err != nil {
			return nil, fmt.Errorf("failed to create otlp http exporter: %w", err)
		}
		return exp, nil
	case "otlp-grpc":
		opts := []otlptracegrpc.Option{}
		if cfg.OTelEndpoint != "" {
			opts = append(opts, otlptracegrpc.WithEndpoint(cfg.OTelEndpoint))
		}
		if !cfg.IsProd() {
			opts = append(opts, otlptracegrpc.WithInsecure())
		}
		exp, err := otlptracegrpc.New(ctx, opts...)
		if err != nil {
			return nil, fmt.Errorf("failed to create otlp grpc exporter: %w", err)
		}
		return exp, nil
	default:
		return nil, fmt.Errorf("unknown exporter %q", cfg.OTelExporter)
	}
}
