// Package exporters builds OpenTelemetry span exporters and metric readers
// by name.
package exporters

import (
	"context"
	"errors"
	"fmt"
	"os"

	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// ErrEndpointNotConfigured is returned for otlp when none of the endpoint
// environment variables is set.
var ErrEndpointNotConfigured = errors.New("exporters: otlp endpoint not configured")

// ErrUnknownExporter is returned for names missing from the tables.
var ErrUnknownExporter = errors.New("exporters: unknown exporter")

// TracingNames lists accepted tracing exporter names. "" and "none" build
// no exporter.
var TracingNames = []string{"otlp", "stdout", "none", ""}

// MetricsNames lists accepted metrics exporter names.
var MetricsNames = []string{"otlp", "prometheus", "stdout", "none", ""}

type traceFactory func(ctx context.Context) (sdktrace.SpanExporter, error)

type readerFactory func(ctx context.Context) (sdkmetric.Reader, error)

var traceFactories = map[string]traceFactory{
	"stdout": func(context.Context) (sdktrace.SpanExporter, error) {
		return stdouttrace.New(stdouttrace.WithWriter(os.Stdout))
	},
	"otlp": func(ctx context.Context) (sdktrace.SpanExporter, error) {
		if err := requireEndpoint("OTEL_EXPORTER_OTLP_TRACES_ENDPOINT"); err != nil {
			return nil, err
		}
		return otlptracegrpc.New(ctx)
	},
	"none": func(context.Context) (sdktrace.SpanExporter, error) { return nil, nil },
	"":     func(context.Context) (sdktrace.SpanExporter, error) { return nil, nil },
}

var readerFactories = map[string]readerFactory{
	"stdout": func(context.Context) (sdkmetric.Reader, error) {
		exp, err := stdoutmetric.New(stdoutmetric.WithWriter(os.Stdout))
		if err != nil {
			return nil, err
		}
		return sdkmetric.NewPeriodicReader(exp), nil
	},
	"otlp": func(ctx context.Context) (sdkmetric.Reader, error) {
		if err := requireEndpoint("OTEL_EXPORTER_OTLP_METRICS_ENDPOINT"); err != nil {
			return nil, err
		}
		exp, err := otlpmetricgrpc.New(ctx)
		if err != nil {
			return nil, err
		}
		return sdkmetric.NewPeriodicReader(exp), nil
	},
	"prometheus": func(context.Context) (sdkmetric.Reader, error) {
		return prometheus.New()
	},
	"none": func(context.Context) (sdkmetric.Reader, error) { return nil, nil },
	"":     func(context.Context) (sdkmetric.Reader, error) { return nil, nil },
}

// NewTracingExporter creates the span exporter registered under name. The
// exporter is nil for "none" and "".
func NewTracingExporter(ctx context.Context, name string) (sdktrace.SpanExporter, error) {
	f, ok := traceFactories[name]
	if !ok {
		return nil, fmt.Errorf("%w: tracing %q", ErrUnknownExporter, name)
	}
	exp, err := f(ctx)
	if err != nil {
		return nil, fmt.Errorf("exporters: tracing %s: %w", name, err)
	}
	return exp, nil
}

// NewMetricsReader creates the metric reader registered under name. The
// reader is nil for "none" and "".
func NewMetricsReader(ctx context.Context, name string) (sdkmetric.Reader, error) {
	f, ok := readerFactories[name]
	if !ok {
		return nil, fmt.Errorf("%w: metrics %q", ErrUnknownExporter, name)
	}
	r, err := f(ctx)
	if err != nil {
		return nil, fmt.Errorf("exporters: metrics %s: %w", name, err)
	}
	return r, nil
}

func requireEndpoint(signalVar string) error {
	if os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT") != "" || os.Getenv(signalVar) != "" {
		return nil
	}
	return fmt.Errorf("%w: set OTEL_EXPORTER_OTLP_ENDPOINT or %s", ErrEndpointNotConfigured, signalVar)
}
