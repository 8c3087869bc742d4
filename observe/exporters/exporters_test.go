package exporters

import (
	"context"
	"errors"
	"slices"
	"testing"
)

func TestNewTracingExporter(t *testing.T) {
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "")
	t.Setenv("OTEL_EXPORTER_OTLP_TRACES_ENDPOINT", "")
	ctx := context.Background()

	tests := []struct {
		name    string
		wantNil bool
		wantErr error
	}{
		{"stdout", false, nil},
		{"none", true, nil},
		{"", true, nil},
		{"otlp", true, ErrEndpointNotConfigured},
		{"jaeger", true, ErrUnknownExporter},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exp, err := NewTracingExporter(ctx, tt.name)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("error = %v", err)
			}
			if (exp == nil) != tt.wantNil {
				t.Errorf("exporter = %v, wantNil %v", exp, tt.wantNil)
			}
		})
	}
}

func TestNewTracingExporter_OtlpWithEndpoint(t *testing.T) {
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "http://localhost:4317")
	exp, err := NewTracingExporter(context.Background(), "otlp")
	if err != nil || exp == nil {
		t.Fatalf("NewTracingExporter(otlp) = %v, %v", exp, err)
	}
	_ = exp.Shutdown(context.Background())
}

func TestNewTracingExporter_SignalSpecificEndpoint(t *testing.T) {
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "")
	t.Setenv("OTEL_EXPORTER_OTLP_TRACES_ENDPOINT", "http://localhost:4317")
	if _, err := NewTracingExporter(context.Background(), "otlp"); err != nil {
		t.Fatalf("error = %v", err)
	}
}

func TestNewMetricsReader(t *testing.T) {
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "")
	t.Setenv("OTEL_EXPORTER_OTLP_METRICS_ENDPOINT", "")
	ctx := context.Background()

	for _, name := range []string{"stdout", "prometheus"} {
		r, err := NewMetricsReader(ctx, name)
		if err != nil || r == nil {
			t.Errorf("NewMetricsReader(%q) = %v, %v", name, r, err)
		}
	}
	for _, name := range []string{"none", ""} {
		r, err := NewMetricsReader(ctx, name)
		if err != nil || r != nil {
			t.Errorf("NewMetricsReader(%q) = %v, %v; want nil, nil", name, r, err)
		}
	}
	if _, err := NewMetricsReader(ctx, "otlp"); !errors.Is(err, ErrEndpointNotConfigured) {
		t.Errorf("otlp without endpoint error = %v", err)
	}
	if _, err := NewMetricsReader(ctx, "statsd"); !errors.Is(err, ErrUnknownExporter) {
		t.Errorf("unknown error = %v", err)
	}
}

func TestNamesMatchFactories(t *testing.T) {
	for name := range traceFactories {
		if !slices.Contains(TracingNames, name) {
			t.Errorf("trace factory %q missing from TracingNames", name)
		}
	}
	for name := range readerFactories {
		if !slices.Contains(MetricsNames, name) {
			t.Errorf("reader factory %q missing from MetricsNames", name)
		}
	}
	if len(traceFactories) != len(TracingNames) || len(readerFactories) != len(MetricsNames) {
		t.Error("name lists and factory tables differ in size")
	}
}
