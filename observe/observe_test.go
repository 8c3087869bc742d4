package observe

import (
	"context"
	"errors"
	"testing"
)

func TestConfigValidate(t *testing.T) {
	valid := Config{
		ServiceName: "webvideo",
		Version:     "1.0.0",
		Tracing:     TracingConfig{Enabled: true, Exporter: "stdout", SamplePct: 1.0},
		Metrics:     MetricsConfig{Enabled: true, Exporter: "stdout"},
		Logging:     LoggingConfig{Enabled: true, Level: "info"},
	}

	tests := []struct {
		name   string
		mutate func(*Config)
		want   error
	}{
		{"valid", func(*Config) {}, nil},
		{"missing service name", func(c *Config) { c.ServiceName = "" }, ErrMissingServiceName},
		{"unknown tracing exporter", func(c *Config) { c.Tracing.Exporter = "jaeger" }, ErrInvalidTracingExporter},
		{"sample pct too high", func(c *Config) { c.Tracing.SamplePct = 1.5 }, ErrInvalidSamplePct},
		{"sample pct negative", func(c *Config) { c.Tracing.SamplePct = -0.1 }, ErrInvalidSamplePct},
		{"unknown metrics exporter", func(c *Config) { c.Metrics.Exporter = "statsd" }, ErrInvalidMetricsExporter},
		{"unknown log level", func(c *Config) { c.Logging.Level = "trace" }, ErrInvalidLogLevel},
		{"disabled tracing ignores exporter", func(c *Config) {
			c.Tracing.Enabled = false
			c.Tracing.Exporter = "bogus"
		}, nil},
		{"disabled logging ignores level", func(c *Config) {
			c.Logging.Enabled = false
			c.Logging.Level = "bogus"
		}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.want == nil {
				if err != nil {
					t.Fatalf("Validate() = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.want) {
				t.Fatalf("Validate() = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestNewObserver_DisabledUsesNoops(t *testing.T) {
	obs, err := NewObserver(context.Background(), Config{ServiceName: "webvideo"})
	if err != nil {
		t.Fatalf("NewObserver() error = %v", err)
	}
	if obs.Tracer() == nil || obs.Meter() == nil || obs.Logger() == nil {
		t.Fatal("expected non-nil primitives")
	}
	if _, ok := obs.Logger().(nopLogger); !ok {
		t.Errorf("Logger() = %T, want nopLogger", obs.Logger())
	}
	if err := obs.Shutdown(context.Background()); err != nil {
		t.Errorf("Shutdown() error = %v", err)
	}
}

func TestNewObserver_EnabledNoneExporters(t *testing.T) {
	ctx := context.Background()
	obs, err := NewObserver(ctx, Config{
		ServiceName: "webvideo",
		Tracing:     TracingConfig{Enabled: true, Exporter: "none", SamplePct: 0.5},
		Metrics:     MetricsConfig{Enabled: true, Exporter: "none"},
		Logging:     LoggingConfig{Enabled: true, Level: "error"},
	})
	if err != nil {
		t.Fatalf("NewObserver() error = %v", err)
	}
	_, span := obs.Tracer().Start(ctx, "probe")
	span.End()
	if err := obs.Shutdown(ctx); err != nil {
		t.Errorf("Shutdown() error = %v", err)
	}
}

func TestNewObserver_InvalidConfig(t *testing.T) {
	_, err := NewObserver(context.Background(), Config{})
	if !errors.Is(err, ErrMissingServiceName) {
		t.Fatalf("NewObserver() error = %v, want ErrMissingServiceName", err)
	}
}

func TestMiddlewareFromObserver_Nil(t *testing.T) {
	if _, err := MiddlewareFromObserver(nil); !errors.Is(err, ErrNilObserver) {
		t.Fatalf("MiddlewareFromObserver(nil) error = %v", err)
	}
}

func TestNopContracts(t *testing.T) {
	ctx := context.Background()
	var l Logger = NopLogger()
	l.With(F("k", "v")).WithOutput(OutputMeta{Container: "mp4"}).Info(ctx, "ignored")
	if err := l.Sync(); err != nil {
		t.Errorf("Sync() = %v", err)
	}
	noopMetrics{}.RecordEncode(ctx, OutputMeta{}, 0, errors.New("x"))
	noopMetrics{}.RecordCacheLookup(ctx, OutputMeta{}, LookupHit)
}
