package observe

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Cache lookup results recorded by RecordCacheLookup.
const (
	LookupHit   = "hit"
	LookupMiss  = "miss"
	LookupError = "error"
)

// Metrics records encode and cache metrics.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Errors: implementations must not panic.
type Metrics interface {
	// RecordEncode records one encoder run with its duration and outcome.
	RecordEncode(ctx context.Context, meta OutputMeta, duration time.Duration, err error)

	// RecordCacheLookup records a cache lookup; result is LookupHit,
	// LookupMiss or LookupError.
	RecordCacheLookup(ctx context.Context, meta OutputMeta, result string)
}

type metricsImpl struct {
	encodeTotal  metric.Int64Counter
	encodeErrors metric.Int64Counter
	durationHist metric.Float64Histogram
	lookups      metric.Int64Counter
}

// NewMetrics registers the webvideo instruments on meter.
func NewMetrics(meter metric.Meter) (Metrics, error) {
	encodeTotal, err := meter.Int64Counter(
		"webvideo.encode.total",
		metric.WithDescription("Total number of encoder runs"),
		metric.WithUnit("{encode}"),
	)
	if err != nil {
		return nil, err
	}

	encodeErrors, err := meter.Int64Counter(
		"webvideo.encode.errors",
		metric.WithDescription("Total number of failed encoder runs"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return nil, err
	}

	durationHist, err := meter.Float64Histogram(
		"webvideo.encode.duration_ms",
		metric.WithDescription("Encoder run duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	lookups, err := meter.Int64Counter(
		"webvideo.cache.lookups",
		metric.WithDescription("Cache lookups by result"),
		metric.WithUnit("{lookup}"),
	)
	if err != nil {
		return nil, err
	}

	return &metricsImpl{
		encodeTotal:  encodeTotal,
		encodeErrors: encodeErrors,
		durationHist: durationHist,
		lookups:      lookups,
	}, nil
}

func (m *metricsImpl) RecordEncode(ctx context.Context, meta OutputMeta, duration time.Duration, err error) {
	attrs := []attribute.KeyValue{
		attribute.String("webvideo.container", meta.Container),
	}
	if meta.VideoCodec != "" {
		attrs = append(attrs, attribute.String("webvideo.video_codec", meta.VideoCodec))
	}
	opt := metric.WithAttributes(attrs...)

	m.encodeTotal.Add(ctx, 1, opt)
	if err != nil {
		m.encodeErrors.Add(ctx, 1, opt)
	}
	m.durationHist.Record(ctx, float64(duration.Milliseconds()), opt)
}

func (m *metricsImpl) RecordCacheLookup(ctx context.Context, meta OutputMeta, result string) {
	m.lookups.Add(ctx, 1, metric.WithAttributes(
		attribute.String("webvideo.container", meta.Container),
		attribute.String("result", result),
	))
}

type noopMetrics struct{}

func (noopMetrics) RecordEncode(context.Context, OutputMeta, time.Duration, error) {}
func (noopMetrics) RecordCacheLookup(context.Context, OutputMeta, string)          {}
