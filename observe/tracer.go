package observe

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
)

// OutputMeta identifies one output encoding of an asset for telemetry.
type OutputMeta struct {
	Asset      string // source asset name
	Index      int    // position in the output list
	Container  string // required
	VideoCodec string
	AudioCodec string
	Key        string // cache key, empty when caching is disabled
}

// SpanName returns "webvideo.encode.<container>".
func (m OutputMeta) SpanName() string {
	return "webvideo.encode." + m.Container
}

// Label renders a short human form such as "webm/vp9/opus".
func (m OutputMeta) Label() string {
	s := m.Container
	if m.VideoCodec != "" {
		s += "/" + m.VideoCodec
	}
	if m.AudioCodec != "" {
		s += "/" + m.AudioCodec
	}
	return s
}

// Validate reports ErrMissingContainer for an empty container.
func (m OutputMeta) Validate() error {
	if m.Container == "" {
		return ErrMissingContainer
	}
	return nil
}

func (m OutputMeta) attributes() []attribute.KeyValue {
	attrs := []attribute.KeyValue{
		attribute.String("webvideo.container", m.Container),
		attribute.Int("webvideo.output.index", m.Index),
	}
	if m.Asset != "" {
		attrs = append(attrs, attribute.String("webvideo.asset", m.Asset))
	}
	if m.VideoCodec != "" {
		attrs = append(attrs, attribute.String("webvideo.video_codec", m.VideoCodec))
	}
	if m.AudioCodec != "" {
		attrs = append(attrs, attribute.String("webvideo.audio_codec", m.AudioCodec))
	}
	if m.Key != "" {
		attrs = append(attrs, attribute.String("webvideo.cache.key", m.Key))
	}
	return attrs
}

func (m OutputMeta) fields() []Field {
	fs := []Field{
		F("output", m.Label()),
		F("output.index", m.Index),
	}
	if m.Asset != "" {
		fs = append(fs, F("asset", m.Asset))
	}
	if m.Key != "" {
		fs = append(fs, F("cache.key", m.Key))
	}
	return fs
}

// Tracer wraps OpenTelemetry tracing with per-output span management.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Errors: EndSpan must be best-effort and must not panic.
type Tracer interface {
	// StartSpan starts a span for one output encoding.
	StartSpan(ctx context.Context, meta OutputMeta) (context.Context, trace.Span)

	// EndSpan ends the span, recording any error.
	EndSpan(span trace.Span, err error)
}

type tracerImpl struct {
	tracer trace.Tracer
}

// NewTracer wraps an OpenTelemetry tracer.
func NewTracer(t trace.Tracer) Tracer {
	if t == nil {
		return newNoopTracer()
	}
	return &tracerImpl{tracer: t}
}

func (t *tracerImpl) StartSpan(ctx context.Context, meta OutputMeta) (context.Context, trace.Span) {
	attrs := append(meta.attributes(), attribute.Bool("webvideo.error", false))
	return t.tracer.Start(ctx, meta.SpanName(),
		trace.WithAttributes(attrs...),
		trace.WithSpanKind(trace.SpanKindInternal),
	)
}

func (t *tracerImpl) EndSpan(span trace.Span, err error) {
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		span.SetAttributes(attribute.Bool("webvideo.error", true))
		span.RecordError(err)
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}

type noopTracer struct {
	noop trace.Tracer
}

func newNoopTracer() Tracer {
	return &noopTracer{noop: tracenoop.NewTracerProvider().Tracer("noop")}
}

func (t *noopTracer) StartSpan(ctx context.Context, meta OutputMeta) (context.Context, trace.Span) {
	return t.noop.Start(ctx, meta.SpanName())
}

func (t *noopTracer) EndSpan(span trace.Span, _ error) {
	span.End()
}
