package observe

import (
	"context"
	"errors"
	"testing"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func newRecordingTracer() (Tracer, *tracetest.SpanRecorder) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	return NewTracer(tp.Tracer("test")), recorder
}

func spanAttr(span sdktrace.ReadOnlySpan, key string) (attribute.Value, bool) {
	for _, kv := range span.Attributes() {
		if string(kv.Key) == key {
			return kv.Value, true
		}
	}
	return attribute.Value{}, false
}

func TestOutputMeta(t *testing.T) {
	meta := OutputMeta{Container: "webm", VideoCodec: "vp9", AudioCodec: "opus"}
	if got := meta.SpanName(); got != "webvideo.encode.webm" {
		t.Errorf("SpanName() = %q", got)
	}
	if got := meta.Label(); got != "webm/vp9/opus" {
		t.Errorf("Label() = %q", got)
	}
	if got := (OutputMeta{Container: "mp4"}).Label(); got != "mp4" {
		t.Errorf("Label() = %q", got)
	}
	if err := (OutputMeta{}).Validate(); !errors.Is(err, ErrMissingContainer) {
		t.Errorf("Validate() = %v", err)
	}
	if err := meta.Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}
}

func TestTracer_SuccessSpan(t *testing.T) {
	tracer, recorder := newRecordingTracer()
	meta := OutputMeta{Asset: "intro.mov", Index: 2, Container: "mp4", VideoCodec: "h.264", AudioCodec: "aac", Key: "abc"}

	_, span := tracer.StartSpan(context.Background(), meta)
	tracer.EndSpan(span, nil)

	spans := recorder.Ended()
	if len(spans) != 1 {
		t.Fatalf("got %d spans, want 1", len(spans))
	}
	s := spans[0]
	if s.Name() != "webvideo.encode.mp4" {
		t.Errorf("Name() = %q", s.Name())
	}
	if s.Status().Code != codes.Ok {
		t.Errorf("Status = %v, want Ok", s.Status())
	}
	want := map[string]attribute.Value{
		"webvideo.container":    attribute.StringValue("mp4"),
		"webvideo.video_codec":  attribute.StringValue("h.264"),
		"webvideo.audio_codec":  attribute.StringValue("aac"),
		"webvideo.asset":        attribute.StringValue("intro.mov"),
		"webvideo.cache.key":    attribute.StringValue("abc"),
		"webvideo.output.index": attribute.IntValue(2),
		"webvideo.error":        attribute.BoolValue(false),
	}
	for k, v := range want {
		got, ok := spanAttr(s, k)
		if !ok || got != v {
			t.Errorf("attr %s = %v (present %v), want %v", k, got.Emit(), ok, v.Emit())
		}
	}
}

func TestTracer_ErrorSpan(t *testing.T) {
	tracer, recorder := newRecordingTracer()
	_, span := tracer.StartSpan(context.Background(), OutputMeta{Container: "webm"})
	tracer.EndSpan(span, errors.New("ffmpeg exited 1"))

	s := recorder.Ended()[0]
	if s.Status().Code != codes.Error || s.Status().Description != "ffmpeg exited 1" {
		t.Errorf("Status = %+v", s.Status())
	}
	if v, _ := spanAttr(s, "webvideo.error"); !v.AsBool() {
		t.Error("webvideo.error should be true")
	}
	if len(s.Events()) == 0 || s.Events()[0].Name != "exception" {
		t.Errorf("expected recorded exception event, got %v", s.Events())
	}
}

func TestTracer_NilFallsBackToNoop(t *testing.T) {
	tracer := NewTracer(nil)
	_, span := tracer.StartSpan(context.Background(), OutputMeta{Container: "mp4"})
	tracer.EndSpan(span, errors.New("ignored"))
	if span.SpanContext().IsValid() {
		t.Error("noop span should have an invalid span context")
	}
}
