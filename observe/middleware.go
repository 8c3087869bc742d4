package observe

import (
	"context"
	"time"
)

// EncodeFunc produces the bytes of one output.
type EncodeFunc func(ctx context.Context) ([]byte, error)

// Middleware wraps encoder runs with tracing, metrics and logging.
//
// Contract:
//   - Concurrency: Wrap returns a function safe for concurrent use.
//   - Context: the span context is passed to the wrapped function.
//   - Errors: errors from the wrapped function are recorded and returned unchanged.
type Middleware struct {
	tracer  Tracer
	metrics Metrics
	logger  Logger
}

// NewMiddleware creates a Middleware. Nil components are replaced by no-ops.
func NewMiddleware(tracer Tracer, metrics Metrics, logger Logger) *Middleware {
	if tracer == nil {
		tracer = newNoopTracer()
	}
	if metrics == nil {
		metrics = noopMetrics{}
	}
	if logger == nil {
		logger = NopLogger()
	}
	return &Middleware{tracer: tracer, metrics: metrics, logger: logger}
}

// Nop returns a Middleware that records nothing.
func Nop() *Middleware {
	return NewMiddleware(nil, nil, nil)
}

// Wrap instruments fn as the encoder run described by meta.
func (m *Middleware) Wrap(meta OutputMeta, fn EncodeFunc) EncodeFunc {
	return func(ctx context.Context) ([]byte, error) {
		ctx, span := m.tracer.StartSpan(ctx, meta)
		start := time.Now()

		data, err := fn(ctx)

		duration := time.Since(start)
		m.tracer.EndSpan(span, err)
		m.metrics.RecordEncode(ctx, meta, duration, err)

		log := m.logger.WithOutput(meta)
		fields := []Field{F("duration_ms", duration.Milliseconds())}
		if err != nil {
			fields = append(fields, F("error", err))
			log.Error(ctx, "encode failed", fields...)
		} else {
			fields = append(fields, F("bytes", len(data)))
			log.Info(ctx, "encode completed", fields...)
		}
		return data, err
	}
}

// CacheLookup records the result of a cache lookup for meta.
func (m *Middleware) CacheLookup(ctx context.Context, meta OutputMeta, result string) {
	m.metrics.RecordCacheLookup(ctx, meta, result)
	m.logger.WithOutput(meta).Debug(ctx, "cache lookup", F("result", result))
}

// Warn logs a degraded failure for meta.
func (m *Middleware) Warn(ctx context.Context, meta OutputMeta, err error) {
	m.logger.WithOutput(meta).Warn(ctx, "degraded", F("error", err))
}

// Logger returns the middleware's logger.
func (m *Middleware) Logger() Logger { return m.logger }

// MiddlewareFromObserver creates a Middleware from an Observer.
func MiddlewareFromObserver(obs Observer) (*Middleware, error) {
	if obs == nil {
		return nil, ErrNilObserver
	}
	metrics, err := NewMetrics(obs.Meter())
	if err != nil {
		return nil, err
	}
	return NewMiddleware(NewTracer(obs.Tracer()), metrics, obs.Logger()), nil
}
