// Package observe provides logging, tracing and metrics for encoder runs.
//
// Logger is a small structured interface backed by zap. Middleware wraps an
// EncodeFunc so each output encoding gets a span named
// "webvideo.encode.<container>", duration and error metrics, and one log
// entry. Cache lookups are counted by result on "webvideo.cache.lookups".
//
// Exporters are selected by name (otlp, prometheus, stdout, none); see the
// exporters subpackage.
package observe
