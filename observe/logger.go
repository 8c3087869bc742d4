package observe

import (
	"context"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const redacted = "[REDACTED]"

// zapLogger adapts a zap core to Logger.
type zapLogger struct {
	z *zap.Logger
}

// NewLogger creates a JSON logger writing to stderr at level. Unknown levels
// fall back to info.
func NewLogger(level string) Logger {
	return NewLoggerWithWriter(level, os.Stderr)
}

// NewLoggerWithWriter creates a JSON logger writing to w.
func NewLoggerWithWriter(level string, w io.Writer) Logger {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zapcore.InfoLevel
	}
	enc := zapcore.NewJSONEncoder(zapcore.EncoderConfig{
		TimeKey:        "timestamp",
		LevelKey:       "level",
		MessageKey:     "msg",
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     zapcore.RFC3339NanoTimeEncoder,
		EncodeDuration: zapcore.MillisDurationEncoder,
		LineEnding:     zapcore.DefaultLineEnding,
	})
	core := zapcore.NewCore(enc, zapcore.Lock(zapcore.AddSync(w)), lvl)
	return &zapLogger{z: zap.New(core)}
}

func (l *zapLogger) Info(_ context.Context, msg string, fields ...Field) {
	l.z.Info(msg, zapFields(fields)...)
}

func (l *zapLogger) Warn(_ context.Context, msg string, fields ...Field) {
	l.z.Warn(msg, zapFields(fields)...)
}

func (l *zapLogger) Error(_ context.Context, msg string, fields ...Field) {
	l.z.Error(msg, zapFields(fields)...)
}

func (l *zapLogger) Debug(_ context.Context, msg string, fields ...Field) {
	l.z.Debug(msg, zapFields(fields)...)
}

func (l *zapLogger) With(fields ...Field) Logger {
	return &zapLogger{z: l.z.With(zapFields(fields)...)}
}

func (l *zapLogger) WithOutput(meta OutputMeta) Logger {
	return l.With(meta.fields()...)
}

func (l *zapLogger) Sync() error {
	return l.z.Sync()
}

func zapFields(fields []Field) []zap.Field {
	if len(fields) == 0 {
		return nil
	}
	out := make([]zap.Field, 0, len(fields))
	for _, f := range fields {
		if isRedactedField(f.Key) {
			out = append(out, zap.String(f.Key, redacted))
			continue
		}
		if err, ok := f.Value.(error); ok {
			out = append(out, zap.String(f.Key, err.Error()))
			continue
		}
		out = append(out, zap.Any(f.Key, f.Value))
	}
	return out
}

func isRedactedField(key string) bool {
	key = strings.ToLower(key)
	for _, k := range RedactedFields {
		if key == k || strings.HasSuffix(key, "."+k) {
			return true
		}
	}
	return false
}

type nopLogger struct{}

// NopLogger returns a Logger that discards everything.
func NopLogger() Logger { return nopLogger{} }

func (nopLogger) Info(context.Context, string, ...Field)  {}
func (nopLogger) Warn(context.Context, string, ...Field)  {}
func (nopLogger) Error(context.Context, string, ...Field) {}
func (nopLogger) Debug(context.Context, string, ...Field) {}
func (n nopLogger) With(...Field) Logger                  { return n }
func (n nopLogger) WithOutput(OutputMeta) Logger          { return n }
func (nopLogger) Sync() error                             { return nil }
