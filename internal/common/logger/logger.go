package logger

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger writes one JSON object per line:
// timestamp, level, service, action, message, hostname, request_id + fields.
type Logger struct {
	service   string
	requestID string
	z         *zap.Logger
}

type options struct {
	w     io.Writer
	level zapcore.Level
}

type Option func(*options)

func WithWriter(w io.Writer) Option { return func(o *options) { o.w = w } }

// WithLevel accepts debug|info|warn|error; anything else keeps the default.
func WithLevel(level string) Option {
	return func(o *options) {
		var lvl zapcore.Level
		if err := lvl.UnmarshalText([]byte(level)); err == nil {
			o.level = lvl
		}
	}
}

func New(service string, opts ...Option) *Logger {
	o := options{w: os.Stdout, level: zapcore.DebugLevel}
	for _, opt := range opts {
		opt(&o)
	}
	enc := zapcore.NewJSONEncoder(zapcore.EncoderConfig{
		TimeKey:        "timestamp",
		LevelKey:       "level",
		MessageKey:     "message",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.CapitalLevelEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
		EncodeTime: func(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
			enc.AppendString(t.UTC().Format(time.RFC3339Nano))
		},
	})
	core := zapcore.NewCore(enc, zapcore.AddSync(o.w), o.level)
	z := zap.New(core).With(zap.String("service", service), zap.String("hostname", hostname()))
	return &Logger{service: service, z: z}
}

// Nop discards everything. Handy for tests and optional dependencies.
func Nop() *Logger { return &Logger{z: zap.NewNop()} }

// WithRequestID returns a child logger stamped with the given request id.
func (l *Logger) WithRequestID(id string) *Logger {
	return &Logger{service: l.service, requestID: id, z: l.z}
}

func (l *Logger) RequestID() string { return l.requestID }

func (l *Logger) log(level zapcore.Level, action, msg string, fields map[string]any, err error) {
	ce := l.z.Check(level, msg)
	if ce == nil {
		return
	}
	zf := make([]zap.Field, 0, len(fields)+3)
	zf = append(zf, zap.String("action", action), zap.String("request_id", l.requestID))
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		zf = append(zf, zap.Any(k, fields[k]))
	}
	if err != nil {
		zf = append(zf, zap.Any("error", map[string]any{"msg": err.Error(), "stack": fmt.Sprintf("%T", err)}))
	}
	ce.Write(zf...)
}

func (l *Logger) Info(action string, fields map[string]any)  { l.log(zapcore.InfoLevel, action, action, fields, nil) }
func (l *Logger) Debug(action string, fields map[string]any) { l.log(zapcore.DebugLevel, action, action, fields, nil) }
func (l *Logger) Warn(action string, fields map[string]any)  { l.log(zapcore.WarnLevel, action, action, fields, nil) }
func (l *Logger) Error(action string, err error, fields map[string]any) {
	l.log(zapcore.ErrorLevel, action, action, fields, err)
}

func (l *Logger) Sync() error { return l.z.Sync() }

type ctxKey struct{}

func IntoContext(ctx context.Context, l *Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

// FromContext returns the request-scoped logger, or fallback when none is set.
func FromContext(ctx context.Context, fallback *Logger) *Logger {
	if l, ok := ctx.Value(ctxKey{}).(*Logger); ok && l != nil {
		return l
	}
	return fallback
}

func hostname() string { h, _ := os.Hostname(); return h }
