package logger

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/DioGolang/GoTodo/pkg/otel"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type zapLogger struct {
	log *zap.Logger
}

type options struct {
	out   io.Writer
	level *zapcore.Level
	cores []zapcore.Core
}

type Option func(*options)

func WithOutput(w io.Writer) Option {
	return func(o *options) { o.out = w }
}

// WithLevel overrides the environment default. Unknown names are ignored.
func WithLevel(level string) Option {
	return func(o *options) {
		l, err := zapcore.ParseLevel(level)
		if err == nil {
			o.level = &l
		}
	}
}

// WithCore tees records into an extra core, e.g. an OTLP bridge.
func WithCore(c zapcore.Core) Option {
	return func(o *options) {
		if c != nil {
			o.cores = append(o.cores, c)
		}
	}
}

func NewLogger(serviceName string, isProd bool, opts ...Option) Logger {
	o := &options{out: os.Stdout}
	for _, opt := range opts {
		opt(o)
	}

	var config zapcore.EncoderConfig
	level := zapcore.DebugLevel
	if isProd {
		config = zap.NewProductionEncoderConfig()
		level = zapcore.InfoLevel
	} else {
		config = zap.NewDevelopmentEncoderConfig()
	}
	if o.level != nil {
		level = *o.level
	}
	config.TimeKey = "timestamp"
	config.LevelKey = "level"
	config.MessageKey = "message"
	config.EncodeLevel = zapcore.LowercaseLevelEncoder
	config.EncodeTime = zapcore.ISO8601TimeEncoder

	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(config),
		zapcore.AddSync(o.out),
		level,
	)
	if len(o.cores) > 0 {
		core = zapcore.NewTee(append([]zapcore.Core{core}, o.cores...)...)
	}
	l := zap.New(core).With(zap.String("service", serviceName))
	return &zapLogger{log: l}
}

// Logging methods with Level Check for Performance

func (z *zapLogger) Info(ctx context.Context, msg string, fields ...Field) {
	z.write(ctx, zapcore.InfoLevel, msg, fields)
}

func (z *zapLogger) Debug(ctx context.Context, msg string, fields ...Field) {
	z.write(ctx, zapcore.DebugLevel, msg, fields)
}

func (z *zapLogger) Warn(ctx context.Context, msg string, fields ...Field) {
	z.write(ctx, zapcore.WarnLevel, msg, fields)
}

func (z *zapLogger) Error(ctx context.Context, msg string, fields ...Field) {
	z.write(ctx, zapcore.ErrorLevel, msg, fields)
}

func (z *zapLogger) With(fields ...Field) Logger {
	return &zapLogger{log: z.log.With(z.convertFields(fields)...)}
}

func (z *zapLogger) write(ctx context.Context, level zapcore.Level, msg string, fields []Field) {
	if !z.log.Core().Enabled(level) {
		return
	}
	defer func() {
		_ = recover()
	}()
	if ce := z.log.Check(level, msg); ce != nil {
		ce.Write(z.enrich(ctx, fields)...)
	}
}

// enrichment with OpenTelemetry
func (z *zapLogger) enrich(ctx context.Context, fields []Field) []zap.Field {
	zapFields := make([]zap.Field, 0, len(fields)+2)
	zapFields = append(zapFields, z.convertFields(fields)...)

	if ids, ok := otel.CurrentSpan(ctx); ok {
		zapFields = append(zapFields,
			zap.String("traceId", ids.TraceID),
			zap.String("spanId", ids.SpanID),
		)
	}
	return zapFields
}

func (z *zapLogger) convertFields(fields []Field) []zap.Field {
	if len(fields) == 0 {
		return nil
	}
	out := make([]zap.Field, len(fields))
	for i, f := range fields {
		out[i] = convertField(f)
	}
	return out
}

func convertField(f Field) zap.Field {
	val := f.Value
	if fn, ok := f.Value.(func() any); ok {
		val = fn()
	}
	switch f.Kind {
	case KindString:
		if v, ok := val.(string); ok {
			return zap.String(f.Key, v)
		}
	case KindInt:
		if v, ok := val.(int); ok {
			return zap.Int(f.Key, v)
		}
	case KindInt64:
		if v, ok := val.(int64); ok {
			return zap.Int64(f.Key, v)
		}
	case KindFloat64:
		if v, ok := val.(float64); ok {
			return zap.Float64(f.Key, v)
		}
	case KindBool:
		if v, ok := val.(bool); ok {
			return zap.Bool(f.Key, v)
		}
	case KindDuration:
		if v, ok := val.(time.Duration); ok {
			return zap.Duration(f.Key, v)
		}
	case KindError:
		if v, ok := val.(error); ok {
			return zap.Error(v)
		}
	}
	// Kind mismatch (ex: KindString passed with an Int value) or KindAny
	return zap.Any(f.Key, val)
}
