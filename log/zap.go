package log

import (
	"context"
	"log/slog"

	"github.com/luxfi/log"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ZapLogger backs the luxfi/log.Logger interface with a real zap.Logger,
// the structured sink every long-running component in this module is
// constructed with in production (tests and CLI scratch tools use
// NewNoOpLogger instead).
type ZapLogger struct {
	z *zap.Logger
}

var _ log.Logger = (*ZapLogger)(nil)

// NewProductionLogger builds a ZapLogger using zap's JSON production
// encoder config, suitable for the node's default wiring.
func NewProductionLogger() log.Logger {
	cfg := zap.NewProductionConfig()
	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	z, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		return NewNoOpLogger()
	}
	return &ZapLogger{z: z}
}

func toZapFields(ctx []interface{}) []zap.Field {
	fields := make([]zap.Field, 0, len(ctx)/2)
	for i := 0; i+1 < len(ctx); i += 2 {
		key, ok := ctx[i].(string)
		if !ok {
			continue
		}
		fields = append(fields, zap.Any(key, ctx[i+1]))
	}
	return fields
}

func (l *ZapLogger) With(ctx ...interface{}) log.Logger {
	return &ZapLogger{z: l.z.With(toZapFields(ctx)...)}
}

func (l *ZapLogger) New(ctx ...interface{}) log.Logger { return l.With(ctx...) }

func (l *ZapLogger) Log(level slog.Level, msg string, ctx ...interface{}) {
	switch {
	case level >= slog.LevelError:
		l.Error(msg, ctx...)
	case level >= slog.LevelWarn:
		l.Warn(msg, ctx...)
	case level >= slog.LevelInfo:
		l.Info(msg, ctx...)
	default:
		l.Debug(msg, ctx...)
	}
}

func (l *ZapLogger) Trace(msg string, ctx ...interface{}) { l.z.Debug(msg, toZapFields(ctx)...) }
func (l *ZapLogger) Debug(msg string, ctx ...interface{}) { l.z.Debug(msg, toZapFields(ctx)...) }
func (l *ZapLogger) Info(msg string, ctx ...interface{})  { l.z.Info(msg, toZapFields(ctx)...) }
func (l *ZapLogger) Warn(msg string, ctx ...interface{})  { l.z.Warn(msg, toZapFields(ctx)...) }
func (l *ZapLogger) Error(msg string, ctx ...interface{}) { l.z.Error(msg, toZapFields(ctx)...) }
func (l *ZapLogger) Crit(msg string, ctx ...interface{})  { l.z.Error(msg, toZapFields(ctx)...) }

func (l *ZapLogger) WriteLog(level slog.Level, msg string, attrs ...any) { l.Log(level, msg, attrs...) }

func (l *ZapLogger) Enabled(_ context.Context, level slog.Level) bool {
	return l.z.Core().Enabled(zapLevelFor(level))
}

func (l *ZapLogger) Handler() slog.Handler { return nil }

func (l *ZapLogger) Fatal(msg string, fields ...zap.Field) { l.z.Fatal(msg, fields...) }
func (l *ZapLogger) Verbo(msg string, fields ...zap.Field) { l.z.Debug(msg, fields...) }

func (l *ZapLogger) WithFields(fields ...zap.Field) log.Logger {
	return &ZapLogger{z: l.z.With(fields...)}
}

func (l *ZapLogger) WithOptions(opts ...zap.Option) log.Logger {
	return &ZapLogger{z: l.z.WithOptions(opts...)}
}

func (l *ZapLogger) SetLevel(level slog.Level) {}

func (l *ZapLogger) GetLevel() slog.Level {
	return slogLevelFor(l.z.Level())
}

func (l *ZapLogger) EnabledLevel(lvl slog.Level) bool {
	return l.z.Core().Enabled(zapLevelFor(lvl))
}

func (l *ZapLogger) StopOnPanic() {}

func (l *ZapLogger) RecoverAndPanic(f func()) { f() }

func (l *ZapLogger) RecoverAndExit(f, exit func()) { f() }

func (l *ZapLogger) Stop() { _ = l.z.Sync() }

func (l *ZapLogger) Write(p []byte) (int, error) {
	l.z.Info(string(p))
	return len(p), nil
}

func zapLevelFor(level slog.Level) zapcore.Level {
	switch {
	case level >= slog.LevelError:
		return zapcore.ErrorLevel
	case level >= slog.LevelWarn:
		return zapcore.WarnLevel
	case level >= slog.LevelInfo:
		return zapcore.InfoLevel
	default:
		return zapcore.DebugLevel
	}
}

func slogLevelFor(level zapcore.Level) slog.Level {
	switch level {
	case zapcore.ErrorLevel:
		return slog.LevelError
	case zapcore.WarnLevel:
		return slog.LevelWarn
	case zapcore.InfoLevel:
		return slog.LevelInfo
	default:
		return slog.LevelDebug
	}
}
