package postgres

import (
	"context"

	"skill-match/internal/logger"

	"github.com/jackc/pgx/v5/tracelog"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type zapTraceLogger struct {
	log *zap.Logger
}

func (l zapTraceLogger) Log(_ context.Context, level tracelog.LogLevel, msg string, data map[string]any) {
	fields := make([]zap.Field, 0, len(data))
	for k, v := range data {
		fields = append(fields, zap.Any(k, v))
	}
	switch level {
	case tracelog.LogLevelTrace, tracelog.LogLevelDebug:
		l.log.Debug(msg, fields...)
	case tracelog.LogLevelInfo:
		l.log.Info(msg, fields...)
	case tracelog.LogLevelWarn:
		l.log.Warn(msg, fields...)
	default:
		l.log.Error(msg, fields...)
	}
}

// NewQueryTracer adapts log to pgx's tracer. Only failed statements are
// logged unless log is at debug level.
func NewQueryTracer(log *zap.Logger) *tracelog.TraceLog {
	log = logger.OrNop(log)
	level := tracelog.LogLevelError
	if log.Core().Enabled(zapcore.DebugLevel) {
		level = tracelog.LogLevelDebug
	}
	return &tracelog.TraceLog{Logger: zapTraceLogger{log: log}, LogLevel: level}
}
