// Package logger builds the zap loggers of both binaries and the request and query
// scoped children they hand down.
package logger

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"duty-calendar/internal/config"
	"duty-calendar/internal/middleware"
	"duty-calendar/internal/models"
)

// New builds the root logger of one binary. "console" gives a colored development
// encoder, anything else JSON with ISO8601 timestamps. Every entry carries the
// component name.
func New(cfg config.LogConfig, component string) (*zap.Logger, error) {
	var zapCfg zap.Config

	switch cfg.Format {
	case "console":
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	default:
		zapCfg = zap.NewProductionConfig()
		zapCfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		// Repeated diagnostics must all be kept.
		zapCfg.Sampling = nil
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)
	zapCfg.InitialFields = map[string]any{"component": component}

	return zapCfg.Build()
}

// ForRequest tags l with the request ID stored in ctx, if any.
func ForRequest(ctx context.Context, l *zap.Logger) *zap.Logger {
	if rid := middleware.GetRequestID(ctx); rid != "" {
		return l.With(zap.String("request_id", rid))
	}
	return l
}

// WithQuery tags l with the schedule a request asked for.
func WithQuery(l *zap.Logger, q models.ScheduleQuery) *zap.Logger {
	return l.With(
		zap.String("department", q.Department),
		zap.String("schedule_type", q.ScheduleType),
		zap.Int("month", q.Month),
		zap.Int("year", q.Year),
	)
}
