package database

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"blogql/internal/middleware"

	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const slowQueryThreshold = 200 * time.Millisecond

// queryLogger routes GORM output to the request-aware slog logger, so store
// queries carry the request and correlation ids of the resolver that issued them.
type queryLogger struct {
	level logger.LogLevel
	slow  time.Duration
}

// NewGormLogger returns the GORM logger used by every connection.
func NewGormLogger() logger.Interface {
	return &queryLogger{level: logger.Warn, slow: slowQueryThreshold}
}

func (l *queryLogger) LogMode(level logger.LogLevel) logger.Interface {
	clone := *l
	clone.level = level
	return &clone
}

func (l *queryLogger) Info(ctx context.Context, msg string, data ...interface{}) {
	l.log(ctx, logger.Info, slog.LevelInfo, fmt.Sprintf(msg, data...))
}

func (l *queryLogger) Warn(ctx context.Context, msg string, data ...interface{}) {
	l.log(ctx, logger.Warn, slog.LevelWarn, fmt.Sprintf(msg, data...))
}

func (l *queryLogger) Error(ctx context.Context, msg string, data ...interface{}) {
	l.log(ctx, logger.Error, slog.LevelError, fmt.Sprintf(msg, data...))
}

func (l *queryLogger) log(ctx context.Context, threshold logger.LogLevel, level slog.Level, msg string, attrs ...any) {
	if l.level < threshold {
		return
	}
	middleware.Logger.Log(ctx, level, msg, attrs...)
}

// Trace reports failed statements at error level and slow ones at warn level.
// Missing rows are not failures for a table scan.
func (l *queryLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.level <= logger.Silent {
		return
	}

	elapsed := time.Since(begin)
	sql, rows := fc()
	attrs := []any{
		slog.String("sql", sql),
		slog.Int64("rows", rows),
		slog.Duration("elapsed", elapsed),
	}

	switch {
	case err != nil && !errors.Is(err, gorm.ErrRecordNotFound):
		l.log(ctx, logger.Error, slog.LevelError, "store query failed",
			append(attrs, slog.String("error", err.Error()))...)
	case l.slow > 0 && elapsed > l.slow:
		l.log(ctx, logger.Warn, slog.LevelWarn, "slow store query", attrs...)
	default:
		l.log(ctx, logger.Info, slog.LevelInfo, "store query", attrs...)
	}
}
