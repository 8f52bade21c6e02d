package database

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"pulse/internal/infra/logger"

	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const (
	slowQueryThreshold  = 200 * time.Millisecond
	defaultGormLogLevel = gormlogger.Warn
)

// gormSlogLogger routes gorm output through the application logger so SQL
// lines honour LOG_LEVEL and LOG_FILE.
type gormSlogLogger struct {
	slowThreshold time.Duration
	logLevel      gormlogger.LogLevel
}

func newGormLogger(levelValue string) (gormlogger.Interface, error) {
	l := &gormSlogLogger{slowThreshold: slowQueryThreshold, logLevel: defaultGormLogLevel}
	if strings.TrimSpace(levelValue) == "" {
		return l, nil
	}
	level, err := parseGormLogLevel(levelValue)
	l.logLevel = level
	return l, err
}

func (l *gormSlogLogger) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	clone := *l
	clone.logLevel = level
	return &clone
}

func (l *gormSlogLogger) Info(ctx context.Context, msg string, data ...interface{}) {
	l.printf(ctx, gormlogger.Info, slog.LevelInfo, msg, data...)
}

func (l *gormSlogLogger) Warn(ctx context.Context, msg string, data ...interface{}) {
	l.printf(ctx, gormlogger.Warn, slog.LevelWarn, msg, data...)
}

func (l *gormSlogLogger) Error(ctx context.Context, msg string, data ...interface{}) {
	l.printf(ctx, gormlogger.Error, slog.LevelError, msg, data...)
}

func (l *gormSlogLogger) printf(ctx context.Context, gl gormlogger.LogLevel, sl slog.Level, msg string, data ...interface{}) {
	if l.enabled(gl) {
		logger.Logger.Log(ctx, sl, fmt.Sprintf(msg, data...))
	}
}

func (l *gormSlogLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.logLevel == gormlogger.Silent {
		return
	}

	elapsed := time.Since(begin)
	sql, rows := fc()
	attrs := []any{"elapsed", elapsed, "rows", rows, "sql", sql}

	switch {
	case err != nil:
		if errors.Is(err, gorm.ErrRecordNotFound) || !l.enabled(gormlogger.Error) {
			return
		}
		logger.Logger.Log(ctx, slog.LevelError, "gorm query error", append(attrs, "error", err)...)
	case l.slowThreshold > 0 && elapsed > l.slowThreshold:
		if l.enabled(gormlogger.Warn) {
			logger.Logger.Log(ctx, slog.LevelWarn, "gorm slow query", append(attrs, "threshold", l.slowThreshold)...)
		}
	case l.enabled(gormlogger.Info):
		logger.Logger.Log(ctx, slog.LevelInfo, "gorm query", attrs...)
	}
}

func (l *gormSlogLogger) enabled(level gormlogger.LogLevel) bool {
	if l.logLevel == gormlogger.Silent || l.logLevel < level {
		return false
	}
	if level == gormlogger.Error {
		return logger.Enabled(logger.ERROR)
	}
	return logger.Enabled(logger.INFO)
}

func parseGormLogLevel(value string) (gormlogger.LogLevel, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "silent":
		return gormlogger.Silent, nil
	case "error":
		return gormlogger.Error, nil
	case "warn":
		return gormlogger.Warn, nil
	case "info":
		return gormlogger.Info, nil
	default:
		return defaultGormLogLevel, fmt.Errorf("invalid gorm log level %q", value)
	}
}
