package logger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	gormlogger "gorm.io/gorm/logger"
)

// GormConfig SQL 日志选项
type GormConfig struct {
	SlowThreshold        time.Duration
	IgnoreRecordNotFound bool
	AddCaller            bool
}

func DefaultGormConfig() GormConfig {
	return GormConfig{
		SlowThreshold: 200 * time.Millisecond,
		AddCaller:     true,
	}
}

// GormLogger 把 gorm 的日志写到 zap，并带上 ctx 里的 request_id
type GormLogger struct {
	level gormlogger.LogLevel
	base  *zap.Logger
	cfg   GormConfig
}

// NewGormLogger base 为 nil 时使用全局 logger
func NewGormLogger(base *zap.Logger, level gormlogger.LogLevel, cfg GormConfig) *GormLogger {
	if base == nil {
		base = Named("gorm")
	}
	if cfg.AddCaller {
		base = base.WithOptions(zap.AddCaller())
	}
	return &GormLogger{level: level, base: base, cfg: cfg}
}

func (l *GormLogger) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	clone := *l
	clone.level = level
	return &clone
}

func (l *GormLogger) forContext(ctx context.Context) *zap.Logger {
	return l.base.With(ContextFields(ctx)...)
}

func (l *GormLogger) Info(ctx context.Context, msg string, args ...any) {
	if l.level >= gormlogger.Info {
		l.forContext(ctx).Info(fmt.Sprintf(msg, args...))
	}
}

func (l *GormLogger) Warn(ctx context.Context, msg string, args ...any) {
	if l.level >= gormlogger.Warn {
		l.forContext(ctx).Warn(fmt.Sprintf(msg, args...))
	}
}

func (l *GormLogger) Error(ctx context.Context, msg string, args ...any) {
	if l.level >= gormlogger.Error {
		l.forContext(ctx).Error(fmt.Sprintf(msg, args...))
	}
}

// Trace 每条 SQL 调用一次：失败记 error，慢查询记 warn，其余在 Info 级别记录
func (l *GormLogger) Trace(ctx context.Context, begin time.Time, fc func() (sql string, rowsAffected int64), err error) {
	if l.level <= gormlogger.Silent {
		return
	}

	elapsed := time.Since(begin)
	failed := err != nil && !(l.cfg.IgnoreRecordNotFound && errors.Is(err, gormlogger.ErrRecordNotFound))
	slow := l.cfg.SlowThreshold > 0 && elapsed > l.cfg.SlowThreshold

	switch {
	case failed && l.level >= gormlogger.Error:
		l.forContext(ctx).Error("Database operation failed", append(l.sqlFields(fc, elapsed), zap.Error(err))...)
	case failed:
	case slow && l.level >= gormlogger.Warn:
		l.forContext(ctx).Warn("Slow SQL query", append(l.sqlFields(fc, elapsed), zap.String("type", "slow_query"))...)
	case l.level >= gormlogger.Info && err == nil:
		l.forContext(ctx).Info("SQL query executed", l.sqlFields(fc, elapsed)...)
	}
}

func (l *GormLogger) sqlFields(fc func() (string, int64), elapsed time.Duration) []zap.Field {
	sql, rows := fc()
	return []zap.Field{
		zap.String("sql", sql),
		zap.Duration("elapsed", elapsed),
		zap.Int64("rows", rows),
	}
}

var _ gormlogger.Interface = (*GormLogger)(nil)
