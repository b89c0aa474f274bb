package logger

import (
	"context"
	"errors"
	"testing"
	"time"

	"ddd-shop/infrastructure/persistence"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	gormlogger "gorm.io/gorm/logger"
)

func observedGormLogger(level gormlogger.LogLevel, cfg GormConfig) (*GormLogger, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	return NewGormLogger(zap.New(core), level, cfg), logs
}

func selectSQL(sql string) func() (string, int64) {
	return func() (string, int64) { return sql, 1 }
}

func TestGormLoggerLevels(t *testing.T) {
	tests := []struct {
		name      string
		level     gormlogger.LogLevel
		wantInfo  bool
		wantWarn  bool
		wantTrace bool
	}{
		{"silent", gormlogger.Silent, false, false, false},
		{"warn", gormlogger.Warn, false, true, false},
		{"info", gormlogger.Info, true, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, logs := observedGormLogger(tt.level, DefaultGormConfig())
			ctx := context.Background()

			l.Info(ctx, "connected to %s", "sqlite")
			l.Warn(ctx, "deprecated %s", "option")
			l.Trace(ctx, time.Now(), selectSQL("SELECT * FROM customers"), nil)

			assert.Equal(t, tt.wantInfo, logs.FilterMessage("connected to sqlite").Len() == 1)
			assert.Equal(t, tt.wantWarn, logs.FilterMessage("deprecated option").Len() == 1)

			traced := logs.FilterMessage("SQL query executed")
			assert.Equal(t, tt.wantTrace, traced.Len() == 1)
			if tt.wantTrace {
				assert.Equal(t, "SELECT * FROM customers", traced.All()[0].ContextMap()["sql"])
			}
		})
	}
}

func TestGormLoggerLogModeKeepsOriginal(t *testing.T) {
	l, logs := observedGormLogger(gormlogger.Warn, DefaultGormConfig())

	verbose := l.LogMode(gormlogger.Info)
	verbose.Trace(context.Background(), time.Now(), selectSQL("SELECT 1"), nil)
	l.Trace(context.Background(), time.Now(), selectSQL("SELECT 2"), nil)

	assert.Equal(t, 1, logs.FilterMessage("SQL query executed").Len())
}

func TestGormLoggerSlowQueryCarriesRequestID(t *testing.T) {
	cfg := DefaultGormConfig()
	cfg.SlowThreshold = time.Millisecond
	l, logs := observedGormLogger(gormlogger.Warn, cfg)

	ctx := persistence.ContextWithRequestID(context.Background(), "req-slow")
	l.Trace(ctx, time.Now().Add(-10*time.Millisecond), selectSQL("SELECT * FROM order_items"), nil)

	slow := logs.FilterMessage("Slow SQL query").FilterField(zap.String("request_id", "req-slow"))
	assert.Equal(t, 1, slow.Len())
}

func TestGormLoggerErrors(t *testing.T) {
	cfg := DefaultGormConfig()
	cfg.IgnoreRecordNotFound = true
	l, logs := observedGormLogger(gormlogger.Info, cfg)
	ctx := context.Background()

	l.Trace(ctx, time.Now(), selectSQL("SELECT * FROM customers WHERE id = 'x'"), gormlogger.ErrRecordNotFound)
	assert.Zero(t, logs.Len(), "record not found is ignored")

	l.Trace(ctx, time.Now(), selectSQL("INSERT INTO customers"), errors.New("disk full"))
	failed := logs.FilterMessage("Database operation failed")
	assert.Equal(t, 1, failed.Len())
	assert.Equal(t, zapcore.ErrorLevel, failed.All()[0].Level)
}
