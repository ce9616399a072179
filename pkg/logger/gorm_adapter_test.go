package logger

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	gormlogger "gorm.io/gorm/logger"
)

func newObservedAdapter(t *testing.T, level gormlogger.LogLevel) (*GormLoggerAdapter, *observer.ObservedLogs) {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	adapter := &GormLoggerAdapter{
		logLevel: level,
		logger:   zap.New(core),
		config:   DefaultGormLoggerConfig(),
	}
	return adapter, logs
}

func TestGormAdapterLevelFiltering(t *testing.T) {
	adapter, logs := newObservedAdapter(t, gormlogger.Warn)

	adapter.Info(context.Background(), "info message")
	adapter.Warn(context.Background(), "warn message")
	adapter.Error(context.Background(), "error message")

	var sawInfo, sawWarn, sawError bool
	for _, entry := range logs.All() {
		switch entry.Message {
		case "info message":
			sawInfo = true
		case "warn message":
			sawWarn = true
		case "error message":
			sawError = true
		}
	}

	if sawInfo {
		t.Error("Info should be filtered at Warn level")
	}
	if !sawWarn || !sawError {
		t.Error("Warn and Error should pass at Warn level")
	}
}

func TestGormAdapterTrace(t *testing.T) {
	adapter, logs := newObservedAdapter(t, gormlogger.Info)

	adapter.Trace(context.Background(), time.Now(), func() (string, int64) {
		return "SELECT * FROM bills", 3
	}, nil)

	entries := logs.FilterMessage("SQL query executed").All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 trace entry, got %d", len(entries))
	}
	hasSQL := false
	for _, field := range entries[0].Context {
		if field.Key == "sql" {
			hasSQL = true
		}
	}
	if !hasSQL {
		t.Error("SQL query not found in trace log fields")
	}
}

func TestGormAdapterTraceIgnoresRecordNotFound(t *testing.T) {
	adapter, logs := newObservedAdapter(t, gormlogger.Error)

	adapter.Trace(context.Background(), time.Now(), func() (string, int64) {
		return "SELECT * FROM bills WHERE id = ?", 0
	}, gormlogger.ErrRecordNotFound)

	if logs.Len() != 0 {
		t.Errorf("record-not-found should be suppressed, got %d entries", logs.Len())
	}

	adapter.Trace(context.Background(), time.Now(), func() (string, int64) {
		return "SELECT * FROM bills", 0
	}, errors.New("connection reset"))

	if logs.FilterMessage("Database operation failed").Len() != 1 {
		t.Error("real database errors should be logged")
	}
}

func TestGormAdapterLogMode(t *testing.T) {
	adapter := NewGormLoggerAdapter(gormlogger.Warn)
	if adapter.LogMode(gormlogger.Info) == nil {
		t.Fatal("LogMode should return a new adapter")
	}
}
