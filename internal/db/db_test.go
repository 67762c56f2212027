package db

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"gorm.io/gorm"

	"github.com/Leganyst/campaign-platform/internal/config"
)

type widget struct {
	ID   int64
	Name string
}

func TestNewGormDB_LogsErrorsButNotMissingRecords(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)

	gdb, err := NewGormDB(&config.DBConfig{
		Driver:       config.DriverSQLite,
		Path:         "file::memory:",
		MaxOpenConns: 1,
	}, zap.New(core))
	require.NoError(t, err)
	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, gdb.AutoMigrate(&widget{}))

	var w widget
	err = gdb.First(&w, 42).Error
	require.True(t, errors.Is(err, gorm.ErrRecordNotFound))
	assert.Zero(t, logs.Len(), "a missing record is not worth a log line")

	require.Error(t, gdb.Exec("SELECT * FROM no_such_table").Error)
	entries := logs.Filter(func(e observer.LoggedEntry) bool { return e.LoggerName == "gorm" }).All()
	require.Len(t, entries, 1)
	assert.Equal(t, zapcore.WarnLevel, entries[0].Level)
	assert.Contains(t, entries[0].Message, "no_such_table")
}

func TestGormConfig_TranslatesErrors(t *testing.T) {
	cfg := GormConfig(nil)
	assert.True(t, cfg.TranslateError)
	assert.NotNil(t, cfg.Logger)
	assert.Equal(t, "UTC", cfg.NowFunc().Location().String())
}
