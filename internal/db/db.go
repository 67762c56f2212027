package db

import (
	"fmt"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/Leganyst/campaign-platform/internal/config"
)

func NewGormDB(cfg *config.DBConfig, log *zap.Logger) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case config.DriverSQLite:
		dialector = sqlite.Open(cfg.DSN())
	default:
		dialector = postgres.Open(cfg.DSN())
	}

	db, err := gorm.Open(dialector, GormConfig(log))
	if err != nil {
		return nil, fmt.Errorf("gorm open: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("db.DB(): %w", err)
	}

	if cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifeTime > 0 {
		sqlDB.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifeTime) * time.Minute)
	}

	return db, nil
}

// slowQuery: порог, после которого запрос попадает в лог как медленный.
const slowQuery = 200 * time.Millisecond

// GormConfig: общие настройки GORM для сервера и тестов.
// TranslateError нужен, чтобы нарушения уникальности и внешних ключей
// приходили как gorm.ErrDuplicatedKey / gorm.ErrForeignKeyViolated.
// log может быть nil.
func GormConfig(log *zap.Logger) *gorm.Config {
	return &gorm.Config{
		Logger:         NewGormLogger(log),
		TranslateError: true,
		NowFunc: func() time.Time {
			// всегда в UTC
			return time.Now().UTC()
		},
	}
}

// NewGormLogger пишет предупреждения и ошибки GORM в zap.
// Ненайденная запись для сервисов обычный исход, её не логируем.
func NewGormLogger(log *zap.Logger) gormlogger.Interface {
	if log == nil {
		log = zap.NewNop()
	}
	std, err := zap.NewStdLogAt(log.Named("gorm"), zapcore.WarnLevel)
	if err != nil {
		std = zap.NewStdLog(log.Named("gorm"))
	}
	return gormlogger.New(std, gormlogger.Config{
		SlowThreshold:             slowQuery,
		LogLevel:                  gormlogger.Warn,
		IgnoreRecordNotFoundError: true,
		ParameterizedQueries:      true,
	})
}
