package main

import (
	"flag"
	"log"

	"go.uber.org/zap"

	"github.com/Leganyst/campaign-platform/internal/config"
	"github.com/Leganyst/campaign-platform/internal/db"
	"github.com/Leganyst/campaign-platform/internal/logging"
	"github.com/Leganyst/campaign-platform/internal/model"
)

func main() {
	up := flag.Bool("up", false, "create or update all tables (default)")
	down := flag.Bool("down", false, "drop all tables in reverse dependency order")
	reset := flag.Bool("reset", false, "drop all tables and create them again")
	flag.Parse()

	if *up && *down {
		log.Fatal("-up and -down are mutually exclusive")
	}

	dbCfg, err := config.LoadDBConfig()
	if err != nil {
		log.Fatalf("load db config: %v", err)
	}
	logger, err := logging.New(config.LogConfig{Level: "info", Format: "console"})
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	gormDB, err := db.NewGormDB(dbCfg, logger)
	if err != nil {
		logger.Fatal("init db", zap.Error(err))
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		logger.Fatal("sql DB", zap.Error(err))
	}
	defer sqlDB.Close()

	if *down || *reset {
		if err := model.Rollback(gormDB); err != nil {
			logger.Fatal("rollback", zap.Error(err))
		}
		logger.Info("tables dropped")
		if *down {
			return
		}
	}

	if err := model.AutoMigrate(gormDB); err != nil {
		logger.Fatal("migrate", zap.Error(err))
	}
	logger.Info("tables migrated", zap.Int("models", len(model.MigrationOrder())))
}
