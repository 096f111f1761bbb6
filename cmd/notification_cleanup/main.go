package main

import (
	"context"
	"flag"
	"log"

	"go.uber.org/zap"

	"climatejobs/internal/config"
	"climatejobs/internal/database"
	"climatejobs/internal/domain/notification"
	"climatejobs/internal/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}
	days := flag.Int("days", cfg.NotificationRetentionDays, "keep notifications newer than this many days")
	flag.Parse()

	appLogger := logger.New(cfg.LogLevel, cfg.LogFormat)
	defer func() { _ = appLogger.Sync() }()

	if *days <= 0 {
		appLogger.Fatal("days must be > 0", zap.Int("days", *days))
	}

	db, err := database.Connect(cfg.DatabaseURL, appLogger)
	if err != nil {
		appLogger.Fatal("db connect failed", zap.Error(err))
	}
	defer db.Close()

	cleanup := notification.NewCleanupService(notification.NewRepository(db.Gorm), appLogger)
	if _, err := cleanup.CleanupOldNotifications(context.Background(), *days); err != nil {
		appLogger.Fatal("notification cleanup failed", zap.Error(err))
	}
}
