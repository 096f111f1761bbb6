package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"climatejobs/internal/config"
	"climatejobs/internal/database"
	"climatejobs/internal/domain/auth"
	"climatejobs/internal/domain/notification"
	"climatejobs/internal/events"
	"climatejobs/internal/logger"
	"climatejobs/internal/server"
	"climatejobs/internal/storage"
)

const shutdownTimeout = 15 * time.Second

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	appLogger := logger.New(cfg.LogLevel, cfg.LogFormat)
	defer func() { _ = appLogger.Sync() }()

	if config.IsProdLike(cfg.AppEnv) {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.Connect(cfg.DatabaseURL, appLogger)
	if err != nil {
		return fmt.Errorf("failed to connect database: %w", err)
	}
	defer db.Close()

	if err := database.Migrate(db.Gorm); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	blobs, err := storage.NewLocalStore(cfg.StorageDir, cfg.StoragePublicBaseURL)
	if err != nil {
		return fmt.Errorf("failed to init storage: %w", err)
	}

	var limiter auth.LoginLimiter
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return fmt.Errorf("invalid REDIS_URL: %w", err)
		}
		client := redis.NewClient(opts)
		defer client.Close()
		limiter = auth.NewRedisLoginLimiter(client, cfg.LoginMaxAttempts, cfg.LoginLockout)
		appLogger.Info("login limiter enabled", zap.Int("max_attempts", cfg.LoginMaxAttempts))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	notifications := notification.NewRepository(db.Gorm)
	sinks := []events.Sink{notification.NewSink(notifications)}
	switch cfg.EventsDriver {
	case config.EventsDriverSNS:
		pub, err := events.NewSNSPublisher(ctx, cfg.AWSRegion, cfg.SNSTopicARN)
		if err != nil {
			return fmt.Errorf("failed to init sns publisher: %w", err)
		}
		sinks = append(sinks, pub)
	case config.EventsDriverAMQP:
		pub, err := events.NewAMQPPublisher(cfg.AMQPURL, cfg.AMQPExchange)
		if err != nil {
			return fmt.Errorf("failed to init amqp publisher: %w", err)
		}
		defer pub.Close()
		sinks = append(sinks, pub)
	}
	dispatcher := events.NewDispatcher(appLogger, 10*time.Second, sinks...)

	cleanup := notification.NewCleanupService(notifications, appLogger)
	cleanupCfg := notification.DefaultCleanupConfig()
	cleanupCfg.RetentionDays = cfg.NotificationRetentionDays
	cleanupDone := cleanup.ScheduleCleanup(ctx, cleanupCfg)

	srv := &http.Server{
		Addr: cfg.HTTPAddr,
		Handler: server.NewRouter(server.Deps{
			Config:  cfg,
			DB:      db,
			Blobs:   blobs,
			Events:  dispatcher,
			Limiter: limiter,
			Log:     appLogger,
		}),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		appLogger.Info("http server listening",
			zap.String("addr", cfg.HTTPAddr),
			zap.String("env", cfg.AppEnv),
			zap.String("events_driver", cfg.EventsDriver),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		appLogger.Info("shutting down")
	case err := <-errCh:
		stop()
		return fmt.Errorf("http server failed: %w", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("server forced to shutdown", zap.Error(err))
		return err
	}

	// let in-flight event deliveries finish before the db closes
	dispatcher.Wait()
	<-cleanupDone

	appLogger.Info("server stopped")
	return nil
}
