package notification

import (
	"context"
	"time"

	"go.uber.org/zap"

	"climatejobs/internal/logger"
)

// CleanupService handles background cleanup tasks for notifications
type CleanupService struct {
	repo Repository
	log  *zap.Logger
	now  func() time.Time
}

func NewCleanupService(repo Repository, log *zap.Logger) *CleanupService {
	return &CleanupService{repo: repo, log: logger.OrNop(log), now: time.Now}
}

// CleanupConfig holds configuration for cleanup tasks
type CleanupConfig struct {
	RetentionDays int           // keep notifications for N days
	Interval      time.Duration // how often ScheduleCleanup runs
}

func DefaultCleanupConfig() CleanupConfig {
	return CleanupConfig{RetentionDays: 90, Interval: 24 * time.Hour}
}

// CleanupOldNotifications removes notifications older than daysToKeep.
func (c *CleanupService) CleanupOldNotifications(ctx context.Context, daysToKeep int) (int64, error) {
	start := c.now()
	cutoff := start.AddDate(0, 0, -daysToKeep).UTC()

	deleted, err := c.repo.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		c.log.Error("notification cleanup failed", zap.Error(err))
		return 0, err
	}

	c.log.Info("notification cleanup completed",
		zap.Int64("deleted", deleted),
		zap.Time("cutoff", cutoff),
		zap.Duration("duration", time.Since(start)),
	)
	return deleted, nil
}

// ScheduleCleanup runs the cleanup on every tick until ctx is done. The
// returned channel closes once the loop exits.
func (c *CleanupService) ScheduleCleanup(ctx context.Context, cfg CleanupConfig) <-chan struct{} {
	done := make(chan struct{})

	go func() {
		defer close(done)
		ticker := time.NewTicker(cfg.Interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				_, _ = c.CleanupOldNotifications(ctx, cfg.RetentionDays)
			case <-ctx.Done():
				c.log.Info("scheduled notification cleanup stopped")
				return
			}
		}
	}()

	c.log.Info("scheduled notification cleanup started", zap.Duration("interval", cfg.Interval))
	return done
}
