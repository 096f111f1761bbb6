package database

import (
	"fmt"

	"gorm.io/gorm"

	"climatejobs/internal/domain/application"
	"climatejobs/internal/domain/auth"
	"climatejobs/internal/domain/job"
	"climatejobs/internal/domain/notification"
	"climatejobs/internal/domain/payment"
	"climatejobs/internal/domain/submission"
)

// Migrate creates or updates every table. Order matters for foreign keys.
func Migrate(db *gorm.DB) error {
	models := []any{
		&auth.User{},
		&job.Job{},
		&application.Application{},
		&submission.Submission{},
		&payment.Payment{},
		&notification.Notification{},
	}
	for _, m := range models {
		if err := db.AutoMigrate(m); err != nil {
			return fmt.Errorf("failed to migrate %T: %w", m, err)
		}
	}
	return nil
}
