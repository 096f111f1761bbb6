package notification

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Types written by the lifecycle sink. Sent notifications carry any
// caller-chosen type.
const (
	TypeApplicationReceived = "application_received"
	TypeApplicationAccepted = "application_accepted"
	TypeApplicationRejected = "application_rejected"
	TypeSubmissionReceived  = "submission_received"
	TypeSubmissionApproved  = "submission_approved"
	TypeSubmissionRejected  = "submission_rejected"
	TypePaymentReleased     = "payment_released"
	TypeJobStatusChanged    = "job_status_changed"
)

type Notification struct {
	ID        string     `json:"id" gorm:"type:uuid;primaryKey"`
	UserID    string     `json:"user_id" gorm:"type:uuid;not null;index:idx_notifications_user_read"`
	Title     string     `json:"title" gorm:"size:255;not null"`
	Message   string     `json:"message" gorm:"not null"`
	Type      string     `json:"type" gorm:"size:50;not null"`
	Read      bool       `json:"read" gorm:"not null;default:false;index:idx_notifications_user_read"`
	ReadAt    *time.Time `json:"read_at"`
	CreatedAt time.Time  `json:"created_at" gorm:"autoCreateTime;index"`
}

func (Notification) TableName() string {
	return "notifications"
}

func (n *Notification) BeforeCreate(_ *gorm.DB) error {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	return nil
}
