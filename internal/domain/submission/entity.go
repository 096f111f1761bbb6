package submission

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"climatejobs/internal/domain/auth"
	"climatejobs/internal/domain/job"
)

type VerificationStatus string

const (
	StatusPending  VerificationStatus = "pending"
	StatusApproved VerificationStatus = "approved"
	StatusRejected VerificationStatus = "rejected"
)

// Submission is a worker's photographic proof that a job was done. It is
// resolved exactly once by the job owner or an admin.
type Submission struct {
	ID                 string             `json:"id" gorm:"type:uuid;primaryKey"`
	JobID              string             `json:"job_id" gorm:"type:uuid;not null;index"`
	WorkerID           string             `json:"worker_id" gorm:"type:uuid;not null;index"`
	BeforePhotoURL     string             `json:"before_photo_url" gorm:"not null"`
	AfterPhotoURL      string             `json:"after_photo_url" gorm:"not null"`
	BeforePhotoPath    string             `json:"-" gorm:"not null"`
	AfterPhotoPath     string             `json:"-" gorm:"not null"`
	Notes              string             `json:"notes"`
	Lat                *float64           `json:"lat"`
	Lng                *float64           `json:"lng"`
	VerificationStatus VerificationStatus `json:"verification_status" gorm:"type:varchar(20);not null;index"`
	RejectionReason    string             `json:"rejection_reason,omitempty"`
	VerifiedBy         *string            `json:"verified_by" gorm:"type:uuid"`
	VerifiedAt         *time.Time         `json:"verified_at"`
	SubmittedAt        time.Time          `json:"submitted_at" gorm:"autoCreateTime"`
	UpdatedAt          time.Time          `json:"updated_at" gorm:"autoUpdateTime"`

	Job    *job.Job   `json:"-" gorm:"foreignKey:JobID"`
	Worker *auth.User `json:"-" gorm:"foreignKey:WorkerID"`
}

func (Submission) TableName() string {
	return "submissions"
}

func (s *Submission) BeforeCreate(_ *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}

func (s *Submission) Keys() []string {
	return []string{s.BeforePhotoPath, s.AfterPhotoPath}
}
