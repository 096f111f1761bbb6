package payment

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"climatejobs/internal/domain/auth"
	"climatejobs/internal/domain/job"
)

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusPaid     Status = "paid"
)

// Payment is the reward owed to a worker for an approved submission.
type Payment struct {
	ID           string     `json:"id" gorm:"type:uuid;primaryKey"`
	JobID        string     `json:"job_id" gorm:"type:uuid;not null;index"`
	WorkerID     string     `json:"worker_id" gorm:"type:uuid;not null;index"`
	SubmissionID string     `json:"submission_id" gorm:"type:uuid;not null;uniqueIndex"`
	Amount       float64    `json:"amount" gorm:"not null"`
	Status       Status     `json:"status" gorm:"type:varchar(20);not null;index"`
	ApprovedBy   *string    `json:"approved_by" gorm:"type:uuid"`
	ApprovedAt   *time.Time `json:"approved_at"`
	PaidAt       *time.Time `json:"paid_at"`
	CreatedAt    time.Time  `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt    time.Time  `json:"updated_at" gorm:"autoUpdateTime"`

	Job    *job.Job   `json:"-" gorm:"foreignKey:JobID"`
	Worker *auth.User `json:"-" gorm:"foreignKey:WorkerID"`
}

func (Payment) TableName() string {
	return "payments"
}

func (p *Payment) BeforeCreate(_ *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

// NewPending builds the payment recorded when a submission is approved.
func NewPending(j *job.Job, workerID, submissionID string) *Payment {
	return &Payment{
		JobID:        j.ID,
		WorkerID:     workerID,
		SubmissionID: submissionID,
		Amount:       j.RewardAmount,
		Status:       StatusPending,
	}
}

// Payable reports whether the payment may still be released.
func (p *Payment) Payable() bool {
	return p.Status == StatusPending || p.Status == StatusApproved
}
