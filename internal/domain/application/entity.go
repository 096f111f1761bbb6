package application

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
	StatusAccepted Status = "accepted"
	StatusRejected Status = "rejected"
)

// Application is a worker's bid for a job. A worker applies to a job at most
// once.
type Application struct {
	ID          string     `json:"id" gorm:"type:uuid;primaryKey"`
	JobID       string     `json:"job_id" gorm:"type:uuid;not null;uniqueIndex:idx_job_applications_job_worker"`
	WorkerID    string     `json:"worker_id" gorm:"type:uuid;not null;uniqueIndex:idx_job_applications_job_worker;index"`
	Status      Status     `json:"status" gorm:"type:varchar(20);not null;index"`
	Message     string     `json:"message" gorm:"type:text"`
	AppliedAt   time.Time  `json:"applied_at" gorm:"autoCreateTime"`
	UpdatedAt   time.Time  `json:"updated_at" gorm:"autoUpdateTime"`
	RespondedAt *time.Time `json:"responded_at"`

	Job    *job.Job   `json:"-" gorm:"foreignKey:JobID"`
	Worker *auth.User `json:"-" gorm:"foreignKey:WorkerID"`
}

func (Application) TableName() string {
	return "job_applications"
}

func (a *Application) BeforeCreate(_ *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}

// Filter selects a lifecycle stage of the caller's applications.
type Filter string

const (
	FilterAll       Filter = ""
	FilterApplied   Filter = "applied"
	FilterOngoing   Filter = "ongoing"
	FilterCompleted Filter = "completed"
)

func (f Filter) Valid() bool {
	switch f {
	case FilterAll, FilterApplied, FilterOngoing, FilterCompleted:
		return true
	}
	return false
}
