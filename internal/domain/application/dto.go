package application

import (
	"time"

	"climatejobs/internal/domain/auth"
	"climatejobs/internal/domain/job"
)

type ApplyRequest struct {
	Message string `json:"message" validate:"max=2000"`
}

// Applicant is a row of a job's application list.
type Applicant struct {
	ApplicationID string        `json:"application_id"`
	WorkerID      string        `json:"worker_id"`
	Worker        *auth.Summary `json:"worker"`
	Status        Status        `json:"status"`
	Message       string        `json:"message"`
	AppliedAt     time.Time     `json:"applied_at"`
	RespondedAt   *time.Time    `json:"responded_at"`
}

// Mine is a row of the caller's own applications.
type Mine struct {
	ApplicationID string     `json:"application_id"`
	JobID         string     `json:"job_id"`
	WorkerID      string     `json:"worker_id"`
	Status        Status     `json:"status"`
	Message       string     `json:"message"`
	AppliedAt     time.Time  `json:"applied_at"`
	RespondedAt   *time.Time `json:"responded_at"`
	JobDetails    *job.Job   `json:"job_details"`
}

type Decision struct {
	ApplicationID string     `json:"application_id"`
	JobID         string     `json:"job_id"`
	Status        Status     `json:"status"`
	JobStatus     job.Status `json:"job_status"`
}
