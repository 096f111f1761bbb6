package submission

import (
	"time"

	"climatejobs/internal/domain/auth"
	"climatejobs/internal/domain/job"
)

type CreateRequest struct {
	JobID string
	Notes string
	Lat   *float64
	Lng   *float64
}

type Created struct {
	SubmissionID   string `json:"submission_id"`
	BeforePhotoURL string `json:"before_photo_url"`
	AfterPhotoURL  string `json:"after_photo_url"`
}

type Photos struct {
	Before string `json:"before"`
	After  string `json:"after"`
}

type Pending struct {
	SubmissionID string    `json:"submission_id"`
	JobID        string    `json:"job_id"`
	JobTitle     string    `json:"job_title"`
	WorkerName   string    `json:"worker_name"`
	WorkerPhone  string    `json:"worker_phone"`
	SubmittedAt  time.Time `json:"submitted_at"`
	Photos       Photos    `json:"photos"`
	Notes        string    `json:"notes"`
}

type Detail struct {
	Submission *Submission   `json:"submission_details"`
	Job        *job.Job      `json:"job_details"`
	Worker     *auth.Summary `json:"worker_details"`
	Verifier   *auth.Summary `json:"verifier_details"`
}

type VerifyRequest struct {
	Status          VerificationStatus `json:"verification_status" validate:"required,oneof=approved rejected"`
	RejectionReason string             `json:"rejection_reason" validate:"max=1000"`
}

type Verification struct {
	SubmissionID       string             `json:"submission_id"`
	VerificationStatus VerificationStatus `json:"verification_status"`
	JobStatus          job.Status         `json:"job_status"`
	PaymentID          string             `json:"payment_id,omitempty"`
}
