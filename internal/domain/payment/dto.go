package payment

import (
	"time"

	"climatejobs/internal/domain/job"
)

type Transaction struct {
	PaymentID  string     `json:"payment_id"`
	JobID      string     `json:"job_id"`
	WorkerID   string     `json:"worker_id"`
	JobTitle   string     `json:"job_title"`
	Amount     float64    `json:"amount"`
	Status     Status     `json:"status"`
	CreatedAt  time.Time  `json:"created_at"`
	ApprovedAt *time.Time `json:"approved_at"`
	PaidAt     *time.Time `json:"paid_at"`
}

// Wallet summarizes a worker's earnings. Pending covers pending and approved
// payments.
type Wallet struct {
	TotalEarned   float64       `json:"total_earned"`
	PendingAmount float64       `json:"pending_amount"`
	PaidAmount    float64       `json:"paid_amount"`
	Transactions  []Transaction `json:"transactions"`
}

type PendingApproval struct {
	PaymentID    string    `json:"payment_id"`
	WorkerName   string    `json:"worker_name"`
	WorkerPhone  string    `json:"worker_phone"`
	JobTitle     string    `json:"job_title"`
	Amount       float64   `json:"amount"`
	SubmittedAt  time.Time `json:"submitted_at"`
	SubmissionID string    `json:"submission_id"`
}

type Approval struct {
	PaymentID string     `json:"payment_id"`
	Status    Status     `json:"status"`
	PaidAt    time.Time  `json:"paid_at"`
	JobStatus job.Status `json:"job_status"`
}
