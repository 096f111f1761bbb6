package dashboard

const co2PerTreeKG = 20

type GovernmentStats struct {
	TotalJobsPosted      int64   `json:"total_jobs_posted" db:"total_jobs_posted"`
	ActiveJobs           int64   `json:"active_jobs" db:"active_jobs"`
	CompletedJobs        int64   `json:"completed_jobs" db:"completed_jobs"`
	TotalSpent           float64 `json:"total_spent" db:"total_spent"`
	PendingVerifications int64   `json:"pending_verifications" db:"pending_verifications"`
}

type WorkerStats struct {
	JobsCompleted       int64   `json:"jobs_completed" db:"jobs_completed"`
	TotalEarned         float64 `json:"total_earned" db:"total_earned"`
	PendingEarnings     float64 `json:"pending_earnings" db:"pending_earnings"`
	CurrentApplications int64   `json:"current_applications" db:"current_applications"`
}

type ClimateImpact struct {
	TotalTreesPlanted    int64   `json:"total_trees_planted" db:"total_trees_planted"`
	TotalCO2OffsetKG     int64   `json:"total_co2_offset_kg" db:"-"`
	TotalJobsCompleted   int64   `json:"total_jobs_completed" db:"total_jobs_completed"`
	TotalIncomeGenerated float64 `json:"total_income_generated" db:"total_income_generated"`
	ActiveWorkers        int64   `json:"active_workers" db:"active_workers"`
}
