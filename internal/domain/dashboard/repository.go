package dashboard

import (
	"context"

	"github.com/jmoiron/sqlx"
)

var (
	activeStatuses   = []string{"open", "assigned", "in_progress"}
	finishedStatuses = []string{"completed", "verified", "paid"}
)

// Repository runs the read-only aggregate queries behind the dashboards.
type Repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

// GovernmentStats aggregates jobs posted by creatorID, or every job when
// creatorID is empty.
func (r *Repository) GovernmentStats(ctx context.Context, creatorID string) (*GovernmentStats, error) {
	owner, ownerArgs := "1 = 1", []any{}
	if creatorID != "" {
		owner, ownerArgs = "j.created_by = ?", []any{creatorID}
	}

	var stats GovernmentStats
	if err := r.get(ctx, &stats, `
		SELECT
			COUNT(*) AS total_jobs_posted,
			COALESCE(SUM(CASE WHEN j.status IN (?) THEN 1 ELSE 0 END), 0) AS active_jobs,
			COALESCE(SUM(CASE WHEN j.status IN (?) THEN 1 ELSE 0 END), 0) AS completed_jobs
		FROM jobs j
		WHERE `+owner,
		append([]any{activeStatuses, finishedStatuses}, ownerArgs...)...,
	); err != nil {
		return nil, err
	}

	if err := r.get(ctx, &stats.TotalSpent, `
		SELECT COALESCE(SUM(p.amount), 0)
		FROM payments p
		JOIN jobs j ON j.id = p.job_id
		WHERE p.status IN (?) AND `+owner,
		append([]any{[]string{"approved", "paid"}}, ownerArgs...)...,
	); err != nil {
		return nil, err
	}

	if err := r.get(ctx, &stats.PendingVerifications, `
		SELECT COUNT(*)
		FROM submissions s
		JOIN jobs j ON j.id = s.job_id
		WHERE s.verification_status = ? AND `+owner,
		append([]any{"pending"}, ownerArgs...)...,
	); err != nil {
		return nil, err
	}
	return &stats, nil
}

func (r *Repository) WorkerStats(ctx context.Context, workerID string) (*WorkerStats, error) {
	var stats WorkerStats
	if err := r.get(ctx, &stats.JobsCompleted, `
		SELECT COUNT(*) FROM jobs WHERE assigned_to = ? AND status IN (?)`,
		workerID, finishedStatuses,
	); err != nil {
		return nil, err
	}

	var earnings struct {
		Paid    float64 `db:"paid"`
		Pending float64 `db:"pending"`
	}
	if err := r.get(ctx, &earnings, `
		SELECT
			COALESCE(SUM(CASE WHEN status = ? THEN amount ELSE 0 END), 0) AS paid,
			COALESCE(SUM(CASE WHEN status IN (?) THEN amount ELSE 0 END), 0) AS pending
		FROM payments
		WHERE worker_id = ?`,
		"paid", []string{"pending", "approved"}, workerID,
	); err != nil {
		return nil, err
	}
	stats.TotalEarned = earnings.Paid
	stats.PendingEarnings = earnings.Pending

	if err := r.get(ctx, &stats.CurrentApplications, `
		SELECT COUNT(*) FROM job_applications WHERE worker_id = ? AND status IN (?)`,
		workerID, []string{"pending", "accepted"},
	); err != nil {
		return nil, err
	}
	return &stats, nil
}

func (r *Repository) ClimateImpact(ctx context.Context) (*ClimateImpact, error) {
	var impact ClimateImpact
	if err := r.get(ctx, &impact, `
		SELECT
			COALESCE(SUM(CASE WHEN status IN (?) THEN 1 ELSE 0 END), 0) AS total_jobs_completed,
			COALESCE(SUM(CASE WHEN category = ? AND status IN (?) THEN 1 ELSE 0 END), 0) AS total_trees_planted,
			COUNT(DISTINCT CASE WHEN status IN (?) THEN assigned_to END) AS active_workers
		FROM jobs`,
		finishedStatuses, "tree_planting", finishedStatuses, finishedStatuses,
	); err != nil {
		return nil, err
	}

	if err := r.get(ctx, &impact.TotalIncomeGenerated,
		`SELECT COALESCE(SUM(amount), 0) FROM payments WHERE status = ?`, "paid",
	); err != nil {
		return nil, err
	}
	return &impact, nil
}

// get expands slice arguments into IN lists and rebinds the placeholders for
// the connected driver.
func (r *Repository) get(ctx context.Context, dest any, query string, args ...any) error {
	q, expanded, err := sqlx.In(query, args...)
	if err != nil {
		return err
	}
	return r.db.GetContext(ctx, dest, r.db.Rebind(q), expanded...)
}
