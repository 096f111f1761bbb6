package payment

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"climatejobs/internal/domain/auth"
	"climatejobs/internal/domain/job"
	"climatejobs/internal/events"
	"climatejobs/internal/logger"
	"climatejobs/internal/metrics"
)

type emitter interface {
	Emit(ctx context.Context, e events.Event)
}

type nopEmitter struct{}

func (nopEmitter) Emit(context.Context, events.Event) {}

type Service struct {
	db     *gorm.DB
	events emitter
	log    *zap.Logger
	now    func() time.Time
}

func NewService(db *gorm.DB, ev emitter, log *zap.Logger) *Service {
	if ev == nil {
		ev = nopEmitter{}
	}
	return &Service{db: db, events: ev, log: logger.OrNop(log), now: time.Now}
}

// Wallet returns the caller's payment history with totals.
func (s *Service) Wallet(ctx context.Context, workerID string) (*Wallet, error) {
	db := s.db.WithContext(ctx)

	var totals struct {
		Paid    float64
		Pending float64
	}
	err := db.Model(&Payment{}).
		Select("COALESCE(SUM(CASE WHEN status = ? THEN amount ELSE 0 END), 0) AS paid, "+
			"COALESCE(SUM(CASE WHEN status IN ? THEN amount ELSE 0 END), 0) AS pending",
			StatusPaid, []Status{StatusPending, StatusApproved}).
		Where("worker_id = ?", workerID).
		Scan(&totals).Error
	if err != nil {
		return nil, err
	}

	var payments []Payment
	if err := db.Preload("Job").
		Where("worker_id = ?", workerID).
		Order("created_at DESC").
		Find(&payments).Error; err != nil {
		return nil, err
	}

	w := &Wallet{
		TotalEarned:   totals.Paid,
		PendingAmount: totals.Pending,
		PaidAmount:    totals.Paid,
		Transactions:  make([]Transaction, 0, len(payments)),
	}
	for _, p := range payments {
		t := Transaction{
			PaymentID:  p.ID,
			JobID:      p.JobID,
			WorkerID:   p.WorkerID,
			Amount:     p.Amount,
			Status:     p.Status,
			CreatedAt:  p.CreatedAt,
			ApprovedAt: p.ApprovedAt,
			PaidAt:     p.PaidAt,
		}
		if p.Job != nil {
			t.JobTitle = p.Job.Title
		}
		w.Transactions = append(w.Transactions, t)
	}
	return w, nil
}

// PendingApprovals lists pending payments on jobs the caller owns, or on every
// job for admins.
func (s *Service) PendingApprovals(ctx context.Context, actor auth.Identity) ([]PendingApproval, error) {
	q := s.db.WithContext(ctx).Table("payments").
		Select("payments.id AS payment_id, users.name AS worker_name, users.phone_number AS worker_phone, "+
			"jobs.title AS job_title, payments.amount AS amount, payments.created_at AS submitted_at, "+
			"payments.submission_id AS submission_id").
		Joins("JOIN jobs ON jobs.id = payments.job_id").
		Joins("JOIN users ON users.id = payments.worker_id").
		Where("payments.status = ?", StatusPending)
	if !actor.IsAdmin() {
		q = q.Where("jobs.created_by = ?", actor.UserID)
	}

	rows := make([]PendingApproval, 0)
	if err := q.Order("payments.created_at DESC").Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Approve releases a payment and moves its job from verified to paid in one
// transaction.
func (s *Service) Approve(ctx context.Context, actor auth.Identity, paymentID string) (*Approval, error) {
	var (
		p   Payment
		j   job.Job
		now = s.now().UTC()
	)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Where("id = ?", paymentID).First(&p).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrPaymentNotFound
		}
		if err != nil {
			return err
		}

		err = tx.Clauses(clause.Locking{Strength: "UPDATE"}).Where("id = ?", p.JobID).First(&j).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return job.ErrJobNotFound
		}
		if err != nil {
			return err
		}
		if !actor.CanManage(j.CreatedBy) {
			return ErrNotJobOwner
		}
		if !p.Payable() {
			return ErrAlreadyPaid
		}

		res := tx.Model(&Payment{}).
			Where("id = ? AND status IN ?", p.ID, []Status{StatusPending, StatusApproved}).
			Updates(map[string]any{
				"status":      StatusPaid,
				"approved_by": actor.UserID,
				"approved_at": now,
				"paid_at":     now,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrAlreadyPaid
		}

		res = tx.Model(&job.Job{}).
			Where("id = ? AND status = ?", j.ID, job.StatusVerified).
			Update("status", job.StatusPaid)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrJobNotVerified
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrAlreadyPaid) || errors.Is(err, ErrJobNotVerified) {
			metrics.RecordConflict("payment_approve")
		}
		return nil, err
	}

	metrics.RecordTransition(string(job.StatusVerified), string(job.StatusPaid))
	s.log.Info("payment released",
		zap.String("payment_id", p.ID),
		zap.String("job_id", j.ID),
		zap.String("worker_id", p.WorkerID),
		zap.Float64("amount", p.Amount),
	)
	s.events.Emit(ctx, events.Event{
		Type:        events.PaymentPaid,
		JobID:       j.ID,
		JobTitle:    j.Title,
		ActorID:     actor.UserID,
		RecipientID: p.WorkerID,
		Data:        map[string]any{"payment_id": p.ID, "amount": p.Amount},
	})

	return &Approval{PaymentID: p.ID, Status: StatusPaid, PaidAt: now, JobStatus: job.StatusPaid}, nil
}
