package submission

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"climatejobs/internal/domain/auth"
	"climatejobs/internal/domain/job"
	"climatejobs/internal/domain/payment"
	"climatejobs/internal/events"
	"climatejobs/internal/logger"
	"climatejobs/internal/metrics"
	"climatejobs/internal/pkg/validator"
	"climatejobs/internal/storage"
)

const compensationTimeout = 10 * time.Second

type emitter interface {
	Emit(ctx context.Context, e events.Event)
}

type nopEmitter struct{}

func (nopEmitter) Emit(context.Context, events.Event) {}

type Service struct {
	db     *gorm.DB
	blobs  storage.BlobStore
	urls   *storage.URLRewriter
	events emitter
	log    *zap.Logger
	now    func() time.Time
}

func NewService(db *gorm.DB, blobs storage.BlobStore, urls *storage.URLRewriter, ev emitter, log *zap.Logger) *Service {
	if ev == nil {
		ev = nopEmitter{}
	}
	return &Service{db: db, blobs: blobs, urls: urls, events: ev, log: logger.OrNop(log), now: time.Now}
}

// Create stores both proof photos and records a pending submission. Uploaded
// blobs are deleted again when a later step fails.
func (s *Service) Create(ctx context.Context, actor auth.Identity, req CreateRequest, before, after Photo) (*Created, error) {
	if err := validator.UUIDParam("job_id", req.JobID); err != nil {
		return nil, err
	}
	if err := validator.Coordinates(req.Lat, req.Lng); err != nil {
		return nil, err
	}
	beforeType, beforeExt, err := before.sniff()
	if err != nil {
		return nil, err
	}
	afterType, afterExt, err := after.sniff()
	if err != nil {
		return nil, err
	}

	var j job.Job
	err = s.db.WithContext(ctx).Where("id = ?", req.JobID).First(&j).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, job.ErrJobNotFound
	}
	if err != nil {
		return nil, err
	}
	if !j.IsAssignedTo(actor.UserID) {
		return nil, ErrNotAssignee
	}
	if j.Status.Finished() {
		return nil, ErrJobFinished
	}

	stamp := s.now().UnixMilli()
	prefix := fmt.Sprintf("submissions/%s/%s", j.ID, actor.UserID)
	beforeKey := fmt.Sprintf("%s/before_%d%s", prefix, stamp, beforeExt)
	afterKey := fmt.Sprintf("%s/after_%d%s", prefix, stamp, afterExt)

	beforeURL, err := s.blobs.Put(ctx, beforeKey, before.Data, beforeType)
	if err != nil {
		return nil, fmt.Errorf("failed to store before photo: %w", err)
	}
	afterURL, err := s.blobs.Put(ctx, afterKey, after.Data, afterType)
	if err != nil {
		s.compensate(ctx, beforeKey)
		return nil, fmt.Errorf("failed to store after photo: %w", err)
	}

	sub := &Submission{
		JobID:              j.ID,
		WorkerID:           actor.UserID,
		BeforePhotoURL:     s.urls.Public(beforeURL),
		AfterPhotoURL:      s.urls.Public(afterURL),
		BeforePhotoPath:    beforeKey,
		AfterPhotoPath:     afterKey,
		Notes:              strings.TrimSpace(req.Notes),
		Lat:                req.Lat,
		Lng:                req.Lng,
		VerificationStatus: StatusPending,
	}

	started := false
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(sub).Error; err != nil {
			return err
		}
		res := tx.Model(&job.Job{}).
			Where("id = ? AND status = ?", j.ID, job.StatusAssigned).
			Updates(map[string]any{"status": job.StatusInProgress, "updated_at": s.now().UTC()})
		if res.Error != nil {
			return res.Error
		}
		started = res.RowsAffected > 0
		return nil
	})
	if err != nil {
		s.compensate(ctx, beforeKey, afterKey)
		return nil, err
	}
	if started {
		metrics.RecordTransition(string(job.StatusAssigned), string(job.StatusInProgress))
	}

	s.log.Info("submission created",
		zap.String("submission_id", sub.ID),
		zap.String("job_id", j.ID),
		zap.String("worker_id", actor.UserID),
	)
	s.events.Emit(ctx, events.Event{
		Type:        events.SubmissionCreated,
		JobID:       j.ID,
		JobTitle:    j.Title,
		ActorID:     actor.UserID,
		RecipientID: j.CreatedBy,
		Data:        map[string]any{"submission_id": sub.ID},
	})

	return &Created{SubmissionID: sub.ID, BeforePhotoURL: sub.BeforePhotoURL, AfterPhotoURL: sub.AfterPhotoURL}, nil
}

// compensate removes blobs left behind by a failed create. It runs on a
// detached context so a cancelled request still cleans up.
func (s *Service) compensate(ctx context.Context, keys ...string) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), compensationTimeout)
	defer cancel()

	for _, key := range keys {
		if err := s.blobs.Delete(ctx, key); err != nil && !errors.Is(err, storage.ErrNotFound) {
			metrics.BlobCompensationFailures.Inc()
			s.log.Error("compensating blob delete failed, object orphaned",
				zap.String("key", key),
				zap.Error(err),
			)
		}
	}
}

// ListPending returns unresolved submissions on jobs the caller owns, or on
// every job for admins.
func (s *Service) ListPending(ctx context.Context, actor auth.Identity) ([]Pending, error) {
	type row struct {
		SubmissionID   string
		JobID          string
		JobTitle       string
		WorkerName     string
		WorkerPhone    string
		SubmittedAt    time.Time
		BeforePhotoURL string
		AfterPhotoURL  string
		Notes          string
	}

	q := s.db.WithContext(ctx).Table("submissions").
		Select("submissions.id AS submission_id, submissions.job_id AS job_id, jobs.title AS job_title, "+
			"users.name AS worker_name, users.phone_number AS worker_phone, "+
			"submissions.submitted_at AS submitted_at, submissions.before_photo_url AS before_photo_url, "+
			"submissions.after_photo_url AS after_photo_url, submissions.notes AS notes").
		Joins("JOIN jobs ON jobs.id = submissions.job_id").
		Joins("JOIN users ON users.id = submissions.worker_id").
		Where("submissions.verification_status = ?", StatusPending)
	if !actor.IsAdmin() {
		q = q.Where("jobs.created_by = ?", actor.UserID)
	}

	var rows []row
	if err := q.Order("submissions.submitted_at DESC").Scan(&rows).Error; err != nil {
		return nil, err
	}

	out := make([]Pending, 0, len(rows))
	for _, r := range rows {
		out = append(out, Pending{
			SubmissionID: r.SubmissionID,
			JobID:        r.JobID,
			JobTitle:     r.JobTitle,
			WorkerName:   r.WorkerName,
			WorkerPhone:  r.WorkerPhone,
			SubmittedAt:  r.SubmittedAt,
			Photos:       Photos{Before: s.urls.Public(r.BeforePhotoURL), After: s.urls.Public(r.AfterPhotoURL)},
			Notes:        r.Notes,
		})
	}
	return out, nil
}

// Get returns a submission with its job, worker and verifier. Only the
// worker, the job owner and admins may read it.
func (s *Service) Get(ctx context.Context, actor auth.Identity, id string) (*Detail, error) {
	var sub Submission
	err := s.db.WithContext(ctx).Preload("Job").Preload("Worker").Where("id = ?", id).First(&sub).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrSubmissionNotFound
	}
	if err != nil {
		return nil, err
	}

	owner := ""
	if sub.Job != nil {
		owner = sub.Job.CreatedBy
	}
	if sub.WorkerID != actor.UserID && !actor.CanManage(owner) {
		return nil, ErrNoAccess
	}

	sub.BeforePhotoURL = s.urls.Public(sub.BeforePhotoURL)
	sub.AfterPhotoURL = s.urls.Public(sub.AfterPhotoURL)
	d := &Detail{Submission: &sub, Job: sub.Job, Worker: sub.Worker.Summary()}

	if sub.VerifiedBy != nil {
		var verifier auth.User
		err := s.db.WithContext(ctx).Where("id = ?", *sub.VerifiedBy).First(&verifier).Error
		switch {
		case err == nil:
			d.Verifier = verifier.Summary()
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return nil, err
		}
	}
	return d, nil
}

// Verify resolves a pending submission. Approval records the payment and
// moves the job to verified in the same transaction; rejection leaves the job
// in progress so the worker can resubmit.
func (s *Service) Verify(ctx context.Context, actor auth.Identity, id string, req VerifyRequest) (*Verification, error) {
	req.RejectionReason = strings.TrimSpace(req.RejectionReason)
	if err := validator.Struct(req); err != nil {
		return nil, err
	}
	if req.Status == StatusRejected && req.RejectionReason == "" {
		return nil, ErrReasonRequired
	}

	var (
		sub    Submission
		j      job.Job
		pay    *payment.Payment
		now    = s.now().UTC()
		result = &Verification{SubmissionID: id, VerificationStatus: req.Status}
	)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Where("id = ?", id).First(&sub).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrSubmissionNotFound
		}
		if err != nil {
			return err
		}

		err = tx.Clauses(clause.Locking{Strength: "UPDATE"}).Where("id = ?", sub.JobID).First(&j).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return job.ErrJobNotFound
		}
		if err != nil {
			return err
		}
		if !actor.CanManage(j.CreatedBy) {
			return ErrNotJobOwner
		}

		fields := map[string]any{
			"verification_status": req.Status,
			"verified_by":         actor.UserID,
			"verified_at":         now,
		}
		if req.Status == StatusRejected {
			fields["rejection_reason"] = req.RejectionReason
		}
		res := tx.Model(&Submission{}).
			Where("id = ? AND verification_status = ?", sub.ID, StatusPending).
			Updates(fields)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrAlreadyVerified
		}

		result.JobStatus = j.Status
		if req.Status == StatusRejected {
			return nil
		}

		pay = payment.NewPending(&j, sub.WorkerID, sub.ID)
		if err := tx.Create(pay).Error; err != nil {
			if auth.IsUniqueViolation(err) {
				return ErrAlreadyVerified
			}
			return err
		}

		completedAt := now
		if j.CompletedAt != nil {
			completedAt = *j.CompletedAt
		}
		res = tx.Model(&job.Job{}).
			Where("id = ? AND status IN ?", j.ID, []job.Status{job.StatusInProgress, job.StatusCompleted}).
			Updates(map[string]any{
				"status":       job.StatusVerified,
				"completed_at": completedAt,
				"verified_at":  now,
				"verified_by":  actor.UserID,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrJobNotInProgress
		}
		result.JobStatus = job.StatusVerified
		result.PaymentID = pay.ID
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrAlreadyVerified) || errors.Is(err, ErrJobNotInProgress) {
			metrics.RecordConflict("submission_verify")
		}
		return nil, err
	}

	s.log.Info("submission verified",
		zap.String("submission_id", sub.ID),
		zap.String("job_id", j.ID),
		zap.String("decision", string(req.Status)),
		zap.String("verified_by", actor.UserID),
	)

	e := events.Event{
		Type:        events.SubmissionRejected,
		JobID:       j.ID,
		JobTitle:    j.Title,
		ActorID:     actor.UserID,
		RecipientID: sub.WorkerID,
		Data:        map[string]any{"submission_id": sub.ID, "rejection_reason": req.RejectionReason},
	}
	if req.Status == StatusApproved {
		metrics.RecordTransition(string(j.Status), string(job.StatusVerified))
		e.Type = events.SubmissionApproved
		e.Data = map[string]any{"submission_id": sub.ID, "payment_id": pay.ID, "amount": pay.Amount}
	}
	s.events.Emit(ctx, e)

	return result, nil
}
