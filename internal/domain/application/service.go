package application

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"climatejobs/internal/domain/auth"
	"climatejobs/internal/domain/job"
	"climatejobs/internal/events"
	"climatejobs/internal/logger"
	"climatejobs/internal/metrics"
	"climatejobs/internal/pkg/pagination"
	"climatejobs/internal/pkg/validator"
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

// Apply records a pending application on an open job.
func (s *Service) Apply(ctx context.Context, actor auth.Identity, jobID string, req ApplyRequest) (*Application, error) {
	if err := validator.Struct(req); err != nil {
		return nil, err
	}

	j, err := s.loadJob(s.db.WithContext(ctx), jobID, false)
	if err != nil {
		return nil, err
	}
	if j.Status != job.StatusOpen {
		return nil, ErrJobNotOpen
	}

	app := &Application{
		JobID:    jobID,
		WorkerID: actor.UserID,
		Status:   StatusPending,
		Message:  strings.TrimSpace(req.Message),
	}
	if err := s.db.WithContext(ctx).Create(app).Error; err != nil {
		if auth.IsUniqueViolation(err) {
			return nil, ErrAlreadyApplied
		}
		return nil, err
	}

	s.events.Emit(ctx, events.Event{
		Type:        events.ApplicationCreated,
		JobID:       j.ID,
		JobTitle:    j.Title,
		ActorID:     actor.UserID,
		RecipientID: j.CreatedBy,
		Data:        map[string]any{"application_id": app.ID},
	})
	return app, nil
}

// Accept assigns the job to the applicant. The application and the job change
// together or not at all, and only while the job is still open.
func (s *Service) Accept(ctx context.Context, actor auth.Identity, appID string) (*Decision, error) {
	var (
		app Application
		j   *job.Job
	)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := findApplication(tx, appID, &app, true); err != nil {
			return err
		}

		var err error
		if j, err = s.loadJob(tx, app.JobID, true); err != nil {
			return err
		}
		if !actor.CanManage(j.CreatedBy) {
			return ErrNotJobOwner
		}
		if j.Status != job.StatusOpen {
			return ErrJobNotOpen
		}
		if app.Status != StatusPending {
			return ErrAlreadyDecided
		}

		res := tx.Model(&job.Job{}).
			Where("id = ? AND status = ?", j.ID, job.StatusOpen).
			Updates(map[string]any{"status": job.StatusAssigned, "assigned_to": app.WorkerID})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrJobNotOpen
		}

		res = tx.Model(&Application{}).
			Where("id = ? AND status = ?", app.ID, StatusPending).
			Updates(map[string]any{"status": StatusAccepted, "responded_at": s.now().UTC()})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrAlreadyDecided
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrJobNotOpen) || errors.Is(err, ErrAlreadyDecided) {
			metrics.RecordConflict("application_accept")
		}
		return nil, err
	}

	metrics.RecordTransition(string(job.StatusOpen), string(job.StatusAssigned))
	s.log.Info("application accepted",
		zap.String("application_id", app.ID),
		zap.String("job_id", j.ID),
		zap.String("worker_id", app.WorkerID),
	)
	s.events.Emit(ctx, events.Event{
		Type:        events.ApplicationAccepted,
		JobID:       j.ID,
		JobTitle:    j.Title,
		ActorID:     actor.UserID,
		RecipientID: app.WorkerID,
		Data:        map[string]any{"application_id": app.ID},
	})

	return &Decision{ApplicationID: app.ID, JobID: j.ID, Status: StatusAccepted, JobStatus: job.StatusAssigned}, nil
}

// Reject declines a pending application. The job is left untouched.
func (s *Service) Reject(ctx context.Context, actor auth.Identity, appID string) (*Decision, error) {
	db := s.db.WithContext(ctx)

	var app Application
	if err := findApplication(db, appID, &app, false); err != nil {
		return nil, err
	}
	j, err := s.loadJob(db, app.JobID, false)
	if err != nil {
		return nil, err
	}
	if !actor.CanManage(j.CreatedBy) {
		return nil, ErrNotJobOwner
	}

	res := db.Model(&Application{}).
		Where("id = ? AND status = ?", app.ID, StatusPending).
		Updates(map[string]any{"status": StatusRejected, "responded_at": s.now().UTC()})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		metrics.RecordConflict("application_reject")
		return nil, ErrAlreadyDecided
	}

	s.events.Emit(ctx, events.Event{
		Type:        events.ApplicationRejected,
		JobID:       j.ID,
		JobTitle:    j.Title,
		ActorID:     actor.UserID,
		RecipientID: app.WorkerID,
		Data:        map[string]any{"application_id": app.ID},
	})
	return &Decision{ApplicationID: app.ID, JobID: j.ID, Status: StatusRejected, JobStatus: j.Status}, nil
}

// ListForJob returns every application of a job with the applicant's contact
// details. Owner or admin only.
func (s *Service) ListForJob(ctx context.Context, actor auth.Identity, jobID string) ([]Applicant, error) {
	db := s.db.WithContext(ctx)
	j, err := s.loadJob(db, jobID, false)
	if err != nil {
		return nil, err
	}
	if !actor.CanManage(j.CreatedBy) {
		return nil, ErrNotJobOwner
	}

	var apps []Application
	if err := db.Preload("Worker").
		Where("job_id = ?", jobID).
		Order("applied_at DESC").
		Find(&apps).Error; err != nil {
		return nil, err
	}

	out := make([]Applicant, 0, len(apps))
	for _, a := range apps {
		out = append(out, Applicant{
			ApplicationID: a.ID,
			WorkerID:      a.WorkerID,
			Worker:        a.Worker.Summary(),
			Status:        a.Status,
			Message:       a.Message,
			AppliedAt:     a.AppliedAt,
			RespondedAt:   respondedAt(a),
		})
	}
	return out, nil
}

// ListMine pages through the caller's applications at the requested stage.
// The stage is resolved in the query by joining the job.
func (s *Service) ListMine(ctx context.Context, actor auth.Identity, filter Filter, p pagination.Params) ([]Mine, int64, error) {
	if !filter.Valid() {
		return nil, 0, ErrInvalidFilter
	}

	scope := func() *gorm.DB {
		q := s.db.WithContext(ctx).Model(&Application{}).
			Joins("JOIN jobs ON jobs.id = job_applications.job_id").
			Where("job_applications.worker_id = ?", actor.UserID)
		switch filter {
		case FilterApplied:
			q = q.Where("job_applications.status = ?", StatusPending)
		case FilterOngoing:
			q = q.Where("job_applications.status = ? AND jobs.assigned_to = ? AND jobs.status IN ?",
				StatusAccepted, actor.UserID, []job.Status{job.StatusAssigned, job.StatusInProgress})
		case FilterCompleted:
			q = q.Where("job_applications.status = ? AND jobs.assigned_to = ? AND jobs.status IN ?",
				StatusAccepted, actor.UserID, []job.Status{job.StatusCompleted, job.StatusVerified, job.StatusPaid})
		}
		return q
	}

	var total int64
	if err := scope().Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var apps []Application
	if err := scope().
		Select("job_applications.*").
		Preload("Job").
		Order("job_applications.applied_at DESC").
		Limit(p.Limit).
		Offset(p.Offset()).
		Find(&apps).Error; err != nil {
		return nil, 0, err
	}

	out := make([]Mine, 0, len(apps))
	for _, a := range apps {
		out = append(out, Mine{
			ApplicationID: a.ID,
			JobID:         a.JobID,
			WorkerID:      a.WorkerID,
			Status:        a.Status,
			Message:       a.Message,
			AppliedAt:     a.AppliedAt,
			RespondedAt:   respondedAt(a),
			JobDetails:    a.Job,
		})
	}
	return out, total, nil
}

func (s *Service) loadJob(db *gorm.DB, jobID string, forUpdate bool) (*job.Job, error) {
	if forUpdate {
		db = db.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var j job.Job
	err := db.Where("id = ?", jobID).First(&j).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, job.ErrJobNotFound
	}
	if err != nil {
		return nil, err
	}
	return &j, nil
}

func findApplication(db *gorm.DB, appID string, app *Application, forUpdate bool) error {
	if forUpdate {
		db = db.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	err := db.Where("id = ?", appID).First(app).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrApplicationNotFound
	}
	return err
}

func respondedAt(a Application) *time.Time {
	if a.Status == StatusPending {
		return nil
	}
	if a.RespondedAt != nil {
		return a.RespondedAt
	}
	return &a.UpdatedAt
}
