package job

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"climatejobs/internal/domain/auth"
	"climatejobs/internal/events"
	"climatejobs/internal/logger"
	"climatejobs/internal/metrics"
	"climatejobs/internal/pkg/apperr"
	"climatejobs/internal/pkg/geo"
	"climatejobs/internal/pkg/pagination"
	"climatejobs/internal/pkg/validator"
)

const DefaultRadiusKM = 50

type userReader interface {
	GetByID(ctx context.Context, id string) (*auth.User, error)
}

type blobDeleter interface {
	Delete(ctx context.Context, key string) error
}

type emitter interface {
	Emit(ctx context.Context, e events.Event)
}

type nopEmitter struct{}

func (nopEmitter) Emit(context.Context, events.Event) {}

type Service struct {
	repo          Repository
	users         userReader
	blobs         blobDeleter
	events        emitter
	log           *zap.Logger
	defaultRadius float64
	now           func() time.Time
}

type Option func(*Service)

func WithBlobStore(b blobDeleter) Option {
	return func(s *Service) { s.blobs = b }
}

func WithEvents(e emitter) Option {
	return func(s *Service) {
		if e != nil {
			s.events = e
		}
	}
}

func WithDefaultRadiusKM(km float64) Option {
	return func(s *Service) {
		if km > 0 {
			s.defaultRadius = km
		}
	}
}

func NewService(repo Repository, users userReader, log *zap.Logger, opts ...Option) *Service {
	s := &Service{
		repo:          repo,
		users:         users,
		events:        nopEmitter{},
		log:           logger.OrNop(log),
		defaultRadius: DefaultRadiusKM,
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) Create(ctx context.Context, actor auth.Identity, req CreateRequest) (*Job, error) {
	if !actor.Can(auth.PermManageJobs) {
		return nil, apperr.New(apperr.Forbidden, "Only job creators can post jobs")
	}

	req.Title = strings.TrimSpace(req.Title)
	req.Description = strings.TrimSpace(req.Description)
	req.Location = strings.TrimSpace(req.Location)
	if err := validator.Struct(req); err != nil {
		return nil, err
	}
	if !req.Category.Valid() {
		return nil, ErrInvalidCategory
	}
	if *req.RewardAmount < 0 {
		return nil, ErrNegativeReward
	}
	if err := validator.Coordinates(req.Lat, req.Lng); err != nil {
		return nil, err
	}

	verification := true
	if req.VerificationRequired != nil {
		verification = *req.VerificationRequired
	}

	j := &Job{
		Title:                req.Title,
		Description:          req.Description,
		Category:             req.Category,
		Status:               StatusOpen,
		RewardAmount:         *req.RewardAmount,
		Location:             req.Location,
		Lat:                  req.Lat,
		Lng:                  req.Lng,
		Deadline:             req.Deadline,
		ProofRequirements:    strings.TrimSpace(req.ProofRequirements),
		VerificationRequired: verification,
		CreatedBy:            actor.UserID,
	}
	if err := s.repo.Create(ctx, j); err != nil {
		return nil, err
	}

	s.log.Info("job created", zap.String("job_id", j.ID), zap.String("created_by", j.CreatedBy))
	return j, nil
}

func (s *Service) ListMine(ctx context.Context, actor auth.Identity, status Status, p pagination.Params) ([]ListItem, int64, error) {
	if status != "" && !status.Valid() {
		return nil, 0, ErrInvalidStatus
	}
	return s.repo.ListByCreator(ctx, actor.UserID, status, p)
}

// Discover lists open jobs. With a requester point, jobs farther than the
// radius are dropped and the rest are ordered nearest first; jobs without
// coordinates are kept with no distance.
func (s *Service) Discover(ctx context.Context, q DiscoverQuery, p pagination.Params) ([]Nearby, int64, error) {
	if (q.Lat == nil) != (q.Lng == nil) {
		return nil, 0, ErrIncompleteLocation
	}
	if err := validator.Coordinates(q.Lat, q.Lng); err != nil {
		return nil, 0, err
	}
	if q.Category != "" && !q.Category.Valid() {
		return nil, 0, ErrInvalidCategory
	}
	if q.RadiusKM < 0 {
		return nil, 0, ErrInvalidRadius
	}
	radius := q.RadiusKM
	if radius == 0 {
		radius = s.defaultRadius
	}

	jobs, err := s.repo.ListOpen(ctx, q.Category)
	if err != nil {
		return nil, 0, err
	}

	results := make([]Nearby, 0, len(jobs))
	for _, j := range jobs {
		item := Nearby{Job: j}
		if q.Lat != nil && j.HasCoordinates() {
			d := geo.DistanceKM(*q.Lat, *q.Lng, *j.Lat, *j.Lng)
			if d > radius {
				continue
			}
			rounded := geo.Round2(d)
			item.DistanceKM = &rounded
		}
		results = append(results, item)
	}

	if q.Lat != nil {
		sort.SliceStable(results, func(a, b int) bool {
			da, db := results[a].DistanceKM, results[b].DistanceKM
			switch {
			case da == nil:
				return false
			case db == nil:
				return true
			default:
				return *da < *db
			}
		})
	}

	total := int64(len(results))
	start := p.Offset()
	if start > len(results) {
		start = len(results)
	}
	end := start + p.Limit
	if end > len(results) {
		end = len(results)
	}
	return results[start:end], total, nil
}

// Get returns the job with its creator and assignee.
func (s *Service) Get(ctx context.Context, jobID string) (*Detail, error) {
	j, err := s.repo.GetByID(ctx, jobID)
	if err != nil {
		return nil, err
	}

	detail := &Detail{Job: j}
	if detail.Creator, err = s.summary(ctx, j.CreatedBy); err != nil {
		return nil, err
	}
	if j.AssignedTo != nil {
		if detail.AssignedUser, err = s.summary(ctx, *j.AssignedTo); err != nil {
			return nil, err
		}
	}
	return detail, nil
}

func (s *Service) summary(ctx context.Context, userID string) (*auth.Summary, error) {
	u, err := s.users.GetByID(ctx, userID)
	if errors.Is(err, auth.ErrUserNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return u.Summary(), nil
}

func (s *Service) Update(ctx context.Context, actor auth.Identity, jobID string, req UpdateRequest) (*Job, error) {
	if err := validator.Struct(req); err != nil {
		return nil, err
	}

	j, err := s.repo.GetByID(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if !actor.CanManage(j.CreatedBy) {
		return nil, ErrNotOwner
	}

	fields := map[string]any{}
	if req.Title != nil {
		fields["title"] = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		fields["description"] = strings.TrimSpace(*req.Description)
	}
	if req.RewardAmount != nil {
		if *req.RewardAmount < 0 {
			return nil, ErrNegativeReward
		}
		fields["reward_amount"] = *req.RewardAmount
	}
	if req.Deadline != nil {
		fields["deadline"] = *req.Deadline
	}
	if req.ProofRequirements != nil {
		fields["proof_requirements"] = strings.TrimSpace(*req.ProofRequirements)
	}

	var next Status
	if req.Status != nil && *req.Status != j.Status {
		next = *req.Status
		if !next.Valid() {
			return nil, ErrInvalidStatus
		}
		if !j.Status.CanTransitionTo(next) || !ownerSettable[next] {
			return nil, ErrInvalidTransition
		}
		fields["status"] = next
		if next == StatusCompleted {
			fields["completed_at"] = s.now().UTC()
		}
	}
	if len(fields) == 0 {
		return nil, ErrNoFieldsToUpdate
	}

	if err := s.repo.Update(ctx, jobID, j.Status, fields); err != nil {
		if errors.Is(err, ErrStatusChanged) {
			metrics.RecordConflict("job_update")
		}
		return nil, err
	}
	if next != "" {
		metrics.RecordTransition(string(j.Status), string(next))
	}

	return s.repo.GetByID(ctx, jobID)
}

// ForceStatus sets any status, bypassing the lifecycle. Admin only.
func (s *Service) ForceStatus(ctx context.Context, actor auth.Identity, jobID string, req ForceStatusRequest) (*Job, error) {
	if !actor.Can(auth.PermForceJobStatus) {
		return nil, apperr.New(apperr.Forbidden, "Only administrators can force a job status")
	}
	if req.Status == "" {
		return nil, ErrForceStatusRequired
	}
	if !req.Status.Valid() {
		return nil, ErrInvalidStatus
	}
	if err := validator.Struct(req); err != nil {
		return nil, err
	}

	previous, err := s.repo.ForceStatus(ctx, jobID, req.Status)
	if err != nil {
		return nil, err
	}

	s.log.Warn("job status forced",
		zap.String("job_id", jobID),
		zap.String("from", string(previous)),
		zap.String("to", string(req.Status)),
		zap.String("actor_id", actor.UserID),
		zap.String("reason", req.Reason),
	)
	metrics.RecordTransition(string(previous), string(req.Status))

	j, err := s.repo.GetByID(ctx, jobID)
	if err != nil {
		return nil, err
	}
	s.events.Emit(ctx, events.Event{
		Type:        events.JobStatusForced,
		JobID:       j.ID,
		JobTitle:    j.Title,
		ActorID:     actor.UserID,
		RecipientID: j.CreatedBy,
		Data:        map[string]any{"from": previous, "to": req.Status, "reason": req.Reason},
	})
	return j, nil
}

// Delete removes the job with its applications, submissions and payments,
// then drops the proof images. Image removal failures leave orphans and are
// only logged.
func (s *Service) Delete(ctx context.Context, actor auth.Identity, jobID string) error {
	j, err := s.repo.GetByID(ctx, jobID)
	if err != nil {
		return err
	}
	if !actor.CanManage(j.CreatedBy) {
		return ErrNotOwner
	}

	keys, err := s.repo.Delete(ctx, jobID)
	if err != nil {
		return err
	}

	if s.blobs != nil {
		for _, key := range keys {
			if key == "" {
				continue
			}
			if err := s.blobs.Delete(ctx, key); err != nil {
				metrics.BlobCompensationFailures.Inc()
				s.log.Error("orphaned proof image after job delete",
					zap.String("job_id", jobID), zap.String("key", key), zap.Error(err))
			}
		}
	}

	s.log.Info("job deleted", zap.String("job_id", jobID), zap.String("actor_id", actor.UserID))
	return nil
}
