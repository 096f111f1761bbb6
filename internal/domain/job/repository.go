package job

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"climatejobs/internal/pkg/pagination"
)

type Repository interface {
	Create(ctx context.Context, j *Job) error
	GetByID(ctx context.Context, id string) (*Job, error)
	ListByCreator(ctx context.Context, creatorID string, status Status, p pagination.Params) ([]ListItem, int64, error)
	ListOpen(ctx context.Context, category Category) ([]Job, error)
	Update(ctx context.Context, id string, expected Status, fields map[string]any) error
	ForceStatus(ctx context.Context, id string, status Status) (Status, error)
	Delete(ctx context.Context, id string) ([]string, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, j *Job) error {
	return r.db.WithContext(ctx).Create(j).Error
}

func (r *repository) GetByID(ctx context.Context, id string) (*Job, error) {
	var j Job
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&j).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrJobNotFound
	}
	if err != nil {
		return nil, err
	}
	return &j, nil
}

// ListByCreator pages through jobs owned by creatorID with the number of
// applications each received.
func (r *repository) ListByCreator(ctx context.Context, creatorID string, status Status, p pagination.Params) ([]ListItem, int64, error) {
	scope := func() *gorm.DB {
		q := r.db.WithContext(ctx).Model(&Job{}).Where("jobs.created_by = ?", creatorID)
		if status != "" {
			q = q.Where("jobs.status = ?", status)
		}
		return q
	}

	var total int64
	if err := scope().Count(&total).Error; err != nil {
		return nil, 0, err
	}

	items := make([]ListItem, 0, p.Limit)
	err := scope().
		Select("jobs.*, (SELECT COUNT(*) FROM job_applications ja WHERE ja.job_id = jobs.id) AS application_count").
		Order("jobs.created_at DESC").
		Limit(p.Limit).
		Offset(p.Offset()).
		Scan(&items).Error
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *repository) ListOpen(ctx context.Context, category Category) ([]Job, error) {
	q := r.db.WithContext(ctx).Where("status = ?", StatusOpen)
	if category != "" {
		q = q.Where("category = ?", category)
	}

	var jobs []Job
	if err := q.Order("created_at DESC").Find(&jobs).Error; err != nil {
		return nil, err
	}
	return jobs, nil
}

// Update writes fields only while the job is still in the expected status.
func (r *repository) Update(ctx context.Context, id string, expected Status, fields map[string]any) error {
	res := r.db.WithContext(ctx).Model(&Job{}).
		Where("id = ? AND status = ?", id, expected).
		Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrStatusChanged
	}
	return nil
}

// ForceStatus overwrites the status regardless of the lifecycle and returns
// the previous one.
func (r *repository) ForceStatus(ctx context.Context, id string, status Status) (Status, error) {
	var previous Status
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var j Job
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Select("id", "status").
			Where("id = ?", id).
			First(&j).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrJobNotFound
		}
		if err != nil {
			return err
		}
		previous = j.Status

		return tx.Model(&Job{}).Where("id = ?", id).Update("status", status).Error
	})
	return previous, err
}

// Delete removes the job and every row that references it in one
// transaction. It returns the blob keys of the removed submissions.
func (r *repository) Delete(ctx context.Context, id string) ([]string, error) {
	var keys []string
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&Job{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return ErrJobNotFound
		}

		var paths []struct {
			BeforePhotoPath string
			AfterPhotoPath  string
		}
		if err := tx.Table("submissions").
			Select("before_photo_path, after_photo_path").
			Where("job_id = ?", id).
			Scan(&paths).Error; err != nil {
			return err
		}
		for _, p := range paths {
			keys = append(keys, p.BeforePhotoPath, p.AfterPhotoPath)
		}

		for _, table := range []string{"payments", "submissions", "job_applications"} {
			if err := tx.Exec("DELETE FROM "+table+" WHERE job_id = ?", id).Error; err != nil {
				return err
			}
		}
		return tx.Where("id = ?", id).Delete(&Job{}).Error
	})
	if err != nil {
		return nil, err
	}
	return keys, nil
}
