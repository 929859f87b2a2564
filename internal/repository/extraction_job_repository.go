package repository

import (
	"context"

	"github.com/fadilmartias/hr-onboarding/internal/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ExtractionJobRepository struct {
	db *gorm.DB
}

func NewExtractionJobRepository(db *gorm.DB) *ExtractionJobRepository {
	return &ExtractionJobRepository{db}
}

func (r *ExtractionJobRepository) Create(ctx context.Context, job *model.ExtractionJob) error {
	return r.db.WithContext(ctx).Create(job).Error
}

func (r *ExtractionJobRepository) Update(ctx context.Context, job *model.ExtractionJob) error {
	return r.db.WithContext(ctx).Save(job).Error
}

func (r *ExtractionJobRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.ExtractionJob, error) {
	var job model.ExtractionJob
	err := r.db.WithContext(ctx).First(&job, "id = ?", id).Error
	return &job, err
}

// ListByPhase returns the oldest jobs in the given phase first.
func (r *ExtractionJobRepository) ListByPhase(ctx context.Context, phase model.ExtractionPhase, limit int) ([]model.ExtractionJob, error) {
	var jobs []model.ExtractionJob
	q := r.db.WithContext(ctx).Where("phase = ?", phase).Order("created_at ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Find(&jobs).Error
	return jobs, err
}
