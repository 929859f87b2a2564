package repository

import (
	"context"
	"time"

	"github.com/fadilmartias/hr-onboarding/internal/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ApplicationRepository struct {
	db *gorm.DB
}

func NewApplicationRepository(db *gorm.DB) *ApplicationRepository {
	return &ApplicationRepository{db}
}

// Open creates the application for a new upload, or resets the API fields of
// an existing one. HR status and notes are left alone on resubmission.
func (r *ApplicationRepository) Open(ctx context.Context, candidateID uuid.UUID, jobPostingID uint) (*model.Application, error) {
	app := model.Application{
		CandidateID:  candidateID,
		JobPostingID: jobPostingID,
		Status:       model.StatusSubmitted,
		APIStatus:    model.APIStatusPending,
	}
	err := r.db.WithContext(ctx).Omit(clause.Associations).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "candidate_id"}, {Name: "job_posting_id"}},
		DoUpdates: clause.Assignments(map[string]any{
			"api_status": model.APIStatusPending,
			"api_error":  "",
			"updated_at": time.Now(),
		}),
	}).Create(&app).Error
	if err != nil {
		return nil, err
	}
	return r.FindByCandidateJob(ctx, candidateID, jobPostingID)
}

func (r *ApplicationRepository) FindByCandidateJob(ctx context.Context, candidateID uuid.UUID, jobPostingID uint) (*model.Application, error) {
	var app model.Application
	err := r.db.WithContext(ctx).
		First(&app, "candidate_id = ? AND job_posting_id = ?", candidateID, jobPostingID).Error
	return &app, err
}

func (r *ApplicationRepository) FindByID(ctx context.Context, id uint) (*model.Application, error) {
	var app model.Application
	err := r.db.WithContext(ctx).
		Preload("Candidate").
		Preload("JobPosting", func(db *gorm.DB) *gorm.DB { return db.Omit("embedding") }).
		First(&app, "id = ?", id).Error
	return &app, err
}

// List returns applications newest first, optionally filtered by status.
func (r *ApplicationRepository) List(ctx context.Context, status model.ApplicationStatus, limit, offset int) ([]model.Application, int64, error) {
	query := r.db.WithContext(ctx).Model(&model.Application{})
	if status != "" {
		query = query.Where("status = ?", status)
	}
	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var apps []model.Application
	err := query.
		Preload("Candidate").
		Preload("JobPosting", func(db *gorm.DB) *gorm.DB { return db.Omit("embedding") }).
		Order("updated_at DESC, id DESC").
		Limit(limit).Offset(offset).
		Find(&apps).Error
	return apps, total, err
}
