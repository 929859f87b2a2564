package repository

import (
	"context"

	"github.com/fadilmartias/hr-onboarding/internal/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ParsedResumeRepository struct {
	db *gorm.DB
}

func NewParsedResumeRepository(db *gorm.DB) *ParsedResumeRepository {
	return &ParsedResumeRepository{db}
}

func (r *ParsedResumeRepository) FindByDocumentID(ctx context.Context, documentID uuid.UUID) (*model.ParsedResume, error) {
	var p model.ParsedResume
	err := r.db.WithContext(ctx).First(&p, "document_id = ?", documentID).Error
	return &p, err
}

// FindLatest returns the most recent parsed resume a candidate submitted for
// a posting.
func (r *ParsedResumeRepository) FindLatest(ctx context.Context, candidateID uuid.UUID, jobPostingID uint) (*model.ParsedResume, error) {
	var p model.ParsedResume
	err := r.db.WithContext(ctx).
		Where("candidate_id = ? AND job_posting_id = ?", candidateID, jobPostingID).
		Order("created_at DESC").
		First(&p).Error
	return &p, err
}
