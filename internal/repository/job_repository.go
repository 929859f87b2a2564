package repository

import (
	"context"
	"strings"

	"github.com/fadilmartias/hr-onboarding/internal/model"
	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
)

type JobPostingRepository struct {
	db *gorm.DB
}

func NewJobPostingRepository(db *gorm.DB) *JobPostingRepository {
	return &JobPostingRepository{db}
}

// SearchSimilar orders open postings by distance to the given embedding.
// Postgres only; postings without an embedding are skipped.
func (r *JobPostingRepository) SearchSimilar(ctx context.Context, embedding pgvector.Vector, topK int) ([]model.JobPosting, error) {
	var jobs []model.JobPosting

	// pgvector <-> is Euclidean distance
	err := r.db.WithContext(ctx).Raw(`
        SELECT id, title, department, location, description, open, created_at, updated_at
        FROM job_postings
        WHERE open = true AND embedding IS NOT NULL
        ORDER BY embedding <-> ?
        LIMIT ?
    `, embedding, topK).Scan(&jobs).Error

	return jobs, err
}

func (r *JobPostingRepository) Create(ctx context.Context, job *model.JobPosting) error {
	return r.db.WithContext(ctx).Create(job).Error
}

func (r *JobPostingRepository) UpdateEmbedding(ctx context.Context, id uint, embedding pgvector.Vector) error {
	return r.db.WithContext(ctx).Model(&model.JobPosting{}).Where("id = ?", id).
		Update("embedding", embedding).Error
}

func (r *JobPostingRepository) FindByID(ctx context.Context, id uint) (*model.JobPosting, error) {
	var j model.JobPosting
	err := r.db.WithContext(ctx).Omit("embedding").First(&j, "id = ?", id).Error
	return &j, err
}

// Search lists open postings whose title or department contains q.
func (r *JobPostingRepository) Search(ctx context.Context, q string, limit, offset int) ([]model.JobPosting, int64, error) {
	query := r.db.WithContext(ctx).Model(&model.JobPosting{}).Where("open = ?", true)
	if q = strings.TrimSpace(q); q != "" {
		like := "%" + strings.ToLower(q) + "%"
		query = query.Where("LOWER(title) LIKE ? OR LOWER(department) LIKE ?", like, like)
	}
	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var jobs []model.JobPosting
	err := query.Omit("embedding").Order("created_at DESC, id DESC").Limit(limit).Offset(offset).Find(&jobs).Error
	return jobs, total, err
}
