package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/fadilmartias/hr-onboarding/internal/apperror"
	"github.com/fadilmartias/hr-onboarding/internal/dto"
	"github.com/fadilmartias/hr-onboarding/internal/model"
	"github.com/fadilmartias/hr-onboarding/internal/response"
	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
)

const recommendationCount = 5

type JobPostingStore interface {
	JobPostingFinder
	Create(ctx context.Context, job *model.JobPosting) error
	Search(ctx context.Context, q string, limit, offset int) ([]model.JobPosting, int64, error)
	UpdateEmbedding(ctx context.Context, id uint, embedding pgvector.Vector) error
	SearchSimilar(ctx context.Context, embedding pgvector.Vector, topK int) ([]model.JobPosting, error)
}

type ParsedResumeByDocument interface {
	FindByDocumentID(ctx context.Context, documentID uuid.UUID) (*model.ParsedResume, error)
}

type Embedder interface {
	GenerateEmbedding(ctx context.Context, text string) ([]float32, error)
}

type JobUsecase struct {
	postings JobPostingStore
	resumes  ParsedResumeByDocument
	embedder Embedder
	logger   *log.Logger
}

// NewJobUsecase builds the job posting usecase. embedder may be nil, in which
// case postings are stored without embeddings and recommendations are off.
func NewJobUsecase(postings JobPostingStore, resumes ParsedResumeByDocument, embedder Embedder) *JobUsecase {
	return &JobUsecase{
		postings: postings,
		resumes:  resumes,
		embedder: embedder,
		logger:   log.New(os.Stdout, "[jobs] ", log.LstdFlags),
	}
}

func (uc *JobUsecase) List(ctx context.Context, q string, page, pageSize int) ([]model.JobPosting, *response.Pagination, error) {
	page, pageSize, offset := response.PageBounds(page, pageSize)
	jobs, total, err := uc.postings.Search(ctx, q, pageSize, offset)
	if err != nil {
		return nil, nil, apperror.Persistence("job.list", "search job postings", err)
	}
	return jobs, response.NewPagination(page, pageSize, len(jobs), total), nil
}

func (uc *JobUsecase) Get(ctx context.Context, id uint) (*model.JobPosting, error) {
	job, err := uc.postings.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("job.get", "job posting not found")
		}
		return nil, apperror.Persistence("job.get", "load job posting", err)
	}
	return job, nil
}

// Create stores an open posting. The embedding is best effort; a failure is
// logged and the posting is kept without one.
func (uc *JobUsecase) Create(ctx context.Context, ident dto.Identity, req dto.JobPostingRequest) (*model.JobPosting, error) {
	const op = "job.create"
	if err := requireHR(op, ident); err != nil {
		return nil, err
	}
	job := &model.JobPosting{
		Title:       strings.TrimSpace(req.Title),
		Department:  strings.TrimSpace(req.Department),
		Location:    strings.TrimSpace(req.Location),
		Description: strings.TrimSpace(req.Description),
		Open:        true,
	}
	if job.Title == "" || job.Department == "" {
		return nil, apperror.Validation(op, "title and department are required")
	}
	if strings.EqualFold(job.Department, model.DepartmentAll) {
		return nil, apperror.Validation(op, "department ALL is reserved for catalog entries")
	}
	if err := uc.postings.Create(ctx, job); err != nil {
		return nil, apperror.Persistence(op, "create job posting", err)
	}

	if uc.embedder != nil {
		text := fmt.Sprintf("%s\n%s\n%s", job.Title, job.Department, job.Description)
		emb, err := uc.embedder.GenerateEmbedding(ctx, text)
		if err != nil {
			uc.logger.Printf("embed job posting id=%d: %v", job.ID, err)
			return job, nil
		}
		if err := uc.postings.UpdateEmbedding(ctx, job.ID, pgvector.NewVector(emb)); err != nil {
			uc.logger.Printf("store embedding job posting id=%d: %v", job.ID, err)
		}
	}
	return job, nil
}

// Recommend returns open postings closest to a parsed resume.
func (uc *JobUsecase) Recommend(ctx context.Context, ident dto.Identity, documentID uuid.UUID) ([]model.JobPosting, error) {
	const op = "job.recommend"
	if uc.embedder == nil {
		return nil, apperror.Validation(op, "recommendations are not configured")
	}
	parsed, err := uc.resumes.FindByDocumentID(ctx, documentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound(op, "no parsed resume for this document")
		}
		return nil, apperror.Persistence(op, "load parsed resume", err)
	}
	if parsed.CandidateID != ident.UserID && !ident.HasRole(string(model.RoleHR), string(model.RoleAdmin)) {
		return nil, apperror.Forbidden(op, "not your document")
	}

	text := resumeText(ToCanonicalResume(parsed))
	if text == "" {
		return []model.JobPosting{}, nil
	}
	emb, err := uc.embedder.GenerateEmbedding(ctx, text)
	if err != nil {
		return nil, apperror.New(apperror.KindHTTP, op, "embedding service unavailable", err)
	}
	jobs, err := uc.postings.SearchSimilar(ctx, pgvector.NewVector(emb), recommendationCount)
	if err != nil {
		return nil, apperror.Persistence(op, "search similar postings", err)
	}
	return jobs, nil
}

func resumeText(r dto.CanonicalResume) string {
	var b strings.Builder
	for _, e := range r.Experience {
		b.WriteString(e.Summary)
		b.WriteString("\n")
	}
	for _, e := range r.Education {
		b.WriteString(e.Summary)
		b.WriteString("\n")
	}
	if len(r.Skills) > 0 {
		b.WriteString("Skills: " + strings.Join(r.Skills, ", ") + "\n")
	}
	if len(r.Certificates) > 0 {
		b.WriteString("Certificates: " + strings.Join(r.Certificates, ", "))
	}
	return strings.TrimSpace(b.String())
}
