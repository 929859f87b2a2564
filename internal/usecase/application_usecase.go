package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/fadilmartias/hr-onboarding/internal/apperror"
	"github.com/fadilmartias/hr-onboarding/internal/dto"
	"github.com/fadilmartias/hr-onboarding/internal/model"
	"github.com/fadilmartias/hr-onboarding/internal/response"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ApplicationStore interface {
	FindByID(ctx context.Context, id uint) (*model.Application, error)
	List(ctx context.Context, status model.ApplicationStatus, limit, offset int) ([]model.Application, int64, error)
}

type ParsedResumeFinder interface {
	FindLatest(ctx context.Context, candidateID uuid.UUID, jobPostingID uint) (*model.ParsedResume, error)
}

// StatusWriter is the status side of the persistence gateway.
type StatusWriter interface {
	UpdateApplicationStatus(ctx context.Context, applicationID uint, status model.ApplicationStatus, notes string) bool
	Provision(ctx context.Context, applicationID uint) error
}

type ApplicationUsecase struct {
	applications ApplicationStore
	resumes      ParsedResumeFinder
	gateway      StatusWriter
}

func NewApplicationUsecase(applications ApplicationStore, resumes ParsedResumeFinder, gateway StatusWriter) *ApplicationUsecase {
	return &ApplicationUsecase{applications: applications, resumes: resumes, gateway: gateway}
}

func (uc *ApplicationUsecase) List(ctx context.Context, ident dto.Identity, status string, page, pageSize int) ([]dto.ApplicationDTO, *response.Pagination, error) {
	const op = "application.list"
	if err := requireHR(op, ident); err != nil {
		return nil, nil, err
	}
	s := model.ApplicationStatus(strings.TrimSpace(status))
	if s != "" && !s.Valid() {
		return nil, nil, apperror.Validation(op, fmt.Sprintf("unknown status %q", status))
	}

	page, pageSize, offset := response.PageBounds(page, pageSize)
	apps, total, err := uc.applications.List(ctx, s, pageSize, offset)
	if err != nil {
		return nil, nil, apperror.Persistence(op, "list applications", err)
	}
	out := make([]dto.ApplicationDTO, 0, len(apps))
	for i := range apps {
		out = append(out, toApplicationDTO(&apps[i], nil))
	}
	return out, response.NewPagination(page, pageSize, len(out), total), nil
}

// Get returns one application with the candidate's latest parsed resume.
func (uc *ApplicationUsecase) Get(ctx context.Context, ident dto.Identity, id uint) (*dto.ApplicationDTO, error) {
	const op = "application.get"
	if err := requireHR(op, ident); err != nil {
		return nil, err
	}
	app, err := uc.load(ctx, op, id)
	if err != nil {
		return nil, err
	}

	var resume *dto.CanonicalResume
	parsed, err := uc.resumes.FindLatest(ctx, app.CandidateID, app.JobPostingID)
	switch {
	case err == nil:
		r := ToCanonicalResume(parsed)
		resume = &r
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, apperror.Persistence(op, "load parsed resume", err)
	}

	out := toApplicationDTO(app, resume)
	return &out, nil
}

// UpdateStatus moves an application along submitted -> under_review ->
// hired|rejected. Saving the current status again only updates notes.
func (uc *ApplicationUsecase) UpdateStatus(ctx context.Context, ident dto.Identity, id uint, req dto.UpdateStatusRequest) (*dto.ApplicationDTO, error) {
	const op = "application.update_status"
	if err := requireHR(op, ident); err != nil {
		return nil, err
	}
	next := model.ApplicationStatus(strings.TrimSpace(req.Status))
	if !next.Valid() {
		return nil, apperror.Validation(op, "status must be one of submitted, under_review, hired, rejected")
	}

	app, err := uc.load(ctx, op, id)
	if err != nil {
		return nil, err
	}
	if !app.Status.CanTransitionTo(next) {
		return nil, apperror.Conflict(op, fmt.Sprintf("cannot move application from %s to %s", app.Status, next))
	}
	if !uc.gateway.UpdateApplicationStatus(ctx, id, next, strings.TrimSpace(req.Notes)) {
		return nil, apperror.Persistence(op, "status could not be saved", nil)
	}

	return uc.Get(ctx, ident, id)
}

// RetryProvisioning repeats the hire side effects for a hired application.
func (uc *ApplicationUsecase) RetryProvisioning(ctx context.Context, ident dto.Identity, id uint) (*dto.ApplicationDTO, error) {
	const op = "application.provision"
	if err := requireHR(op, ident); err != nil {
		return nil, err
	}
	app, err := uc.load(ctx, op, id)
	if err != nil {
		return nil, err
	}
	if app.Status != model.StatusHired {
		return nil, apperror.Conflict(op, "only hired applications can be provisioned")
	}
	if err := uc.gateway.Provision(ctx, id); err != nil {
		return nil, apperror.New(apperror.KindInternal, op, "provisioning failed: "+err.Error(), err)
	}
	return uc.Get(ctx, ident, id)
}

func (uc *ApplicationUsecase) load(ctx context.Context, op string, id uint) (*model.Application, error) {
	app, err := uc.applications.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound(op, "application not found")
		}
		return nil, apperror.Persistence(op, "load application", err)
	}
	return app, nil
}

// ToCanonicalResume decodes a stored parsed resume. Columns that fail to
// decode come back as empty lists.
func ToCanonicalResume(p *model.ParsedResume) dto.CanonicalResume {
	r := dto.NewCanonicalResume()
	r.Contact.Name = p.Name
	r.Contact.Email = p.Email
	r.Contact.Phone = p.Phone
	r.Contact.Address = p.Address
	_ = json.Unmarshal(p.Links, &r.Contact.Links)
	_ = json.Unmarshal(p.Experience, &r.Experience)
	_ = json.Unmarshal(p.Education, &r.Education)
	_ = json.Unmarshal(p.Skills, &r.Skills)
	_ = json.Unmarshal(p.Certificates, &r.Certificates)
	if len(p.RawPayload) > 0 {
		r.Raw = json.RawMessage(p.RawPayload)
	}
	r.Fill()
	return r
}

func toApplicationDTO(app *model.Application, resume *dto.CanonicalResume) dto.ApplicationDTO {
	return dto.ApplicationDTO{
		ID:                app.ID,
		CandidateID:       app.CandidateID,
		CandidateName:     app.Candidate.Name,
		CandidateEmail:    app.Candidate.Email,
		JobPostingID:      app.JobPostingID,
		JobTitle:          app.JobPosting.Title,
		Department:        app.JobPosting.Department,
		Status:            string(app.Status),
		Notes:             app.Notes,
		APIStatus:         string(app.APIStatus),
		APIError:          app.APIError,
		ProvisioningError: app.ProvisioningError,
		Resume:            resume,
		CreatedAt:         app.CreatedAt,
		UpdatedAt:         app.UpdatedAt,
	}
}

func requireHR(op string, ident dto.Identity) error {
	if !ident.HasRole(string(model.RoleHR), string(model.RoleAdmin)) {
		return apperror.Forbidden(op, "HR access required")
	}
	return nil
}
