package usecase

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/fadilmartias/hr-onboarding/internal/apperror"
	"github.com/fadilmartias/hr-onboarding/internal/dto"
	"github.com/fadilmartias/hr-onboarding/internal/model"
	"github.com/fadilmartias/hr-onboarding/internal/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var hrIdentity = dto.Identity{UserID: uuid.New(), Role: string(model.RoleHR)}

func TestHireProvisionsEmployeeOnce(t *testing.T) {
	t.Parallel()

	env := newWorkflowEnv(t)
	ctx := context.Background()
	app := env.apply(t, "Engineering")

	if _, err := env.apps.UpdateStatus(ctx, hrIdentity, app.ID, dto.UpdateStatusRequest{Status: "hired"}); !apperror.Is(err, apperror.KindConflict) {
		t.Fatalf("submitted -> hired should be rejected, got %v", err)
	}
	if _, err := env.apps.UpdateStatus(ctx, hrIdentity, app.ID, dto.UpdateStatusRequest{Status: "under_review", Notes: "phone screen"}); err != nil {
		t.Fatalf("under_review: %v", err)
	}
	got, err := env.apps.UpdateStatus(ctx, hrIdentity, app.ID, dto.UpdateStatusRequest{Status: "hired", Notes: "offer accepted"})
	if err != nil {
		t.Fatalf("hired: %v", err)
	}
	if got.Status != "hired" || got.Notes != "offer accepted" || got.ProvisioningError != "" {
		t.Fatalf("unexpected application %+v", got)
	}

	var user model.User
	env.db.First(&user, "id = ?", app.CandidateID)
	if user.Role != model.RoleEmployee || !user.Active || user.Department != "Engineering" {
		t.Fatalf("user not provisioned: %+v", user)
	}
	env.assertAssigned(t, app.CandidateID, 2, 2)

	// Re-saving hired only touches notes.
	if _, err := env.apps.UpdateStatus(ctx, hrIdentity, app.ID, dto.UpdateStatusRequest{Status: "hired", Notes: "start monday"}); err != nil {
		t.Fatalf("re-save hired: %v", err)
	}
	env.assertAssigned(t, app.CandidateID, 2, 2)

	if _, err := env.apps.UpdateStatus(ctx, hrIdentity, app.ID, dto.UpdateStatusRequest{Status: "rejected"}); !apperror.Is(err, apperror.KindConflict) {
		t.Fatalf("hired is terminal, got %v", err)
	}

	// Manual retry is safe because each step is idempotent.
	if _, err := env.apps.RetryProvisioning(ctx, hrIdentity, app.ID); err != nil {
		t.Fatalf("RetryProvisioning: %v", err)
	}
	env.assertAssigned(t, app.CandidateID, 2, 2)
}

func TestHireWithOnlyAllCatalogEntries(t *testing.T) {
	t.Parallel()

	env := newWorkflowEnv(t)
	ctx := context.Background()
	app := env.apply(t, "Marketing")

	for _, status := range []string{"under_review", "hired"} {
		if _, err := env.apps.UpdateStatus(ctx, hrIdentity, app.ID, dto.UpdateStatusRequest{Status: status}); err != nil {
			t.Fatalf("%s: %v", status, err)
		}
	}
	env.assertAssigned(t, app.CandidateID, 1, 1)
}

func TestRejectedIsTerminal(t *testing.T) {
	t.Parallel()

	env := newWorkflowEnv(t)
	ctx := context.Background()
	app := env.apply(t, "Engineering")

	for _, status := range []string{"under_review", "rejected"} {
		if _, err := env.apps.UpdateStatus(ctx, hrIdentity, app.ID, dto.UpdateStatusRequest{Status: status}); err != nil {
			t.Fatalf("%s: %v", status, err)
		}
	}
	if _, err := env.apps.UpdateStatus(ctx, hrIdentity, app.ID, dto.UpdateStatusRequest{Status: "hired"}); !apperror.Is(err, apperror.KindConflict) {
		t.Fatalf("rejected -> hired should fail, got %v", err)
	}
	if _, err := env.apps.RetryProvisioning(ctx, hrIdentity, app.ID); !apperror.Is(err, apperror.KindConflict) {
		t.Fatalf("provisioning a rejected application should fail, got %v", err)
	}
	env.assertAssigned(t, app.CandidateID, 0, 0)
}

func TestUpdateStatusValidation(t *testing.T) {
	t.Parallel()

	env := newWorkflowEnv(t)
	ctx := context.Background()
	app := env.apply(t, "Engineering")

	candidate := dto.Identity{UserID: app.CandidateID, Role: string(model.RoleCandidate)}
	if _, err := env.apps.UpdateStatus(ctx, candidate, app.ID, dto.UpdateStatusRequest{Status: "under_review"}); !apperror.Is(err, apperror.KindForbidden) {
		t.Fatalf("candidate should be forbidden, got %v", err)
	}
	if _, err := env.apps.UpdateStatus(ctx, hrIdentity, app.ID, dto.UpdateStatusRequest{Status: "archived"}); !apperror.Is(err, apperror.KindValidation) {
		t.Fatalf("unknown status should be invalid, got %v", err)
	}
	if _, err := env.apps.UpdateStatus(ctx, hrIdentity, 9999, dto.UpdateStatusRequest{Status: "under_review"}); !apperror.Is(err, apperror.KindNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestListAndGetApplications(t *testing.T) {
	t.Parallel()

	env := newWorkflowEnv(t)
	ctx := context.Background()
	app := env.apply(t, "Engineering")
	env.apply(t, "Finance")

	list, page, err := env.apps.List(ctx, hrIdentity, "submitted", 1, 10)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 2 || page.TotalItems != 2 || page.HasMore {
		t.Fatalf("unexpected list %d %+v", len(list), page)
	}
	if list[0].CandidateName == "" || list[0].JobTitle == "" {
		t.Fatalf("associations should be loaded: %+v", list[0])
	}

	got, err := env.apps.Get(ctx, hrIdentity, app.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Resume != nil {
		t.Fatal("no parsed resume stored yet")
	}
	if _, _, err := env.apps.List(ctx, hrIdentity, "bogus", 1, 10); !apperror.Is(err, apperror.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

// --- stubs ---

type workflowEnv struct {
	db   *gorm.DB
	apps *ApplicationUsecase
}

func newWorkflowEnv(t *testing.T) *workflowEnv {
	t.Helper()
	db, err := repository.OpenSQLite(filepath.Join(t.TempDir(), "hr.db"), false)
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	t.Cleanup(func() { _ = repository.Close(db) })

	onboardingRepo := repository.NewOnboardingRepository(db)
	err = onboardingRepo.UpsertCatalog(context.Background(),
		[]model.OnboardingTask{
			{Title: "Sign contract", Department: model.DepartmentAll},
			{Title: "Set up laptop", Department: "Engineering"},
			{Title: "Ledger access", Department: "Finance"},
		},
		[]model.TrainingModule{
			{Title: "Security awareness", Department: model.DepartmentAll},
			{Title: "Code review", Department: "Engineering"},
		})
	if err != nil {
		t.Fatalf("UpsertCatalog: %v", err)
	}

	postings := repository.NewJobPostingRepository(db)
	onboarding := NewOnboardingUsecase(repository.NewUserRepository(db), postings, onboardingRepo)
	gateway := repository.NewGateway(db, onboarding, 0)
	return &workflowEnv{
		db:   db,
		apps: NewApplicationUsecase(repository.NewApplicationRepository(db), repository.NewParsedResumeRepository(db), gateway),
	}
}

func (e *workflowEnv) apply(t *testing.T, department string) *model.Application {
	t.Helper()
	ctx := context.Background()
	user := &model.User{Name: "Candidate " + department, Email: uuid.NewString() + "@example.com", Role: model.RoleCandidate, Active: true}
	if err := repository.NewUserRepository(e.db).Create(ctx, user); err != nil {
		t.Fatalf("create user: %v", err)
	}
	job := &model.JobPosting{Title: department + " role", Department: department, Open: true}
	if err := repository.NewJobPostingRepository(e.db).Create(ctx, job); err != nil {
		t.Fatalf("create posting: %v", err)
	}
	app, err := repository.NewApplicationRepository(e.db).Open(ctx, user.ID, job.ID)
	if err != nil {
		t.Fatalf("open application: %v", err)
	}
	return app
}

func (e *workflowEnv) assertAssigned(t *testing.T, employeeID uuid.UUID, tasks, modules int64) {
	t.Helper()
	var gotTasks, gotModules int64
	e.db.Model(&model.EmployeeTask{}).Where("employee_id = ?", employeeID).Count(&gotTasks)
	e.db.Model(&model.EmployeeTraining{}).Where("employee_id = ?", employeeID).Count(&gotModules)
	if gotTasks != tasks || gotModules != modules {
		t.Fatalf("assigned tasks=%d modules=%d, want %d/%d", gotTasks, gotModules, tasks, modules)
	}
}
