package usecase

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fadilmartias/hr-onboarding/internal/apperror"
	"github.com/fadilmartias/hr-onboarding/internal/dto"
	"github.com/fadilmartias/hr-onboarding/internal/model"
	"github.com/fadilmartias/hr-onboarding/internal/repository"
	"github.com/google/uuid"
)

func TestEmployeeTaskLifecycle(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	db, err := repository.OpenSQLite(filepath.Join(t.TempDir(), "hr.db"), false)
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	t.Cleanup(func() { _ = repository.Close(db) })

	users := repository.NewUserRepository(db)
	postings := repository.NewJobPostingRepository(db)
	onboardingRepo := repository.NewOnboardingRepository(db)
	uc := NewOnboardingUsecase(users, postings, onboardingRepo)

	if err := onboardingRepo.UpsertCatalog(ctx,
		[]model.OnboardingTask{{Title: "Sign contract", Department: model.DepartmentAll}, {Title: "Meet the team", Department: "Sales"}},
		[]model.TrainingModule{{Title: "Product 101", Department: "Sales"}},
	); err != nil {
		t.Fatalf("UpsertCatalog: %v", err)
	}
	user := &model.User{Name: "Lin", Email: "lin@example.com", Role: model.RoleCandidate, Active: true}
	if err := users.Create(ctx, user); err != nil {
		t.Fatalf("create user: %v", err)
	}
	job := &model.JobPosting{Title: "Account Executive", Department: "Sales", Open: true}
	if err := postings.Create(ctx, job); err != nil {
		t.Fatalf("create posting: %v", err)
	}
	if err := uc.Provision(ctx, &model.Application{CandidateID: user.ID, JobPostingID: job.ID}); err != nil {
		t.Fatalf("Provision: %v", err)
	}

	candidate := dto.Identity{UserID: user.ID, Role: string(model.RoleCandidate)}
	if _, err := uc.ListTasks(ctx, candidate); !apperror.Is(err, apperror.KindForbidden) {
		t.Fatalf("candidates have no tasks, got %v", err)
	}

	employee := dto.Identity{UserID: user.ID, Role: string(model.RoleEmployee), Department: "Sales"}
	tasks, err := uc.ListTasks(ctx, employee)
	if err != nil || len(tasks) != 2 {
		t.Fatalf("ListTasks = %d, %v", len(tasks), err)
	}
	if summary := uc.PendingSummary(ctx, employee); !strings.Contains(summary, "Sign contract") {
		t.Fatalf("summary = %q", summary)
	}

	for _, task := range tasks {
		if err := uc.SetTaskCompleted(ctx, employee, task.ID, true); err != nil {
			t.Fatalf("SetTaskCompleted: %v", err)
		}
	}
	if summary := uc.PendingSummary(ctx, employee); summary != "" {
		t.Fatalf("nothing should be pending, got %q", summary)
	}
	if err := uc.SetTaskCompleted(ctx, employee, 999, true); !apperror.Is(err, apperror.KindNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	trainings, err := uc.ListTrainings(ctx, employee)
	if err != nil || len(trainings) != 1 {
		t.Fatalf("ListTrainings = %d, %v", len(trainings), err)
	}
	if err := uc.UpdateTrainingStatus(ctx, employee, trainings[0].ID, "skipped"); !apperror.Is(err, apperror.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if err := uc.UpdateTrainingStatus(ctx, employee, trainings[0].ID, "completed"); err != nil {
		t.Fatalf("UpdateTrainingStatus: %v", err)
	}
	other := dto.Identity{UserID: uuid.New(), Role: string(model.RoleEmployee)}
	if err := uc.UpdateTrainingStatus(ctx, other, trainings[0].ID, "in_progress"); !apperror.Is(err, apperror.KindNotFound) {
		t.Fatalf("other employee's training should be hidden, got %v", err)
	}
}
