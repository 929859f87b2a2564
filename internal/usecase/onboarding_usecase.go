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
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type EmployeeActivator interface {
	ActivateEmployee(ctx context.Context, id uuid.UUID, department string) error
}

type OnboardingStore interface {
	TasksForDepartment(ctx context.Context, department string) ([]model.OnboardingTask, error)
	ModulesForDepartment(ctx context.Context, department string) ([]model.TrainingModule, error)
	AssignTasks(ctx context.Context, employeeID uuid.UUID, taskIDs []uint) error
	AssignModules(ctx context.Context, employeeID uuid.UUID, moduleIDs []uint) error
	ListTasks(ctx context.Context, employeeID uuid.UUID) ([]model.EmployeeTask, error)
	ListTrainings(ctx context.Context, employeeID uuid.UUID) ([]model.EmployeeTraining, error)
	SetTaskCompleted(ctx context.Context, employeeID uuid.UUID, id uint, completed bool) error
	UpdateTrainingStatus(ctx context.Context, employeeID uuid.UUID, id uint, status model.TrainingStatus) error
}

type OnboardingUsecase struct {
	users      EmployeeActivator
	postings   JobPostingFinder
	onboarding OnboardingStore
	logger     *log.Logger
}

func NewOnboardingUsecase(users EmployeeActivator, postings JobPostingFinder, onboarding OnboardingStore) *OnboardingUsecase {
	return &OnboardingUsecase{
		users:      users,
		postings:   postings,
		onboarding: onboarding,
		logger:     log.New(os.Stdout, "[onboarding] ", log.LstdFlags),
	}
}

// Provision turns a hired candidate into an employee: activate the account,
// then assign the department's tasks, then its training modules. Each step
// is idempotent, so a failed run can simply be repeated.
func (uc *OnboardingUsecase) Provision(ctx context.Context, app *model.Application) error {
	posting, err := uc.postings.FindByID(ctx, app.JobPostingID)
	if err != nil {
		return fmt.Errorf("load job posting %d: %w", app.JobPostingID, err)
	}
	department := posting.Department

	if err := uc.users.ActivateEmployee(ctx, app.CandidateID, department); err != nil {
		return fmt.Errorf("activate employee: %w", err)
	}

	tasks, err := uc.onboarding.TasksForDepartment(ctx, department)
	if err != nil {
		return fmt.Errorf("load onboarding tasks: %w", err)
	}
	taskIDs := make([]uint, 0, len(tasks))
	for _, t := range tasks {
		taskIDs = append(taskIDs, t.ID)
	}
	if err := uc.onboarding.AssignTasks(ctx, app.CandidateID, taskIDs); err != nil {
		return fmt.Errorf("assign onboarding tasks: %w", err)
	}

	modules, err := uc.onboarding.ModulesForDepartment(ctx, department)
	if err != nil {
		return fmt.Errorf("load training modules: %w", err)
	}
	moduleIDs := make([]uint, 0, len(modules))
	for _, m := range modules {
		moduleIDs = append(moduleIDs, m.ID)
	}
	if err := uc.onboarding.AssignModules(ctx, app.CandidateID, moduleIDs); err != nil {
		return fmt.Errorf("assign training modules: %w", err)
	}

	uc.logger.Printf("provisioned employee=%s department=%q tasks=%d modules=%d",
		app.CandidateID, department, len(taskIDs), len(moduleIDs))
	return nil
}

func (uc *OnboardingUsecase) ListTasks(ctx context.Context, ident dto.Identity) ([]model.EmployeeTask, error) {
	if err := requireEmployee("onboarding.list_tasks", ident); err != nil {
		return nil, err
	}
	tasks, err := uc.onboarding.ListTasks(ctx, ident.UserID)
	if err != nil {
		return nil, apperror.Persistence("onboarding.list_tasks", "load tasks", err)
	}
	return tasks, nil
}

func (uc *OnboardingUsecase) SetTaskCompleted(ctx context.Context, ident dto.Identity, id uint, completed bool) error {
	const op = "onboarding.set_task_completed"
	if err := requireEmployee(op, ident); err != nil {
		return err
	}
	if err := uc.onboarding.SetTaskCompleted(ctx, ident.UserID, id, completed); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.NotFound(op, "task not found")
		}
		return apperror.Persistence(op, "update task", err)
	}
	return nil
}

func (uc *OnboardingUsecase) ListTrainings(ctx context.Context, ident dto.Identity) ([]model.EmployeeTraining, error) {
	if err := requireEmployee("onboarding.list_trainings", ident); err != nil {
		return nil, err
	}
	trainings, err := uc.onboarding.ListTrainings(ctx, ident.UserID)
	if err != nil {
		return nil, apperror.Persistence("onboarding.list_trainings", "load trainings", err)
	}
	return trainings, nil
}

func (uc *OnboardingUsecase) UpdateTrainingStatus(ctx context.Context, ident dto.Identity, id uint, status string) error {
	const op = "onboarding.update_training"
	if err := requireEmployee(op, ident); err != nil {
		return err
	}
	s := model.TrainingStatus(strings.TrimSpace(status))
	if !s.Valid() {
		return apperror.Validation(op, "status must be assigned, in_progress or completed")
	}
	if err := uc.onboarding.UpdateTrainingStatus(ctx, ident.UserID, id, s); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.NotFound(op, "training not found")
		}
		return apperror.Persistence(op, "update training", err)
	}
	return nil
}

// PendingSummary lists the employee's open tasks, for chat context.
func (uc *OnboardingUsecase) PendingSummary(ctx context.Context, ident dto.Identity) string {
	if ident.Role != string(model.RoleEmployee) {
		return ""
	}
	tasks, err := uc.onboarding.ListTasks(ctx, ident.UserID)
	if err != nil {
		uc.logger.Printf("load tasks for chat context employee=%s: %v", ident.UserID, err)
		return ""
	}
	var open []string
	for _, t := range tasks {
		if !t.Completed {
			open = append(open, t.Task.Title)
		}
	}
	if len(open) == 0 {
		return ""
	}
	return "Pending onboarding tasks: " + strings.Join(open, "; ")
}

func requireEmployee(op string, ident dto.Identity) error {
	if !ident.HasRole(string(model.RoleEmployee)) {
		return apperror.Forbidden(op, "only employees have onboarding tasks")
	}
	return nil
}
