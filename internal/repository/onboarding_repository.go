package repository

import (
	"context"
	"time"

	"github.com/fadilmartias/hr-onboarding/internal/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type OnboardingRepository struct {
	db *gorm.DB
}

func NewOnboardingRepository(db *gorm.DB) *OnboardingRepository {
	return &OnboardingRepository{db}
}

// TasksForDepartment returns catalog tasks tagged ALL or department.
func (r *OnboardingRepository) TasksForDepartment(ctx context.Context, department string) ([]model.OnboardingTask, error) {
	var tasks []model.OnboardingTask
	err := r.db.WithContext(ctx).
		Where("department IN ?", departments(department)).
		Order("id ASC").
		Find(&tasks).Error
	return tasks, err
}

func (r *OnboardingRepository) ModulesForDepartment(ctx context.Context, department string) ([]model.TrainingModule, error) {
	var modules []model.TrainingModule
	err := r.db.WithContext(ctx).
		Where("department IN ?", departments(department)).
		Order("id ASC").
		Find(&modules).Error
	return modules, err
}

// AssignTasks links tasks to an employee. Pairs that already exist are
// skipped, so re-running yields the same set.
func (r *OnboardingRepository) AssignTasks(ctx context.Context, employeeID uuid.UUID, taskIDs []uint) error {
	if len(taskIDs) == 0 {
		return nil
	}
	now := time.Now()
	rows := make([]model.EmployeeTask, 0, len(taskIDs))
	for _, id := range taskIDs {
		rows = append(rows, model.EmployeeTask{EmployeeID: employeeID, TaskID: id, AssignedAt: now})
	}
	return r.db.WithContext(ctx).Omit(clause.Associations).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "employee_id"}, {Name: "task_id"}},
		DoNothing: true,
	}).Create(&rows).Error
}

func (r *OnboardingRepository) AssignModules(ctx context.Context, employeeID uuid.UUID, moduleIDs []uint) error {
	if len(moduleIDs) == 0 {
		return nil
	}
	now := time.Now()
	rows := make([]model.EmployeeTraining, 0, len(moduleIDs))
	for _, id := range moduleIDs {
		rows = append(rows, model.EmployeeTraining{
			EmployeeID: employeeID,
			ModuleID:   id,
			Status:     model.TrainingAssigned,
			AssignedAt: now,
		})
	}
	return r.db.WithContext(ctx).Omit(clause.Associations).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "employee_id"}, {Name: "module_id"}},
		DoNothing: true,
	}).Create(&rows).Error
}

func (r *OnboardingRepository) ListTasks(ctx context.Context, employeeID uuid.UUID) ([]model.EmployeeTask, error) {
	var tasks []model.EmployeeTask
	err := r.db.WithContext(ctx).Preload("Task").
		Where("employee_id = ?", employeeID).
		Order("id ASC").
		Find(&tasks).Error
	return tasks, err
}

func (r *OnboardingRepository) ListTrainings(ctx context.Context, employeeID uuid.UUID) ([]model.EmployeeTraining, error) {
	var trainings []model.EmployeeTraining
	err := r.db.WithContext(ctx).Preload("Module").
		Where("employee_id = ?", employeeID).
		Order("id ASC").
		Find(&trainings).Error
	return trainings, err
}

// SetTaskCompleted toggles one of the employee's own tasks.
func (r *OnboardingRepository) SetTaskCompleted(ctx context.Context, employeeID uuid.UUID, id uint, completed bool) error {
	var completedAt *time.Time
	if completed {
		now := time.Now()
		completedAt = &now
	}
	res := r.db.WithContext(ctx).Model(&model.EmployeeTask{}).
		Where("id = ? AND employee_id = ?", id, employeeID).
		Updates(map[string]any{"completed": completed, "completed_at": completedAt})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *OnboardingRepository) UpdateTrainingStatus(ctx context.Context, employeeID uuid.UUID, id uint, status model.TrainingStatus) error {
	var completedAt *time.Time
	if status == model.TrainingCompleted {
		now := time.Now()
		completedAt = &now
	}
	res := r.db.WithContext(ctx).Model(&model.EmployeeTraining{}).
		Where("id = ? AND employee_id = ?", id, employeeID).
		Updates(map[string]any{"status": status, "completed_at": completedAt})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// UpsertCatalog inserts catalog rows that are not present yet, keyed by
// (title, department). Existing rows are not modified.
func (r *OnboardingRepository) UpsertCatalog(ctx context.Context, tasks []model.OnboardingTask, modules []model.TrainingModule) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(tasks) > 0 {
			if err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "title"}, {Name: "department"}},
				DoNothing: true,
			}).Create(&tasks).Error; err != nil {
				return err
			}
		}
		if len(modules) > 0 {
			if err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "title"}, {Name: "department"}},
				DoNothing: true,
			}).Create(&modules).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func departments(department string) []string {
	if department == "" || department == model.DepartmentAll {
		return []string{model.DepartmentAll}
	}
	return []string{model.DepartmentAll, department}
}
