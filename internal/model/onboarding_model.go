package model

import (
	"time"

	"github.com/google/uuid"
)

type OnboardingTask struct {
	ID          uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Title       string    `gorm:"type:varchar(200);uniqueIndex:idx_task_title_department" json:"title"`
	Description string    `gorm:"type:text" json:"description"`
	Department  string    `gorm:"type:varchar(100);uniqueIndex:idx_task_title_department" json:"department"`
	DueDays     int       `json:"due_days"`
	CreatedAt   time.Time `json:"created_at"`
}

type TrainingModule struct {
	ID              uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Title           string    `gorm:"type:varchar(200);uniqueIndex:idx_module_title_department" json:"title"`
	Description     string    `gorm:"type:text" json:"description"`
	Department      string    `gorm:"type:varchar(100);uniqueIndex:idx_module_title_department" json:"department"`
	DurationMinutes int       `json:"duration_minutes"`
	CreatedAt       time.Time `json:"created_at"`
}

type EmployeeTask struct {
	ID          uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	EmployeeID  uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_employee_task" json:"employee_id"`
	TaskID      uint       `gorm:"not null;uniqueIndex:idx_employee_task" json:"task_id"`
	Completed   bool       `json:"completed"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	AssignedAt  time.Time  `json:"assigned_at"`

	Task OnboardingTask `gorm:"foreignKey:TaskID;references:ID" json:"task"`
}

type TrainingStatus string

const (
	TrainingAssigned   TrainingStatus = "assigned"
	TrainingInProgress TrainingStatus = "in_progress"
	TrainingCompleted  TrainingStatus = "completed"
)

func (s TrainingStatus) Valid() bool {
	return s == TrainingAssigned || s == TrainingInProgress || s == TrainingCompleted
}

type EmployeeTraining struct {
	ID          uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	EmployeeID  uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex:idx_employee_training" json:"employee_id"`
	ModuleID    uint           `gorm:"not null;uniqueIndex:idx_employee_training" json:"module_id"`
	Status      TrainingStatus `gorm:"type:varchar(20)" json:"status"`
	CompletedAt *time.Time     `json:"completed_at,omitempty"`
	AssignedAt  time.Time      `json:"assigned_at"`

	Module TrainingModule `gorm:"foreignKey:ModuleID;references:ID" json:"module"`
}
