package repository

import (
	"fmt"

	"github.com/fadilmartias/hr-onboarding/internal/model"
	"gorm.io/gorm"
)

// Migrate creates or updates every table the service owns. On Postgres the
// pgvector extension is enabled first so job_postings.embedding can exist.
func Migrate(db *gorm.DB) error {
	if db.Dialector.Name() == "postgres" {
		if err := db.Exec("CREATE EXTENSION IF NOT EXISTS vector").Error; err != nil {
			return fmt.Errorf("enable pgvector: %w", err)
		}
	}
	err := db.AutoMigrate(
		&model.User{},
		&model.JobPosting{},
		&model.SubmittedDocument{},
		&model.ExtractionJob{},
		&model.ParsedResume{},
		&model.Application{},
		&model.OnboardingTask{},
		&model.TrainingModule{},
		&model.EmployeeTask{},
		&model.EmployeeTraining{},
		&model.ChatLog{},
	)
	if err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}
