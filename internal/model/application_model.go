package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type ApplicationStatus string

const (
	StatusSubmitted   ApplicationStatus = "submitted"
	StatusUnderReview ApplicationStatus = "under_review"
	StatusHired       ApplicationStatus = "hired"
	StatusRejected    ApplicationStatus = "rejected"
)

type APIStatus string

const (
	APIStatusPending   APIStatus = "pending"
	APIStatusCompleted APIStatus = "completed"
	APIStatusFailed    APIStatus = "failed"
)

var applicationTransitions = map[ApplicationStatus][]ApplicationStatus{
	StatusSubmitted:   {StatusUnderReview},
	StatusUnderReview: {StatusHired, StatusRejected},
}

func (s ApplicationStatus) Valid() bool {
	switch s {
	case StatusSubmitted, StatusUnderReview, StatusHired, StatusRejected:
		return true
	}
	return false
}

// CanTransitionTo reports whether HR may move an application from s to next.
// Re-saving the current status is always allowed so notes can change.
func (s ApplicationStatus) CanTransitionTo(next ApplicationStatus) bool {
	if s == next {
		return true
	}
	for _, allowed := range applicationTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Application is the per (candidate, job posting) status record. HR owns
// Status and Notes; the ingestion pipeline owns the API* fields.
type Application struct {
	ID                uint              `gorm:"primaryKey;autoIncrement" json:"id"`
	CandidateID       uuid.UUID         `gorm:"type:uuid;not null;uniqueIndex:idx_application_candidate_job" json:"candidate_id"`
	JobPostingID      uint              `gorm:"not null;uniqueIndex:idx_application_candidate_job" json:"job_posting_id"`
	Status            ApplicationStatus `gorm:"type:varchar(20);index" json:"status"`
	Notes             string            `gorm:"type:text" json:"notes"`
	APIStatus         APIStatus         `gorm:"type:varchar(20)" json:"api_status"`
	APIError          string            `gorm:"type:text" json:"api_error"`
	APIResponse       datatypes.JSON    `json:"api_response,omitempty"`
	ProvisioningError string            `gorm:"type:text" json:"provisioning_error,omitempty"`
	CreatedAt         time.Time         `json:"created_at"`
	UpdatedAt         time.Time         `json:"updated_at"`

	Candidate  User       `gorm:"foreignKey:CandidateID;references:ID" json:"candidate,omitempty"`
	JobPosting JobPosting `gorm:"foreignKey:JobPostingID;references:ID" json:"job_posting,omitempty"`
}
