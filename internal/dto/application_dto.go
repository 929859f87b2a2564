package dto

import (
	"time"

	"github.com/google/uuid"
)

type UpdateStatusRequest struct {
	Status string `json:"status" form:"status"`
	Notes  string `json:"notes" form:"notes"`
}

type ApplicationDTO struct {
	ID                uint             `json:"id"`
	CandidateID       uuid.UUID        `json:"candidate_id"`
	CandidateName     string           `json:"candidate_name"`
	CandidateEmail    string           `json:"candidate_email"`
	JobPostingID      uint             `json:"job_posting_id"`
	JobTitle          string           `json:"job_title"`
	Department        string           `json:"department"`
	Status            string           `json:"status"`
	Notes             string           `json:"notes"`
	APIStatus         string           `json:"api_status"`
	APIError          string           `json:"api_error,omitempty"`
	ProvisioningError string           `json:"provisioning_error,omitempty"`
	Resume            *CanonicalResume `json:"resume,omitempty"`
	CreatedAt         time.Time        `json:"created_at"`
	UpdatedAt         time.Time        `json:"updated_at"`
}
