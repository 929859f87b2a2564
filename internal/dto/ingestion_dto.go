package dto

import (
	"io"

	"github.com/google/uuid"
)

type IngestionResultDTO struct {
	DocumentID      uuid.UUID       `json:"document_id"`
	ExtractionJobID uuid.UUID       `json:"extraction_job_id"`
	ApplicationID   uint            `json:"application_id,omitempty"`
	Phase           string          `json:"phase"`
	Attempts        int             `json:"attempts"`
	Message         string          `json:"message,omitempty"`
	Resume          CanonicalResume `json:"resume"`
}

// ResumeUpload is a file received from a candidate, not yet stored.
type ResumeUpload struct {
	Filename string
	MimeType string
	Size     int64
	Content  io.Reader
}
