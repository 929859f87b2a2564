package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ExtractionPhase string

const (
	PhaseSubmitted ExtractionPhase = "submitted"
	PhasePolling   ExtractionPhase = "polling"
	PhaseCompleted ExtractionPhase = "completed"
	PhaseFailed    ExtractionPhase = "failed"
	PhaseTimedOut  ExtractionPhase = "timed_out"
)

func (p ExtractionPhase) Terminal() bool {
	return p == PhaseCompleted || p == PhaseFailed || p == PhaseTimedOut
}

// ExtractionJob tracks one vendor processing request for a SubmittedDocument.
type ExtractionJob struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	DocumentID   uuid.UUID       `gorm:"type:uuid;not null;index" json:"document_id"`
	ExtractionID string          `gorm:"type:varchar(100)" json:"extraction_id"`
	BatchID      string          `gorm:"type:varchar(100);index" json:"batch_id"`
	FileID       string          `gorm:"type:varchar(100)" json:"file_id"`
	Phase        ExtractionPhase `gorm:"type:varchar(20);index" json:"phase"`
	Attempts     int             `json:"attempts"`
	LastError    string          `gorm:"type:text" json:"last_error"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

func (j *ExtractionJob) BeforeCreate(tx *gorm.DB) error {
	if j.ID == uuid.Nil {
		j.ID = uuid.New()
	}
	return nil
}
