package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SubmittedDocument is one uploaded resume. Rows are never updated.
type SubmittedDocument struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CandidateID      uuid.UUID `gorm:"type:uuid;not null;index" json:"candidate_id"`
	JobPostingID     uint      `gorm:"not null;index" json:"job_posting_id"`
	StoragePath      string    `gorm:"type:varchar(500)" json:"-"`
	OriginalFilename string    `gorm:"type:varchar(255)" json:"original_filename"`
	MimeType         string    `gorm:"type:varchar(100)" json:"mime_type"`
	SizeBytes        int64     `json:"size_bytes"`
	CreatedAt        time.Time `json:"created_at"`
}

func (d *SubmittedDocument) BeforeCreate(tx *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return nil
}
