package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ParsedResume is the stored form of a canonical resume record. List fields
// are JSON arrays, never NULL.
type ParsedResume struct {
	ID           uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	DocumentID   uuid.UUID      `gorm:"type:uuid;uniqueIndex" json:"document_id"`
	CandidateID  uuid.UUID      `gorm:"type:uuid;index" json:"candidate_id"`
	JobPostingID uint           `gorm:"index" json:"job_posting_id"`
	Filename     string         `gorm:"type:varchar(255)" json:"filename"`
	Name         string         `gorm:"type:varchar(200)" json:"name"`
	Email        string         `gorm:"type:varchar(255)" json:"email"`
	Phone        string         `gorm:"type:varchar(50)" json:"phone"`
	Address      string         `gorm:"type:text" json:"address"`
	Links        datatypes.JSON `json:"links"`
	Experience   datatypes.JSON `json:"experience"`
	Education    datatypes.JSON `json:"education"`
	Skills       datatypes.JSON `json:"skills"`
	Certificates datatypes.JSON `json:"certificates"`
	RawPayload   datatypes.JSON `json:"raw_payload"`
	CreatedAt    time.Time      `json:"created_at"`
}

func (p *ParsedResume) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
