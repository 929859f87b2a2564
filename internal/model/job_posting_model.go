package model

import (
	"time"

	"github.com/pgvector/pgvector-go"
)

type JobPosting struct {
	ID          uint             `gorm:"primaryKey;autoIncrement" json:"id"`
	Title       string           `gorm:"type:varchar(200);index" json:"title"`
	Department  string           `gorm:"type:varchar(100);index" json:"department"`
	Location    string           `gorm:"type:varchar(150)" json:"location"`
	Description string           `gorm:"type:text" json:"description"`
	Open        bool             `json:"open"`
	Embedding   *pgvector.Vector `gorm:"type:vector(3072)" json:"-"` // only populated when Gemini is configured
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

func (j *JobPosting) TableName() string {
	return "job_postings"
}
