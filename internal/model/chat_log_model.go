package model

import (
	"time"

	"github.com/google/uuid"
)

type ChatLog struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;index" json:"user_id"`
	Message   string    `gorm:"type:text" json:"message"`
	Response  string    `gorm:"type:text" json:"response"`
	Provider  string    `gorm:"type:varchar(30)" json:"provider"`
	CreatedAt time.Time `json:"created_at"`
}
