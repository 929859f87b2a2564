package repository

import (
	"context"

	"github.com/fadilmartias/hr-onboarding/internal/model"
	"gorm.io/gorm"
)

type ChatLogRepository struct {
	db *gorm.DB
}

func NewChatLogRepository(db *gorm.DB) *ChatLogRepository {
	return &ChatLogRepository{db}
}

func (r *ChatLogRepository) Create(ctx context.Context, entry *model.ChatLog) error {
	return r.db.WithContext(ctx).Create(entry).Error
}
