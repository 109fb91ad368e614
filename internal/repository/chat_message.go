package repository

import (
	"context"
	"time"

	"github.com/bitcoinblocks/backend/internal/entity"
	"github.com/bitcoinblocks/backend/pkg/xcontext"
)

type ChatMessageRepository interface {
	Create(ctx context.Context, data *entity.ChatMessage) error
	GetLatest(ctx context.Context, limit int) ([]entity.ChatMessage, error)
	DeleteBefore(ctx context.Context, t time.Time) error
}

type chatMessageRepository struct{}

func NewChatMessageRepository() *chatMessageRepository {
	return &chatMessageRepository{}
}

func (r *chatMessageRepository) Create(ctx context.Context, data *entity.ChatMessage) error {
	return xcontext.DB(ctx).Create(data).Error
}

// GetLatest returns the most recent messages newest first.
func (r *chatMessageRepository) GetLatest(ctx context.Context, limit int) ([]entity.ChatMessage, error) {
	result := []entity.ChatMessage{}
	err := xcontext.DB(ctx).
		Order("id DESC").
		Limit(limit).
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

// DeleteBefore drops messages older than t. Used by the retention sweep.
func (r *chatMessageRepository) DeleteBefore(ctx context.Context, t time.Time) error {
	return xcontext.DB(ctx).
		Where("created_at < ?", t).
		Delete(&entity.ChatMessage{}).Error
}
