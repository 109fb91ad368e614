package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/bitcoinblocks/backend/internal/entity"
	"github.com/bitcoinblocks/backend/pkg/xcontext"
)

type RoundRepository interface {
	Create(ctx context.Context, data *entity.Round) error
	GetByID(ctx context.Context, id string) (*entity.Round, error)
	GetCurrent(ctx context.Context) (*entity.Round, error)
	GetLast(ctx context.Context) (*entity.Round, error)
	GetList(ctx context.Context, offset, limit int) ([]entity.Round, error)
	GetByTargetHeight(ctx context.Context, height int64) ([]entity.Round, error)
	CheckAndClose(ctx context.Context, id string) error
	CheckAndFinish(ctx context.Context, id string, result FinishRoundResult) error
}

// FinishRoundResult carries the block outcome and winner written when a
// round finishes.
type FinishRoundResult struct {
	ActualTxCount  int
	BlockHash      string
	WinnerUserID   string
	WinningGuessID int64
}

type roundRepository struct{}

func NewRoundRepository() *roundRepository {
	return &roundRepository{}
}

func (r *roundRepository) Create(ctx context.Context, data *entity.Round) error {
	return xcontext.DB(ctx).Create(data).Error
}

func (r *roundRepository) GetByID(ctx context.Context, id string) (*entity.Round, error) {
	result := &entity.Round{}
	if err := xcontext.DB(ctx).Where("id=?", id).Take(result).Error; err != nil {
		return nil, err
	}

	return result, nil
}

// GetCurrent returns the newest round still accepting guesses or awaiting
// its block.
func (r *roundRepository) GetCurrent(ctx context.Context) (*entity.Round, error) {
	result := &entity.Round{}
	err := xcontext.DB(ctx).
		Where("status IN (?)", []entity.RoundStatus{entity.RoundOpen, entity.RoundClosed}).
		Order("sequence DESC").
		Take(result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *roundRepository) GetLast(ctx context.Context) (*entity.Round, error) {
	result := &entity.Round{}
	if err := xcontext.DB(ctx).Order("sequence DESC").Take(result).Error; err != nil {
		return nil, err
	}

	return result, nil
}

func (r *roundRepository) GetList(ctx context.Context, offset, limit int) ([]entity.Round, error) {
	result := []entity.Round{}
	err := xcontext.DB(ctx).
		Order("sequence DESC").
		Offset(offset).
		Limit(limit).
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *roundRepository) GetByTargetHeight(ctx context.Context, height int64) ([]entity.Round, error) {
	result := []entity.Round{}
	err := xcontext.DB(ctx).
		Where("target_height=? AND status IN (?)", height,
			[]entity.RoundStatus{entity.RoundOpen, entity.RoundClosed}).
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

// CheckAndClose transitions an open round to closed. It fails with
// gorm.ErrRecordNotFound if the round was already closed or finished, so
// concurrent closers cannot both win.
func (r *roundRepository) CheckAndClose(ctx context.Context, id string) error {
	tx := xcontext.DB(ctx).
		Model(&entity.Round{}).
		Where("id=? AND status=?", id, entity.RoundOpen).
		Updates(map[string]any{
			"status":   entity.RoundClosed,
			"end_time": time.Now(),
		})
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

// CheckAndFinish writes the block result and winner, guarded against a
// round finishing twice.
func (r *roundRepository) CheckAndFinish(ctx context.Context, id string, result FinishRoundResult) error {
	updateMap := map[string]any{
		"status":          entity.RoundFinished,
		"actual_tx_count": result.ActualTxCount,
		"block_hash":      result.BlockHash,
	}

	if result.WinnerUserID != "" {
		updateMap["winner_user_id"] = result.WinnerUserID
		updateMap["winning_guess_id"] = result.WinningGuessID
	}

	tx := xcontext.DB(ctx).
		Model(&entity.Round{}).
		Where("id=? AND status IN (?)", id,
			[]entity.RoundStatus{entity.RoundOpen, entity.RoundClosed}).
		Updates(updateMap)
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}
