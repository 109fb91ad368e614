package repository

import (
	"context"

	"github.com/bitcoinblocks/backend/internal/entity"
	"github.com/bitcoinblocks/backend/pkg/xcontext"
)

type GuessRepository interface {
	Create(ctx context.Context, data *entity.Guess) error
	GetByID(ctx context.Context, id int64) (*entity.Guess, error)
	GetByRoundAndUser(ctx context.Context, roundID, userID string) (*entity.Guess, error)
	GetListByRoundID(ctx context.Context, roundID string, offset, limit int) ([]entity.Guess, error)
	GetClosest(ctx context.Context, roundID string, value int) (*entity.Guess, error)
	CountByRoundID(ctx context.Context, roundID string) (int64, error)
}

type guessRepository struct{}

func NewGuessRepository() *guessRepository {
	return &guessRepository{}
}

func (r *guessRepository) Create(ctx context.Context, data *entity.Guess) error {
	return xcontext.DB(ctx).Create(data).Error
}

func (r *guessRepository) GetByID(ctx context.Context, id int64) (*entity.Guess, error) {
	result := &entity.Guess{}
	if err := xcontext.DB(ctx).Where("id=?", id).Take(result).Error; err != nil {
		return nil, err
	}

	return result, nil
}

func (r *guessRepository) GetByRoundAndUser(
	ctx context.Context, roundID, userID string,
) (*entity.Guess, error) {
	result := &entity.Guess{}
	err := xcontext.DB(ctx).
		Where("round_id=? AND user_id=?", roundID, userID).
		Take(result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

// GetListByRoundID returns guesses newest first. Snowflake ids are
// time-sortable, so ordering by id is ordering by submission time.
func (r *guessRepository) GetListByRoundID(
	ctx context.Context, roundID string, offset, limit int,
) ([]entity.Guess, error) {
	result := []entity.Guess{}
	err := xcontext.DB(ctx).
		Where("round_id=?", roundID).
		Order("id DESC").
		Offset(offset).
		Limit(limit).
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

// GetClosest returns the guess nearest to value. The id tiebreak gives the
// earlier submission the win when two guesses are equally close.
func (r *guessRepository) GetClosest(
	ctx context.Context, roundID string, value int,
) (*entity.Guess, error) {
	result := &entity.Guess{}
	err := xcontext.DB(ctx).
		Where("round_id=?", roundID).
		Order("ABS(value - ?) ASC, id ASC").
		Limit(1).
		Take(result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *guessRepository) CountByRoundID(ctx context.Context, roundID string) (int64, error) {
	var count int64
	err := xcontext.DB(ctx).
		Model(&entity.Guess{}).
		Where("round_id=?", roundID).
		Count(&count).Error
	if err != nil {
		return 0, err
	}

	return count, nil
}
