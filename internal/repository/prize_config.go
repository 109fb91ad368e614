package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/bitcoinblocks/backend/internal/entity"
	"github.com/bitcoinblocks/backend/pkg/xcontext"
)

type PrizeConfigRepository interface {
	Create(ctx context.Context, data *entity.PrizeConfig) error
	GetLatest(ctx context.Context) (*entity.PrizeConfig, error)
	GetLastVersion(ctx context.Context) (int, error)
}

type prizeConfigRepository struct{}

func NewPrizeConfigRepository() *prizeConfigRepository {
	return &prizeConfigRepository{}
}

func (r *prizeConfigRepository) Create(ctx context.Context, data *entity.PrizeConfig) error {
	return xcontext.DB(ctx).Create(data).Error
}

// GetLatest returns the config with the highest version. Configs are never
// updated in place, every change appends a new version.
func (r *prizeConfigRepository) GetLatest(ctx context.Context) (*entity.PrizeConfig, error) {
	result := &entity.PrizeConfig{}
	if err := xcontext.DB(ctx).Order("version DESC").Take(result).Error; err != nil {
		return nil, err
	}

	return result, nil
}

func (r *prizeConfigRepository) GetLastVersion(ctx context.Context) (int, error) {
	config, err := r.GetLatest(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, nil
		}

		return 0, err
	}

	return config.Version, nil
}
