package migration

import (
	"context"

	"github.com/google/uuid"

	"github.com/bitcoinblocks/backend/internal/entity"
	"github.com/bitcoinblocks/backend/pkg/xcontext"
)

// migrate0001 seeds the first prize config so the game never runs without
// one. Admins bump the version from there.
func migrate0001(ctx context.Context) error {
	var count int64
	err := xcontext.DB(ctx).Model(&entity.PrizeConfig{}).Count(&count).Error
	if err != nil {
		return err
	}

	if count > 0 {
		return nil
	}

	return xcontext.DB(ctx).Create(&entity.PrizeConfig{
		Base:     entity.Base{ID: uuid.NewString()},
		Version:  1,
		Currency: "SATS",
		Amount:   10000,
		Payouts:  entity.Map{"1": 10000},
	}).Error
}
