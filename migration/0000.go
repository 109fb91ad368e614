package migration

import (
	"context"

	"github.com/bitcoinblocks/backend/internal/entity"
	"github.com/bitcoinblocks/backend/pkg/xcontext"
)

// migrate0000 creates the initial schema.
func migrate0000(ctx context.Context) error {
	return xcontext.DB(ctx).AutoMigrate(
		&entity.User{},
		&entity.Round{},
		&entity.Guess{},
		&entity.ChatMessage{},
		&entity.PrizeConfig{},
		&entity.Migration{},
	)
}
