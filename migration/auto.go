package migration

import (
	"context"

	"github.com/bitcoinblocks/backend/internal/entity"
	"github.com/bitcoinblocks/backend/pkg/xcontext"
)

// When this migrator is called, no need to call other migrators.
func AutoMigrate(ctx context.Context) error {
	return xcontext.DB(ctx).AutoMigrate(
		&entity.User{},
		&entity.Round{},
		&entity.Guess{},
		&entity.ChatMessage{},
		&entity.PrizeConfig{},
		&entity.Migration{},
	)
}
