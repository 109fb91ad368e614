package migration

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/bitcoinblocks/backend/internal/entity"
	"github.com/bitcoinblocks/backend/pkg/xcontext"
)

var migrations = []struct {
	version string
	run     func(ctx context.Context) error
}{
	{"0000", migrate0000},
	{"0001", migrate0001},
}

// Migrate applies every migration not yet recorded in the migrations table,
// in order. Each applied version is recorded so reruns are no-ops.
func Migrate(ctx context.Context) error {
	if err := xcontext.DB(ctx).AutoMigrate(&entity.Migration{}); err != nil {
		return err
	}

	for _, m := range migrations {
		err := xcontext.DB(ctx).
			Take(&entity.Migration{}, "version=?", m.version).Error
		if err == nil {
			continue
		}

		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		xcontext.Logger(ctx).Infof("Run migration %s", m.version)
		if err := m.run(ctx); err != nil {
			return err
		}

		err = xcontext.DB(ctx).Create(&entity.Migration{Version: m.version}).Error
		if err != nil {
			return err
		}
	}

	return nil
}
