package main

import (
	"github.com/urfave/cli/v2"

	"github.com/bitcoinblocks/backend/pkg/xcontext"
)

func (s *srv) startMigrate(*cli.Context) error {
	s.loadConfig()
	s.loadLogger()
	s.loadDatabase()
	s.migrateDB()

	xcontext.Logger(s.ctx).Infof("Migrated database successfully")
	return nil
}
