package main

import (
	"github.com/urfave/cli/v2"

	"github.com/bitcoinblocks/backend/pkg/xcontext"
)

func (s *srv) startWatcher(*cli.Context) error {
	s.loadConfig()
	s.loadLogger()
	s.loadDatabase()
	s.loadEngines()
	s.loadRedis()
	s.loadPublisher()
	s.migrateDB()
	s.loadRepos()
	s.loadDomains()

	xcontext.Logger(s.ctx).Infof("Starting round watcher")
	s.roundWatcher.Start(s.ctx)
	return nil
}
