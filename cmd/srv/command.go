package main

import "github.com/urfave/cli/v2"

func (s *srv) loadApp() {
	app := cli.NewApp()
	app.Action = cli.ShowAppHelp
	app.Name = "Bitcoin Blocks"
	app.Usage = ""
	app.Commands = []*cli.Command{
		{
			Action:      server.startApi,
			Name:        "api",
			Usage:       "Start the api service",
			Category:    "Api",
			Description: `The main service serving every game API.`,
		},
		{
			Action:      server.startProxy,
			Name:        "proxy",
			Usage:       "Start the notification proxy",
			Category:    "Websocket",
			Description: `Holds the direct websocket connections with clients and forwards game events to them.`,
		},
		{
			Action:      server.startEngine,
			Name:        "engine",
			Usage:       "Start the notification engine",
			Category:    "Websocket",
			Description: `Consumes game events from the message queue and fans them out to proxies.`,
		},
		{
			Action:      server.startWatcher,
			Name:        "watcher",
			Usage:       "Start the round watcher",
			Category:    "Worker",
			Description: `Polls the Bitcoin chain and drives the round lifecycle.`,
		},
		{
			Action:      server.startMigrate,
			Name:        "migrate",
			Usage:       "Run database migrations",
			Category:    "Worker",
			Description: `Applies pending database migrations and exits.`,
		},
	}

	s.app = app
}
