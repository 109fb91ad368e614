package main

import (
	"net/http"

	"github.com/urfave/cli/v2"

	"github.com/bitcoinblocks/backend/internal/domain/notification/proxy"
	"github.com/bitcoinblocks/backend/internal/middleware"
	"github.com/bitcoinblocks/backend/pkg/router"
	"github.com/bitcoinblocks/backend/pkg/xcontext"
)

func (s *srv) startProxy(*cli.Context) error {
	s.loadConfig()
	s.loadLogger()

	proxyServer := proxy.NewProxyServer(s.ctx)

	s.router = router.New(nil, *s.configs, s.logger)
	s.router.AddCloser(middleware.Logger())
	s.router.Before(middleware.WithAuthentication())

	wsRouter := s.router.Branch()
	wsRouter.Before(middleware.WebSocket())
	router.GET(wsRouter, "/ws", proxyServer.ServeClient)

	s.server = &http.Server{
		Addr:    s.configs.ProxyServer.Address(),
		Handler: s.router.Handler(),
	}

	xcontext.Logger(s.ctx).Infof("Starting proxy server on port: %s", s.configs.ProxyServer.Port)
	if err := s.server.ListenAndServe(); err != nil {
		return err
	}

	xcontext.Logger(s.ctx).Infof("Server stop")
	return nil
}
