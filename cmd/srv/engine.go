package main

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/urfave/cli/v2"

	"github.com/bitcoinblocks/backend/internal/domain/notification/engine"
	"github.com/bitcoinblocks/backend/internal/domain/notification/event"
	"github.com/bitcoinblocks/backend/internal/middleware"
	"github.com/bitcoinblocks/backend/pkg/kafka"
	"github.com/bitcoinblocks/backend/pkg/pubsub"
	"github.com/bitcoinblocks/backend/pkg/router"
	"github.com/bitcoinblocks/backend/pkg/xcontext"
)

func (s *srv) startEngine(*cli.Context) error {
	s.loadConfig()
	s.loadLogger()

	engineServer := engine.NewEngineServer()

	subscriber := kafka.NewSubscriber(
		"notification-engine-"+uuid.NewString(),
		[]string{s.configs.Kafka.Addr},
		[]string{s.configs.Kafka.NotificationTopic},
		func(ctx context.Context, pack *pubsub.Pack, t time.Time) {
			var ev event.EventRequest
			if err := json.Unmarshal(pack.Msg, &ev); err != nil {
				xcontext.Logger(ctx).Errorf("Cannot unmarshal event: %v", err)
				return
			}

			if err := engineServer.Emit(ctx, &ev); err != nil {
				xcontext.Logger(ctx).Errorf("Cannot emit event: %v", err)
			}
		},
	)
	go subscriber.Subscribe(s.ctx)

	s.router = router.New(nil, *s.configs, s.logger)
	s.router.AddCloser(middleware.Logger())

	wsRouter := s.router.Branch()
	wsRouter.Before(middleware.WebSocket())
	router.GET(wsRouter, "/", engineServer.ServeProxy)

	s.server = &http.Server{
		Addr:    s.configs.EngineServer.Address(),
		Handler: s.router.Handler(),
	}

	xcontext.Logger(s.ctx).Infof("Starting engine server on port: %s", s.configs.EngineServer.Port)
	if err := s.server.ListenAndServe(); err != nil {
		return err
	}

	xcontext.Logger(s.ctx).Infof("Server stop")
	return nil
}
