package main

import (
	"net/http"

	"github.com/rs/cors"
	"github.com/urfave/cli/v2"

	"github.com/bitcoinblocks/backend/internal/middleware"
	"github.com/bitcoinblocks/backend/pkg/router"
	"github.com/bitcoinblocks/backend/pkg/xcontext"
)

func (s *srv) startApi(*cli.Context) error {
	s.loadConfig()
	s.loadLogger()
	s.loadDatabase()
	s.loadEngines()
	s.loadRedis()
	s.loadPublisher()
	s.migrateDB()
	s.loadRepos()
	s.loadDomains()
	s.loadRouter()

	handler := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
	}).Handler(s.router.Handler())

	s.server = &http.Server{
		Addr:    s.configs.ApiServer.Address(),
		Handler: handler,
	}

	xcontext.Logger(s.ctx).Infof("Starting api server on port: %s", s.configs.ApiServer.Port)
	if err := s.server.ListenAndServe(); err != nil {
		return err
	}

	xcontext.Logger(s.ctx).Infof("Server stop")
	return nil
}

func (s *srv) loadRouter() {
	s.router = router.New(s.db, *s.configs, s.logger)
	s.router.SetSnowFlake(xcontext.SnowFlake(s.ctx))
	s.router.AddCloser(middleware.Logger())
	s.router.Before(middleware.WithAuthentication())

	// Public API.
	router.POST(s.router, "/login", s.authDomain.Login)
	router.GET(s.router, "/getCurrentRound", s.roundDomain.GetCurrent)
	router.GET(s.router, "/getRounds", s.roundDomain.GetList)
	router.GET(s.router, "/getGuesses", s.guessDomain.GetList)
	router.GET(s.router, "/getLeaderboard", s.guessDomain.GetLeaderboard)
	router.GET(s.router, "/getMessages", s.chatDomain.GetList)
	router.GET(s.router, "/getPrizeConfig", s.prizeDomain.Get)

	// These APIs need an authenticated user.
	authRouter := s.router.Branch()
	authRouter.Before(middleware.Authenticate())
	{
		router.POST(authRouter, "/submitGuess", s.guessDomain.Submit)
	}

	chatRouter := authRouter.Branch()
	chatRouter.Before(middleware.RateLimit(s.redisClient, "chat"))
	{
		router.POST(chatRouter, "/sendMessage", s.chatDomain.Send)
	}

	// Admin API. The domains verify the global role themselves.
	adminRouter := authRouter.Branch()
	{
		router.POST(adminRouter, "/createRound", s.roundDomain.Create)
		router.POST(adminRouter, "/closeRound", s.roundDomain.Close)
		router.POST(adminRouter, "/finishRound", s.roundDomain.Finish)
		router.POST(adminRouter, "/setPrizeConfig", s.prizeDomain.Set)
	}
}
