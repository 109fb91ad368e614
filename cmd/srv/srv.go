package main

import (
	"context"
	"net/http"

	"github.com/urfave/cli/v2"
	"gorm.io/gorm"

	"github.com/bitcoinblocks/backend/config"
	"github.com/bitcoinblocks/backend/internal/domain"
	"github.com/bitcoinblocks/backend/internal/repository"
	"github.com/bitcoinblocks/backend/pkg/blockchain/bitcoin"
	"github.com/bitcoinblocks/backend/pkg/logger"
	"github.com/bitcoinblocks/backend/pkg/pubsub"
	"github.com/bitcoinblocks/backend/pkg/router"
	"github.com/bitcoinblocks/backend/pkg/xredis"
)

type srv struct {
	ctx context.Context
	app *cli.App

	configs *config.Configs
	logger  logger.Logger
	db      *gorm.DB

	redisClient   xredis.Client
	publisher     pubsub.Publisher
	bitcoinClient bitcoin.Client

	userRepo        repository.UserRepository
	roundRepo       repository.RoundRepository
	guessRepo       repository.GuessRepository
	chatMessageRepo repository.ChatMessageRepository
	prizeConfigRepo repository.PrizeConfigRepository

	authDomain  domain.AuthDomain
	roundDomain domain.RoundDomain
	guessDomain domain.GuessDomain
	chatDomain  domain.ChatDomain
	prizeDomain domain.PrizeDomain

	roundWatcher *domain.RoundWatcher

	router *router.Router
	server *http.Server
}
