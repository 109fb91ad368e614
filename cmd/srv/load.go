package main

import (
	"context"
	"os"

	"github.com/bwmarrin/snowflake"
	"github.com/google/uuid"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"github.com/bitcoinblocks/backend/config"
	"github.com/bitcoinblocks/backend/internal/common"
	"github.com/bitcoinblocks/backend/internal/domain"
	"github.com/bitcoinblocks/backend/internal/model"
	"github.com/bitcoinblocks/backend/internal/repository"
	"github.com/bitcoinblocks/backend/migration"
	"github.com/bitcoinblocks/backend/pkg/authenticator"
	"github.com/bitcoinblocks/backend/pkg/blockchain/bitcoin"
	"github.com/bitcoinblocks/backend/pkg/farcaster"
	"github.com/bitcoinblocks/backend/pkg/kafka"
	"github.com/bitcoinblocks/backend/pkg/logger"
	"github.com/bitcoinblocks/backend/pkg/xcontext"
	"github.com/bitcoinblocks/backend/pkg/xredis"
)

func (s *srv) loadConfig() {
	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = "./config.toml"
	}

	cfg, err := config.Load(path)
	if err != nil {
		panic(err)
	}

	s.configs = cfg
	s.ctx = xcontext.WithConfigs(context.Background(), *cfg)
}

func (s *srv) loadLogger() {
	level := "info"
	if s.configs.Env == "local" {
		level = "debug"
	}

	s.logger = logger.NewLogger(level)
	s.ctx = xcontext.WithLogger(s.ctx, s.logger)
}

func (s *srv) loadDatabase() {
	db, err := gorm.Open(mysql.New(mysql.Config{
		DSN:               s.configs.Database.ConnectionString(),
		DefaultStringSize: 256,
	}), &gorm.Config{})
	if err != nil {
		panic(err)
	}

	s.db = db
	s.ctx = xcontext.WithDB(s.ctx, db)
}

func (s *srv) loadEngines() {
	s.ctx = xcontext.WithTokenEngine(s.ctx, authenticator.NewTokenEngine[model.AccessToken](
		s.configs.Auth.TokenSecret, s.configs.Auth.AccessToken.Expiration))

	node, err := snowflake.NewNode(0)
	if err != nil {
		panic(err)
	}

	s.ctx = xcontext.WithSnowFlake(s.ctx, node)
}

func (s *srv) loadRedis() {
	client, err := xredis.NewClient(s.ctx)
	if err != nil {
		panic(err)
	}

	s.redisClient = client
}

func (s *srv) loadPublisher() {
	s.publisher = kafka.NewPublisher(uuid.NewString(), []string{s.configs.Kafka.Addr})
}

func (s *srv) loadRepos() {
	s.userRepo = repository.NewUserRepository()
	s.roundRepo = repository.NewRoundRepository()
	s.guessRepo = repository.NewGuessRepository()
	s.chatMessageRepo = repository.NewChatMessageRepository()
	s.prizeConfigRepo = repository.NewPrizeConfigRepository()
}

func (s *srv) loadDomains() {
	roleVerifier := common.NewGlobalRoleVerifier(s.userRepo)

	s.authDomain = domain.NewAuthDomain(
		s.userRepo, farcaster.NewVerifier(s.configs.Auth.Farcaster.VerifyURL))

	roundDomain := domain.NewRoundDomain(
		s.roundRepo, s.guessRepo, s.chatMessageRepo, roleVerifier,
		s.redisClient, s.publisher)
	s.roundDomain = roundDomain

	s.guessDomain = domain.NewGuessDomain(
		s.guessRepo, s.roundRepo, s.userRepo, s.chatMessageRepo,
		s.redisClient, s.publisher)

	s.chatDomain = domain.NewChatDomain(
		s.chatMessageRepo, s.roundRepo, s.userRepo, s.publisher)

	s.prizeDomain = domain.NewPrizeDomain(
		s.prizeConfigRepo, roleVerifier, s.publisher)

	s.bitcoinClient = bitcoin.NewEsploraClient(s.configs.Bitcoin.ApiEndpoints)
	s.roundWatcher = domain.NewRoundWatcher(roundDomain, s.bitcoinClient)
}

func (s *srv) migrateDB() {
	if err := migration.Migrate(s.ctx); err != nil {
		panic(err)
	}
}
