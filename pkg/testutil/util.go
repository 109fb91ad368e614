package testutil

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/bitcoinblocks/backend/config"
	"github.com/bitcoinblocks/backend/internal/model"
	"github.com/bitcoinblocks/backend/migration"
	"github.com/bitcoinblocks/backend/pkg/authenticator"
	"github.com/bitcoinblocks/backend/pkg/logger"
	"github.com/bitcoinblocks/backend/pkg/xcontext"
)

func MockContext() context.Context {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		panic(err)
	}

	cfg := config.Configs{
		ApiServer: config.ServerConfigs{
			MaxLimit:     50,
			DefaultLimit: 1,
		},
		Auth: config.AuthConfigs{
			TokenSecret: "secret",
			AccessToken: config.TokenConfigs{
				Name:       "access_token",
				Expiration: time.Minute,
			},
		},
		Game: config.GameConfigs{
			MaxGuessValue:  10000,
			RoundDuration:  10 * time.Minute,
			ChatRetention:  24 * time.Hour,
			ChatMaxLength:  500,
			ChatRateLimit:  5,
			ChatRateWindow: 10 * time.Second,
		},
		Kafka: config.KafkaConfigs{
			NotificationTopic: "notification",
		},
	}

	node, err := snowflake.NewNode(0)
	if err != nil {
		panic(err)
	}

	ctx := context.Background()
	ctx = xcontext.WithConfigs(ctx, cfg)
	ctx = xcontext.WithLogger(ctx, logger.NewLogger("disabled"))
	ctx = xcontext.WithTokenEngine(ctx, authenticator.NewTokenEngine[model.AccessToken](
		cfg.Auth.TokenSecret, cfg.Auth.AccessToken.Expiration))
	ctx = xcontext.WithSnowFlake(ctx, node)
	ctx = xcontext.WithDB(ctx, db)

	if err := migration.AutoMigrate(ctx); err != nil {
		panic(err)
	}

	return ctx
}

func MockContextWithUserID(userID string) context.Context {
	return xcontext.WithRequestUserID(MockContext(), userID)
}
