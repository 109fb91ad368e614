package testutil

import (
	"context"
	"time"

	"github.com/bitcoinblocks/backend/internal/entity"
	"github.com/bitcoinblocks/backend/internal/repository"
	"github.com/bitcoinblocks/backend/pkg/xcontext"
)

// Fixture identifiers referenced by tests.
var (
	Admin = entity.User{
		Base:        entity.Base{ID: "admin"},
		Fid:         1,
		Username:    "admin",
		DisplayName: "Admin",
		Role:        entity.RoleSuperAdmin,
	}

	User1 = entity.User{
		Base:        entity.Base{ID: "user1"},
		Fid:         100,
		Username:    "alice",
		DisplayName: "Alice",
		Role:        entity.RoleUser,
	}

	User2 = entity.User{
		Base:        entity.Base{ID: "user2"},
		Fid:         101,
		Username:    "bob",
		DisplayName: "Bob",
		Role:        entity.RoleUser,
	}

	OpenRound = entity.Round{
		Base:         entity.Base{ID: "round1"},
		Sequence:     1,
		TargetHeight: 800001,
		StartTime:    time.Now().Add(-time.Minute),
		EndTime:      time.Now().Add(10 * time.Minute),
		Status:       entity.RoundOpen,
	}

	PrizeConfig1 = entity.PrizeConfig{
		Base:     entity.Base{ID: "prize1"},
		Version:  1,
		Currency: "SATS",
		Amount:   10000,
		Payouts:  entity.Map{"1": 10000},
	}
)

// CreateFixtureDb populates the in-memory database of ctx with a standard
// set of users, an open round, and a prize config.
func CreateFixtureDb(ctx context.Context) {
	InsertUsers(ctx)
	InsertRounds(ctx)
	InsertPrizeConfigs(ctx)
}

func InsertUsers(ctx context.Context) {
	userRepo := repository.NewUserRepository()

	for _, user := range []entity.User{Admin, User1, User2} {
		user := user
		if err := userRepo.Create(ctx, &user); err != nil {
			panic(err)
		}
	}
}

func InsertRounds(ctx context.Context) {
	roundRepo := repository.NewRoundRepository()

	round := OpenRound
	if err := roundRepo.Create(ctx, &round); err != nil {
		panic(err)
	}
}

func InsertPrizeConfigs(ctx context.Context) {
	config := PrizeConfig1
	if err := xcontext.DB(ctx).Create(&config).Error; err != nil {
		panic(err)
	}
}
