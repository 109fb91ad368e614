package domain

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/bitcoinblocks/backend/internal/common"
	"github.com/bitcoinblocks/backend/internal/domain/notification/event"
	"github.com/bitcoinblocks/backend/internal/entity"
	"github.com/bitcoinblocks/backend/internal/model"
	"github.com/bitcoinblocks/backend/internal/repository"
	"github.com/bitcoinblocks/backend/pkg/errorx"
	"github.com/bitcoinblocks/backend/pkg/pubsub"
	"github.com/bitcoinblocks/backend/pkg/xcontext"
)

type PrizeDomain interface {
	Set(ctx context.Context, req *model.SetPrizeConfigRequest) (*model.SetPrizeConfigResponse, error)
	Get(ctx context.Context, req *model.GetPrizeConfigRequest) (*model.GetPrizeConfigResponse, error)
}

type prizeDomain struct {
	prizeConfigRepo repository.PrizeConfigRepository
	roleVerifier    *common.GlobalRoleVerifier
	publisher       pubsub.Publisher
}

func NewPrizeDomain(
	prizeConfigRepo repository.PrizeConfigRepository,
	roleVerifier *common.GlobalRoleVerifier,
	publisher pubsub.Publisher,
) *prizeDomain {
	return &prizeDomain{
		prizeConfigRepo: prizeConfigRepo,
		roleVerifier:    roleVerifier,
		publisher:       publisher,
	}
}

// Set appends a new config version. Versions only move forward, so clients
// can ignore any update older than the one they already hold.
func (d *prizeDomain) Set(
	ctx context.Context, req *model.SetPrizeConfigRequest,
) (*model.SetPrizeConfigResponse, error) {
	if err := requireGlobalAdmin(ctx, d.roleVerifier); err != nil {
		return nil, err
	}

	if req.Currency == "" {
		return nil, errorx.New(errorx.BadRequest, "Require currency")
	}

	if req.Amount <= 0 {
		return nil, errorx.New(errorx.BadRequest, "Require a positive amount")
	}

	lastVersion, err := d.prizeConfigRepo.GetLastVersion(ctx)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get last prize config version: %v", err)
		return nil, errorx.Unknown
	}

	config := &entity.PrizeConfig{
		Base:     entity.Base{ID: uuid.NewString()},
		Version:  lastVersion + 1,
		Currency: req.Currency,
		Amount:   req.Amount,
		Payouts:  req.Payouts,
	}

	if err := d.prizeConfigRepo.Create(ctx, config); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create prize config: %v", err)
		return nil, errorx.Unknown
	}

	publishEvent(ctx, d.publisher, event.PrizeConfigChannel,
		&event.PrizeUpdatedEvent{PrizeConfig: convertPrizeConfig(config)})

	return &model.SetPrizeConfigResponse{Config: convertPrizeConfig(config)}, nil
}

func (d *prizeDomain) Get(
	ctx context.Context, _ *model.GetPrizeConfigRequest,
) (*model.GetPrizeConfigResponse, error) {
	config, err := d.prizeConfigRepo.GetLatest(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found prize config")
		}

		xcontext.Logger(ctx).Errorf("Cannot get prize config: %v", err)
		return nil, errorx.Unknown
	}

	return &model.GetPrizeConfigResponse{Config: convertPrizeConfig(config)}, nil
}
