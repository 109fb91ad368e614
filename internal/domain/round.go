package domain

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

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
	"github.com/bitcoinblocks/backend/pkg/xredis"
)

const leaderboardRedisKey = "leaderboard"

type RoundDomain interface {
	Create(ctx context.Context, req *model.CreateRoundRequest) (*model.CreateRoundResponse, error)
	GetCurrent(ctx context.Context, req *model.GetCurrentRoundRequest) (*model.GetCurrentRoundResponse, error)
	GetList(ctx context.Context, req *model.GetRoundsRequest) (*model.GetRoundsResponse, error)
	Close(ctx context.Context, req *model.CloseRoundRequest) (*model.CloseRoundResponse, error)
	Finish(ctx context.Context, req *model.FinishRoundRequest) (*model.FinishRoundResponse, error)
}

type roundDomain struct {
	roundRepo       repository.RoundRepository
	guessRepo       repository.GuessRepository
	chatMessageRepo repository.ChatMessageRepository
	roleVerifier    *common.GlobalRoleVerifier
	redisClient     xredis.Client
	publisher       pubsub.Publisher
}

func NewRoundDomain(
	roundRepo repository.RoundRepository,
	guessRepo repository.GuessRepository,
	chatMessageRepo repository.ChatMessageRepository,
	roleVerifier *common.GlobalRoleVerifier,
	redisClient xredis.Client,
	publisher pubsub.Publisher,
) *roundDomain {
	return &roundDomain{
		roundRepo:       roundRepo,
		guessRepo:       guessRepo,
		chatMessageRepo: chatMessageRepo,
		roleVerifier:    roleVerifier,
		redisClient:     redisClient,
		publisher:       publisher,
	}
}

func (d *roundDomain) Create(
	ctx context.Context, req *model.CreateRoundRequest,
) (*model.CreateRoundResponse, error) {
	if err := requireGlobalAdmin(ctx, d.roleVerifier); err != nil {
		return nil, err
	}

	if req.TargetHeight <= 0 {
		return nil, errorx.New(errorx.BadRequest, "Require a positive target height")
	}

	if _, err := d.roundRepo.GetCurrent(ctx); err == nil {
		return nil, errorx.New(errorx.AlreadyExists, "There is still an unfinished round")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		xcontext.Logger(ctx).Errorf("Cannot get current round: %v", err)
		return nil, errorx.Unknown
	}

	round, err := d.create(ctx, req.TargetHeight, req.PrizeDescription)
	if err != nil {
		return nil, err
	}

	return &model.CreateRoundResponse{Round: convertRound(round)}, nil
}

func (d *roundDomain) GetCurrent(
	ctx context.Context, _ *model.GetCurrentRoundRequest,
) (*model.GetCurrentRoundResponse, error) {
	round, err := d.roundRepo.GetCurrent(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found any active round")
		}

		xcontext.Logger(ctx).Errorf("Cannot get current round: %v", err)
		return nil, errorx.Unknown
	}

	return &model.GetCurrentRoundResponse{Round: convertRound(round)}, nil
}

func (d *roundDomain) GetList(
	ctx context.Context, req *model.GetRoundsRequest,
) (*model.GetRoundsResponse, error) {
	if req.Limit == 0 {
		req.Limit = xcontext.Configs(ctx).ApiServer.DefaultLimit
	}

	if req.Limit > xcontext.Configs(ctx).ApiServer.MaxLimit {
		return nil, errorx.New(errorx.BadRequest, "Exceed the maximum of limit")
	}

	rounds, err := d.roundRepo.GetList(ctx, req.Offset, req.Limit)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get rounds: %v", err)
		return nil, errorx.Unknown
	}

	resp := []model.Round{}
	for i := range rounds {
		resp = append(resp, convertRound(&rounds[i]))
	}

	return &model.GetRoundsResponse{Rounds: resp}, nil
}

func (d *roundDomain) Close(
	ctx context.Context, req *model.CloseRoundRequest,
) (*model.CloseRoundResponse, error) {
	if err := requireGlobalAdmin(ctx, d.roleVerifier); err != nil {
		return nil, err
	}

	round, err := d.roundRepo.GetByID(ctx, req.RoundID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found round")
		}

		xcontext.Logger(ctx).Errorf("Cannot get round: %v", err)
		return nil, errorx.Unknown
	}

	if err := d.close(ctx, round); err != nil {
		return nil, err
	}

	return &model.CloseRoundResponse{}, nil
}

func (d *roundDomain) Finish(
	ctx context.Context, req *model.FinishRoundRequest,
) (*model.FinishRoundResponse, error) {
	if err := requireGlobalAdmin(ctx, d.roleVerifier); err != nil {
		return nil, err
	}

	round, err := d.roundRepo.GetByID(ctx, req.RoundID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found round")
		}

		xcontext.Logger(ctx).Errorf("Cannot get round: %v", err)
		return nil, errorx.Unknown
	}

	if req.ActualTxCount <= 0 {
		return nil, errorx.New(errorx.BadRequest, "Require a positive transaction count")
	}

	round, err = d.finish(ctx, round, int(req.ActualTxCount), req.BlockHash)
	if err != nil {
		return nil, err
	}

	return &model.FinishRoundResponse{Round: convertRound(round)}, nil
}

// create starts a new round following the last one. The caller decides the
// target height.
func (d *roundDomain) create(
	ctx context.Context, targetHeight int64, prizeDescription string,
) (*entity.Round, error) {
	var sequence int64 = 1
	last, err := d.roundRepo.GetLast(ctx)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			xcontext.Logger(ctx).Errorf("Cannot get last round: %v", err)
			return nil, errorx.Unknown
		}
	} else {
		sequence = last.Sequence + 1
		if prizeDescription == "" {
			prizeDescription = last.PrizeDescription
		}
	}

	now := time.Now()
	round := &entity.Round{
		Base:             entity.Base{ID: uuid.NewString()},
		Sequence:         sequence,
		TargetHeight:     targetHeight,
		StartTime:        now,
		EndTime:          now.Add(xcontext.Configs(ctx).Game.RoundDuration),
		PrizeDescription: prizeDescription,
		Status:           entity.RoundOpen,
	}

	if err := d.roundRepo.Create(ctx, round); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create round: %v", err)
		return nil, errorx.Unknown
	}

	publishEvent(ctx, d.publisher, event.RoundChannel,
		&event.RoundCreatedEvent{Round: convertRound(round)})

	return round, nil
}

// close stops a round from accepting guesses while it awaits its block.
func (d *roundDomain) close(ctx context.Context, round *entity.Round) error {
	if round.Status == entity.RoundFinished {
		return errorx.New(errorx.RoundFinished, "Round is already finished")
	}

	if err := d.roundRepo.CheckAndClose(ctx, round.ID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errorx.New(errorx.RoundClosed, "Round is already closed")
		}

		xcontext.Logger(ctx).Errorf("Cannot close round: %v", err)
		return errorx.Unknown
	}

	round.Status = entity.RoundClosed
	round.EndTime = time.Now()
	publishEvent(ctx, d.publisher, event.RoundChannel,
		&event.RoundClosedEvent{Round: convertRound(round)})

	return nil
}

// finish settles a round against its mined block: it records the result,
// picks the winner, announces it in chat, and bumps the leaderboard.
func (d *roundDomain) finish(
	ctx context.Context, round *entity.Round, txCount int, blockHash string,
) (*entity.Round, error) {
	if round.Status == entity.RoundFinished {
		return nil, errorx.New(errorx.RoundFinished, "Round is already finished")
	}

	var winner *entity.Guess
	winner, err := d.guessRepo.GetClosest(ctx, round.ID, txCount)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			xcontext.Logger(ctx).Errorf("Cannot get closest guess: %v", err)
			return nil, errorx.Unknown
		}

		// A round without guesses finishes without a winner.
		winner = nil
	}

	result := repository.FinishRoundResult{
		ActualTxCount: txCount,
		BlockHash:     blockHash,
	}

	var winnerMessage *entity.ChatMessage
	if winner != nil {
		result.WinnerUserID = winner.UserID
		result.WinningGuessID = winner.ID

		winnerMessage = &entity.ChatMessage{
			SnowFlakeBase: entity.SnowFlakeBase{ID: xcontext.SnowFlake(ctx).Generate().Int64()},
			RoundID:       sql.NullString{Valid: true, String: round.ID},
			UserID:        winner.UserID,
			DisplayName:   winner.DisplayName,
			Type:          entity.MessageTypeWinner,
			Text: fmt.Sprintf("%s won round %d with a guess of %d (actual %d)",
				winner.DisplayName, round.Sequence, winner.Value, txCount),
		}
	}

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	if err := d.roundRepo.CheckAndFinish(ctx, round.ID, result); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.RoundFinished, "Round is already finished")
		}

		xcontext.Logger(ctx).Errorf("Cannot finish round: %v", err)
		return nil, errorx.Unknown
	}

	if winnerMessage != nil {
		if err := d.chatMessageRepo.Create(ctx, winnerMessage); err != nil {
			xcontext.Logger(ctx).Errorf("Cannot create winner message: %v", err)
			return nil, errorx.Unknown
		}
	}

	ctx = xcontext.WithCommitDBTransaction(ctx)

	round.Status = entity.RoundFinished
	round.ActualTxCount = sql.NullInt64{Valid: true, Int64: int64(txCount)}
	round.BlockHash = sql.NullString{Valid: true, String: blockHash}
	if winner != nil {
		round.WinnerUserID = sql.NullString{Valid: true, String: winner.UserID}
		round.WinningGuessID = sql.NullInt64{Valid: true, Int64: winner.ID}

		err := d.redisClient.ZIncrBy(ctx, leaderboardRedisKey, 1, winner.UserID)
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot update leaderboard: %v", err)
		}
	}

	publishEvent(ctx, d.publisher, event.RoundChannel,
		&event.RoundFinishedEvent{Round: convertRound(round)})
	if winnerMessage != nil {
		publishEvent(ctx, d.publisher, event.ChatMessageChannel,
			&event.MessageCreatedEvent{ChatMessage: convertChatMessage(winnerMessage)})
	}

	return round, nil
}
