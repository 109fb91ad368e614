package domain

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/bitcoinblocks/backend/internal/domain/notification/event"
	"github.com/bitcoinblocks/backend/internal/entity"
	"github.com/bitcoinblocks/backend/internal/model"
	"github.com/bitcoinblocks/backend/internal/repository"
	"github.com/bitcoinblocks/backend/pkg/errorx"
	"github.com/bitcoinblocks/backend/pkg/pubsub"
	"github.com/bitcoinblocks/backend/pkg/xcontext"
	"github.com/bitcoinblocks/backend/pkg/xredis"
)

type GuessDomain interface {
	Submit(ctx context.Context, req *model.SubmitGuessRequest) (*model.SubmitGuessResponse, error)
	GetList(ctx context.Context, req *model.GetGuessesRequest) (*model.GetGuessesResponse, error)
	GetLeaderboard(ctx context.Context, req *model.GetLeaderboardRequest) (*model.GetLeaderboardResponse, error)
}

type guessDomain struct {
	guessRepo       repository.GuessRepository
	roundRepo       repository.RoundRepository
	userRepo        repository.UserRepository
	chatMessageRepo repository.ChatMessageRepository
	redisClient     xredis.Client
	publisher       pubsub.Publisher
}

func NewGuessDomain(
	guessRepo repository.GuessRepository,
	roundRepo repository.RoundRepository,
	userRepo repository.UserRepository,
	chatMessageRepo repository.ChatMessageRepository,
	redisClient xredis.Client,
	publisher pubsub.Publisher,
) *guessDomain {
	return &guessDomain{
		guessRepo:       guessRepo,
		roundRepo:       roundRepo,
		userRepo:        userRepo,
		chatMessageRepo: chatMessageRepo,
		redisClient:     redisClient,
		publisher:       publisher,
	}
}

// Submit records the user's prediction for an open round. Every guess also
// shows up in chat so the room sees it immediately.
func (d *guessDomain) Submit(
	ctx context.Context, req *model.SubmitGuessRequest,
) (*model.SubmitGuessResponse, error) {
	if req.Value < 0 || req.Value > xcontext.Configs(ctx).Game.MaxGuessValue {
		return nil, errorx.New(errorx.BadRequest,
			"Guess value must be between 0 and %d", xcontext.Configs(ctx).Game.MaxGuessValue)
	}

	round, err := d.roundRepo.GetByID(ctx, req.RoundID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found round")
		}

		xcontext.Logger(ctx).Errorf("Cannot get round: %v", err)
		return nil, errorx.Unknown
	}

	if round.Status != entity.RoundOpen {
		return nil, errorx.New(errorx.RoundClosed, "Round is not accepting guesses")
	}

	if time.Now().After(round.EndTime) {
		return nil, errorx.New(errorx.GuessTooLate, "Round has already ended")
	}

	userID := xcontext.RequestUserID(ctx)
	user, err := d.userRepo.GetByID(ctx, userID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get user: %v", err)
		return nil, errorx.Unknown
	}

	if _, err := d.guessRepo.GetByRoundAndUser(ctx, round.ID, userID); err == nil {
		return nil, errorx.New(errorx.AlreadyExists, "You have already guessed this round")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		xcontext.Logger(ctx).Errorf("Cannot get guess: %v", err)
		return nil, errorx.Unknown
	}

	guess := &entity.Guess{
		SnowFlakeBase: entity.SnowFlakeBase{ID: xcontext.SnowFlake(ctx).Generate().Int64()},
		RoundID:       round.ID,
		UserID:        userID,
		Value:         req.Value,
		DisplayName:   user.DisplayName,
	}

	guessMessage := &entity.ChatMessage{
		SnowFlakeBase: entity.SnowFlakeBase{ID: xcontext.SnowFlake(ctx).Generate().Int64()},
		RoundID:       sql.NullString{Valid: true, String: round.ID},
		UserID:        userID,
		DisplayName:   user.DisplayName,
		Type:          entity.MessageTypeGuess,
		Text:          fmt.Sprintf("%s guessed %d", user.DisplayName, req.Value),
	}

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	if err := d.guessRepo.Create(ctx, guess); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create guess: %v", err)
		return nil, errorx.Unknown
	}

	if err := d.chatMessageRepo.Create(ctx, guessMessage); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create guess message: %v", err)
		return nil, errorx.Unknown
	}

	ctx = xcontext.WithCommitDBTransaction(ctx)

	publishEvent(ctx, d.publisher, event.GuessChannel,
		&event.GuessCreatedEvent{Guess: convertGuess(guess)})
	publishEvent(ctx, d.publisher, event.ChatMessageChannel,
		&event.MessageCreatedEvent{ChatMessage: convertChatMessage(guessMessage)})

	return &model.SubmitGuessResponse{Guess: convertGuess(guess)}, nil
}

func (d *guessDomain) GetList(
	ctx context.Context, req *model.GetGuessesRequest,
) (*model.GetGuessesResponse, error) {
	if req.RoundID == "" {
		return nil, errorx.New(errorx.BadRequest, "Require round id")
	}

	guesses, err := d.guessRepo.GetListByRoundID(
		ctx, req.RoundID, 0, xcontext.Configs(ctx).ApiServer.MaxLimit)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get guesses: %v", err)
		return nil, errorx.Unknown
	}

	resp := []model.Guess{}
	for i := range guesses {
		resp = append(resp, convertGuess(&guesses[i]))
	}

	return &model.GetGuessesResponse{Guesses: resp}, nil
}

// GetLeaderboard reads the all-time win counters kept in redis.
func (d *guessDomain) GetLeaderboard(
	ctx context.Context, req *model.GetLeaderboardRequest,
) (*model.GetLeaderboardResponse, error) {
	if req.Limit == 0 {
		req.Limit = xcontext.Configs(ctx).ApiServer.DefaultLimit
	}

	if req.Limit > xcontext.Configs(ctx).ApiServer.MaxLimit {
		return nil, errorx.New(errorx.BadRequest, "Exceed the maximum of limit")
	}

	results, err := d.redisClient.ZRevRangeWithScores(
		ctx, leaderboardRedisKey, req.Offset, req.Limit)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get leaderboard: %v", err)
		return nil, errorx.Unknown
	}

	entries := []model.LeaderboardEntry{}
	for _, z := range results {
		member, ok := z.Member.(string)
		if !ok {
			continue
		}

		entries = append(entries, model.LeaderboardEntry{
			UserID: member,
			Wins:   int64(z.Score),
		})
	}

	return &model.GetLeaderboardResponse{Entries: entries}, nil
}
