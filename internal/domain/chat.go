package domain

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/bitcoinblocks/backend/internal/domain/notification/event"
	"github.com/bitcoinblocks/backend/internal/entity"
	"github.com/bitcoinblocks/backend/internal/model"
	"github.com/bitcoinblocks/backend/internal/repository"
	"github.com/bitcoinblocks/backend/pkg/errorx"
	"github.com/bitcoinblocks/backend/pkg/pubsub"
	"github.com/bitcoinblocks/backend/pkg/xcontext"
)

type ChatDomain interface {
	Send(ctx context.Context, req *model.SendMessageRequest) (*model.SendMessageResponse, error)
	GetList(ctx context.Context, req *model.GetMessagesRequest) (*model.GetMessagesResponse, error)
}

type chatDomain struct {
	chatMessageRepo repository.ChatMessageRepository
	roundRepo       repository.RoundRepository
	userRepo        repository.UserRepository
	publisher       pubsub.Publisher
}

func NewChatDomain(
	chatMessageRepo repository.ChatMessageRepository,
	roundRepo repository.RoundRepository,
	userRepo repository.UserRepository,
	publisher pubsub.Publisher,
) *chatDomain {
	return &chatDomain{
		chatMessageRepo: chatMessageRepo,
		roundRepo:       roundRepo,
		userRepo:        userRepo,
		publisher:       publisher,
	}
}

func (d *chatDomain) Send(
	ctx context.Context, req *model.SendMessageRequest,
) (*model.SendMessageResponse, error) {
	text := strings.TrimSpace(req.Text)
	if text == "" {
		return nil, errorx.New(errorx.BadRequest, "Require a non-empty message")
	}

	if len(text) > xcontext.Configs(ctx).Game.ChatMaxLength {
		return nil, errorx.New(errorx.BadRequest,
			"Message is longer than %d characters", xcontext.Configs(ctx).Game.ChatMaxLength)
	}

	user, err := d.userRepo.GetByID(ctx, xcontext.RequestUserID(ctx))
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get user: %v", err)
		return nil, errorx.Unknown
	}

	roundID := sql.NullString{}
	if req.RoundID != "" {
		if _, err := d.roundRepo.GetByID(ctx, req.RoundID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, errorx.New(errorx.NotFound, "Not found round")
			}

			xcontext.Logger(ctx).Errorf("Cannot get round: %v", err)
			return nil, errorx.Unknown
		}

		roundID = sql.NullString{Valid: true, String: req.RoundID}
	}

	message := &entity.ChatMessage{
		SnowFlakeBase: entity.SnowFlakeBase{ID: xcontext.SnowFlake(ctx).Generate().Int64()},
		RoundID:       roundID,
		UserID:        user.ID,
		DisplayName:   user.DisplayName,
		Type:          entity.MessageTypeChat,
		Text:          text,
	}

	if err := d.chatMessageRepo.Create(ctx, message); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create message: %v", err)
		return nil, errorx.Unknown
	}

	publishEvent(ctx, d.publisher, event.ChatMessageChannel,
		&event.MessageCreatedEvent{ChatMessage: convertChatMessage(message)})

	return &model.SendMessageResponse{Message: convertChatMessage(message)}, nil
}

func (d *chatDomain) GetList(
	ctx context.Context, req *model.GetMessagesRequest,
) (*model.GetMessagesResponse, error) {
	if req.Limit == 0 {
		req.Limit = xcontext.Configs(ctx).ApiServer.DefaultLimit
	}

	if req.Limit > xcontext.Configs(ctx).ApiServer.MaxLimit {
		return nil, errorx.New(errorx.BadRequest, "Exceed the maximum of limit")
	}

	messages, err := d.chatMessageRepo.GetLatest(ctx, req.Limit)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get messages: %v", err)
		return nil, errorx.Unknown
	}

	resp := []model.ChatMessage{}
	for i := range messages {
		resp = append(resp, convertChatMessage(&messages[i]))
	}

	return &model.GetMessagesResponse{Messages: resp}, nil
}
