package domain

import (
	"github.com/bitcoinblocks/backend/internal/entity"
	"github.com/bitcoinblocks/backend/internal/model"
)

func convertUser(user *entity.User) model.User {
	return model.User{
		ID:          user.ID,
		Fid:         user.Fid,
		Username:    user.Username,
		DisplayName: user.DisplayName,
		AvatarURL:   user.AvatarURL,
	}
}

func convertRound(round *entity.Round) model.Round {
	resp := model.Round{
		ID:               round.ID,
		Sequence:         round.Sequence,
		TargetHeight:     round.TargetHeight,
		StartTime:        round.StartTime,
		EndTime:          round.EndTime,
		PrizeDescription: round.PrizeDescription,
		Status:           string(round.Status),
	}

	if round.ActualTxCount.Valid {
		resp.ActualTxCount = &round.ActualTxCount.Int64
	}

	if round.BlockHash.Valid {
		resp.BlockHash = &round.BlockHash.String
	}

	if round.WinnerUserID.Valid {
		resp.WinnerUserID = &round.WinnerUserID.String
	}

	if round.WinningGuessID.Valid {
		resp.WinningGuessID = &round.WinningGuessID.Int64
	}

	return resp
}

func convertGuess(guess *entity.Guess) model.Guess {
	return model.Guess{
		ID:          guess.ID,
		RoundID:     guess.RoundID,
		UserID:      guess.UserID,
		Value:       guess.Value,
		DisplayName: guess.DisplayName,
		CreatedAt:   guess.CreatedAt,
	}
}

func convertChatMessage(message *entity.ChatMessage) model.ChatMessage {
	resp := model.ChatMessage{
		ID:          message.ID,
		UserID:      message.UserID,
		DisplayName: message.DisplayName,
		Type:        string(message.Type),
		Text:        message.Text,
		CreatedAt:   message.CreatedAt,
	}

	if message.RoundID.Valid {
		resp.RoundID = message.RoundID.String
	}

	return resp
}

func convertPrizeConfig(config *entity.PrizeConfig) model.PrizeConfig {
	return model.PrizeConfig{
		Version:  config.Version,
		Currency: config.Currency,
		Amount:   config.Amount,
		Payouts:  config.Payouts,
	}
}
