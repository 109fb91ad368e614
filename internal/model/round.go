package model

import "time"

type Round struct {
	ID               string    `json:"id"`
	Sequence         int64     `json:"sequence"`
	TargetHeight     int64     `json:"target_height"`
	StartTime        time.Time `json:"start_time"`
	EndTime          time.Time `json:"end_time"`
	PrizeDescription string    `json:"prize_description"`
	Status           string    `json:"status"`

	ActualTxCount  *int64  `json:"actual_tx_count,omitempty"`
	BlockHash      *string `json:"block_hash,omitempty"`
	WinnerUserID   *string `json:"winner_user_id,omitempty"`
	WinningGuessID *int64  `json:"winning_guess_id,omitempty"`
}

type CreateRoundRequest struct {
	TargetHeight     int64  `json:"target_height"`
	PrizeDescription string `json:"prize_description"`
}

type CreateRoundResponse struct {
	Round Round `json:"round"`
}

type GetCurrentRoundRequest struct{}

type GetCurrentRoundResponse struct {
	Round Round `json:"round"`
}

type GetRoundsRequest struct {
	Offset int `json:"offset" form:"offset"`
	Limit  int `json:"limit" form:"limit"`
}

type GetRoundsResponse struct {
	Rounds []Round `json:"rounds"`
}

type CloseRoundRequest struct {
	RoundID string `json:"round_id"`
}

type CloseRoundResponse struct{}

type FinishRoundRequest struct {
	RoundID       string `json:"round_id"`
	ActualTxCount int64  `json:"actual_tx_count"`
	BlockHash     string `json:"block_hash"`
}

type FinishRoundResponse struct {
	Round Round `json:"round"`
}
