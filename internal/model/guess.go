package model

import "time"

type Guess struct {
	ID          int64     `json:"id"`
	RoundID     string    `json:"round_id"`
	UserID      string    `json:"user_id"`
	Value       int       `json:"value"`
	DisplayName string    `json:"display_name"`
	CreatedAt   time.Time `json:"created_at"`
}

type SubmitGuessRequest struct {
	RoundID string `json:"round_id"`
	Value   int    `json:"value"`
}

type SubmitGuessResponse struct {
	Guess Guess `json:"guess"`
}

type GetGuessesRequest struct {
	RoundID string `json:"round_id" form:"round_id"`
}

type GetGuessesResponse struct {
	Guesses []Guess `json:"guesses"`
}

type LeaderboardEntry struct {
	UserID string `json:"user_id"`
	Wins   int64  `json:"wins"`
}

type GetLeaderboardRequest struct {
	Offset int `json:"offset" form:"offset"`
	Limit  int `json:"limit" form:"limit"`
}

type GetLeaderboardResponse struct {
	Entries []LeaderboardEntry `json:"entries"`
}
