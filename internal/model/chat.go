package model

import "time"

type ChatMessage struct {
	ID          int64     `json:"id"`
	RoundID     string    `json:"round_id,omitempty"`
	UserID      string    `json:"user_id"`
	DisplayName string    `json:"display_name"`
	Type        string    `json:"type"`
	Text        string    `json:"text"`
	CreatedAt   time.Time `json:"created_at"`
}

type SendMessageRequest struct {
	RoundID string `json:"round_id"`
	Text    string `json:"text"`
}

type SendMessageResponse struct {
	Message ChatMessage `json:"message"`
}

type GetMessagesRequest struct {
	Limit int `json:"limit" form:"limit"`
}

type GetMessagesResponse struct {
	Messages []ChatMessage `json:"messages"`
}
