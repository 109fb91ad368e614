package entity

import (
	"database/sql"

	"github.com/bitcoinblocks/backend/pkg/enum"
)

type MessageType string

var (
	MessageTypeChat   = enum.New(MessageType("chat"))
	MessageTypeSystem = enum.New(MessageType("system"))
	MessageTypeGuess  = enum.New(MessageType("guess"))
	MessageTypeWinner = enum.New(MessageType("winner"))
)

type ChatMessage struct {
	SnowFlakeBase

	RoundID sql.NullString `gorm:"index"`

	UserID      string
	DisplayName string
	Type        MessageType
	Text        string
}
