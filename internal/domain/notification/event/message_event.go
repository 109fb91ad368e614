package event

import "github.com/bitcoinblocks/backend/internal/model"

type MessageCreatedEvent struct {
	model.ChatMessage
}

func (*MessageCreatedEvent) Op() string {
	return "message_created"
}
