package event

import "github.com/bitcoinblocks/backend/internal/model"

type GuessCreatedEvent struct {
	model.Guess
}

func (*GuessCreatedEvent) Op() string {
	return "guess_created"
}
