package event

import "github.com/bitcoinblocks/backend/internal/model"

// ROUND CREATED EVENT
type RoundCreatedEvent struct {
	model.Round
}

func (*RoundCreatedEvent) Op() string {
	return "round_created"
}

// ROUND CLOSED EVENT
type RoundClosedEvent struct {
	model.Round
}

func (*RoundClosedEvent) Op() string {
	return "round_closed"
}

// ROUND FINISHED EVENT
type RoundFinishedEvent struct {
	model.Round
}

func (*RoundFinishedEvent) Op() string {
	return "round_finished"
}
