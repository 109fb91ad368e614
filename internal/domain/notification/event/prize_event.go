package event

import "github.com/bitcoinblocks/backend/internal/model"

type PrizeUpdatedEvent struct {
	model.PrizeConfig
}

func (*PrizeUpdatedEvent) Op() string {
	return "prize_updated"
}
