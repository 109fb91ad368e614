package domain

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/bitcoinblocks/backend/internal/entity"
	"github.com/bitcoinblocks/backend/pkg/blockchain/bitcoin"
	"github.com/bitcoinblocks/backend/pkg/retry"
	"github.com/bitcoinblocks/backend/pkg/xcontext"
)

// RoundWatcher drives the round lifecycle from the bitcoin chain. It closes
// rounds whose guessing window elapsed, settles rounds whose target block
// was mined, and opens the next round.
type RoundWatcher struct {
	roundDomain   *roundDomain
	bitcoinClient bitcoin.Client
}

func NewRoundWatcher(roundDomain *roundDomain, bitcoinClient bitcoin.Client) *RoundWatcher {
	return &RoundWatcher{
		roundDomain:   roundDomain,
		bitcoinClient: bitcoinClient,
	}
}

func (w *RoundWatcher) Start(ctx context.Context) {
	ticker := time.NewTicker(xcontext.Configs(ctx).Bitcoin.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.poll(ctx)
		}
	}
}

func (w *RoundWatcher) poll(ctx context.Context) {
	tip, err := retry.Do(ctx, retry.DefaultOptions(),
		func(ctx context.Context) (int64, error) {
			return w.bitcoinClient.TipHeight(ctx)
		})
	if err != nil {
		xcontext.Logger(ctx).Warnf("Cannot get tip height: %v", err)
		return
	}

	round, err := w.roundDomain.roundRepo.GetCurrent(ctx)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			xcontext.Logger(ctx).Errorf("Cannot get current round: %v", err)
			return
		}

		if _, err := w.roundDomain.create(ctx, tip+1, ""); err != nil {
			xcontext.Logger(ctx).Errorf("Cannot create round: %v", err)
		}

		return
	}

	if round.Status == entity.RoundOpen && time.Now().After(round.EndTime) {
		if err := w.roundDomain.close(ctx, round); err != nil {
			xcontext.Logger(ctx).Errorf("Cannot close round %d: %v", round.Sequence, err)
			return
		}
	}

	if tip >= round.TargetHeight {
		block, err := retry.Do(ctx, retry.DefaultOptions(),
			func(ctx context.Context) (*bitcoin.Block, error) {
				return w.bitcoinClient.BlockByHeight(ctx, round.TargetHeight)
			})
		if err != nil {
			xcontext.Logger(ctx).Warnf("Cannot get block %d: %v", round.TargetHeight, err)
			return
		}

		if _, err := w.roundDomain.finish(ctx, round, block.TxCount, block.Hash); err != nil {
			xcontext.Logger(ctx).Errorf("Cannot finish round %d: %v", round.Sequence, err)
			return
		}

		if _, err := w.roundDomain.create(ctx, tip+1, round.PrizeDescription); err != nil {
			xcontext.Logger(ctx).Errorf("Cannot create next round: %v", err)
			return
		}
	}

	w.sweepChat(ctx)
}

// sweepChat enforces the chat retention window.
func (w *RoundWatcher) sweepChat(ctx context.Context) {
	retention := xcontext.Configs(ctx).Game.ChatRetention
	if retention <= 0 {
		return
	}

	cutoff := time.Now().Add(-retention)
	if err := w.roundDomain.chatMessageRepo.DeleteBefore(ctx, cutoff); err != nil {
		xcontext.Logger(ctx).Warnf("Cannot sweep old chat messages: %v", err)
	}
}
