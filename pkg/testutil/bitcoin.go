package testutil

import (
	"context"

	"github.com/bitcoinblocks/backend/pkg/blockchain/bitcoin"
	"github.com/bitcoinblocks/backend/pkg/errorx"
)

type MockBitcoinClient struct {
	TipHeightFunc     func(ctx context.Context) (int64, error)
	BlockByHeightFunc func(ctx context.Context, height int64) (*bitcoin.Block, error)
}

func (m *MockBitcoinClient) TipHeight(ctx context.Context) (int64, error) {
	if m.TipHeightFunc != nil {
		return m.TipHeightFunc(ctx)
	}

	return 0, errorx.New(errorx.NotImplemented, "Not implemented")
}

func (m *MockBitcoinClient) BlockByHeight(ctx context.Context, height int64) (*bitcoin.Block, error) {
	if m.BlockByHeightFunc != nil {
		return m.BlockByHeightFunc(ctx, height)
	}

	return nil, errorx.New(errorx.NotImplemented, "Not implemented")
}
