package domain

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bitcoinblocks/backend/internal/entity"
	"github.com/bitcoinblocks/backend/internal/model"
	"github.com/bitcoinblocks/backend/internal/repository"
	"github.com/bitcoinblocks/backend/pkg/blockchain/bitcoin"
	"github.com/bitcoinblocks/backend/pkg/testutil"
	"github.com/bitcoinblocks/backend/pkg/xcontext"
)

func Test_RoundWatcher_poll_createsFirstRound(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.InsertUsers(ctx)

	roundDomain, _ := newTestRoundDomain(&testutil.MockRedisClient{})
	watcher := NewRoundWatcher(roundDomain, &testutil.MockBitcoinClient{
		TipHeightFunc: func(ctx context.Context) (int64, error) {
			return 800000, nil
		},
	})

	watcher.poll(ctx)

	round, err := repository.NewRoundRepository().GetCurrent(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(800001), round.TargetHeight)
	require.Equal(t, int64(1), round.Sequence)
	require.Equal(t, entity.RoundOpen, round.Status)
}

func Test_RoundWatcher_poll_settlesMinedRound(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)

	roundDomain, _ := newTestRoundDomain(&testutil.MockRedisClient{})
	guessDomain, _ := newTestGuessDomain(&testutil.MockRedisClient{})

	user1Ctx := xcontext.WithRequestUserID(ctx, testutil.User1.ID)
	_, err := guessDomain.Submit(user1Ctx, &model.SubmitGuessRequest{
		RoundID: testutil.OpenRound.ID,
		Value:   3000,
	})
	require.NoError(t, err)

	// The fixture round targets height 800001, and the tip just passed it.
	watcher := NewRoundWatcher(roundDomain, &testutil.MockBitcoinClient{
		TipHeightFunc: func(ctx context.Context) (int64, error) {
			return 800001, nil
		},
		BlockByHeightFunc: func(ctx context.Context, height int64) (*bitcoin.Block, error) {
			require.Equal(t, int64(800001), height)
			return &bitcoin.Block{
				Height:  height,
				Hash:    "00000000abc",
				TxCount: 3100,
			}, nil
		},
	})

	watcher.poll(ctx)

	roundRepo := repository.NewRoundRepository()
	settled, err := roundRepo.GetByID(ctx, testutil.OpenRound.ID)
	require.NoError(t, err)
	require.Equal(t, entity.RoundFinished, settled.Status)
	require.True(t, settled.ActualTxCount.Valid)
	require.Equal(t, int64(3100), settled.ActualTxCount.Int64)
	require.True(t, settled.WinnerUserID.Valid)
	require.Equal(t, testutil.User1.ID, settled.WinnerUserID.String)

	// The next round opens immediately, targeting the block after the tip.
	next, err := roundRepo.GetCurrent(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(2), next.Sequence)
	require.Equal(t, int64(800002), next.TargetHeight)
	require.Equal(t, entity.RoundOpen, next.Status)
}

func Test_RoundWatcher_poll_closesElapsedRound(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.InsertUsers(ctx)

	roundRepo := repository.NewRoundRepository()
	roundDomain, _ := newTestRoundDomain(&testutil.MockRedisClient{})

	elapsed := testutil.OpenRound
	elapsed.EndTime = elapsed.StartTime
	require.NoError(t, roundRepo.Create(ctx, &elapsed))

	// The target block has not been mined yet; the round only closes.
	watcher := NewRoundWatcher(roundDomain, &testutil.MockBitcoinClient{
		TipHeightFunc: func(ctx context.Context) (int64, error) {
			return elapsed.TargetHeight - 1, nil
		},
	})

	watcher.poll(ctx)

	round, err := roundRepo.GetByID(ctx, elapsed.ID)
	require.NoError(t, err)
	require.Equal(t, entity.RoundClosed, round.Status)
}
