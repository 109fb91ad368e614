package domain

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bitcoinblocks/backend/internal/common"
	"github.com/bitcoinblocks/backend/internal/entity"
	"github.com/bitcoinblocks/backend/internal/model"
	"github.com/bitcoinblocks/backend/internal/repository"
	"github.com/bitcoinblocks/backend/pkg/errorx"
	"github.com/bitcoinblocks/backend/pkg/testutil"
	"github.com/bitcoinblocks/backend/pkg/xcontext"
)

func newTestRoundDomain(redisClient *testutil.MockRedisClient) (*roundDomain, *testutil.MockPublisher) {
	publisher := &testutil.MockPublisher{}
	d := NewRoundDomain(
		repository.NewRoundRepository(),
		repository.NewGuessRepository(),
		repository.NewChatMessageRepository(),
		common.NewGlobalRoleVerifier(repository.NewUserRepository()),
		redisClient,
		publisher,
	)

	return d, publisher
}

func Test_roundDomain_Create(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	d, _ := newTestRoundDomain(&testutil.MockRedisClient{})

	// Only global admins can create rounds by hand.
	userCtx := xcontext.WithRequestUserID(ctx, testutil.User1.ID)
	_, err := d.Create(userCtx, &model.CreateRoundRequest{TargetHeight: 800002})
	require.Equal(t, errorx.New(errorx.PermissionDenied, "Permission denied"), err)

	// The fixture round is still running.
	adminCtx := xcontext.WithRequestUserID(ctx, testutil.Admin.ID)
	_, err = d.Create(adminCtx, &model.CreateRoundRequest{TargetHeight: 800002})
	require.Equal(t, errorx.New(errorx.AlreadyExists, "There is still an unfinished round"), err)
}

func Test_roundDomain_CloseAndFinish(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)

	var leaderboardMember string
	redisClient := &testutil.MockRedisClient{
		ZIncrByFunc: func(ctx context.Context, key string, incr int64, member string) error {
			require.Equal(t, "leaderboard", key)
			leaderboardMember = member
			return nil
		},
	}
	d, publisher := newTestRoundDomain(redisClient)
	guessDomain, _ := newTestGuessDomain(&testutil.MockRedisClient{})

	// Two guesses equally close to the actual count; the earlier submission
	// wins the tiebreak.
	user1Ctx := xcontext.WithRequestUserID(ctx, testutil.User1.ID)
	_, err := guessDomain.Submit(user1Ctx, &model.SubmitGuessRequest{
		RoundID: testutil.OpenRound.ID,
		Value:   2400,
	})
	require.NoError(t, err)

	user2Ctx := xcontext.WithRequestUserID(ctx, testutil.User2.ID)
	_, err = guessDomain.Submit(user2Ctx, &model.SubmitGuessRequest{
		RoundID: testutil.OpenRound.ID,
		Value:   2600,
	})
	require.NoError(t, err)

	adminCtx := xcontext.WithRequestUserID(ctx, testutil.Admin.ID)
	_, err = d.Close(adminCtx, &model.CloseRoundRequest{RoundID: testutil.OpenRound.ID})
	require.NoError(t, err)

	// Closing twice fails.
	_, err = d.Close(adminCtx, &model.CloseRoundRequest{RoundID: testutil.OpenRound.ID})
	require.Equal(t, errorx.New(errorx.RoundClosed, "Round is already closed"), err)

	resp, err := d.Finish(adminCtx, &model.FinishRoundRequest{
		RoundID:       testutil.OpenRound.ID,
		ActualTxCount: 2500,
		BlockHash:     "00000000abc",
	})
	require.NoError(t, err)
	require.Equal(t, string(entity.RoundFinished), resp.Round.Status)
	require.NotNil(t, resp.Round.WinnerUserID)
	require.Equal(t, testutil.User1.ID, *resp.Round.WinnerUserID)
	require.Equal(t, testutil.User1.ID, leaderboardMember)

	// The winner announcement lands in chat.
	messages, err := repository.NewChatMessageRepository().GetLatest(ctx, 10)
	require.NoError(t, err)
	require.Equal(t, entity.MessageTypeWinner, messages[0].Type)
	require.Equal(t, testutil.User1.ID, messages[0].UserID)

	// Finishing twice fails.
	_, err = d.Finish(adminCtx, &model.FinishRoundRequest{
		RoundID:       testutil.OpenRound.ID,
		ActualTxCount: 2500,
		BlockHash:     "00000000abc",
	})
	require.Equal(t, errorx.New(errorx.RoundFinished, "Round is already finished"), err)

	// With the previous round settled, the next one can start. It inherits
	// the prize description when the request leaves it empty.
	created, err := d.Create(adminCtx, &model.CreateRoundRequest{TargetHeight: 800002})
	require.NoError(t, err)
	require.Equal(t, int64(2), created.Round.Sequence)
	require.Equal(t, string(entity.RoundOpen), created.Round.Status)

	require.NotEmpty(t, publisher.Packs())
}

func Test_roundDomain_Finish_withoutGuesses(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	d, _ := newTestRoundDomain(&testutil.MockRedisClient{})

	adminCtx := xcontext.WithRequestUserID(ctx, testutil.Admin.ID)
	resp, err := d.Finish(adminCtx, &model.FinishRoundRequest{
		RoundID:       testutil.OpenRound.ID,
		ActualTxCount: 1234,
		BlockHash:     "00000000def",
	})
	require.NoError(t, err)
	require.Equal(t, string(entity.RoundFinished), resp.Round.Status)
	require.Nil(t, resp.Round.WinnerUserID)
	require.NotNil(t, resp.Round.ActualTxCount)
	require.Equal(t, int64(1234), *resp.Round.ActualTxCount)
}

func Test_roundDomain_GetCurrentAndGetList(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	d, _ := newTestRoundDomain(&testutil.MockRedisClient{})

	current, err := d.GetCurrent(ctx, &model.GetCurrentRoundRequest{})
	require.NoError(t, err)
	require.Equal(t, testutil.OpenRound.ID, current.Round.ID)

	list, err := d.GetList(ctx, &model.GetRoundsRequest{Limit: 10})
	require.NoError(t, err)
	require.Len(t, list.Rounds, 1)

	_, err = d.GetList(ctx, &model.GetRoundsRequest{Limit: 1000})
	require.Equal(t, errorx.New(errorx.BadRequest, "Exceed the maximum of limit"), err)
}
