package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bitcoinblocks/backend/internal/entity"
	"github.com/bitcoinblocks/backend/internal/model"
	"github.com/bitcoinblocks/backend/internal/repository"
	"github.com/bitcoinblocks/backend/pkg/errorx"
	"github.com/bitcoinblocks/backend/pkg/testutil"
	"github.com/bitcoinblocks/backend/pkg/xcontext"
)

func newTestChatDomain() (*chatDomain, *testutil.MockPublisher) {
	publisher := &testutil.MockPublisher{}
	d := NewChatDomain(
		repository.NewChatMessageRepository(),
		repository.NewRoundRepository(),
		repository.NewUserRepository(),
		publisher,
	)

	return d, publisher
}

func Test_chatDomain_Send(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	d, publisher := newTestChatDomain()

	ctx = xcontext.WithRequestUserID(ctx, testutil.User1.ID)
	resp, err := d.Send(ctx, &model.SendMessageRequest{Text: "  gm everyone  "})
	require.NoError(t, err)
	require.Equal(t, "gm everyone", resp.Message.Text)
	require.Equal(t, string(entity.MessageTypeChat), resp.Message.Type)
	require.Equal(t, testutil.User1.DisplayName, resp.Message.DisplayName)
	require.Empty(t, resp.Message.RoundID)
	require.Len(t, publisher.Packs(), 1)

	// A message can be bound to a round, but only an existing one.
	resp, err = d.Send(ctx, &model.SendMessageRequest{
		RoundID: testutil.OpenRound.ID,
		Text:    "good luck",
	})
	require.NoError(t, err)
	require.Equal(t, testutil.OpenRound.ID, resp.Message.RoundID)

	_, err = d.Send(ctx, &model.SendMessageRequest{RoundID: "unknown", Text: "hello"})
	require.Equal(t, errorx.New(errorx.NotFound, "Not found round"), err)
}

func Test_chatDomain_Send_invalidText(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	d, _ := newTestChatDomain()

	ctx = xcontext.WithRequestUserID(ctx, testutil.User1.ID)

	_, err := d.Send(ctx, &model.SendMessageRequest{Text: "   "})
	require.Equal(t, errorx.New(errorx.BadRequest, "Require a non-empty message"), err)

	tooLong := strings.Repeat("a", xcontext.Configs(ctx).Game.ChatMaxLength+1)
	_, err = d.Send(ctx, &model.SendMessageRequest{Text: tooLong})
	require.Equal(t, errorx.BadRequest, err.(errorx.Error).Code)
}

func Test_chatDomain_GetList(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	d, _ := newTestChatDomain()

	userCtx := xcontext.WithRequestUserID(ctx, testutil.User1.ID)
	for _, text := range []string{"first", "second", "third"} {
		_, err := d.Send(userCtx, &model.SendMessageRequest{Text: text})
		require.NoError(t, err)
	}

	resp, err := d.GetList(ctx, &model.GetMessagesRequest{Limit: 2})
	require.NoError(t, err)
	require.Len(t, resp.Messages, 2)

	// Newest first.
	require.Equal(t, "third", resp.Messages[0].Text)
	require.Equal(t, "second", resp.Messages[1].Text)

	_, err = d.GetList(ctx, &model.GetMessagesRequest{Limit: 1000})
	require.Equal(t, errorx.New(errorx.BadRequest, "Exceed the maximum of limit"), err)
}
