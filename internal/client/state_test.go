package client

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/bitcoinblocks/backend/internal/domain/notification/event"
	"github.com/bitcoinblocks/backend/internal/model"
	"github.com/bitcoinblocks/backend/pkg/errorx"
	"github.com/bitcoinblocks/backend/pkg/logger"
)

type fakeBackend struct {
	submitGuessCalled chan struct{}
	submitGuessGate   chan struct{}
	submitGuessResp   *model.Guess
	submitGuessErr    error
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		submitGuessCalled: make(chan struct{}, 1),
		submitGuessGate:   make(chan struct{}),
	}
}

func (b *fakeBackend) Login(ctx context.Context, identityToken string) (*model.LoginResponse, error) {
	return &model.LoginResponse{
		AccessToken: "token",
		User:        model.User{ID: "user-1", DisplayName: "alice"},
	}, nil
}

func (b *fakeBackend) GetCurrentRound(ctx context.Context) (*model.Round, error) {
	return &model.Round{}, nil
}

func (b *fakeBackend) GetRounds(ctx context.Context, offset, limit int) ([]model.Round, error) {
	return nil, nil
}

func (b *fakeBackend) GetGuesses(ctx context.Context, roundID string) ([]model.Guess, error) {
	return nil, nil
}

func (b *fakeBackend) GetMessages(ctx context.Context, limit int) ([]model.ChatMessage, error) {
	return nil, nil
}

func (b *fakeBackend) GetPrizeConfig(ctx context.Context) (*model.PrizeConfig, error) {
	return &model.PrizeConfig{Version: 1, Currency: "SATS", Amount: 1000}, nil
}

func (b *fakeBackend) GetLeaderboard(ctx context.Context, offset, limit int) ([]model.LeaderboardEntry, error) {
	return nil, nil
}

func (b *fakeBackend) SubmitGuess(ctx context.Context, roundID string, value int) (*model.Guess, error) {
	b.submitGuessCalled <- struct{}{}
	<-b.submitGuessGate
	return b.submitGuessResp, b.submitGuessErr
}

func (b *fakeBackend) SendMessage(ctx context.Context, roundID, text string) (*model.ChatMessage, error) {
	return &model.ChatMessage{ID: 7, UserID: "user-1", Text: text, Type: "chat"}, nil
}

type fakeFeed struct {
	events chan FeedEvent
}

func newFakeFeed() *fakeFeed {
	return &fakeFeed{events: make(chan FeedEvent, 16)}
}

func (f *fakeFeed) Events() <-chan FeedEvent {
	return f.events
}

func (f *fakeFeed) Close() error {
	close(f.events)
	return nil
}

func newTestGameState(t *testing.T, backend Backend, feed Feed) (*GameState, context.CancelFunc) {
	opts := DefaultOptions()
	opts.RefetchInterval = time.Hour

	s := NewGameState(backend, feed, logger.NewLogger("disabled"), opts)

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, s.Login(ctx, "identity-token"))
	go s.Run(ctx)

	return s, cancel
}

func Test_GameState_PushBeforeAckYieldsSingleGuess(t *testing.T) {
	backend := newFakeBackend()
	backend.submitGuessResp = &model.Guess{ID: 42, RoundID: "round-1", UserID: "user-1", Value: 150}

	feed := newFakeFeed()
	s, cancel := newTestGameState(t, backend, feed)
	defer cancel()

	submitDone := make(chan error, 1)
	go func() {
		submitDone <- s.SubmitGuess(context.Background(), "round-1", 150)
	}()

	<-backend.submitGuessCalled

	// The optimistic placeholder is visible while the call is in flight.
	require.Eventually(t, func() bool {
		records := s.Snapshot(event.GuessChannel)
		return len(records) == 1 && records[0].Pending
	}, time.Second, 5*time.Millisecond)

	// The push channel outruns the HTTP response.
	feed.events <- FeedEvent{
		Op:  "guess_created",
		Seq: 1,
		Data: map[string]any{
			"id": 42, "round_id": "round-1", "user_id": "user-1", "value": 150,
		},
	}

	require.Eventually(t, func() bool {
		records := s.Snapshot(event.GuessChannel)
		return len(records) == 1 && !records[0].Pending && records[0].ID == "42"
	}, time.Second, 5*time.Millisecond)

	close(backend.submitGuessGate)
	require.NoError(t, <-submitDone)

	// The late ack is absorbed instead of duplicating the guess.
	require.Eventually(t, func() bool {
		return s.Stats().Absorbed == 1
	}, time.Second, 5*time.Millisecond)

	records := s.Snapshot(event.GuessChannel)
	require.Len(t, records, 1)
	require.Equal(t, "42", records[0].ID)
}

func Test_GameState_RejectedGuessIsRolledBack(t *testing.T) {
	backend := newFakeBackend()
	backend.submitGuessErr = errorx.New(errorx.RoundClosed, "Round is already closed")
	close(backend.submitGuessGate)

	feed := newFakeFeed()
	s, cancel := newTestGameState(t, backend, feed)
	defer cancel()

	err := s.SubmitGuess(context.Background(), "round-1", 150)
	require.Error(t, err)

	require.Eventually(t, func() bool {
		return s.Stats().Failed == 1
	}, time.Second, 5*time.Millisecond)

	require.Empty(t, s.Snapshot(event.GuessChannel))
}

func Test_GameState_RoundEventsUpdateInPlace(t *testing.T) {
	backend := newFakeBackend()
	feed := newFakeFeed()
	s, cancel := newTestGameState(t, backend, feed)
	defer cancel()

	feed.events <- FeedEvent{
		Op:   "round_created",
		Data: map[string]any{"id": "round-1", "sequence": 1, "status": "open"},
	}
	feed.events <- FeedEvent{
		Op:   "round_closed",
		Data: map[string]any{"id": "round-1", "sequence": 1, "status": "closed"},
	}

	require.Eventually(t, func() bool {
		records := s.Snapshot(event.RoundChannel)
		return len(records) == 1 && records[0].Data["Status"] == "closed"
	}, time.Second, 5*time.Millisecond)
}

func Test_GameState_StalePrizeConfigIgnored(t *testing.T) {
	backend := newFakeBackend()
	feed := newFakeFeed()
	s, cancel := newTestGameState(t, backend, feed)
	defer cancel()

	feed.events <- FeedEvent{
		Op:   "prize_updated",
		Data: map[string]any{"version": 3, "currency": "SATS", "amount": 5000},
	}

	require.Eventually(t, func() bool {
		records := s.Snapshot(event.PrizeConfigChannel)
		return len(records) == 1 && records[0].ID == "v3"
	}, time.Second, 5*time.Millisecond)

	// An out-of-order delivery of an older version must not win.
	feed.events <- FeedEvent{
		Op:   "prize_updated",
		Data: map[string]any{"version": 2, "currency": "SATS", "amount": 1000},
	}
	feed.events <- FeedEvent{
		Op:   "message_created",
		Data: map[string]any{"id": 9, "user_id": "user-2", "text": "gm", "type": "chat"},
	}

	require.Eventually(t, func() bool {
		return len(s.Snapshot(event.ChatMessageChannel)) == 1
	}, time.Second, 5*time.Millisecond)

	records := s.Snapshot(event.PrizeConfigChannel)
	require.Len(t, records, 1)
	require.Equal(t, "v3", records[0].ID)
}
