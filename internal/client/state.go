package client

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/fatih/structs"
	"github.com/google/uuid"
	"github.com/mitchellh/mapstructure"

	"github.com/bitcoinblocks/backend/internal/domain/notification/event"
	"github.com/bitcoinblocks/backend/internal/model"
	"github.com/bitcoinblocks/backend/pkg/logger"
	"github.com/bitcoinblocks/backend/pkg/retry"
)

type Options struct {
	RoundLimit      int
	GuessLimit      int
	ChatLimit       int
	RefetchInterval time.Duration
}

func DefaultOptions() Options {
	return Options{
		RoundLimit:      50,
		GuessLimit:      500,
		ChatLimit:       100,
		RefetchInterval: 30 * time.Second,
	}
}

// GameState is the client-side view of one game session. It owns a
// reconciler fed from three sources: imperative actions issued by the UI,
// authoritative events pushed by the feed, and periodic full refetches
// covering push gaps. All state mutation is funneled through a single
// goroutine, so the reconciler needs no locks.
type GameState struct {
	backend    Backend
	feed       Feed
	logger     logger.Logger
	reconciler *Reconciler
	opts       Options

	userID      string
	displayName string

	actions chan func()
	done    chan struct{}
}

func NewGameState(backend Backend, feed Feed, logger logger.Logger, opts Options) *GameState {
	s := &GameState{
		backend:    backend,
		feed:       feed,
		logger:     logger,
		reconciler: NewReconciler(),
		opts:       opts,
		actions:    make(chan func(), 64),
		done:       make(chan struct{}),
	}

	s.reconciler.Collection(event.RoundChannel, opts.RoundLimit)
	s.reconciler.Collection(event.GuessChannel, opts.GuessLimit)
	s.reconciler.Collection(event.ChatMessageChannel, opts.ChatLimit)
	s.reconciler.Collection(event.PrizeConfigChannel, 1)

	return s
}

// Login authenticates against the backend and remembers the identity used
// to correlate this client's own writes.
func (s *GameState) Login(ctx context.Context, identityToken string) error {
	resp, err := s.backend.Login(ctx, identityToken)
	if err != nil {
		return err
	}

	s.userID = resp.User.ID
	s.displayName = resp.User.DisplayName
	return nil
}

// Run processes actions and feed events until ctx is cancelled. It must
// be running before any action or snapshot call.
func (s *GameState) Run(ctx context.Context) {
	defer close(s.done)

	var events <-chan FeedEvent
	if s.feed != nil {
		events = s.feed.Events()
	}

	ticker := time.NewTicker(s.opts.RefetchInterval)
	defer ticker.Stop()

	go s.refetch(ctx)

	for {
		select {
		case <-ctx.Done():
			return

		case fn := <-s.actions:
			fn()

		case ev, ok := <-events:
			if !ok {
				// Feed dropped; periodic refetches keep state fresh.
				s.logger.Warnf("Feed is closed, relying on refetch")
				events = nil
				continue
			}

			s.handleEvent(ev)

		case <-ticker.C:
			go s.refetch(ctx)
		}
	}
}

// SubmitGuess shows the guess instantly and settles it against the
// server's answer. On rejection the placeholder is rolled back and the
// error returned for the UI to surface.
func (s *GameState) SubmitGuess(ctx context.Context, roundID string, value int) error {
	key := guessKey(roundID, s.userID)
	placeholder := Record{
		ID:  temporaryID(),
		Key: key,
		Data: structs.Map(model.Guess{
			RoundID:     roundID,
			UserID:      s.userID,
			Value:       value,
			DisplayName: s.displayName,
			CreatedAt:   time.Now(),
		}),
	}

	s.dispatch(func() {
		s.reconciler.ApplyOptimistic(event.GuessChannel, placeholder)
	})

	guess, err := s.backend.SubmitGuess(ctx, roundID, value)
	if err != nil {
		s.dispatch(func() { s.reconciler.Fail(key) })
		return err
	}

	s.dispatch(func() {
		s.reconciler.Ack(event.GuessChannel, guessRecord(*guess))
	})

	return nil
}

// SendMessage is the chat counterpart of SubmitGuess.
func (s *GameState) SendMessage(ctx context.Context, roundID, text string) error {
	key := messageKey(s.userID, text)
	placeholder := Record{
		ID:  temporaryID(),
		Key: key,
		Data: structs.Map(model.ChatMessage{
			RoundID:     roundID,
			UserID:      s.userID,
			DisplayName: s.displayName,
			Type:        "chat",
			Text:        text,
			CreatedAt:   time.Now(),
		}),
	}

	s.dispatch(func() {
		s.reconciler.ApplyOptimistic(event.ChatMessageChannel, placeholder)
	})

	message, err := s.backend.SendMessage(ctx, roundID, text)
	if err != nil {
		s.dispatch(func() { s.reconciler.Fail(key) })
		return err
	}

	s.dispatch(func() {
		s.reconciler.Ack(event.ChatMessageChannel, messageRecord(*message))
	})

	return nil
}

// Snapshot returns the current records of a collection, newest first.
func (s *GameState) Snapshot(collection string) []Record {
	reply := make(chan []Record, 1)
	s.dispatch(func() {
		reply <- s.reconciler.Collection(collection, 0).Records()
	})

	select {
	case records := <-reply:
		return records
	case <-s.done:
		return nil
	}
}

// Stats returns the reconciler counters.
func (s *GameState) Stats() Stats {
	reply := make(chan Stats, 1)
	s.dispatch(func() {
		reply <- s.reconciler.Stats()
	})

	select {
	case stats := <-reply:
		return stats
	case <-s.done:
		return Stats{}
	}
}

// dispatch hands fn to the state goroutine, dropping it if the state has
// been torn down.
func (s *GameState) dispatch(fn func()) {
	select {
	case s.actions <- fn:
	case <-s.done:
	}
}

func (s *GameState) handleEvent(ev FeedEvent) {
	switch ev.Op {
	case "round_created", "round_closed", "round_finished":
		var round model.Round
		if err := decode(ev.Data, &round); err != nil {
			s.logger.Warnf("Cannot decode %s event: %v", ev.Op, err)
			return
		}

		s.reconcileRound(round)

	case "guess_created":
		var guess model.Guess
		if err := decode(ev.Data, &guess); err != nil {
			s.logger.Warnf("Cannot decode %s event: %v", ev.Op, err)
			return
		}

		s.reconciler.Reconcile(event.GuessChannel, guessRecord(guess))

	case "message_created":
		var message model.ChatMessage
		if err := decode(ev.Data, &message); err != nil {
			s.logger.Warnf("Cannot decode %s event: %v", ev.Op, err)
			return
		}

		s.reconciler.Reconcile(event.ChatMessageChannel, messageRecord(message))

	case "prize_updated":
		var config model.PrizeConfig
		if err := decode(ev.Data, &config); err != nil {
			s.logger.Warnf("Cannot decode %s event: %v", ev.Op, err)
			return
		}

		s.reconcilePrize(config)

	default:
		s.logger.Debugf("Ignore unknown event %s", ev.Op)
	}
}

// reconcileRound handles round updates. Rounds change in place (status
// transitions), so an update replaces the stored record of the same id.
func (s *GameState) reconcileRound(round model.Round) {
	collection := s.reconciler.Collection(event.RoundChannel, 0)
	record := roundRecord(round)
	if i := collection.indexOfID(record.ID); i >= 0 {
		collection.records[i] = record
		return
	}

	s.reconciler.Reconcile(event.RoundChannel, record)
}

// reconcilePrize only accepts configs newer than the one on hand.
func (s *GameState) reconcilePrize(config model.PrizeConfig) {
	collection := s.reconciler.Collection(event.PrizeConfigChannel, 0)
	records := collection.Records()
	if len(records) > 0 {
		if current, ok := records[0].Data["Version"].(int); ok && current >= config.Version {
			return
		}
	}

	s.reconciler.Reconcile(event.PrizeConfigChannel, prizeRecord(config))
}

// refetch pulls the full authoritative collections and merges them,
// closing any gap left by the push channel. It runs off the state
// goroutine; only the final merge is dispatched.
func (s *GameState) refetch(ctx context.Context) {
	opts := retry.DefaultOptions()

	rounds, err := retry.Do(ctx, opts, func(ctx context.Context) ([]model.Round, error) {
		return s.backend.GetRounds(ctx, 0, s.opts.RoundLimit)
	})
	if err != nil {
		s.logger.Warnf("Cannot refetch rounds: %v", err)
		return
	}

	roundRecords := make([]Record, 0, len(rounds))
	for _, r := range rounds {
		roundRecords = append(roundRecords, roundRecord(r))
	}

	s.dispatch(func() { s.reconciler.Refresh(event.RoundChannel, roundRecords) })

	if len(rounds) > 0 {
		current := rounds[0]
		guesses, err := retry.Do(ctx, opts, func(ctx context.Context) ([]model.Guess, error) {
			return s.backend.GetGuesses(ctx, current.ID)
		})
		if err != nil {
			s.logger.Warnf("Cannot refetch guesses: %v", err)
		} else {
			guessRecords := make([]Record, 0, len(guesses))
			for _, g := range guesses {
				guessRecords = append(guessRecords, guessRecord(g))
			}

			s.dispatch(func() { s.reconciler.Refresh(event.GuessChannel, guessRecords) })
		}
	}

	messages, err := retry.Do(ctx, opts, func(ctx context.Context) ([]model.ChatMessage, error) {
		return s.backend.GetMessages(ctx, s.opts.ChatLimit)
	})
	if err != nil {
		s.logger.Warnf("Cannot refetch messages: %v", err)
	} else {
		messageRecords := make([]Record, 0, len(messages))
		for _, m := range messages {
			messageRecords = append(messageRecords, messageRecord(m))
		}

		s.dispatch(func() { s.reconciler.Refresh(event.ChatMessageChannel, messageRecords) })
	}

	config, err := retry.Do(ctx, opts, func(ctx context.Context) (*model.PrizeConfig, error) {
		return s.backend.GetPrizeConfig(ctx)
	})
	if err != nil {
		s.logger.Warnf("Cannot refetch prize config: %v", err)
	} else {
		s.dispatch(func() { s.reconcilePrize(*config) })
	}
}

func decode(data map[string]any, out any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		WeaklyTypedInput: true,
		Result:           out,
	})
	if err != nil {
		return err
	}

	return decoder.Decode(data)
}

func temporaryID() string {
	return "tmp-" + uuid.NewString()
}

func guessKey(roundID, userID string) string {
	return roundID + "/" + userID
}

func messageKey(userID, text string) string {
	return userID + ":" + text
}

func roundRecord(round model.Round) Record {
	return Record{
		ID:   round.ID,
		Key:  "round:" + round.ID,
		Data: structs.Map(round),
	}
}

func guessRecord(guess model.Guess) Record {
	return Record{
		ID:   strconv.FormatInt(guess.ID, 10),
		Key:  guessKey(guess.RoundID, guess.UserID),
		Data: structs.Map(guess),
	}
}

func messageRecord(message model.ChatMessage) Record {
	return Record{
		ID:   strconv.FormatInt(message.ID, 10),
		Key:  messageKey(message.UserID, message.Text),
		Data: structs.Map(message),
	}
}

func prizeRecord(config model.PrizeConfig) Record {
	return Record{
		ID:   fmt.Sprintf("v%d", config.Version),
		Key:  "prize",
		Data: structs.Map(config),
	}
}
