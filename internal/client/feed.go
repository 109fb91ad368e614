package client

import (
	"context"
	"encoding/json"

	"github.com/gorilla/websocket"

	"github.com/bitcoinblocks/backend/pkg/ws"
)

// FeedEvent is one push notification as delivered to the client.
type FeedEvent struct {
	Op   string         `json:"o"`
	Seq  int64          `json:"s"`
	Data map[string]any `json:"d"`
}

// Feed is the realtime push channel. The events channel closes when the
// connection drops; the game state falls back to periodic refetching
// until a new feed is attached.
type Feed interface {
	Events() <-chan FeedEvent
	Close() error
}

type wsFeed struct {
	client *ws.Client
	events chan FeedEvent
}

// NewWSFeed connects to a notification proxy endpoint.
func NewWSFeed(ctx context.Context, endpoint string) (*wsFeed, error) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, endpoint, nil)
	if err != nil {
		return nil, err
	}

	feed := &wsFeed{
		client: ws.NewClient(conn),
		events: make(chan FeedEvent, 64),
	}

	go feed.run()
	return feed, nil
}

func (f *wsFeed) run() {
	defer close(f.events)

	for msg := range f.client.R {
		var ev FeedEvent
		if err := json.Unmarshal(msg, &ev); err != nil {
			// Malformed payloads are dropped without touching state.
			continue
		}

		f.events <- ev
	}
}

func (f *wsFeed) Events() <-chan FeedEvent {
	return f.events
}

func (f *wsFeed) Close() error {
	return f.client.Close()
}
