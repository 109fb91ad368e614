package proxy

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/bitcoinblocks/backend/internal/domain/notification/directive"
	"github.com/bitcoinblocks/backend/internal/domain/notification/event"
	"github.com/bitcoinblocks/backend/pkg/ws"
	"github.com/bitcoinblocks/backend/pkg/xcontext"
)

// Router maintains the proxy's single connection to the notification engine
// and routes incoming events to the hub of their channel. The connection is
// re-established in the background if it drops.
type Router struct {
	engineClient *ws.Client
	hubs         map[string]*Hub

	mutex sync.RWMutex
}

func NewRouter(ctx context.Context) *Router {
	router := &Router{
		engineClient: nil,
		hubs:         make(map[string]*Hub),
		mutex:        sync.RWMutex{},
	}

	go router.run(ctx)
	return router
}

func (r *Router) GetHub(ctx context.Context, channel string) (*Hub, error) {
	r.mutex.RLock()
	hub, ok := r.hubs[channel]
	r.mutex.RUnlock()
	if ok {
		return hub, nil
	}

	r.mutex.Lock()
	defer r.mutex.Unlock()

	if _, ok := r.hubs[channel]; !ok {
		if r.engineClient == nil {
			return nil, errors.New("no connection with engine")
		}

		b, err := json.Marshal(directive.NewRegisterChannelDirective(channel))
		if err != nil {
			return nil, err
		}

		if err := r.engineClient.Write(b, true); err != nil {
			return nil, err
		}

		r.hubs[channel] = NewHub(channel)
		xcontext.Logger(ctx).Infof("Registered to channel %s successfully", channel)
	}

	return r.hubs[channel], nil
}

func (r *Router) run(ctx context.Context) {
	for {
		r.checkConnection(ctx)
		r.cleanup(ctx)
		time.Sleep(5000 * time.Millisecond)
	}
}

func (r *Router) cleanup(ctx context.Context) error {
	emptyHubs := []string{}

	r.mutex.RLock()
	for _, h := range r.hubs {
		if h.IsEmpty() {
			emptyHubs = append(emptyHubs, h.channel)
		}
	}
	r.mutex.RUnlock()

	if len(emptyHubs) == 0 {
		return nil
	}

	r.mutex.Lock()
	defer r.mutex.Unlock()

	// The engine connection dropped; keep the empty hubs and unregister
	// them on a later tick, after checkConnection has redialed.
	if r.engineClient == nil {
		return nil
	}

	for _, channel := range emptyHubs {
		if _, ok := r.hubs[channel]; ok {
			b, err := json.Marshal(directive.NewUnregisterChannelDirective(channel))
			if err != nil {
				return err
			}

			if err := r.engineClient.Write(b, true); err != nil {
				return err
			}

			close(r.hubs[channel].c)
			delete(r.hubs, channel)
		}
	}

	return nil
}

func (r *Router) checkConnection(ctx context.Context) {
	r.mutex.RLock()
	engineClient := r.engineClient
	r.mutex.RUnlock()

	if engineClient != nil {
		return
	}

	r.mutex.Lock()
	defer r.mutex.Unlock()

	// Double check.
	if r.engineClient != nil {
		return
	}

	url := xcontext.Configs(ctx).Notification.EngineWSServer
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		xcontext.Logger(ctx).Warnf("Cannot establish connection with notification engine: %v", err)
		return
	}

	xcontext.Logger(ctx).Infof("Connected to notification engine successfully")

	r.engineClient = ws.NewClient(conn)
	go r.runReceive(ctx)
}

func (r *Router) runReceive(ctx context.Context) {
	r.mutex.Lock()
	for _, h := range r.hubs {
		b, err := json.Marshal(directive.NewRegisterChannelDirective(h.channel))
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot marshal directive: %v", err)
			continue
		}

		if err := r.engineClient.Write(b, true); err != nil {
			xcontext.Logger(ctx).Errorf("Cannot register hub %s to engine: %v", h.channel, err)
			continue
		}
	}
	r.mutex.Unlock()

	for {
		resp, ok := <-r.engineClient.R
		if !ok {
			r.mutex.Lock()
			r.engineClient = nil
			r.mutex.Unlock()
			break
		}

		var ev event.EventRequest
		if err := json.Unmarshal(resp, &ev); err != nil {
			xcontext.Logger(ctx).Errorf("Cannot unmarshal event: %v", err)
			continue
		}

		r.mutex.RLock()
		hub, ok := r.hubs[ev.Metadata.Channel]
		if ok {
			hub.c <- &ev
		}
		r.mutex.RUnlock()
	}
}
