package proxy

import (
	"sync"

	"github.com/bitcoinblocks/backend/internal/domain/notification/event"
)

// Hub relays one channel's events from the engine connection to every local
// client session.
type Hub struct {
	channel  string
	sessions map[string]*Session
	c        chan *event.EventRequest

	mutex sync.RWMutex
}

func NewHub(channel string) *Hub {
	h := &Hub{
		channel:  channel,
		sessions: make(map[string]*Session),
		mutex:    sync.RWMutex{},
		c:        make(chan *event.EventRequest, 8),
	}

	go h.run()
	return h
}

func (h *Hub) run() {
	for {
		ev, ok := <-h.c
		if !ok {
			break
		}

		h.mutex.RLock()
		for _, s := range h.sessions {
			// A session whose buffer is full gets the event dropped
			// rather than stalling every other session; its client
			// catches up on the next full refetch.
			select {
			case s.C <- ev:
			default:
			}
		}
		h.mutex.RUnlock()
	}
}

func (h *Hub) Register(session *Session) {
	h.mutex.RLock()
	_, ok := h.sessions[session.id]
	h.mutex.RUnlock()
	if ok {
		return
	}

	h.mutex.Lock()
	defer h.mutex.Unlock()

	// Double check.
	if _, ok := h.sessions[session.id]; !ok {
		h.sessions[session.id] = session
	}
}

func (h *Hub) Unregister(session *Session) {
	h.mutex.RLock()
	_, ok := h.sessions[session.id]
	h.mutex.RUnlock()
	if !ok {
		return
	}

	h.mutex.Lock()
	defer h.mutex.Unlock()
	delete(h.sessions, session.id)
}

func (h *Hub) IsEmpty() bool {
	h.mutex.RLock()
	defer h.mutex.RUnlock()

	return len(h.sessions) == 0
}
