package engine

import (
	"github.com/google/uuid"

	"github.com/bitcoinblocks/backend/internal/domain/notification/event"
)

type ProxySession struct {
	C chan *event.EventRequest

	id         string
	processors map[string]*ChannelProcessor
}

func NewProxySession() *ProxySession {
	return &ProxySession{
		C:          make(chan *event.EventRequest, 16),
		id:         uuid.NewString(),
		processors: make(map[string]*ChannelProcessor),
	}
}

func (s *ProxySession) RegisterChannel(processor *ChannelProcessor) {
	if processor == nil {
		return
	}

	processor.register(s)
	s.processors[processor.channel] = processor
}

func (s *ProxySession) UnregisterChannel(processor *ChannelProcessor) {
	if processor == nil {
		return
	}

	processor.unregister(s)
	delete(s.processors, processor.channel)
}

func (s *ProxySession) Leave() {
	for _, processor := range s.processors {
		s.UnregisterChannel(processor)
	}

	close(s.C)
}
