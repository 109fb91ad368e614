package engine

import (
	"sync"

	"github.com/bitcoinblocks/backend/internal/domain/notification/event"
)

// ChannelProcessor fans one channel's events out to every registered proxy.
type ChannelProcessor struct {
	channel string
	proxies map[string]*ProxySession
	mutex   sync.RWMutex
}

func NewChannelProcessor(channel string) *ChannelProcessor {
	return &ChannelProcessor{
		channel: channel,
		proxies: make(map[string]*ProxySession),
		mutex:   sync.RWMutex{},
	}
}

func (p *ChannelProcessor) register(proxy *ProxySession) {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	if _, ok := p.proxies[proxy.id]; ok {
		return
	}

	p.proxies[proxy.id] = proxy
}

func (p *ChannelProcessor) unregister(proxy *ProxySession) {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	delete(p.proxies, proxy.id)
}

func (p *ChannelProcessor) Broadcast(ev *event.EventRequest) {
	p.mutex.RLock()
	defer p.mutex.RUnlock()

	for _, proxy := range p.proxies {
		proxy.C <- ev
	}
}
