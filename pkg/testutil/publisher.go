package testutil

import (
	"context"
	"sync"

	"github.com/bitcoinblocks/backend/pkg/pubsub"
)

// MockPublisher records published packs in memory.
type MockPublisher struct {
	PublishFunc func(context.Context, string, *pubsub.Pack) error

	mutex  sync.Mutex
	packs  []*pubsub.Pack
	topics []string
}

func (m *MockPublisher) Publish(ctx context.Context, topic string, pack *pubsub.Pack) error {
	if m.PublishFunc != nil {
		return m.PublishFunc(ctx, topic, pack)
	}

	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.packs = append(m.packs, pack)
	m.topics = append(m.topics, topic)
	return nil
}

func (m *MockPublisher) Stop(ctx context.Context) error {
	return nil
}

// Packs returns every pack published so far.
func (m *MockPublisher) Packs() []*pubsub.Pack {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	packs := make([]*pubsub.Pack, len(m.packs))
	copy(packs, m.packs)
	return packs
}
