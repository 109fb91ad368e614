package proxy

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bitcoinblocks/backend/internal/domain/notification/event"
)

func Test_Router_cleanup_withoutEngineConnection(t *testing.T) {
	// The engine connection dropped and the last client of the channel
	// left, leaving an empty hub behind.
	router := &Router{
		engineClient: nil,
		hubs:         map[string]*Hub{event.RoundChannel: NewHub(event.RoundChannel)},
		mutex:        sync.RWMutex{},
	}

	require.NoError(t, router.cleanup(context.Background()))

	// The hub stays registered until the connection is back, so the
	// unregister directive can reach the engine.
	require.Contains(t, router.hubs, event.RoundChannel)
}
