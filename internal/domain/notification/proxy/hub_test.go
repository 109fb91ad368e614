package proxy

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/bitcoinblocks/backend/internal/domain/notification/event"
)

func Test_Hub_run_skipsStalledSession(t *testing.T) {
	hub := NewHub(event.ChatMessageChannel)

	// A session whose reader stopped draining; its buffer is full.
	stalled := NewSession()
	for i := 0; i < cap(stalled.C); i++ {
		stalled.C <- &event.EventRequest{}
	}

	healthy := NewSession()
	hub.Register(stalled)
	hub.Register(healthy)

	first := &event.EventRequest{Op: "message_created"}
	second := &event.EventRequest{Op: "message_created"}
	hub.c <- first
	hub.c <- second

	// Both events still reach the healthy session.
	require.Eventually(t, func() bool {
		return len(healthy.C) == 2
	}, time.Second, 10*time.Millisecond)
	require.Equal(t, first, <-healthy.C)
	require.Equal(t, second, <-healthy.C)

	// And the hub is still responsive to registry changes.
	hub.Unregister(stalled)
	hub.Unregister(healthy)
	require.True(t, hub.IsEmpty())
}
