package websocket

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupHubTest(t *testing.T) *Hub {
	hub := NewHub()
	go hub.Run()
	return hub
}

func newTestClient(hub *Hub) *Client {
	return &Client{
		Hub:  hub,
		Send: make(chan []byte, 8),
	}
}

func TestHub_RegisterUnregister(t *testing.T) {
	hub := setupHubTest(t)

	client := newTestClient(hub)
	hub.Register(client)

	assert.Eventually(t, func() bool {
		return hub.ClientCount() == 1
	}, time.Second, 10*time.Millisecond)

	hub.Unregister(client)

	assert.Eventually(t, func() bool {
		return hub.ClientCount() == 0
	}, time.Second, 10*time.Millisecond)
}

func TestHub_PublishReachesAllClients(t *testing.T) {
	hub := setupHubTest(t)

	first := newTestClient(hub)
	second := newTestClient(hub)
	hub.Register(first)
	hub.Register(second)

	require.Eventually(t, func() bool {
		return hub.ClientCount() == 2
	}, time.Second, 10*time.Millisecond)

	hub.Publish(FeedEvent{
		Type:         EventSupportChanged,
		WishID:       "wish-1",
		SupportCount: 3,
	})

	for _, client := range []*Client{first, second} {
		select {
		case raw := <-client.Send:
			var event FeedEvent
			require.NoError(t, json.Unmarshal(raw, &event))
			assert.Equal(t, EventSupportChanged, event.Type)
			assert.Equal(t, "wish-1", event.WishID)
			assert.Equal(t, 3, event.SupportCount)
		case <-time.After(time.Second):
			t.Fatal("client did not receive the broadcast")
		}
	}
}

func TestHub_SlowClientDropped(t *testing.T) {
	hub := setupHubTest(t)

	slow := &Client{Hub: hub, Send: make(chan []byte)}
	hub.Register(slow)

	require.Eventually(t, func() bool {
		return hub.ClientCount() == 1
	}, time.Second, 10*time.Millisecond)

	// Nobody drains the send channel, so the broadcast cannot be queued
	// and the hub disconnects the client.
	hub.Publish(FeedEvent{Type: EventWishCreated, WishID: "wish-2"})

	assert.Eventually(t, func() bool {
		return hub.ClientCount() == 0
	}, time.Second, 10*time.Millisecond)
}
