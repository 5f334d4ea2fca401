package ws

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newClient(storeID uint) *Client {
	return &Client{StoreID: storeID, Send: make(chan []byte, 4)}
}

func TestBroadcastReachesOnlyTheStore(t *testing.T) {
	hub := NewHub()
	a := newClient(1)
	b := newClient(2)
	hub.Register(a)
	hub.Register(b)

	hub.BroadcastToStore(1, map[string]string{"type": "order_confirmed"})

	select {
	case data := <-a.Send:
		var msg map[string]string
		require.NoError(t, json.Unmarshal(data, &msg))
		assert.Equal(t, "order_confirmed", msg["type"])
	default:
		t.Fatal("store 1 client got nothing")
	}
	assert.Empty(t, b.Send)
}

func TestBroadcastFansOutToAllStoreSessions(t *testing.T) {
	hub := NewHub()
	a := newClient(1)
	b := newClient(1)
	hub.Register(a)
	hub.Register(b)

	hub.BroadcastToStore(1, map[string]string{"type": "order_confirmed"})
	assert.Len(t, a.Send, 1)
	assert.Len(t, b.Send, 1)
}

func TestBroadcastToStoreWithoutClients(t *testing.T) {
	hub := NewHub()
	hub.BroadcastToStore(42, map[string]string{"type": "order_confirmed"})
	assert.Zero(t, hub.ClientCount())
}

func TestCloseUnregistersAndIsIdempotent(t *testing.T) {
	hub := NewHub()
	c := newClient(1)
	hub.Register(c)
	require.Equal(t, 1, hub.ClientCount())

	c.Close()
	c.Close()
	assert.Zero(t, hub.ClientCount())

	// A broadcast after close must not panic on the closed channel.
	hub.BroadcastToStore(1, map[string]string{"type": "order_confirmed"})
}

func TestBroadcastDropsWhenBufferFull(t *testing.T) {
	hub := NewHub()
	c := &Client{StoreID: 1, Send: make(chan []byte, 1)}
	hub.Register(c)

	hub.BroadcastToStore(1, map[string]string{"n": "1"})
	hub.BroadcastToStore(1, map[string]string{"n": "2"})
	assert.Len(t, c.Send, 1, "second message dropped, not blocked")
}
