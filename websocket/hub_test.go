package websocket

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(buffer int) *Client {
	return &Client{send: make(chan Event, buffer)}
}

func TestEnqueueDeliversCurrentGeneration(t *testing.T) {
	client := newTestClient(4)
	client.generation = 3

	client.Enqueue(3, Event{Type: EventSnapshot, Collection: "products"})

	require.Len(t, client.send, 1)
	event := <-client.send
	assert.Equal(t, EventSnapshot, event.Type)
	assert.Equal(t, "products", event.Collection)
}

func TestEnqueueDropsStaleGeneration(t *testing.T) {
	client := newTestClient(4)
	client.generation = 3

	// A watcher from a replaced subscription must not leak through
	client.Enqueue(2, Event{Type: EventSnapshot, Collection: "products"})

	assert.Empty(t, client.send)
}

func TestEnqueueZeroGenerationBypassesGuard(t *testing.T) {
	client := newTestClient(4)
	client.generation = 7

	// Control events carry no generation
	client.Enqueue(0, Event{Type: EventConnected})

	assert.Len(t, client.send, 1)
}

func TestEnqueueAfterCloseIsNoop(t *testing.T) {
	client := newTestClient(4)
	client.closed = true

	client.Enqueue(0, Event{Type: EventSnapshot})

	assert.Empty(t, client.send)
}

func TestEnqueueDropsWhenBufferFull(t *testing.T) {
	client := newTestClient(1)
	client.Enqueue(0, Event{Type: EventSnapshot})
	client.Enqueue(0, Event{Type: EventSnapshot})

	// The second event is dropped instead of blocking the watcher
	assert.Len(t, client.send, 1)
}
