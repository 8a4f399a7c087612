package sse

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHub_BroadcastsToAllSubscribers(t *testing.T) {
	h := NewHub()
	a, cleanupA := h.Subscribe("u1")
	b, cleanupB := h.Subscribe("u2")
	defer cleanupA()
	defer cleanupB()

	require.Equal(t, 2, h.SubscriberCount())

	h.Publish(Event{Event: EventAlertUpdated, Data: map[string]string{"saleId": "s1"}})

	ev := <-a
	assert.Equal(t, EventAlertUpdated, ev.Event)
	ev = <-b
	assert.Equal(t, EventAlertUpdated, ev.Event)
}

func TestHub_CleanupIsIdempotent(t *testing.T) {
	h := NewHub()
	ch, cleanup := h.Subscribe("u1")
	cleanup()
	cleanup()

	_, open := <-ch
	assert.False(t, open)
	assert.Equal(t, 0, h.SubscriberCount())
}

func TestHub_PublishDoesNotBlockOnFullSubscriber(t *testing.T) {
	h := NewHub()
	_, cleanup := h.Subscribe("slow")
	defer cleanup()

	for i := 0; i < 100; i++ {
		h.Publish(Event{Event: "tick"})
	}
}

func TestHub_Close(t *testing.T) {
	h := NewHub()
	ch, cleanup := h.Subscribe("u1")
	h.Close()
	cleanup()

	_, open := <-ch
	assert.False(t, open)

	late, _ := h.Subscribe("u2")
	_, open = <-late
	assert.False(t, open)
}

func TestWriteEvent(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteEvent(&buf, "ping", map[string]int{"timestamp": 1}))
	assert.Equal(t, "event: ping\ndata: {\"timestamp\":1}\n\n", buf.String())
}
